package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/golf-caddy/internal/course"
	"github.com/stitts-dev/golf-caddy/internal/repository"
	"github.com/stitts-dev/golf-caddy/pkg/config"
	"github.com/stitts-dev/golf-caddy/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := repository.Migrate(db.DB); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		path := cfg.CourseDataPath
		if len(os.Args) > 2 {
			path = os.Args[2]
		}
		if err := seedCourses(db, path); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func dropTables(db *database.DB) error {
	// Drop tables in reverse order to handle foreign key constraints
	records := repository.AllRecords()
	for i := len(records) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(records[i]); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", records[i], err)
		}
	}
	return nil
}

func seedCourses(db *database.DB, path string) error {
	cat, err := course.LoadFile(path)
	if err != nil {
		return err
	}

	repo := repository.NewCourseRepository(db)
	ctx := context.Background()
	for _, c := range cat.Courses {
		if err := repo.SaveCourse(ctx, c); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"course_id": c.ID,
			"holes":     len(c.Holes),
		}).Info("Seeded course")
	}
	return nil
}
