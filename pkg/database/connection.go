package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
}

type ConnectionConfig struct {
	DatabaseURL     string
	IsDevelopment   bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ServiceName     string
}

func NewConnection(databaseURL string, isDevelopment bool) (*DB, error) {
	config := ConnectionConfig{
		DatabaseURL:     databaseURL,
		IsDevelopment:   isDevelopment,
		MaxIdleConns:    5,
		MaxOpenConns:    30,
		ConnMaxLifetime: time.Hour,
		ServiceName:     "golf-caddy",
	}
	return NewConnectionWithConfig(config)
}

// dialectorFor picks the driver from the URL scheme. "sqlite:" URLs open a local file,
// everything else is handed to postgres.
func dialectorFor(databaseURL string) (gorm.Dialector, string) {
	if path, ok := strings.CutPrefix(databaseURL, "sqlite:"); ok {
		return sqlite.Open(strings.TrimPrefix(path, "//")), "sqlite"
	}
	return postgres.Open(databaseURL), "postgres"
}

func gormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func NewConnectionWithConfig(config ConnectionConfig) (*DB, error) {
	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("database url is empty")
	}

	level := logger.Error
	if config.IsDevelopment {
		level = logger.Info
	}

	dialector, driver := dialectorFor(config.DatabaseURL)
	db, err := gorm.Open(dialector, gormConfig(level))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if driver == "sqlite" {
		// sqlite serializes writers; more connections only produce SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("%s ping failed: %w", driver, err)
	}

	logrus.WithFields(logrus.Fields{
		"service": config.ServiceName,
		"driver":  driver,
	}).Info("Database connected")

	return &DB{db}, nil
}

// NewInMemory opens a private SQLite database, used by tests and local runs.
func NewInMemory() (*DB, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), gormConfig(logger.Silent))
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	// a second pooled connection would see a different empty database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &DB{db}, nil
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck pings the underlying pool.
func (db *DB) HealthCheck() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
