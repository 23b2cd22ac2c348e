package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

// CacheService stores JSON values in redis.
type CacheService struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{
		client: client,
	}
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return s.client.Set(ctx, key, data, expiration).Err()
}

// Get decodes key into dest. A missing key wraps utils.ErrNotFound.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: cache key %s", utils.ErrNotFound, key)
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Remember decodes key into dest, or calls load, stores its result and decodes that.
// Cache errors never fail the call; only load errors are returned.
func (s *CacheService) Remember(ctx context.Context, key string, ttl time.Duration, dest interface{}, load func() (interface{}, error)) (hit bool, err error) {
	if err := s.Get(ctx, key, dest); err == nil {
		return true, nil
	}

	value, err := load()
	if err != nil {
		return false, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	// best effort
	_ = s.client.Set(ctx, key, data, ttl).Err()
	return false, json.Unmarshal(data, dest)
}

func (s *CacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func CourseCacheKey(courseID string) string {
	return fmt.Sprintf("course:%s", courseID)
}
