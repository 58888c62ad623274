package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/couchcryptid/weather-comfort-service/internal/domain"
)

const keyPrefix = "weather-comfort:report:"

// Redis is a report cache shared across instances. Entries expire after ttl.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed report cache.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Get returns a cached report. A missing key is a miss, not an error.
func (c *Redis) Get(ctx context.Context, key string) (domain.DayReport, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.DayReport{}, false, nil
	}
	if err != nil {
		return domain.DayReport{}, false, fmt.Errorf("redis get: %w", err)
	}

	var report domain.DayReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return domain.DayReport{}, false, fmt.Errorf("decode cached report: %w", err)
	}
	return report, true, nil
}

// Put stores a report with the configured TTL.
func (c *Redis) Put(ctx context.Context, key string, report domain.DayReport) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
