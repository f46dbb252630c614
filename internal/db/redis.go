package db

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"jobmate/application-tracker/internal/config"
)

// NewRedisClient creates and verifies a Redis client. The client serves both
// event publishing and reminder dismissal state.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}
	if opts.ClientName == "" {
		opts.ClientName = "application-tracker"
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}
