package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quantora/marketlens/pkg/config"
)

// Client wraps the go-redis client. Redis is optional; when disabled in
// config every operation is a no-op so callers never need to branch.
type Client struct {
	rdb     *redis.Client
	enabled bool
}

// New creates a new Redis client from config
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{enabled: false}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Client{rdb: rdb, enabled: true}, nil
}

// Enabled reports whether Redis is configured and reachable
func (c *Client) Enabled() bool {
	return c.enabled
}

// Redis returns the underlying go-redis client
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}
