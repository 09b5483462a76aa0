package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// redisClient is the subset of *redis.Client used by [Redis].
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisConfig configures a [Redis] cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Redis is a [Cache] backed by a Redis server. Results are stored as JSON.
type Redis struct {
	client redisClient
	ttl    time.Duration
}

var _ Cache = (*Redis)(nil)

// NewRedis connects to the configured server and verifies it with PING.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: connect to redis %q: %w", cfg.Addr, err)
	}
	return newRedis(client, cfg.TTL), nil
}

func newRedis(client redisClient, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Name implements [Cache].
func (c *Redis) Name() string { return "redis" }

// Get implements [Cache]. A stored value that no longer decodes is reported
// as a miss.
func (c *Redis) Get(ctx context.Context, key string) (analysis.Result, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return analysis.Result{}, false, nil
	}
	if err != nil {
		return analysis.Result{}, false, fmt.Errorf("cache: redis get: %w", err)
	}
	var r analysis.Result
	if err := json.Unmarshal(data, &r); err != nil {
		return analysis.Result{}, false, nil
	}
	return r, true, nil
}

// Set implements [Cache].
func (c *Redis) Set(ctx context.Context, key string, r analysis.Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("cache: encode result: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set: %w", err)
	}
	return nil
}

// Ping checks connectivity. It satisfies the health checker signature.
func (c *Redis) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (c *Redis) Close() error {
	return c.client.Close()
}
