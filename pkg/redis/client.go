package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adaezeobi/wasoko-backend/pkg/config"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace      = "wsk"
	verifyPrefix      = "verify_lock"
	idempotencyPrefix = "idempotency"
)

// Client wraps the redis helpers the settlement engine needs: a liveness
// check and short-lived in-flight locks around charge verification. The lock
// is an optimization only; the unique constraint on payment_reference remains
// the arbiter of idempotency.
type Client struct {
	raw *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// IdempotencyStore exposes the replay-suppression surface webhook guards
// build on.
type IdempotencyStore interface {
	IdempotencyKey(scope, id string) string
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
}

// New bootstraps a Redis client with pooling/timeouts and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "redis connection established")
	}
	return &Client{raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if strings.TrimSpace(cfg.URL) != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		applyPoolSettings(opts, cfg)
		return opts, nil
	}
	if strings.TrimSpace(cfg.Address) == "" {
		return nil, fmt.Errorf("redis url or address is required")
	}
	opts := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	applyPoolSettings(opts, cfg)
	return opts, nil
}

func applyPoolSettings(opts *redis.Options, cfg config.RedisConfig) {
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
}

// Ping verifies the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.raw == nil {
		return fmt.Errorf("redis client not configured")
	}
	return c.raw.Ping(ctx).Err()
}

// Close releases pooled connections.
func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// VerifyLockKey builds the namespaced key guarding one payment reference.
func VerifyLockKey(reference string) string {
	return fmt.Sprintf("%s:%s:%s", keyNamespace, verifyPrefix, reference)
}

// AcquireVerifyLock claims the in-flight guard for a payment reference.
// Returns false when another materialization already holds it.
func (c *Client) AcquireVerifyLock(ctx context.Context, reference string, ttl time.Duration) (bool, error) {
	if c == nil || c.raw == nil {
		return false, fmt.Errorf("redis client not configured")
	}
	return c.raw.SetNX(ctx, VerifyLockKey(reference), "1", ttl).Result()
}

// ReleaseVerifyLock drops the in-flight guard once materialization finished.
func (c *Client) ReleaseVerifyLock(ctx context.Context, reference string) error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Del(ctx, VerifyLockKey(reference)).Err()
}

// IdempotencyKey builds the namespaced replay-suppression key for one event.
func (c *Client) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("%s:%s:%s:%s", keyNamespace, idempotencyPrefix, scope, id)
}

// SetNX stores a value only when the key is absent.
func (c *Client) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if c == nil || c.raw == nil {
		return false, fmt.Errorf("redis client not configured")
	}
	return c.raw.SetNX(ctx, key, value, ttl).Result()
}

// Del removes a key.
func (c *Client) Del(ctx context.Context, key string) error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Del(ctx, key).Err()
}
