package redis

import (
	"testing"
	"time"

	"github.com/adaezeobi/wasoko-backend/pkg/config"
)

func TestOptionsFromConfigParsesURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		URL:      "redis://:pw@localhost:6380/2",
		PoolSize: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.DB != 2 || opts.Password != "pw" {
		t.Fatalf("url not honored: %+v", opts)
	}
	if opts.PoolSize != 5 {
		t.Fatalf("pool size not applied: %d", opts.PoolSize)
	}
}

func TestOptionsFromConfigFallsBackToAddress(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		Address:     "127.0.0.1:6379",
		DB:          1,
		DialTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "127.0.0.1:6379" || opts.DB != 1 {
		t.Fatalf("address not honored: %+v", opts)
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
}

func TestVerifyLockKeyIsNamespaced(t *testing.T) {
	if got := VerifyLockKey("ref-123"); got != "wsk:verify_lock:ref-123" {
		t.Fatalf("unexpected key %s", got)
	}
}

func TestIdempotencyKeyIsNamespaced(t *testing.T) {
	c := &Client{}
	if got := c.IdempotencyKey("paystack_webhook", "wsk-ps-abc"); got != "wsk:idempotency:paystack_webhook:wsk-ps-abc" {
		t.Fatalf("unexpected key %q", got)
	}
}
