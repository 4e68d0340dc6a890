package redis

import (
	"context"
	"testing"
	"time"
)

// 비활성 클라이언트는 항상 no-op으로 동작해야 한다.
func TestDisabledClientIsNoOp(t *testing.T) {
	client := &Client{}

	if client.Enabled() {
		t.Fatal("zero-value client must report disabled")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close on disabled client: %v", err)
	}
}

func TestCacheMissWhenDisabled(t *testing.T) {
	cache := NewCache(&Client{}, "test")

	var dest struct{ N int }
	found, err := cache.Get(context.Background(), "key", &dest)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("disabled cache must always miss")
	}

	if err := cache.Set(context.Background(), "key", dest, time.Minute); err != nil {
		t.Errorf("Set on disabled cache: %v", err)
	}
	if err := cache.Delete(context.Background(), "key"); err != nil {
		t.Errorf("Delete on disabled cache: %v", err)
	}
}

func TestRateLimiterAllowsWhenDisabled(t *testing.T) {
	limiter := NewRateLimiter(&Client{}, "test")

	allowed, remaining, err := limiter.Allow(context.Background(), NewsRateLimit)
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if !allowed {
		t.Error("disabled limiter must allow all requests")
	}
	if remaining != NewsRateLimit.Limit {
		t.Errorf("remaining = %d, want %d", remaining, NewsRateLimit.Limit)
	}

	if err := limiter.Wait(context.Background(), NewsRateLimit); err != nil {
		t.Errorf("Wait on disabled limiter: %v", err)
	}
}
