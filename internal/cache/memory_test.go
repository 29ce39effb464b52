package cache

import (
	"context"
	"testing"
	"time"

	"tavolo-order-service/internal/analytics"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryReportCache()

	report := analytics.Report{Stats: analytics.Stats{TotalOrders: 7}}
	if err := c.Set(ctx, "dashboard", &report, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := c.Get(ctx, "dashboard")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Stats.TotalOrders != 7 {
		t.Fatalf("expected 7 orders, got %d", got.Stats.TotalOrders)
	}

	// A cached copy must not alias the caller's value.
	got.Stats.TotalOrders = 99
	again, _, _ := c.Get(ctx, "dashboard")
	if again.Stats.TotalOrders != 7 {
		t.Fatalf("cache entry mutated through returned pointer")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryReportCache()

	if err := c.Set(ctx, "dashboard", &analytics.Report{}, -time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "dashboard"); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestMemoryCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryReportCache()

	_ = c.Set(ctx, "dashboard", &analytics.Report{}, time.Minute)
	if err := c.Invalidate(ctx, "dashboard"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "dashboard"); ok {
		t.Fatalf("expected miss after invalidation")
	}
}
