package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

type summary struct {
	Count int    `json:"count"`
	Total string `json:"total"`
}

func TestNoopReportCacheNeverHits(t *testing.T) {
	var c ReportCache = NoopReportCache{}
	ctx := context.Background()

	if err := c.Set(ctx, 0, "k", summary{Count: 1}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got summary
	hit, err := c.Get(ctx, 0, "k", &got)
	if err != nil || hit {
		t.Fatalf("expected miss, got hit=%v err=%v", hit, err)
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
}

func newRedisCache(t *testing.T) (*RedisReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisReportCache(mr.Addr(), "", 0)
	t.Cleanup(func() { c.Close() })
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return c, mr
}

func generation(t *testing.T, c *RedisReportCache) int64 {
	t.Helper()
	gen, err := c.Generation(context.Background())
	if err != nil {
		t.Fatalf("generation: %v", err)
	}
	return gen
}

func TestRedisReportCacheInvalidate(t *testing.T) {
	c, _ := newRedisCache(t)
	ctx := context.Background()

	gen := generation(t, c)
	want := summary{Count: 3, Total: "12.50"}
	if err := c.Set(ctx, gen, "sales-summary", want, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got summary
	hit, err := c.Get(ctx, generation(t, c), "sales-summary", &got)
	if err != nil || !hit || got != want {
		t.Fatalf("expected hit %+v, got hit=%v %+v err=%v", want, hit, got, err)
	}

	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	hit, err = c.Get(ctx, generation(t, c), "sales-summary", &got)
	if err != nil || hit {
		t.Fatalf("expected miss after invalidate, got hit=%v err=%v", hit, err)
	}
}

// A report loaded before an invalidation and written after it must not be
// served to later readers.
func TestRedisReportCacheSetAfterInvalidateStaysHidden(t *testing.T) {
	c, _ := newRedisCache(t)
	ctx := context.Background()

	loadedAt := generation(t, c)
	var got []int
	if hit, err := c.Get(ctx, loadedAt, "low-stock:5", &got); err != nil || hit {
		t.Fatalf("expected initial miss, got hit=%v err=%v", hit, err)
	}

	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if err := c.Set(ctx, loadedAt, "low-stock:5", []int{1}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	hit, err := c.Get(ctx, generation(t, c), "low-stock:5", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if hit {
		t.Fatalf("stale report served after invalidation: %v", got)
	}
}

func TestRedisReportCacheEntriesExpire(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()
	gen := generation(t, c)

	if err := c.Set(ctx, gen, "dashboard", summary{Count: 1}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	var got summary
	if hit, err := c.Get(ctx, gen, "dashboard", &got); err != nil || hit {
		t.Fatalf("expected expired entry to miss, got hit=%v err=%v", hit, err)
	}
}
