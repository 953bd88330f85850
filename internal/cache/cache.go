package cache

import (
	"context"
	"time"
)

// ReportCache stores serialized report results under a generation. Callers
// read Generation once before loading a report and pass it to Get and Set,
// so a result loaded before Invalidate is never visible after it.
type ReportCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, key string, dest any) (bool, error)
	Set(ctx context.Context, gen int64, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type NoopReportCache struct{}

func (NoopReportCache) Generation(context.Context) (int64, error) {
	return 0, nil
}

func (NoopReportCache) Get(context.Context, int64, string, any) (bool, error) {
	return false, nil
}

func (NoopReportCache) Set(context.Context, int64, string, any, time.Duration) error {
	return nil
}

func (NoopReportCache) Invalidate(context.Context) error {
	return nil
}
