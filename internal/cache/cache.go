// Package cache holds the computed dashboard report between aggregation
// passes. Caching is purely an optimization: the report is recomputed on
// miss, and record writes invalidate through the event worker.
package cache

import (
	"context"
	"time"

	"tavolo-order-service/internal/analytics"
)

type ReportCache interface {
	Get(ctx context.Context, key string) (*analytics.Report, bool, error)
	Set(ctx context.Context, key string, report *analytics.Report, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string) (*analytics.Report, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ *analytics.Report, _ time.Duration) error {
	return nil
}

func (NoopReportCache) Invalidate(_ context.Context, _ string) error {
	return nil
}
