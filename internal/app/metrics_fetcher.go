package app

import (
	"context"
	"time"

	"adpulse/internal/infrastructure"
	"adpulse/internal/pipeline"
	"adpulse/internal/sheets"
)

// metricsFetcher wraps the sheets client to record refresh telemetry for
// every live fetch the cache performs.
type metricsFetcher struct {
	inner   sheets.Fetcher
	metrics *infrastructure.BusinessMetrics
}

func (f *metricsFetcher) FetchRange(ctx context.Context, rangeName string) (pipeline.Table, error) {
	start := time.Now()
	table, err := f.inner.FetchRange(ctx, rangeName)
	infrastructure.RecordFeedRefresh(ctx, f.metrics, rangeName, time.Since(start), len(table.Rows), err == nil)
	return table, err
}
