package http

import (
	"context"

	"adpulse/internal/services"
	"adpulse/pkg/contracts/domain"
)

// ReportServiceInterface defines the report queries the handlers depend
// on, kept as an interface for handler tests.
type ReportServiceInterface interface {
	CreativeReport(ctx context.Context, platform string, q services.Query) (*domain.CreativeReport, error)
	KeywordReport(ctx context.Context, q services.Query) (*domain.KeywordReport, error)
	MetaAdReport(ctx context.Context, q services.Query) (*domain.AdReport, error)
	EventReport(ctx context.Context, q services.Query) (*domain.EventReport, error)
	TrafficReport(ctx context.Context, q services.Query) (*domain.TrafficReport, error)
	BenchmarkReport(ctx context.Context, q services.Query) (*domain.BenchmarkReport, error)
}

// HealthServiceInterface defines the health check dependency.
type HealthServiceInterface interface {
	Check(ctx context.Context) *services.HealthStatus
}
