package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// AgeReader reports how long ago a sheet range was last refreshed. The
// sheets cache implements it.
type AgeReader interface {
	Age(rangeName string) (time.Duration, bool)
}

// ConnectionCounter reports the number of connected websocket clients.
type ConnectionCounter interface {
	ClientCount() int
}

// HealthService reports liveness and the freshness of each feed cache.
type HealthService struct {
	version   string
	ages      AgeReader
	ranges    []string
	hub       ConnectionCounter
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus is the health endpoint response.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Feeds     map[string]FeedHealth  `json:"feeds,omitempty"`
}

// FeedHealth is the freshness of one feed's cached range.
type FeedHealth struct {
	Status string `json:"status"`
	Age    string `json:"age,omitempty"`
}

// NewHealthService creates a health service watching the given ranges.
func NewHealthService(version string, ages AgeReader, ranges []string, hub ConnectionCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		ages:      ages,
		ranges:    ranges,
		hub:       hub,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Check builds the current health snapshot. The overall status degrades
// when no range has ever been loaded; a stale range alone does not, since
// stale data still serves.
func (h *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   h.version,
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(h.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
		},
		Feeds: make(map[string]FeedHealth),
	}
	if h.hub != nil {
		status.Runtime["websocket_clients"] = h.hub.ClientCount()
	}

	loaded := 0
	for _, rangeName := range h.ranges {
		if h.ages == nil {
			break
		}
		age, ok := h.ages.Age(rangeName)
		if !ok {
			status.Feeds[rangeName] = FeedHealth{Status: "unloaded"}
			continue
		}
		loaded++
		status.Feeds[rangeName] = FeedHealth{
			Status: "loaded",
			Age:    fmt.Sprintf("%.0fs", age.Seconds()),
		}
	}
	if len(h.ranges) > 0 && loaded == 0 {
		status.Status = "degraded"
	}

	h.logger.DebugContext(ctx, "health check",
		slog.String("status", status.Status),
		slog.Int("loaded_ranges", loaded))
	return status
}
