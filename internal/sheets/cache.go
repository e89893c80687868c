package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"adpulse/internal/pipeline"
)

// Fetcher is the range source behind the cache. *Client implements it;
// tests substitute fakes.
type Fetcher interface {
	FetchRange(ctx context.Context, rangeName string) (pipeline.Table, error)
}

// Fallback supplies a table when the live source cannot. *Snapshot
// implements it.
type Fallback interface {
	Lookup(rangeName string) (pipeline.Table, bool)
}

type cacheEntry struct {
	table   pipeline.Table
	fetched time.Time
}

// Cache keeps one table per range with a TTL. A miss or an expired entry
// triggers a live fetch; when the source fails, a stale entry is served
// over an error, then the snapshot fallback, then the error.
type Cache struct {
	fetcher  Fetcher
	fallback Fallback
	ttl      time.Duration
	logger   *slog.Logger

	mu        sync.RWMutex
	entries   map[string]cacheEntry
	onRefresh func(rangeName string)
}

// NewCache creates a cache over fetcher. fallback may be nil. A zero ttl
// defaults to five minutes.
func NewCache(fetcher Fetcher, fallback Fallback, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		fetcher:  fetcher,
		fallback: fallback,
		ttl:      ttl,
		logger:   logger.With(slog.String("component", "sheets_cache")),
		entries:  make(map[string]cacheEntry),
	}
}

// OnRefresh registers a callback invoked after a range is refreshed from
// the live source. Used to notify websocket subscribers.
func (c *Cache) OnRefresh(fn func(rangeName string)) {
	c.mu.Lock()
	c.onRefresh = fn
	c.mu.Unlock()
}

// Get returns the table for a range, fetching when the cached copy is
// missing or older than the TTL.
func (c *Cache) Get(ctx context.Context, rangeName string) (pipeline.Table, error) {
	c.mu.RLock()
	entry, ok := c.entries[rangeName]
	c.mu.RUnlock()
	if ok && time.Since(entry.fetched) < c.ttl {
		return entry.table, nil
	}

	table, err := c.refresh(ctx, rangeName)
	if err == nil {
		return table, nil
	}

	if ok {
		c.logger.WarnContext(ctx, "serving stale range after fetch failure",
			slog.String("range", rangeName),
			slog.String("error", err.Error()),
			slog.Time("fetched_at", entry.fetched))
		return entry.table, nil
	}
	if c.fallback != nil {
		if table, found := c.fallback.Lookup(rangeName); found {
			c.logger.WarnContext(ctx, "serving snapshot range after fetch failure",
				slog.String("range", rangeName),
				slog.String("error", err.Error()))
			return table, nil
		}
	}
	return pipeline.Table{}, err
}

// RefreshAll fetches every range concurrently, keeping at most four
// fetches in flight. The first error aborts the remainder.
func (c *Cache) RefreshAll(ctx context.Context, ranges []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, rangeName := range ranges {
		g.Go(func() error {
			if _, err := c.refresh(ctx, rangeName); err != nil {
				return fmt.Errorf("refresh %s: %w", rangeName, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *Cache) refresh(ctx context.Context, rangeName string) (pipeline.Table, error) {
	table, err := c.fetcher.FetchRange(ctx, rangeName)
	if err != nil {
		return pipeline.Table{}, err
	}

	c.mu.Lock()
	c.entries[rangeName] = cacheEntry{table: table, fetched: time.Now()}
	notify := c.onRefresh
	c.mu.Unlock()

	if notify != nil {
		notify(rangeName)
	}
	return table, nil
}

// Age reports how old the cached copy of a range is. ok is false when the
// range was never fetched.
func (c *Cache) Age(rangeName string) (age time.Duration, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[rangeName]
	if !ok {
		return 0, false
	}
	return time.Since(entry.fetched), true
}
