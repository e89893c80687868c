// Package sheets fetches spreadsheet ranges from the sheets proxy and
// keeps a refreshed in-memory copy per feed, with an optional local xlsx
// snapshot as a cold-start fallback.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"adpulse/internal/pipeline"
)

// ErrRangeNotFound reports a range the proxy does not know.
var ErrRangeNotFound = errors.New("sheet range not found")

// ErrSourceUnavailable reports a proxy that is down or misbehaving.
var ErrSourceUnavailable = errors.New("sheet source unavailable")

// ClientConfig holds the proxy connection settings.
type ClientConfig struct {
	// BaseURL is the proxy root, for example https://proxy.internal.
	BaseURL string
	// SpreadsheetID selects the workbook on the proxy.
	SpreadsheetID string
	// Timeout bounds one fetch attempt.
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// RetryBaseDelay is the backoff base, doubled per attempt.
	RetryBaseDelay time.Duration
}

func (c *ClientConfig) withDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
	if c.RetryBaseDelay == 0 {
		c.RetryBaseDelay = 500 * time.Millisecond
	}
}

// Client fetches ranges from the sheets proxy.
type Client struct {
	config ClientConfig
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a proxy client. A nil logger falls back to
// slog.Default.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		config: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		logger: logger.With(slog.String("component", "sheets")),
	}
}

// FetchRange downloads one named range as a raw value table. Transient
// proxy failures are retried with exponential backoff; 4xx responses
// other than 404 are not retried.
func (c *Client) FetchRange(ctx context.Context, rangeName string) (pipeline.Table, error) {
	u := fmt.Sprintf("%s/google/sheets/%s/data?range=%s",
		c.config.BaseURL,
		url.PathEscape(c.config.SpreadsheetID),
		url.QueryEscape(rangeName))

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.config.RetryBaseDelay * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return pipeline.Table{}, ctx.Err()
			case <-time.After(delay):
			}
			c.logger.DebugContext(ctx, "retrying range fetch",
				slog.String("range", rangeName),
				slog.Int("attempt", attempt))
		}

		table, retryable, err := c.fetchOnce(ctx, u, rangeName)
		if err == nil {
			return table, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return pipeline.Table{}, lastErr
}

func (c *Client) fetchOnce(ctx context.Context, u, rangeName string) (pipeline.Table, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return pipeline.Table{}, false, fmt.Errorf("build request for range %s: %w", rangeName, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return pipeline.Table{}, true, fmt.Errorf("fetch range %s: %w: %v", rangeName, ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fallthrough to decode
	case resp.StatusCode == http.StatusNotFound:
		return pipeline.Table{}, false, fmt.Errorf("range %s: %w", rangeName, ErrRangeNotFound)
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return pipeline.Table{}, true, fmt.Errorf("range %s: %w: status %d", rangeName, ErrSourceUnavailable, resp.StatusCode)
	default:
		return pipeline.Table{}, false, fmt.Errorf("range %s: %w: status %d", rangeName, ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return pipeline.Table{}, true, fmt.Errorf("read range %s: %w", rangeName, err)
	}

	table, err := pipeline.DecodeTable(body)
	if err != nil {
		return pipeline.Table{}, false, fmt.Errorf("decode range %s: %w", rangeName, err)
	}
	return table, false, nil
}
