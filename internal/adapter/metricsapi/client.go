package metricsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
)

// Client fetches metrics from a separately deployed metrics API. It
// implements domain.MetricsProvider for the split topology; in-process
// deployments use the metrics service directly.
//
// Transport failures and server errors are retried with a linear backoff
// (0.5s, 1s). A 404 is a definitive "no metrics for this symbol" and is
// returned immediately as domain.ErrMetricsNotFound.
type Client struct {
	baseURL string
	client  *http.Client
	retries int
	backoff time.Duration
	log     zerolog.Logger
}

// NewClient creates a new metrics API client
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		retries: 2,
		backoff: 500 * time.Millisecond,
		log:     log.With().Str("client", "metricsapi").Logger(),
	}
}

// GetMetrics returns the current metrics for a symbol.
// Returns domain.ErrMetricsNotFound when the symbol has no data.
func (c *Client) GetMetrics(ctx context.Context, symbol string) (*domain.AssetMetrics, error) {
	url := fmt.Sprintf("%s/metrics/%s", c.baseURL, strings.ToUpper(strings.TrimSpace(symbol)))

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		metrics, retryable, err := c.fetch(ctx, url)
		if err == nil {
			return metrics, nil
		}
		if !retryable {
			return nil, err
		}

		lastErr = err
		c.log.Warn().
			Err(err).
			Str("url", url).
			Int("attempt", attempt).
			Msg("metrics fetch failed")
	}

	return nil, fmt.Errorf("metrics fetch failed after %d attempts: %w", c.retries+1, lastErr)
}

// fetch performs one GET. The middle return reports whether the failure
// is worth retrying.
func (c *Client) fetch(ctx context.Context, url string) (*domain.AssetMetrics, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fallthrough to decode
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return nil, false, domain.ErrMetricsNotFound
	default:
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("metrics api returned status %d", resp.StatusCode)
	}

	var metrics domain.AssetMetrics
	if err := json.NewDecoder(resp.Body).Decode(&metrics); err != nil {
		return nil, true, fmt.Errorf("failed to decode metrics payload: %w", err)
	}

	return &metrics, false, nil
}
