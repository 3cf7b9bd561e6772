package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// Client is a CoinGecko market-data client. Calls are throttled through a
// rate limiter to stay inside the public API tier.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewClient creates a new CoinGecko client
func NewClient(timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
		// 30 calls/minute keeps headroom under the public limit.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		log:     log.With().Str("client", "coingecko").Logger(),
	}
}

// marketChartResponse is the subset of the market_chart payload we read:
// [timestamp_ms, price] pairs.
type marketChartResponse struct {
	Prices [][]float64 `json:"prices"`
}

// DailyPrices returns one USD closing price per day for the last `days`
// days including today, oldest first.
func (c *Client) DailyPrices(ctx context.Context, marketID string, days int) ([]float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", fmt.Sprintf("%d", days))
	params.Set("interval", "daily")

	reqURL := fmt.Sprintf("%s/coins/%s/market_chart?%s", c.baseURL, url.PathEscape(marketID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market chart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("coingecko returned status %d for %s", resp.StatusCode, marketID)
	}

	var chart marketChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to parse market chart: %w", err)
	}

	prices := make([]float64, 0, len(chart.Prices))
	for _, point := range chart.Prices {
		if len(point) >= 2 {
			prices = append(prices, point[1])
		}
	}

	c.log.Debug().
		Str("market_id", marketID).
		Int("days", days).
		Int("points", len(prices)).
		Msg("fetched daily prices")

	return prices, nil
}
