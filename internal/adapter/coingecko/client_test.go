package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestClient(baseURL string) *Client {
	c := NewClient(5*time.Second, zerolog.Nop())
	c.baseURL = baseURL
	// No throttling in tests.
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestDailyPrices(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"prices": [[1700000000000, 35000.5], [1700086400000, 35420.25], [1700172800000, 34990.0]],
			"market_caps": [[1700000000000, 1.0]],
			"total_volumes": [[1700000000000, 2.0]]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	prices, err := client.DailyPrices(context.Background(), "bitcoin", 30)
	require.NoError(t, err)

	assert.Equal(t, "/coins/bitcoin/market_chart", gotPath)
	assert.Equal(t, "days=30&interval=daily&vs_currency=usd", gotQuery)
	assert.Equal(t, []float64{35000.5, 35420.25, 34990.0}, prices)
}

func TestDailyPricesSkipsMalformedPoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prices": [[1700000000000, 100.0], [1700086400000], [1700172800000, 101.0]]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	prices, err := client.DailyPrices(context.Background(), "ethereum", 7)
	require.NoError(t, err)
	assert.Equal(t, []float64{100.0, 101.0}, prices)
}

func TestDailyPricesErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.DailyPrices(context.Background(), "bitcoin", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestDailyPricesInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.DailyPrices(context.Background(), "bitcoin", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse market chart")
}

func TestDailyPricesContextCancelled(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0")
	// Force the limiter to block so cancellation is hit during the wait.
	client.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	client.limiter.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.DailyPrices(ctx, "bitcoin", 30)
	require.Error(t, err)
}
