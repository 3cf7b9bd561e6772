package domain

import "context"

// MetricsRepository defines the interface for metrics persistence operations
type MetricsRepository interface {
	// Upsert stores a freshly computed metrics document for a symbol
	Upsert(ctx context.Context, metrics *AssetMetrics) error

	// GetLatest retrieves the most recent metrics document for a symbol
	// Returns ErrMetricsNotFound when no document exists
	GetLatest(ctx context.Context, symbol string) (*AssetMetrics, error)
}

// MetricsProvider serves per-symbol market metrics to the pricing pipeline.
// Implementations: the in-process metrics service, or an HTTP client when
// metrics are served by a separate deployment.
type MetricsProvider interface {
	// GetMetrics returns the current metrics for a symbol
	// Returns ErrMetricsNotFound when the symbol has no data
	GetMetrics(ctx context.Context, symbol string) (*AssetMetrics, error)
}

// PriceHistoryProvider fetches daily closing prices for a coin.
type PriceHistoryProvider interface {
	// DailyPrices returns one USD price per day covering the last `days`
	// days including today, oldest first
	DailyPrices(ctx context.Context, marketID string, days int) ([]float64, error)
}

// FeedFetcher retrieves headlines from a single news feed.
type FeedFetcher interface {
	// Fetch downloads and parses one RSS feed URL
	Fetch(ctx context.Context, feedURL string) ([]NewsHeadline, error)
}

// ChatMessage is one turn of a chat-completion conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatClient talks to an LLM chat-completion endpoint.
type ChatClient interface {
	// Complete sends the conversation and returns the assistant's reply text
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}
