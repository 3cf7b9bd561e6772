package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
)

// MockPriceHistoryProvider is a mock implementation of PriceHistoryProvider for testing
type MockPriceHistoryProvider struct {
	mock.Mock
}

func (m *MockPriceHistoryProvider) DailyPrices(ctx context.Context, marketID string, days int) ([]float64, error) {
	args := m.Called(ctx, marketID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

// MockFeedFetcher is a mock implementation of FeedFetcher for testing
type MockFeedFetcher struct {
	mock.Mock
}

func (m *MockFeedFetcher) Fetch(ctx context.Context, feedURL string) ([]domain.NewsHeadline, error) {
	args := m.Called(ctx, feedURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NewsHeadline), args.Error(1)
}

// MockChatClient is a mock implementation of ChatClient for testing
type MockChatClient struct {
	mock.Mock
}

func (m *MockChatClient) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

// risingPrices yields n daily closes climbing 1% a day.
func risingPrices(n int) []float64 {
	prices := make([]float64, n)
	p := 100.0
	for i := range prices {
		prices[i] = p
		p *= 1.01
	}
	return prices
}

func TestBuild_DeterministicReport(t *testing.T) {
	prices := new(MockPriceHistoryProvider)
	news := new(MockFeedFetcher)
	service := NewService(prices, news, nil, Config{NewsPerCoin: 3}, zerolog.Nop())

	prices.On("DailyPrices", mock.Anything, "bitcoin", enrichmentDays).Return(risingPrices(36), nil)
	news.On("Fetch", mock.Anything, mock.Anything).Return([]domain.NewsHeadline{
		{Title: "Bitcoin rallies on ETF inflows", Link: "https://example.com/btc", Published: "Mon"},
		{Title: "Altcoins drift sideways", Link: "https://example.com/alts", Published: "Tue"},
	}, nil)

	profile := &domain.LoanProfile{
		Assets:  []domain.AssetBreakdown{{Symbol: "BTC", LoanUSD: 180000}},
		Summary: domain.PortfolioSummary{Months: 6, MonthlyEMI: 31088.07},
	}

	res := service.Build(context.Background(), profile)

	assert.Equal(t, "deterministic", res.Provider)
	assert.Equal(t, "none", res.Model)
	assert.False(t, res.UsedLLM)

	assert.Contains(t, res.Markdown, "## Market snapshot")
	assert.Contains(t, res.Markdown, "**Bitcoin (BTC)**")
	// Only the headline naming the coin survives the filter.
	assert.Contains(t, res.Markdown, "Bitcoin rallies on ETF inflows")
	assert.NotContains(t, res.Markdown, "Altcoins drift sideways")

	prices.AssertExpectations(t)
}

func TestBuild_DuplicateSymbolsEnrichedOnce(t *testing.T) {
	prices := new(MockPriceHistoryProvider)
	news := new(MockFeedFetcher)
	service := NewService(prices, news, nil, Config{NewsPerCoin: 1}, zerolog.Nop())

	prices.On("DailyPrices", mock.Anything, "bitcoin", enrichmentDays).Return(risingPrices(36), nil).Once()
	news.On("Fetch", mock.Anything, mock.Anything).Return([]domain.NewsHeadline{}, nil)

	profile := &domain.LoanProfile{
		Assets: []domain.AssetBreakdown{
			{Symbol: "BTC", LoanUSD: 100000},
			{Symbol: "BTC", LoanUSD: 50000},
		},
		Summary: domain.PortfolioSummary{Months: 6},
	}

	service.Build(context.Background(), profile)

	prices.AssertExpectations(t)
}

func TestBuild_UnsupportedSymbolSkipsMarketData(t *testing.T) {
	prices := new(MockPriceHistoryProvider)
	news := new(MockFeedFetcher)
	service := NewService(prices, news, nil, Config{NewsPerCoin: 3}, zerolog.Nop())

	profile := &domain.LoanProfile{
		Assets:  []domain.AssetBreakdown{{Symbol: "DOGE", LoanUSD: 1000}},
		Summary: domain.PortfolioSummary{Months: 6},
	}

	res := service.Build(context.Background(), profile)

	// No market-data provider call for a coin outside the universe.
	prices.AssertNotCalled(t, "DailyPrices", mock.Anything, mock.Anything, mock.Anything)
	assert.Contains(t, res.Markdown, "**DOGE (DOGE)**")
	assert.Contains(t, res.Markdown, "data limited")
}

func TestBuild_PriceFetchFailureTolerated(t *testing.T) {
	prices := new(MockPriceHistoryProvider)
	news := new(MockFeedFetcher)
	service := NewService(prices, news, nil, Config{NewsPerCoin: 3}, zerolog.Nop())

	prices.On("DailyPrices", mock.Anything, "bitcoin", enrichmentDays).
		Return(nil, errors.New("coingecko 429"))
	news.On("Fetch", mock.Anything, mock.Anything).Return([]domain.NewsHeadline{}, nil)

	profile := &domain.LoanProfile{
		Assets:  []domain.AssetBreakdown{{Symbol: "BTC", LoanUSD: 180000}},
		Summary: domain.PortfolioSummary{Months: 6},
	}

	res := service.Build(context.Background(), profile)

	assert.Equal(t, "deterministic", res.Provider)
	assert.Contains(t, res.Markdown, "- 5d: — | 10d: — | 30d: —")
}

func TestBuild_FeedFailureTolerated(t *testing.T) {
	prices := new(MockPriceHistoryProvider)
	news := new(MockFeedFetcher)
	service := NewService(prices, news, nil, Config{NewsPerCoin: 3}, zerolog.Nop())

	prices.On("DailyPrices", mock.Anything, "bitcoin", enrichmentDays).Return(risingPrices(36), nil)
	news.On("Fetch", mock.Anything, mock.Anything).Return(nil, errors.New("feed unreachable"))

	profile := &domain.LoanProfile{
		Assets:  []domain.AssetBreakdown{{Symbol: "BTC", LoanUSD: 180000}},
		Summary: domain.PortfolioSummary{Months: 6},
	}

	res := service.Build(context.Background(), profile)

	assert.Contains(t, res.Markdown, "Recent headlines: (none found in the last few days)")
}

func TestBuild_LLMRewrite(t *testing.T) {
	chat := new(MockChatClient)
	service := NewService(nil, nil, chat, Config{
		UseLLM:      true,
		ModelName:   "llama-3.3-70b-versatile",
		NewsPerCoin: 3,
	}, zerolog.Nop())

	chat.On("Complete", mock.Anything, mock.AnythingOfType("[]domain.ChatMessage")).
		Return("  ## Market snapshot\npolished report  ", nil)

	profile := &domain.LoanProfile{
		Assets:  []domain.AssetBreakdown{{Symbol: "BTC", LoanUSD: 180000}},
		Summary: domain.PortfolioSummary{Months: 6},
	}

	res := service.Build(context.Background(), profile)

	assert.True(t, res.UsedLLM)
	assert.Equal(t, "groq", res.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", res.Model)
	assert.Equal(t, "## Market snapshot\npolished report", res.Markdown)

	// The rewrite prompt carries the deterministic report as the payload.
	messages := chat.Calls[0].Arguments.Get(1).([]domain.ChatMessage)
	require.Len(t, messages, 3)
	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[2].Content, "## Market snapshot")
}

func TestBuild_LLMFailureFallsBack(t *testing.T) {
	chat := new(MockChatClient)
	service := NewService(nil, nil, chat, Config{UseLLM: true, ModelName: "llama-3.3-70b-versatile"}, zerolog.Nop())

	chat.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("groq 500"))

	profile := &domain.LoanProfile{
		Assets:  []domain.AssetBreakdown{{Symbol: "BTC", LoanUSD: 180000}},
		Summary: domain.PortfolioSummary{Months: 6},
	}

	res := service.Build(context.Background(), profile)

	assert.False(t, res.UsedLLM)
	assert.Equal(t, "deterministic", res.Provider)
	assert.Equal(t, "none", res.Model)
	assert.Contains(t, res.Markdown, "## Market snapshot")
}

func TestBuild_LLMDisabledNeverCallsChat(t *testing.T) {
	chat := new(MockChatClient)
	service := NewService(nil, nil, chat, Config{UseLLM: false}, zerolog.Nop())

	profile := &domain.LoanProfile{
		Assets:  []domain.AssetBreakdown{{Symbol: "BTC", LoanUSD: 180000}},
		Summary: domain.PortfolioSummary{Months: 6},
	}

	service.Build(context.Background(), profile)

	chat.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}
