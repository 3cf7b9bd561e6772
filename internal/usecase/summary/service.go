package summary

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/usecase/metrics"
)

// enrichmentDays is the price history window fetched per coin: 35 daily
// closes cover the 30-day lookback with headroom.
const enrichmentDays = 35

// newsFeeds are the RSS sources scanned for coin headlines.
var newsFeeds = []string{
	"https://www.coindesk.com/arc/outboundfeeds/rss/?outputType=xml",
	"https://cointelegraph.com/rss",
}

// Config carries the report knobs: how many headlines per coin, whether
// to run the LLM rewrite, and the optional smart-contract block.
type Config struct {
	UseLLM          bool
	ModelName       string
	NewsPerCoin     int
	ContractAddress string
	ExplorerBaseURL string
	ChainName       string
}

// Service builds the analyst summary for a computed loan profile: market
// enrichment per collateral coin, a deterministic markdown report, and an
// optional tone-only LLM rewrite that falls back to the deterministic
// text on any failure.
type Service struct {
	prices domain.PriceHistoryProvider
	news   domain.FeedFetcher
	chat   domain.ChatClient
	cfg    Config

	log zerolog.Logger
}

// NewService creates a new summary Service instance. prices, news and
// chat may each be nil; the corresponding enrichment is skipped.
func NewService(prices domain.PriceHistoryProvider, news domain.FeedFetcher, chat domain.ChatClient, cfg Config, log zerolog.Logger) *Service {
	return &Service{
		prices: prices,
		news:   news,
		chat:   chat,
		cfg:    cfg,
		log:    log.With().Str("component", "summary").Logger(),
	}
}

// Build composes the analyst summary for a loan profile. Enrichment
// failures degrade to a report without the missing data; Build itself
// never fails.
func (s *Service) Build(ctx context.Context, profile *domain.LoanProfile) *domain.AnalystSummary {
	insights := s.enrich(ctx, profile)
	md := buildReportMarkdown(profile, insights, s.cfg)

	if s.cfg.UseLLM && s.chat != nil {
		rewritten, err := s.rewrite(ctx, md)
		if err == nil {
			return &domain.AnalystSummary{
				Markdown: rewritten,
				Provider: "groq",
				Model:    s.cfg.ModelName,
				UsedLLM:  true,
			}
		}
		s.log.Warn().Err(err).Msg("llm rewrite failed; serving deterministic report")
	}

	return &domain.AnalystSummary{
		Markdown: md,
		Provider: "deterministic",
		Model:    "none",
		UsedLLM:  false,
	}
}

// enrich builds the per-coin insight block for every distinct symbol in
// the profile, in first-seen order.
func (s *Service) enrich(ctx context.Context, profile *domain.LoanProfile) map[string]domain.CoinInsight {
	insights := make(map[string]domain.CoinInsight)
	for _, a := range profile.Assets {
		if a.Symbol == "" {
			continue
		}
		if _, seen := insights[a.Symbol]; seen {
			continue
		}
		insights[a.Symbol] = s.enrichCoin(ctx, a.Symbol)
	}
	return insights
}

// enrichCoin fetches one coin's short-window performance, realized
// volatility and recent headlines. Symbols outside the supported universe
// get an empty insight; fetch failures leave the affected fields nil.
func (s *Service) enrichCoin(ctx context.Context, symbol string) domain.CoinInsight {
	insight := domain.CoinInsight{Symbol: symbol, CoinName: symbol}

	coin, ok := domain.CoinBySymbol(symbol)
	if !ok {
		return insight
	}
	insight.CoinName = coin.Name

	if s.prices != nil {
		prices, err := s.prices.DailyPrices(ctx, coin.MarketID, enrichmentDays)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("price history fetch failed")
		} else {
			insight.Pct5d = metrics.PctChangeOverWindow(prices, 5)
			insight.Pct10d = metrics.PctChangeOverWindow(prices, 10)
			insight.Pct30d = metrics.PctChangeOverWindow(prices, 30)
			insight.RealizedVol30d = metrics.RealizedVol30d(prices)
		}
	}

	insight.Headlines = s.coinHeadlines(ctx, coin.Name)
	return insight
}

// coinHeadlines scans the news feeds for items mentioning the coin by
// name, capped at NewsPerCoin. A feed that fails to fetch contributes
// nothing.
func (s *Service) coinHeadlines(ctx context.Context, coinName string) []domain.NewsHeadline {
	if s.news == nil || s.cfg.NewsPerCoin <= 0 {
		return nil
	}

	target := strings.ToLower(coinName)
	var matched []domain.NewsHeadline
	for _, feed := range newsFeeds {
		items, err := s.news.Fetch(ctx, feed)
		if err != nil {
			s.log.Warn().Err(err).Str("feed", feed).Msg("news fetch failed")
			continue
		}
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.Title), target) {
				matched = append(matched, item)
			}
		}
	}

	if len(matched) > s.cfg.NewsPerCoin {
		matched = matched[:s.cfg.NewsPerCoin]
	}
	return matched
}

// rewrite asks the chat model for a clarity pass over the markdown. The
// prompt pins the structure and numbers; the content stays grounded in
// the deterministic report.
func (s *Service) rewrite(ctx context.Context, markdown string) (string, error) {
	reply, err := s.chat.Complete(ctx, []domain.ChatMessage{
		{Role: "system", Content: "You are a concise financial analyst. Keep the structure and numbers exactly as given. Improve clarity only."},
		{Role: "user", Content: "Rewrite the following markdown for clarity and flow without changing any numbers or headings:"},
		{Role: "user", Content: markdown},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
