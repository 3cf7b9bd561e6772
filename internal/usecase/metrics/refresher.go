package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
)

// runTimeout bounds one refresh cycle across all coins.
const runTimeout = 2 * time.Minute

// Refresher recomputes metrics for the supported collateral universe from
// daily price history and writes them to the store. It runs on a cron
// schedule; a coin that fails to refresh is logged and skipped so the rest
// of the universe still updates.
type Refresher struct {
	repo   domain.MetricsRepository
	prices domain.PriceHistoryProvider
	log    zerolog.Logger
}

// NewRefresher creates a new metrics Refresher instance.
func NewRefresher(repo domain.MetricsRepository, prices domain.PriceHistoryProvider, log zerolog.Logger) *Refresher {
	return &Refresher{
		repo:   repo,
		prices: prices,
		log:    log.With().Str("job", "metrics_refresh").Logger(),
	}
}

// Name returns the job name.
func (r *Refresher) Name() string {
	return "metrics_refresh"
}

// Run executes one refresh cycle over every supported coin.
func (r *Refresher) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	start := time.Now()
	var failed int
	for _, coin := range domain.Coins() {
		if err := r.refreshCoin(ctx, coin); err != nil {
			failed++
			r.log.Warn().Err(err).Str("symbol", coin.Symbol).Msg("coin refresh failed")
		}
	}

	r.log.Info().
		Int("coins", len(domain.Coins())).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("metrics refresh completed")

	if failed == len(domain.Coins()) {
		return fmt.Errorf("metrics refresh: all %d coins failed", failed)
	}
	return nil
}

// refreshCoin rebuilds one coin's metrics document. The 30-day window
// supplies the short-term change and the volatility score; the 90-day
// window supplies the long change. Both are simple end-to-end moves over
// daily closes.
func (r *Refresher) refreshCoin(ctx context.Context, coin domain.Coin) error {
	prices30, err := r.prices.DailyPrices(ctx, coin.MarketID, 30)
	if err != nil {
		return fmt.Errorf("fetch 30d prices: %w", err)
	}

	prices90, err := r.prices.DailyPrices(ctx, coin.MarketID, 90)
	if err != nil {
		return fmt.Errorf("fetch 90d prices: %w", err)
	}

	now := time.Now().UTC()
	name := coin.Name
	doc := &domain.AssetMetrics{
		Symbol:          coin.Symbol,
		Name:            &name,
		PctChange30d:    PctChange(prices30),
		PctChange90d:    PctChange(prices90),
		VolatilityScore: RealizedVol30d(prices30),
		ComputedAt:      &now,
	}

	if err := r.repo.Upsert(ctx, doc); err != nil {
		return fmt.Errorf("store metrics: %w", err)
	}

	r.log.Debug().
		Str("symbol", coin.Symbol).
		Msg("metrics refreshed")
	return nil
}
