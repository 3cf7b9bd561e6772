package loan

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/usecase/amortization"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/usecase/portfolio"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/usecase/pricing"
)

// DefaultMonths is the loan term used when the request leaves it unset.
const DefaultMonths = 6

// stablecoinSymbol is priced as Tier 1 unless the caller overrides the tier.
const stablecoinSymbol = "USDT"

// Classifier resolves a risk tier for a symbol. Implementations never fail:
// when the model or its inputs are unavailable they fall back to a
// volatility heuristic.
type Classifier interface {
	RiskTier(ctx context.Context, symbol, hint string) domain.TierClassification
}

// CalculateInput represents the input for a loan quote
type CalculateInput struct {
	Assets []domain.AssetAllocation
	Months int
}

// Service orchestrates the quote pipeline: tier resolution, metrics fetch,
// per-asset pricing, portfolio aggregation and amortization.
type Service struct {
	Metrics    domain.MetricsProvider
	Classifier Classifier

	log zerolog.Logger
}

// NewService creates a new loan Service instance
func NewService(metrics domain.MetricsProvider, classifier Classifier, log zerolog.Logger) *Service {
	return &Service{
		Metrics:    metrics,
		Classifier: classifier,
		log:        log.With().Str("component", "loan").Logger(),
	}
}

// Calculate builds the full loan profile for a set of collateral
// allocations.
//
// Per asset: the tier comes from the caller override when present, the
// stablecoin default for USDT, or the classifier. Metrics are fetched per
// request; a failed fetch downgrades to pricing without metrics instead of
// failing the quote. Validation failures return a 400-mapped error before
// any pricing happens.
//
// The returned profile always carries an attached amortization schedule,
// and its summary EMI is the schedule-derived value.
func (s *Service) Calculate(ctx context.Context, input CalculateInput) (*domain.LoanProfile, error) {
	if len(input.Assets) == 0 {
		return nil, domain.BadRequest("assets is required")
	}

	months := input.Months
	if months == 0 {
		months = DefaultMonths
	}

	rows := make([]domain.AssetBreakdown, 0, len(input.Assets))
	for _, asset := range input.Assets {
		alloc := asset
		alloc.Symbol = strings.ToUpper(strings.TrimSpace(alloc.Symbol))

		if err := alloc.Validate(); err != nil {
			return nil, domain.BadRequest(err.Error())
		}

		tierName := s.resolveTier(ctx, alloc)
		metrics := s.fetchMetrics(ctx, alloc.Symbol)

		row, err := pricing.Breakdown(alloc.Symbol, alloc.AllocationUSD, tierName, metrics)
		if err != nil {
			return nil, domain.BadRequest(err.Error())
		}
		rows = append(rows, row)
	}

	profile := &domain.LoanProfile{
		Assets:  rows,
		Summary: portfolio.Aggregate(rows, months),
	}
	amortization.Attach(profile)

	return profile, nil
}

// resolveTier applies the tier resolution order: explicit override first,
// then the USDT stablecoin default, then the classifier.
func (s *Service) resolveTier(ctx context.Context, alloc domain.AssetAllocation) string {
	if alloc.Tier != "" {
		return alloc.Tier
	}
	if alloc.Symbol == stablecoinSymbol {
		return domain.TierOne
	}

	cls := s.Classifier.RiskTier(ctx, alloc.Symbol, "loan_calculate")
	s.log.Debug().
		Str("symbol", alloc.Symbol).
		Str("tier", cls.Tier).
		Float64("score", cls.Score).
		Msg("classified risk tier")
	return cls.Tier
}

// fetchMetrics pulls metrics for the volatility premium. Failures are
// logged and tolerated: the asset prices without metrics.
func (s *Service) fetchMetrics(ctx context.Context, symbol string) *domain.AssetMetrics {
	m, err := s.Metrics.GetMetrics(ctx, symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("metrics fetch failed")
		return nil
	}
	return m
}
