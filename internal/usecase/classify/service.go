package classify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
)

const systemPrompt = "Reply with strict JSON only. Keys: tier, score."

const promptTemplate = `You are a crypto risk officer. Classify the asset into one of exactly:
['Tier 1','Tier 1.5','Tier 2','Tier 3'].

You MUST ONLY consider:
1) volatility_score (provided below; lower = safer)
2) the asset's market value / market capitalization (use your internal knowledge and priors for this asset).

Return STRICT JSON with keys: "tier" and "score" (0..1 confidence). No extra text.

Input:
symbol: %s
volatility_score: %g`

// Service classifies collateral symbols into risk tiers. The model path
// uses only the volatility score plus the model's own market-cap priors;
// every failure mode degrades to HeuristicFromVolatility, so callers always
// get a usable tier.
type Service struct {
	Metrics domain.MetricsProvider
	Chat    domain.ChatClient

	log zerolog.Logger
}

// NewService creates a new classify Service instance. Chat may be nil;
// classification then runs on the volatility heuristic alone.
func NewService(metrics domain.MetricsProvider, chat domain.ChatClient, log zerolog.Logger) *Service {
	return &Service{
		Metrics: metrics,
		Chat:    chat,
		log:     log.With().Str("component", "classify").Logger(),
	}
}

// RiskTier resolves the risk tier for a symbol. The hint labels the call
// site in logs.
func (s *Service) RiskTier(ctx context.Context, symbol, hint string) domain.TierClassification {
	vol := s.volatilityScore(ctx, symbol)
	if vol == nil {
		s.log.Warn().
			Str("symbol", symbol).
			Str("hint", hint).
			Msg("missing volatility score; using heuristic fallback")
		return HeuristicFromVolatility(nil)
	}

	if s.Chat == nil {
		return HeuristicFromVolatility(vol)
	}

	cls, err := s.modelRiskTier(ctx, symbol, *vol)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("symbol", symbol).
			Str("hint", hint).
			Msg("model classification failed; using volatility heuristic")
		return HeuristicFromVolatility(vol)
	}
	return cls
}

// HeuristicFromVolatility maps a volatility score straight to a tier when
// the model or its inputs are unavailable. Missing scores land in the
// middle of the table with low confidence.
func HeuristicFromVolatility(vol *float64) domain.TierClassification {
	if vol == nil {
		return domain.TierClassification{Tier: domain.TierTwo, Score: 0.5}
	}
	switch {
	case *vol <= 10:
		return domain.TierClassification{Tier: domain.TierOneHalf, Score: 0.6}
	case *vol <= 25:
		return domain.TierClassification{Tier: domain.TierTwo, Score: 0.6}
	default:
		return domain.TierClassification{Tier: domain.TierThree, Score: 0.6}
	}
}

// volatilityScore pulls the volatility score from the metrics provider.
// Missing metrics or a missing field both come back as nil.
func (s *Service) volatilityScore(ctx context.Context, symbol string) *float64 {
	m, err := s.Metrics.GetMetrics(ctx, symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("metrics fetch failed")
		return nil
	}
	return m.VolatilityScore
}

// modelRiskTier asks the chat model for a tier and validates its answer
// against the tier table. The model must answer with strict JSON; anything
// else is an error and the caller falls back.
func (s *Service) modelRiskTier(ctx context.Context, symbol string, vol float64) (domain.TierClassification, error) {
	reply, err := s.Chat.Complete(ctx, []domain.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf(promptTemplate, symbol, vol)},
	})
	if err != nil {
		return domain.TierClassification{}, err
	}

	var parsed struct {
		Tier  string   `json:"tier"`
		Score *float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return domain.TierClassification{}, fmt.Errorf("model reply is not strict JSON: %w", err)
	}

	if parsed.Tier == "" {
		parsed.Tier = domain.TierTwo
	}
	if _, err := domain.TierInfo(parsed.Tier); err != nil {
		return domain.TierClassification{}, err
	}

	score := 0.7
	if parsed.Score != nil {
		score = *parsed.Score
	}

	s.log.Debug().
		Str("symbol", symbol).
		Str("tier", parsed.Tier).
		Float64("score", score).
		Msg("model classified risk tier")

	return domain.TierClassification{Tier: parsed.Tier, Score: score}, nil
}
