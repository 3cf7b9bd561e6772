package domain

import (
	"errors"
	"time"
)

// AssetAllocation is one collateral position in a loan request.
// Tier is an optional caller override; when empty the tier is resolved by
// the classifier (or the stablecoin default).
type AssetAllocation struct {
	Symbol        string  `json:"symbol"`
	AllocationUSD float64 `json:"allocation_usd"`
	Tier          string  `json:"tier,omitempty"`
}

// Validate ensures the allocation adheres to domain rules.
// Symbols are expected to be normalized (trimmed, uppercased) before
// validation.
func (a *AssetAllocation) Validate() error {
	if a.Symbol == "" {
		return errors.New("asset symbol is required")
	}
	if a.AllocationUSD <= 0 {
		return errors.New("allocation_usd must be positive")
	}
	if a.Tier != "" {
		if _, err := TierInfo(a.Tier); err != nil {
			return err
		}
	}
	return nil
}

// AssetMetrics is the market snapshot for one symbol as served by the
// metrics endpoint. Every field except Symbol may be absent; the pricing
// path treats missing values as "no data" and falls back to defaults.
type AssetMetrics struct {
	Symbol          string     `json:"symbol"`
	Name            *string    `json:"name"`
	PctChange30d    *float64   `json:"pct_change_30d"`
	PctChange90d    *float64   `json:"pct_change_90d"`
	VolatilityScore *float64   `json:"volatility_score"`
	ComputedAt      *time.Time `json:"computed_at"`
}

// TierClassification is the outcome of risk tier resolution for a symbol.
// Score is a confidence in [0,1]; heuristic fallbacks report lower scores
// than model answers.
type TierClassification struct {
	Tier  string
	Score float64
}
