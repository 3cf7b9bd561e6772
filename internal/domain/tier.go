package domain

import "fmt"

// Tier names accepted across the system. The classifier, the USDT default
// and caller overrides all resolve to one of these.
const (
	TierOne     = "Tier 1"
	TierOneHalf = "Tier 1.5"
	TierTwo     = "Tier 2"
	TierThree   = "Tier 3"
)

// ErrUnknownTier is returned when a tier name is not in the risk tier table.
var ErrUnknownTier = fmt.Errorf("unknown risk tier")

// RiskTier couples a tier name with its lending parameters.
// LTV and RiskPremium are fractions (0.05 = 5%).
type RiskTier struct {
	Name        string
	LTV         float64
	RiskPremium float64
	Note        string
}

// riskTiers is the single source of truth for LTV and risk premiums.
// The table is fixed; callers get copies and cannot mutate it.
var riskTiers = map[string]RiskTier{
	TierOne:     {Name: TierOne, LTV: 0.72, RiskPremium: 0.05, Note: "Blue-chip, high liquidity"},
	TierOneHalf: {Name: TierOneHalf, LTV: 0.65, RiskPremium: 0.10, Note: "Large-cap, strong liquidity"},
	TierTwo:     {Name: TierTwo, LTV: 0.60, RiskPremium: 0.15, Note: "Mid-cap, moderate liquidity"},
	TierThree:   {Name: TierThree, LTV: 0.55, RiskPremium: 0.25, Note: "High volatility / risk"},
}

// TierInfo resolves a tier name to its lending parameters.
// Returns ErrUnknownTier (wrapped with the offending name) for anything
// outside the table.
func TierInfo(name string) (RiskTier, error) {
	tier, ok := riskTiers[name]
	if !ok {
		return RiskTier{}, fmt.Errorf("%w: %s", ErrUnknownTier, name)
	}
	return tier, nil
}

// TierNames lists the valid tier names in risk order, safest first.
func TierNames() []string {
	return []string{TierOne, TierOneHalf, TierTwo, TierThree}
}
