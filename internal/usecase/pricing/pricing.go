package pricing

import (
	"math"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
)

// BaseRate is the base/federal rate applied to every asset (6.33% as a fraction).
const BaseRate = 0.0633

// InterestComponents holds each interest piece separately (fractions,
// rounded to 4 decimals) and their sum.
type InterestComponents struct {
	BaseRate          float64
	RiskPremium       float64
	VolatilityPremium float64
	InterestRate      float64
}

// VolatilityPremium derives the volatility premium from the absolute 30-day
// % change:
//
//	|30d| < 10%  -> +1.0%
//	10% - <20%   -> +1.5%
//	>= 20%       -> +2.0%
//
// Missing data defaults to +1.0%.
func VolatilityPremium(pctChange30d *float64) float64 {
	if pctChange30d == nil {
		return 0.01
	}
	change := math.Abs(*pctChange30d)
	switch {
	case change < 10:
		return 0.01
	case change < 20:
		return 0.015
	default:
		return 0.02
	}
}

// InterestFor assembles the interest components for one asset from its tier
// and market metrics. The components are summed before rounding so the total
// reflects the raw parts; each output is then rounded to 4 decimals.
func InterestFor(tier domain.RiskTier, metrics *domain.AssetMetrics) InterestComponents {
	vol := VolatilityPremium(pctChange30d(metrics))
	total := BaseRate + tier.RiskPremium + vol

	return InterestComponents{
		BaseRate:          domain.RoundRate(BaseRate),
		RiskPremium:       domain.RoundRate(tier.RiskPremium),
		VolatilityPremium: domain.RoundRate(vol),
		InterestRate:      domain.RoundRate(total),
	}
}

// Breakdown prices a single asset: tier lookup, interest components, and the
// loanable amount at the tier's LTV. Metrics may be nil when the fetch
// failed; pricing then falls back to the premium default and reports no
// 30-day change.
func Breakdown(symbol string, allocUSD float64, tierName string, metrics *domain.AssetMetrics) (domain.AssetBreakdown, error) {
	tier, err := domain.TierInfo(tierName)
	if err != nil {
		return domain.AssetBreakdown{}, err
	}

	ic := InterestFor(tier, metrics)

	return domain.AssetBreakdown{
		Symbol:            symbol,
		Tier:              tier.Name,
		LTV:               tier.LTV,
		BaseRate:          ic.BaseRate,
		RiskPremium:       ic.RiskPremium,
		VolatilityPremium: ic.VolatilityPremium,
		InterestRate:      ic.InterestRate,
		CollateralUSD:     domain.RoundMoney(allocUSD),
		LoanUSD:           domain.RoundMoney(allocUSD * tier.LTV),
		PctChange30d:      pctChange30d(metrics),
	}, nil
}

func pctChange30d(metrics *domain.AssetMetrics) *float64 {
	if metrics == nil {
		return nil
	}
	return metrics.PctChange30d
}
