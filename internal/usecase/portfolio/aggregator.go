package portfolio

import (
	"math"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
)

// liquidationBuffer scales current LTV up to the liquidation threshold,
// capped at liquidationCap.
const (
	liquidationBuffer = 1.2
	liquidationCap    = 0.95
)

// Aggregate folds per-asset breakdown rows into the portfolio summary.
// It consumes the rounded values carried by the rows, so the totals
// reconcile with what each row displays.
//
// LTV and interest rate outputs are percent values; the interest rate is
// weighted by each asset's share of the total loan. The EMI produced here
// is the closed-form annuity from the weighted rate and is provisional:
// attaching the amortization schedule replaces it with the schedule-derived
// value.
func Aggregate(rows []domain.AssetBreakdown, months int) domain.PortfolioSummary {
	var totalCollateral, totalLoan float64
	for _, r := range rows {
		totalCollateral += r.CollateralUSD
		totalLoan += r.LoanUSD
	}

	weightedLTV := 0.0
	if totalCollateral != 0 {
		weightedLTV = totalLoan / totalCollateral
	}

	weightedRate := 0.0
	for _, r := range rows {
		weight := 0.0
		if totalLoan != 0 {
			weight = r.LoanUSD / totalLoan
		}
		weightedRate += r.InterestRate * weight
	}

	liquidationLTV := math.Min(weightedLTV*liquidationBuffer, liquidationCap)

	// Margin call sits halfway between current and liquidation LTV.
	marginCallPct := (weightedLTV*100 + liquidationLTV*100) / 2

	emi := provisionalEMI(totalLoan, weightedRate, months)

	return domain.PortfolioSummary{
		TotalCollateral: domain.RoundMoney(totalCollateral),
		TotalLoan:       domain.RoundMoney(totalLoan),
		PortfolioLTV:    domain.RoundMoney(weightedLTV * 100),
		LiquidationLTV:  domain.RoundMoney(liquidationLTV * 100),
		MarginCallLTV:   domain.RoundMoney(marginCallPct),
		InterestRate:    domain.RoundMoney(weightedRate * 100),
		MonthlyEMI:      domain.RoundMoney(emi),
		Months:          months,
	}
}

// provisionalEMI is the standard annuity payment for principal P at annual
// rate `annualRate` over `months`. Degenerate terms yield zero; a zero rate
// degrades to straight-line principal.
func provisionalEMI(principal, annualRate float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	monthlyRate := annualRate / 12
	if monthlyRate > 0 {
		return principal * monthlyRate / (1 - math.Pow(1+monthlyRate, -float64(months)))
	}
	return principal / float64(months)
}
