package domain

// AssetBreakdown is the per-asset pricing view: interest components as
// fractions rounded to 4 decimals, money rounded to cents. PctChange30d
// surfaces the metric the volatility premium was derived from (nil when
// metrics were unavailable).
type AssetBreakdown struct {
	Symbol            string   `json:"symbol"`
	Tier              string   `json:"tier"`
	LTV               float64  `json:"ltv"`
	BaseRate          float64  `json:"base_rate"`
	RiskPremium       float64  `json:"risk_premium"`
	VolatilityPremium float64  `json:"volatility_premium"`
	InterestRate      float64  `json:"interest_rate"`
	CollateralUSD     float64  `json:"collateral_usd"`
	LoanUSD           float64  `json:"loan_usd"`
	PctChange30d      *float64 `json:"pct_change_30d"`
}

// PortfolioSummary aggregates the per-asset rows. LTV and interest rate
// fields are PERCENT values (72.00, not 0.72), rounded to 2 decimals.
//
// MonthlyEMI is provisional when produced by the aggregator (closed-form
// from the weighted rate) and is overwritten with the schedule-derived
// value once amortization is attached. The schedule is the source of truth.
type PortfolioSummary struct {
	TotalCollateral float64 `json:"total_collateral"`
	TotalLoan       float64 `json:"total_loan"`
	PortfolioLTV    float64 `json:"portfolio_ltv"`
	LiquidationLTV  float64 `json:"liquidation_ltv"`
	MarginCallLTV   float64 `json:"margin_call_ltv"`
	InterestRate    float64 `json:"interest_rate"`
	MonthlyEMI      float64 `json:"monthly_emi"`
	Months          int     `json:"months"`
}

// AmortizationRow is one month of a level-payment schedule. All amounts
// are cents-rounded. For every row Payment = Interest + Principal and
// EndingBalance = OpeningBalance - Principal; the last row retires the
// balance exactly.
type AmortizationRow struct {
	Month          int     `json:"month"`
	OpeningBalance float64 `json:"opening_balance"`
	Payment        float64 `json:"payment"`
	Interest       float64 `json:"interest"`
	Principal      float64 `json:"principal"`
	EndingBalance  float64 `json:"ending_balance"`
}

// LoanSchedule carries the portfolio-level schedule, the per-asset
// schedules it was summed from, and each asset's level payment.
type LoanSchedule struct {
	Portfolio []AmortizationRow            `json:"portfolio"`
	Assets    map[string][]AmortizationRow `json:"assets"`
	Payments  map[string]float64           `json:"payments"`
}

// LoanProfile is the full quote returned by the calculate pipeline.
// Schedule is nil only on profiles that never went through amortization
// (e.g. a summary request built from a trimmed payload).
type LoanProfile struct {
	Assets   []AssetBreakdown `json:"assets"`
	Summary  PortfolioSummary `json:"summary"`
	Schedule *LoanSchedule    `json:"schedule,omitempty"`
}
