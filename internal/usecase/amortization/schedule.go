package amortization

import (
	"math"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
)

// Result couples the level monthly payment (cents-rounded) with the
// generated schedule rows.
type Result struct {
	Payment float64
	Rows    []domain.AmortizationRow
}

// Schedule builds a standard level-payment amortization schedule.
//
// The level payment is rounded to cents once and held for every month.
// Each row's interest and principal are cents-rounded independently; the
// final row repays the remaining balance exactly and adjusts its payment
// to principal + interest, so the schedule terminates at 0.00 without a
// residual.
//
// A non-positive principal or term yields a zero payment and no rows.
func Schedule(principalUSD, annualRate float64, months int) Result {
	if months <= 0 || principalUSD <= 0 {
		return Result{Payment: 0, Rows: []domain.AmortizationRow{}}
	}

	monthlyRate := annualRate / 12

	var payment float64
	if monthlyRate == 0 {
		payment = principalUSD / float64(months)
	} else {
		payment = principalUSD * monthlyRate / (1 - math.Pow(1+monthlyRate, -float64(months)))
	}
	payment = domain.RoundMoney(payment)

	rows := make([]domain.AmortizationRow, 0, months)
	balance := principalUSD
	for m := 1; m <= months; m++ {
		opening := balance
		interest := domain.RoundMoney(opening * monthlyRate)
		principal := domain.RoundMoney(payment - interest)

		pay := payment
		if m == months {
			// Final row retires the remaining balance exactly.
			principal = domain.RoundMoney(opening)
			pay = domain.RoundMoney(principal + interest)
		}

		balance = domain.RoundMoney(opening - principal)
		rows = append(rows, domain.AmortizationRow{
			Month:          m,
			OpeningBalance: domain.RoundMoney(opening),
			Payment:        pay,
			Interest:       interest,
			Principal:      principal,
			EndingBalance:  balance,
		})
	}

	return Result{Payment: payment, Rows: rows}
}

// SumSchedules pointwise-sums per-asset schedules into a portfolio-level
// schedule, re-rounding each summed amount to cents. All schedules must
// have equal length; the pipeline only produces equal-length schedules, so
// a shorter one is a programming error and panics on index.
func SumSchedules(schedules [][]domain.AmortizationRow) []domain.AmortizationRow {
	if len(schedules) == 0 {
		return []domain.AmortizationRow{}
	}

	ref := schedules[0]
	agg := make([]domain.AmortizationRow, 0, len(ref))
	for i := range ref {
		var opening, payment, interest, principal, ending float64
		for _, rows := range schedules {
			r := rows[i]
			opening += r.OpeningBalance
			payment += r.Payment
			interest += r.Interest
			principal += r.Principal
			ending += r.EndingBalance
		}
		agg = append(agg, domain.AmortizationRow{
			Month:          ref[i].Month,
			OpeningBalance: domain.RoundMoney(opening),
			Payment:        domain.RoundMoney(payment),
			Interest:       domain.RoundMoney(interest),
			Principal:      domain.RoundMoney(principal),
			EndingBalance:  domain.RoundMoney(ending),
		})
	}
	return agg
}

// Attach amortizes each priced asset over the summary's term and hangs the
// schedules off the profile. The summary's MonthlyEMI is overwritten with
// the rounded sum of the per-asset level payments: the schedule, not the
// aggregator's closed-form annuity, is the source of truth.
//
// A non-positive term attaches an empty schedule and zeroes the EMI.
func Attach(profile *domain.LoanProfile) {
	if profile == nil {
		return
	}

	months := profile.Summary.Months
	if months <= 0 {
		profile.Schedule = &domain.LoanSchedule{
			Portfolio: []domain.AmortizationRow{},
			Assets:    map[string][]domain.AmortizationRow{},
			Payments:  map[string]float64{},
		}
		profile.Summary.MonthlyEMI = 0
		return
	}

	schedules := make([][]domain.AmortizationRow, 0, len(profile.Assets))
	assets := make(map[string][]domain.AmortizationRow, len(profile.Assets))
	payments := make(map[string]float64, len(profile.Assets))
	totalPayment := 0.0

	for _, a := range profile.Assets {
		res := Schedule(a.LoanUSD, a.InterestRate, months)
		// A loan that rounds to zero produces no rows; it contributes
		// nothing to the portfolio sum.
		if len(res.Rows) > 0 {
			schedules = append(schedules, res.Rows)
		}
		assets[a.Symbol] = res.Rows
		payments[a.Symbol] = res.Payment
		totalPayment += res.Payment
	}

	profile.Schedule = &domain.LoanSchedule{
		Portfolio: SumSchedules(schedules),
		Assets:    assets,
		Payments:  payments,
	}
	profile.Summary.MonthlyEMI = domain.RoundMoney(totalPayment)
}
