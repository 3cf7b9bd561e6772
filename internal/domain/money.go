package domain

import "github.com/shopspring/decimal"

// Rounding policy for everything the engine emits: money is rounded to
// cents, rates to four decimal places, both half-up. Downstream consumers
// (portfolio weighting, amortization) read the rounded values, so rounding
// here is part of the contract, not presentation.
//
// decimal.NewFromFloat parses the shortest round-trip representation of the
// float, which keeps 2.675 rounding to 2.68 instead of tripping over the
// binary expansion.

// RoundMoney rounds a USD amount to cents, half-up.
func RoundMoney(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

// RoundRate rounds a rate fraction to four decimal places, half-up.
func RoundRate(x float64) float64 {
	return decimal.NewFromFloat(x).Round(4).InexactFloat64()
}
