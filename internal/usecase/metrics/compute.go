package metrics

import "math"

// Price series math shared by the metrics refresher and the analyst
// report. All functions take daily closing prices, oldest first, and
// return nil when the series is too short to answer.

// PctChange is the percentage move from the first to the last price:
// (end - start) / start * 100.
func PctChange(prices []float64) *float64 {
	if len(prices) < 2 {
		return nil
	}
	start, end := prices[0], prices[len(prices)-1]
	if start == 0 {
		return nil
	}
	change := (end - start) / start * 100
	return &change
}

// PctChangeOverWindow is the percentage move from the price lookbackDays
// ago to the latest price. Requires at least lookbackDays+1 points.
func PctChangeOverWindow(prices []float64, lookbackDays int) *float64 {
	if lookbackDays <= 0 || len(prices) < lookbackDays+1 {
		return nil
	}
	last := prices[len(prices)-1]
	past := prices[len(prices)-1-lookbackDays]
	if past == 0 {
		return nil
	}
	change := (last/past - 1) * 100
	return &change
}

// RealizedVol30d is the population standard deviation of daily simple
// returns over the last 30 days, expressed in percent (not annualized).
// Zero or negative prices are skipped when forming returns; fewer than
// two usable returns yields nil.
func RealizedVol30d(prices []float64) *float64 {
	if len(prices) < 2 {
		return nil
	}

	window := prices
	if len(window) > 31 {
		window = window[len(window)-31:]
	}

	returns := make([]float64, 0, len(window)-1)
	for i := 1; i < len(window); i++ {
		if window[i-1] > 0 {
			returns = append(returns, window[i]/window[i-1]-1)
		}
	}
	if len(returns) < 2 {
		return nil
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	vol := math.Sqrt(variance) * 100
	return &vol
}
