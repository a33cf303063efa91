package benchmark

import "math"

// Round2 rounds to two decimals, half away from zero. math.Round carries
// exactly that rule; every reported statistic goes through here so the
// behaviour stays in one place.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// roundScore rounds a 0-100 score to the nearest integer, half away from zero.
func roundScore(v float64) float64 {
	return math.Round(v)
}
