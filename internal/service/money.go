package service

import "math"

// round2 rounds a monetary amount to two decimal places. Every derived
// amount (bonuses, service charges, swept ROI) passes through here so that
// balances stay free of float drift.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
