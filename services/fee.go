package services

import "math"

// AnalyticsFeePercent is the reporting fee applied to every donation.
// The fee is informational only and is never deducted from the on-chain
// transfer amount.
const AnalyticsFeePercent = 2.5

// stroopPrecision rounds to 7 decimal places, the smallest XLM unit.
const stroopPrecision = 1e7

// ComputeAnalyticsFee returns the analytics fee for a donation amount and
// the percentage it was computed with. The fee is rounded half away from
// zero to stroop precision, so the same amount always yields the same fee.
func ComputeAnalyticsFee(amount float64) (fee float64, percentage float64) {
	fee = math.Round(amount*(AnalyticsFeePercent/100)*stroopPrecision) / stroopPrecision
	return fee, AnalyticsFeePercent
}
