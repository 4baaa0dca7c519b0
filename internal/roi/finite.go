package roi

import (
	"math"

	"calcforge/internal/domain"
)

// OverflowMessage is reported when finite inputs project to values
// outside float64 range.
const OverflowMessage = "Inputs are too large to project: results overflow"

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func allFinite(values ...float64) bool {
	for _, v := range values {
		if !finite(v) {
			return false
		}
	}
	return true
}

// checkProjection rejects yearly rows and headline figures that overflowed.
func checkProjection(res *domain.Results) error {
	for _, yr := range res.Yearly {
		if !allFinite(
			yr.BaselineMinutes, yr.AutomatedMinutes, yr.HandoffMinutes, yr.HumanMinutes,
			yr.BaselineCost, yr.AICost,
			yr.OpsSavings, yr.RevenueRetained, yr.TotalValue, yr.CumulativeValue, yr.DiscountedValue,
		) {
			return overflow()
		}
	}
	if res.PaybackMonths != nil && !finite(*res.PaybackMonths) {
		return overflow()
	}
	if !allFinite(res.NPV5Y, res.ROI5Y, res.OpsVsRevenueSplit.OpsSavings, res.OpsVsRevenueSplit.RevenueRetained) {
		return overflow()
	}
	return nil
}

// checkSensitivity rejects tornado impacts and bands that overflowed.
func checkSensitivity(res *domain.Results) error {
	for _, t := range res.Tornado {
		if !finite(t.Impact) {
			return overflow()
		}
	}
	if !allFinite(res.Scenarios.P10, res.Scenarios.P50, res.Scenarios.P90) {
		return overflow()
	}
	return nil
}

func overflow() *ValidationError {
	return &ValidationError{Field: "inputs", Message: OverflowMessage}
}
