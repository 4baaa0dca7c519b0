package roi

import (
	"calcforge/internal/domain"
)

// accumulate fills CumulativeValue as a running sum of TotalValue.
func accumulate(yearly []domain.YearResult) {
	running := 0.0
	for i := range yearly {
		running += yearly[i].TotalValue
		yearly[i].CumulativeValue = running
	}
}

// computeNPV sums discounted value across the horizon.
func computeNPV(yearly []domain.YearResult) float64 {
	total := 0.0
	for _, yr := range yearly {
		total += yr.DiscountedValue
	}
	return total
}

// computePayback returns the fractional month at which cumulative value
// first covers the upfront cost, interpolated linearly within that year.
// A result of 0 means immediate payback: no upfront cost and a positive first year.
// Returns nil if the upfront cost is never recovered or no value is generated.
func computePayback(yearly []domain.YearResult, upfront float64) *float64 {
	prev := 0.0 // cumulative value before the current year
	for i, yr := range yearly {
		need := upfront - prev
		if yr.TotalValue > 0 && need <= yr.TotalValue {
			frac := 0.0
			if need > 0 {
				frac = need / yr.TotalValue
			}
			months := 12*float64(i) + 12*frac
			return &months
		}
		prev = yr.CumulativeValue
	}
	return nil
}

// costBasis returns the ROI denominator.
func costBasis(yearly []domain.YearResult, upfront float64, basis ROIBasis) float64 {
	switch basis {
	case ROIBasisTotalAICost:
		total := upfront
		for _, yr := range yearly {
			total += yr.AICost
		}
		return total
	case ROIBasisImplementationOnly:
		return upfront
	default:
		if len(yearly) == 0 {
			return upfront
		}
		return upfront + yearly[0].AICost
	}
}

// computeROI returns five-year value as a multiple of the cost basis. 0 if the basis is 0.
func computeROI(yearly []domain.YearResult, upfront float64, basis ROIBasis) float64 {
	denom := costBasis(yearly, upfront, basis)
	if denom == 0 {
		return 0
	}
	total := 0.0
	for _, yr := range yearly {
		total += yr.TotalValue
	}
	return total / denom
}

// computeSplit returns the ops/revenue percentage split of five-year value.
func computeSplit(yearly []domain.YearResult) domain.Split {
	var ops, revenue, total float64
	for _, yr := range yearly {
		ops += yr.OpsSavings
		revenue += yr.RevenueRetained
		total += yr.TotalValue
	}
	if total == 0 {
		return domain.Split{}
	}
	return domain.Split{
		OpsSavings:      100 * ops / total,
		RevenueRetained: 100 * revenue / total,
	}
}
