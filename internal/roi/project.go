package roi

import (
	"math"

	"calcforge/internal/domain"
)

// rampMonths is how long containment takes to climb from m0 to m3.
const rampMonths = 3.0

// yearContainment returns the time-weighted average containment for a year.
// Containment ramps linearly from m0 at month 0 to m3 at month 3 and holds at m3.
func yearContainment(m0, m3 float64, year int) float64 {
	if year > 1 {
		return m3
	}
	rampArea := rampMonths * (m0 + m3) / 2
	return (rampArea + (12-rampMonths)*m3) / 12
}

// coverage is the share of calls that reach the AI.
func coverage(in domain.DealInputs) float64 {
	if in.BusinessHoursOnly {
		return 1 - in.NightFraction
	}
	return 1
}

// discountFactor is the present-value divisor for a year.
func discountFactor(in domain.DealInputs, cfg Config, year int) float64 {
	rate := in.DiscountRate
	if cfg.RiskTreatment == RiskDiscountSpread {
		rate += in.RiskAdjustment
	}
	return math.Pow(1+rate, float64(year))
}

// ProjectYear computes one YearResult (year is 1-based).
// CumulativeValue is left at zero; see Project.
func ProjectYear(in domain.DealInputs, year int, cfg Config) domain.YearResult {
	yearsElapsed := float64(year - 1)
	calls := in.AnnualCalls * math.Pow(1+in.VolumeGrowth, yearsElapsed)
	inflation := math.Pow(1+in.Inflation, yearsElapsed)

	humanRate := (in.AgentCostPerMin + in.TelcoCostPerMin) * inflation
	aiRate := (in.PolyAICostPerMin + in.TelcoCostPerMin) * inflation

	haircut := 1.0
	if cfg.RiskTreatment == RiskContainmentHaircut {
		haircut = 1 - in.RiskAdjustment
	}
	cov := coverage(in)
	abandonDelta := in.BaselineAbandonRate - in.AIAbandonRate

	yr := domain.YearResult{Year: year}
	for _, row := range in.Intents {
		intentCalls := calls * row.VolumeShare
		covered := intentCalls * cov
		uncovered := intentCalls - covered

		k := clamp01(yearContainment(row.ContainmentM0, row.ContainmentM3, year) * haircut)
		resolved := covered * k
		handedOff := covered - resolved

		yr.BaselineMinutes += intentCalls * (row.AvgMinutes + in.ACWMinutes)
		yr.AutomatedMinutes += resolved * row.AvgMinutes
		yr.HandoffMinutes += handedOff * row.HandoffMinutes
		yr.HumanMinutes += handedOff*(row.AvgMinutes+row.HandoffMinutes+in.ACWMinutes) +
			uncovered*(row.AvgMinutes+in.ACWMinutes)

		if row.RevenuePerAbandon != nil {
			yr.RevenueRetained += abandonDelta * intentCalls * *row.RevenuePerAbandon
		}
	}

	yr.BaselineCost = yr.BaselineMinutes * humanRate
	yr.AICost = yr.AutomatedMinutes*aiRate + yr.HumanMinutes*humanRate
	yr.OpsSavings = yr.BaselineCost - yr.AICost
	yr.TotalValue = yr.OpsSavings + yr.RevenueRetained
	yr.DiscountedValue = yr.TotalValue / discountFactor(in, cfg, year)
	return yr
}

// Project computes every year of the horizon with running cumulative value.
func Project(in domain.DealInputs, cfg Config) []domain.YearResult {
	yearly := make([]domain.YearResult, domain.HorizonYears)
	for i := range yearly {
		yearly[i] = ProjectYear(in, i+1, cfg)
	}
	accumulate(yearly)
	return yearly
}

// npv projects inputs and returns only the five-year NPV.
func npv(in domain.DealInputs, cfg Config) float64 {
	total := 0.0
	for y := 1; y <= domain.HorizonYears; y++ {
		total += ProjectYear(in, y, cfg).DiscountedValue
	}
	return total
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
