package roi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"calcforge/internal/domain"
)

const eps = 1e-6

func diff(a, b float64) float64 { return math.Abs(a - b) }

func TestYearContainment(t *testing.T) {
	// Ramp 0.5 -> 0.8 over months 0-3: area 1.95 + 9 * 0.8 = 9.15, / 12
	if got := yearContainment(0.5, 0.8, 1); diff(got, 0.7625) > eps {
		t.Errorf("year 1 containment = %v, want 0.7625", got)
	}
	if got := yearContainment(0.5, 0.8, 2); got != 0.8 {
		t.Errorf("year 2 containment = %v, want 0.8", got)
	}
	// Declining ramp is valid input
	if got := yearContainment(0.8, 0.5, 1); diff(got, (1.5*0.8+10.5*0.5)/12) > eps {
		t.Errorf("declining ramp containment = %v", got)
	}
}

func TestProjectYear_Year1KnownValues(t *testing.T) {
	yr := ProjectYear(exampleInputs(), 1, DefaultConfig())

	// 100k calls, 70% covered, 76.25% of covered resolved by AI
	// resolved 53,375; handed off 16,625; uncovered 30,000
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"baseline_minutes", yr.BaselineMinutes, 400000},
		{"automated_minutes", yr.AutomatedMinutes, 160125},
		{"handoff_minutes", yr.HandoffMinutes, 16625},
		{"human_minutes", yr.HumanMinutes, 203125},
		{"baseline_cost", yr.BaselineCost, 340000},
		{"ai_cost", yr.AICost, 199877.5},
		{"ops_savings", yr.OpsSavings, 140122.5},
		{"revenue_retained", yr.RevenueRetained, 0},
		{"total_value", yr.TotalValue, 140122.5},
		{"discounted_value", yr.DiscountedValue, 140122.5 / 1.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff(tt.got, tt.want) > eps {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestProjectYear_Year2GrowthAndInflation(t *testing.T) {
	yr := ProjectYear(exampleInputs(), 2, DefaultConfig())

	// 105k calls at steady-state containment 0.8, costs inflated 3%
	assert.InDelta(t, 420000, yr.BaselineMinutes, eps)
	assert.InDelta(t, 176400, yr.AutomatedMinutes, eps)
	assert.InDelta(t, 14700, yr.HandoffMinutes, eps)
	assert.InDelta(t, 199500, yr.HumanMinutes, eps)
	assert.InDelta(t, 367710, yr.BaselineCost, eps)
	assert.InDelta(t, 205549.89, yr.AICost, eps)
	assert.InDelta(t, 162160.11/math.Pow(1.2, 2), yr.DiscountedValue, eps)
}

func TestProjectYear_FullCoverage(t *testing.T) {
	in := exampleInputs()
	in.BusinessHoursOnly = false

	yr := ProjectYear(in, 2, DefaultConfig())

	// No uncovered calls: every human minute comes from handoffs.
	calls := 105000.0
	handedOff := calls * 0.2
	assert.InDelta(t, handedOff*(3+1+1), yr.HumanMinutes, eps)
	assert.InDelta(t, calls*0.8*3, yr.AutomatedMinutes, eps)
}

func TestProjectYear_NightFractionIgnoredWithoutBusinessHours(t *testing.T) {
	in := exampleInputs()
	in.BusinessHoursOnly = false
	a := ProjectYear(in, 1, DefaultConfig())

	in.NightFraction = 0.9
	b := ProjectYear(in, 1, DefaultConfig())

	assert.Equal(t, a, b)
}

func TestProjectYear_RevenueRetained(t *testing.T) {
	in := exampleInputs()
	in.Intents[0].RevenuePerAbandon = domain.Float64(50)

	yr := ProjectYear(in, 1, DefaultConfig())

	// (0.15 - 0.08) * 100,000 calls * 50
	assert.InDelta(t, 350000, yr.RevenueRetained, eps)
	assert.InDelta(t, yr.OpsSavings+350000, yr.TotalValue, eps)
}

func TestProjectYear_NegativeRevenuePropagates(t *testing.T) {
	in := exampleInputs()
	in.Intents[0].RevenuePerAbandon = domain.Float64(50)
	in.AIAbandonRate = 0.20 // worse than baseline

	yr := ProjectYear(in, 1, DefaultConfig())

	assert.InDelta(t, -0.05*100000*50, yr.RevenueRetained, eps)
}

func TestProjectYear_ContainmentHaircut(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RiskTreatment = RiskContainmentHaircut

	yr := ProjectYear(exampleInputs(), 2, cfg)

	// Containment 0.8 * 0.9 = 0.72, discounting at 10% only
	assert.InDelta(t, 73500*0.72*3, yr.AutomatedMinutes, eps)
	assert.InDelta(t, yr.TotalValue/math.Pow(1.1, 2), yr.DiscountedValue, eps)
}

func TestProject_MonotonicInContainment(t *testing.T) {
	cfg := DefaultConfig()
	var prev []domain.YearResult

	for step := 0; step <= 10; step++ {
		in := multiIntentInputs()
		for i := range in.Intents {
			in.Intents[i].ContainmentM3 = float64(step) / 10
		}
		yearly := Project(in, cfg)

		if prev != nil {
			for y := range yearly {
				if yearly[y].OpsSavings < prev[y].OpsSavings-eps {
					t.Errorf("containment_m3=%.1f year %d: ops_savings decreased from %v to %v",
						float64(step)/10, y+1, prev[y].OpsSavings, yearly[y].OpsSavings)
				}
			}
		}
		prev = yearly
	}
}
