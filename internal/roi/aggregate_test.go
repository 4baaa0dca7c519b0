package roi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calcforge/internal/domain"
)

func yearsWithTotals(totals ...float64) []domain.YearResult {
	yearly := make([]domain.YearResult, len(totals))
	for i, v := range totals {
		yearly[i] = domain.YearResult{Year: i + 1, TotalValue: v, OpsSavings: v}
	}
	accumulate(yearly)
	return yearly
}

func TestComputePayback(t *testing.T) {
	tests := []struct {
		name    string
		totals  []float64
		upfront float64
		want    *float64
	}{
		{"immediate with no upfront", []float64{100, 100, 100, 100, 100}, 0, domain.Float64(0)},
		{"half of year 1", []float64{100, 100, 100, 100, 100}, 50, domain.Float64(6)},
		{"exactly year 1", []float64{100, 100, 100, 100, 100}, 100, domain.Float64(12)},
		{"into year 2", []float64{100, 200, 200, 200, 200}, 150, domain.Float64(15)},
		{"negative first year", []float64{-120, 240, 240, 240, 240}, 0, domain.Float64(18)},
		{"never", []float64{-10, -10, -10, -10, -10}, 0, nil},
		{"not enough value", []float64{10, 10, 10, 10, 10}, 100, nil},
		{"all zero", []float64{0, 0, 0, 0, 0}, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computePayback(yearsWithTotals(tt.totals...), tt.upfront)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestComputeROI(t *testing.T) {
	yearly := yearsWithTotals(100, 100, 100, 100, 100)
	for i := range yearly {
		yearly[i].AICost = 50
	}

	assert.InDelta(t, 500.0/50, computeROI(yearly, 0, ROIBasisFirstYearAICost), 1e-9)
	assert.InDelta(t, 500.0/150, computeROI(yearly, 100, ROIBasisFirstYearAICost), 1e-9)
	assert.InDelta(t, 500.0/250, computeROI(yearly, 0, ROIBasisTotalAICost), 1e-9)
	assert.InDelta(t, 500.0/200, computeROI(yearly, 200, ROIBasisImplementationOnly), 1e-9)

	// Zero basis
	assert.Equal(t, 0.0, computeROI(yearly, 0, ROIBasisImplementationOnly))
}

func TestComputeSplit(t *testing.T) {
	yearly := []domain.YearResult{
		{OpsSavings: 60, RevenueRetained: 20, TotalValue: 80},
		{OpsSavings: 90, RevenueRetained: 30, TotalValue: 120},
	}

	split := computeSplit(yearly)
	assert.InDelta(t, 75.0, split.OpsSavings, 1e-9)
	assert.InDelta(t, 25.0, split.RevenueRetained, 1e-9)
}

func TestComputeSplit_ZeroTotal(t *testing.T) {
	yearly := []domain.YearResult{
		{OpsSavings: 50, RevenueRetained: -50, TotalValue: 0},
	}
	assert.Equal(t, domain.Split{}, computeSplit(yearly))
}

func TestComputeNPV(t *testing.T) {
	yearly := []domain.YearResult{{DiscountedValue: 10}, {DiscountedValue: 20.5}, {DiscountedValue: -5}}
	assert.InDelta(t, 25.5, computeNPV(yearly), 1e-9)
}

func TestComputePercentile(t *testing.T) {
	assert.Equal(t, 0.0, computePercentile(nil, 0.5))
	assert.Equal(t, 7.0, computePercentile([]float64{7}, 0.9))

	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	assert.InDelta(t, 2.0, computePercentile(sorted, 0.10), 1e-9)
	assert.InDelta(t, 6.0, computePercentile(sorted, 0.50), 1e-9)
	assert.InDelta(t, 10.0, computePercentile(sorted, 0.90), 1e-9)
	assert.InDelta(t, 11.0, computePercentile(sorted, 1.0), 1e-9)

	// Interpolated
	assert.InDelta(t, 1.5, computePercentile([]float64{1, 2}, 0.5), 1e-9)
}
