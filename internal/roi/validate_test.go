package roi

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calcforge/internal/domain"
)

func TestValidate_Valid(t *testing.T) {
	require.NoError(t, Validate(exampleInputs()))
	require.NoError(t, Validate(multiIntentInputs()))
}

func TestValidate_ShareTolerance(t *testing.T) {
	tests := []struct {
		name    string
		shares  []float64
		wantErr bool
	}{
		{"exact", []float64{0.5, 0.5}, false},
		{"slightly under", []float64{0.5, 0.495}, false},
		{"slightly over", []float64{0.6, 0.405}, false},
		{"too low", []float64{0.5, 0.48}, true},
		{"too high", []float64{0.6, 0.42}, true},
		{"far off", []float64{0.2, 0.2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := exampleInputs()
			in.Intents = nil
			for _, s := range tt.shares {
				in.Intents = append(in.Intents, domain.IntentRow{Name: "x", VolumeShare: s, AvgMinutes: 2})
			}

			err := Validate(in)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, "intents", verr.Field)
			assert.Equal(t, ShareSumMessage, verr.Message)
		})
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.DealInputs)
		wantField string
	}{
		{"empty intents", func(d *domain.DealInputs) { d.Intents = nil }, "intents"},
		{"too many intents", func(d *domain.DealInputs) {
			d.Intents = make([]domain.IntentRow, MaxIntents+1)
			for i := range d.Intents {
				d.Intents[i].VolumeShare = 1.0 / float64(MaxIntents+1)
			}
		}, "intents"},
		{"negative calls", func(d *domain.DealInputs) { d.AnnualCalls = -1 }, "annual_calls"},
		{"nan calls", func(d *domain.DealInputs) { d.AnnualCalls = math.NaN() }, "annual_calls"},
		{"infinite cost", func(d *domain.DealInputs) { d.AgentCostPerMin = math.Inf(1) }, "agent_cost_per_min"},
		{"containment above one", func(d *domain.DealInputs) { d.Intents[0].ContainmentM3 = 1.2 }, "intents[0].containment_m3"},
		{"negative containment m0", func(d *domain.DealInputs) { d.Intents[0].ContainmentM0 = -0.1 }, "intents[0].containment_m0"},
		{"negative handoff", func(d *domain.DealInputs) { d.Intents[0].HandoffMinutes = -1 }, "intents[0].handoff_minutes"},
		{"negative avg minutes", func(d *domain.DealInputs) { d.Intents[0].AvgMinutes = -3 }, "intents[0].avg_minutes"},
		{"negative revenue", func(d *domain.DealInputs) { d.Intents[0].RevenuePerAbandon = domain.Float64(-5) }, "intents[0].revenue_per_abandon"},
		{"negative telco", func(d *domain.DealInputs) { d.TelcoCostPerMin = -0.01 }, "telco_cost_per_min"},
		{"negative polyai", func(d *domain.DealInputs) { d.PolyAICostPerMin = -0.01 }, "polyai_cost_per_min"},
		{"negative acw", func(d *domain.DealInputs) { d.ACWMinutes = -1 }, "acw_minutes"},
		{"abandon above one", func(d *domain.DealInputs) { d.BaselineAbandonRate = 1.5 }, "baseline_abandon_rate"},
		{"ai abandon negative", func(d *domain.DealInputs) { d.AIAbandonRate = -0.1 }, "ai_abandon_rate"},
		{"night fraction above one", func(d *domain.DealInputs) { d.NightFraction = 2 }, "night_fraction"},
		{"risk above one", func(d *domain.DealInputs) { d.RiskAdjustment = 1.1 }, "risk_adjustment"},
		{"negative discount", func(d *domain.DealInputs) { d.DiscountRate = -0.05 }, "discount_rate"},
		{"growth at minus one", func(d *domain.DealInputs) { d.VolumeGrowth = -1 }, "volume_growth"},
		{"inflation below minus one", func(d *domain.DealInputs) { d.Inflation = -2 }, "inflation"},
		{"negative implementation cost", func(d *domain.DealInputs) { d.ImplementationCost = -100 }, "implementation_cost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := exampleInputs()
			tt.mutate(&in)

			err := Validate(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInputs)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.NotEmpty(t, verr.Message)
		})
	}
}

func TestValidate_AcceptsDecliningContainment(t *testing.T) {
	in := exampleInputs()
	in.Intents[0].ContainmentM0 = 0.9
	in.Intents[0].ContainmentM3 = 0.4

	assert.NoError(t, Validate(in))
}

func TestValidate_AcceptsNegativeGrowth(t *testing.T) {
	in := exampleInputs()
	in.VolumeGrowth = -0.2
	in.Inflation = -0.01

	assert.NoError(t, Validate(in))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: "annual_calls", Message: "must not be negative, got -1"}
	assert.Equal(t, "annual_calls: must not be negative, got -1", err.Error())

	err = &ValidationError{Message: ShareSumMessage}
	assert.Equal(t, ShareSumMessage, err.Error())
}
