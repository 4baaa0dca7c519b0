package roi

import (
	"fmt"
	"math"

	"calcforge/internal/domain"
)

// ShareSumMessage is reported when intent volume shares do not add up.
const ShareSumMessage = "Intent volume shares must sum to 100%"

// Validate checks inputs before projection.
// Returns nil or a *ValidationError for the first failed constraint.
func Validate(in domain.DealInputs) error {
	if len(in.Intents) == 0 {
		return invalid("intents", "At least one intent is required")
	}
	if len(in.Intents) > MaxIntents {
		return invalid("intents", "At most %d intents are supported, got %d", MaxIntents, len(in.Intents))
	}

	sum := 0.0
	for _, row := range in.Intents {
		sum += row.VolumeShare
	}
	if math.Abs(sum-1.0) > ShareTolerance {
		return &ValidationError{Field: "intents", Message: ShareSumMessage}
	}

	for _, f := range numericFields(in) {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return invalid(f.name, "must be a finite number")
		}
		switch f.kind {
		case kindRate:
			if f.value < 0 || f.value > 1 {
				return invalid(f.name, "must be between 0 and 1, got %v", f.value)
			}
		case kindNonNegative:
			if f.value < 0 {
				return invalid(f.name, "must not be negative, got %v", f.value)
			}
		case kindGrowth:
			if f.value <= -1 {
				return invalid(f.name, "must be greater than -1, got %v", f.value)
			}
		}
	}
	return nil
}

type fieldKind int

const (
	kindRate        fieldKind = iota // [0,1]
	kindNonNegative                  // >= 0
	kindGrowth                       // > -1
)

type numericField struct {
	name  string
	value float64
	kind  fieldKind
}

// numericFields lists every numeric input in wire order.
func numericFields(in domain.DealInputs) []numericField {
	fields := []numericField{
		{"annual_calls", in.AnnualCalls, kindNonNegative},
	}
	for i, row := range in.Intents {
		prefix := fmt.Sprintf("intents[%d].", i)
		fields = append(fields,
			numericField{prefix + "volume_share", row.VolumeShare, kindRate},
			numericField{prefix + "avg_minutes", row.AvgMinutes, kindNonNegative},
			numericField{prefix + "containment_m0", row.ContainmentM0, kindRate},
			numericField{prefix + "containment_m3", row.ContainmentM3, kindRate},
			numericField{prefix + "handoff_minutes", row.HandoffMinutes, kindNonNegative},
		)
		if row.RevenuePerAbandon != nil {
			fields = append(fields, numericField{prefix + "revenue_per_abandon", *row.RevenuePerAbandon, kindNonNegative})
		}
	}
	return append(fields,
		numericField{"agent_cost_per_min", in.AgentCostPerMin, kindNonNegative},
		numericField{"telco_cost_per_min", in.TelcoCostPerMin, kindNonNegative},
		numericField{"polyai_cost_per_min", in.PolyAICostPerMin, kindNonNegative},
		numericField{"acw_minutes", in.ACWMinutes, kindNonNegative},
		numericField{"baseline_abandon_rate", in.BaselineAbandonRate, kindRate},
		numericField{"ai_abandon_rate", in.AIAbandonRate, kindRate},
		numericField{"night_fraction", in.NightFraction, kindRate},
		numericField{"inflation", in.Inflation, kindGrowth},
		numericField{"volume_growth", in.VolumeGrowth, kindGrowth},
		numericField{"discount_rate", in.DiscountRate, kindNonNegative},
		numericField{"risk_adjustment", in.RiskAdjustment, kindRate},
		numericField{"implementation_cost", in.ImplementationCost, kindNonNegative},
	)
}
