package domain

// IntentRow represents one customer-call category in a deal.
type IntentRow struct {
	Name           string  `json:"name" yaml:"name"`                     // display label, not unique
	VolumeShare    float64 `json:"volume_share" yaml:"volume_share"`     // fraction of annual calls
	AvgMinutes     float64 `json:"avg_minutes" yaml:"avg_minutes"`       // human handle time end-to-end
	ContainmentM0  float64 `json:"containment_m0" yaml:"containment_m0"` // AI resolution rate at launch
	ContainmentM3  float64 `json:"containment_m3" yaml:"containment_m3"` // AI resolution rate from month 3
	HandoffMinutes float64 `json:"handoff_minutes" yaml:"handoff_minutes"`

	// RevenuePerAbandon is the value lost per abandoned call.
	// Nil means the intent carries no revenue protection value.
	RevenuePerAbandon *float64 `json:"revenue_per_abandon" yaml:"revenue_per_abandon,omitempty"`
}

// DealInputs holds the full set of business assumptions for one calculation.
type DealInputs struct {
	AnnualCalls float64     `json:"annual_calls" yaml:"annual_calls"` // year 1 volume
	Intents     []IntentRow `json:"intents" yaml:"intents"`

	// Unit costs per minute
	AgentCostPerMin  float64 `json:"agent_cost_per_min" yaml:"agent_cost_per_min"`
	TelcoCostPerMin  float64 `json:"telco_cost_per_min" yaml:"telco_cost_per_min"`
	PolyAICostPerMin float64 `json:"polyai_cost_per_min" yaml:"polyai_cost_per_min"`
	ACWMinutes       float64 `json:"acw_minutes" yaml:"acw_minutes"`

	// Abandonment
	BaselineAbandonRate float64 `json:"baseline_abandon_rate" yaml:"baseline_abandon_rate"`
	AIAbandonRate       float64 `json:"ai_abandon_rate" yaml:"ai_abandon_rate"`

	// Coverage
	BusinessHoursOnly bool    `json:"business_hours_only" yaml:"business_hours_only"`
	NightFraction     float64 `json:"night_fraction" yaml:"night_fraction"` // share of calls outside covered hours

	// Annual rates
	Inflation      float64 `json:"inflation" yaml:"inflation"`
	VolumeGrowth   float64 `json:"volume_growth" yaml:"volume_growth"`
	DiscountRate   float64 `json:"discount_rate" yaml:"discount_rate"`
	RiskAdjustment float64 `json:"risk_adjustment" yaml:"risk_adjustment"`

	// ImplementationCost is a one-time upfront fee. Zero when omitted.
	ImplementationCost float64 `json:"implementation_cost,omitempty" yaml:"implementation_cost,omitempty"`
}

// Clone returns a deep copy. Intent rows and their optional fields are not shared.
func (d DealInputs) Clone() DealInputs {
	out := d
	if d.Intents != nil {
		out.Intents = make([]IntentRow, len(d.Intents))
		for i, row := range d.Intents {
			if row.RevenuePerAbandon != nil {
				v := *row.RevenuePerAbandon
				row.RevenuePerAbandon = &v
			}
			out.Intents[i] = row
		}
	}
	return out
}

// Float64 returns a pointer to v, for optional fields.
func Float64(v float64) *float64 {
	return &v
}
