package domain

import (
	"encoding/json"
	"fmt"
)

// HorizonYears is the projection length.
const HorizonYears = 5

// YearResult represents one projected year.
type YearResult struct {
	Year int `json:"year"` // 1-based

	// Minutes
	BaselineMinutes  float64 `json:"baseline_minutes"`
	AutomatedMinutes float64 `json:"automated_minutes"`
	HandoffMinutes   float64 `json:"handoff_minutes"`
	HumanMinutes     float64 `json:"human_minutes"`

	// Costs
	BaselineCost float64 `json:"baseline_cost"`
	AICost       float64 `json:"ai_cost"`

	// Value
	OpsSavings      float64 `json:"ops_savings"` // baseline_cost - ai_cost
	RevenueRetained float64 `json:"revenue_retained"`
	TotalValue      float64 `json:"total_value"` // ops_savings + revenue_retained
	CumulativeValue float64 `json:"cumulative_value"`
	DiscountedValue float64 `json:"discounted_value"`
}

// Split is the percentage breakdown of five-year value.
type Split struct {
	OpsSavings      float64 `json:"ops_savings"`
	RevenueRetained float64 `json:"revenue_retained"`
}

// TornadoEntry is one ranked sensitivity driver.
// It is encoded on the wire as a two-element [driver, impact] array.
type TornadoEntry struct {
	Driver string
	Impact float64 // signed NPV swing per unit of perturbation
}

// MarshalJSON encodes the entry as [driver, impact].
func (t TornadoEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{t.Driver, t.Impact})
}

// UnmarshalJSON decodes a [driver, impact] pair.
func (t *TornadoEntry) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("tornado entry: expected 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &t.Driver); err != nil {
		return fmt.Errorf("tornado entry driver: %w", err)
	}
	if err := json.Unmarshal(raw[1], &t.Impact); err != nil {
		return fmt.Errorf("tornado entry impact: %w", err)
	}
	return nil
}

// Bands holds pessimistic/base/optimistic NPV estimates.
type Bands struct {
	P10 float64 `json:"p10"`
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
}

// Results is the output of one calculation.
type Results struct {
	Yearly []YearResult `json:"yearly"`

	// PaybackMonths is nil when value never recovers within the horizon.
	PaybackMonths *float64 `json:"payback_months"`

	NPV5Y             float64        `json:"npv_5y"`
	ROI5Y             float64        `json:"roi_5y"` // multiple, 2.0 = 200%
	OpsVsRevenueSplit Split          `json:"ops_vs_revenue_split"`
	Tornado           []TornadoEntry `json:"tornado"`
	Scenarios         Bands          `json:"p10_p50_p90"`
}

// Clone returns a deep copy.
func (r *Results) Clone() *Results {
	if r == nil {
		return nil
	}
	out := *r
	if r.Yearly != nil {
		out.Yearly = make([]YearResult, len(r.Yearly))
		copy(out.Yearly, r.Yearly)
	}
	if r.Tornado != nil {
		out.Tornado = make([]TornadoEntry, len(r.Tornado))
		copy(out.Tornado, r.Tornado)
	}
	if r.PaybackMonths != nil {
		v := *r.PaybackMonths
		out.PaybackMonths = &v
	}
	return &out
}
