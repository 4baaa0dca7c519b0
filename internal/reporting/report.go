package reporting

import (
	"time"

	"calcforge/internal/domain"
)

// Report represents a rendered ROI projection for one deal.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	Title       string
	Fingerprint string

	Inputs  domain.DealInputs
	Results *domain.Results

	// Headline KPIs
	Headline Headline

	// Sensitivity (top drivers, already ordered by the engine)
	Tornado []domain.TornadoEntry

	// Scenario bands relative to the base case
	Scenarios []ScenarioRow

	// Human readable assumption lines
	Assumptions []AssumptionRow
	Notes       []string
}

// Headline holds the KPI cards shown at the top of every export.
type Headline struct {
	TotalValue5Y       float64
	NPV5Y              float64
	ROI5YPercent       float64
	PaybackMonths      *float64 // nil = no payback within horizon
	OpsSavingsPct      float64
	RevenueRetainedPct float64
}

// ScenarioRow is one line of the scenario table.
type ScenarioRow struct {
	Label    string
	NPV      float64
	VsBase   float64 // percent vs P50, 0 when P50 is 0
	Baseline bool
}

// AssumptionRow is a labelled input shown under "Key Assumptions".
type AssumptionRow struct {
	Label string
	Value string
}
