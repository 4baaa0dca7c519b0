package reporting

import (
	"fmt"
	"math"
	"time"

	"calcforge/internal/domain"
	"calcforge/internal/roi"
)

// DefaultTitle is used when Generate is called without a title.
const DefaultTitle = "Voice AI ROI Analysis"

// Generator produces reports from engine results.
type Generator struct {
	cfg roi.Config
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
// cfg is used to describe the risk and scenario assumptions.
func NewGenerator(cfg roi.Config) *Generator {
	return &Generator{
		cfg: cfg,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate assembles a Report. res must come from the same inputs.
func (g *Generator) Generate(title, fingerprint string, in domain.DealInputs, res *domain.Results) (*Report, error) {
	if res == nil {
		return nil, fmt.Errorf("generate report: nil results")
	}
	if title == "" {
		title = DefaultTitle
	}

	report := &Report{
		GeneratedAt: g.now(),
		Title:       title,
		Fingerprint: fingerprint,
		Inputs:      in.Clone(),
		Results:     res.Clone(),
		Tornado:     append([]domain.TornadoEntry(nil), res.Tornado...),
		Notes:       defaultNotes(),
	}

	report.Headline = buildHeadline(res)
	report.Scenarios = buildScenarioRows(res.Scenarios)
	report.Assumptions = g.buildAssumptions(in)

	return report, nil
}

func buildHeadline(res *domain.Results) Headline {
	var total float64
	for _, y := range res.Yearly {
		total += y.TotalValue
	}

	h := Headline{
		TotalValue5Y:       total,
		NPV5Y:              res.NPV5Y,
		ROI5YPercent:       res.ROI5Y * 100,
		OpsSavingsPct:      res.OpsVsRevenueSplit.OpsSavings,
		RevenueRetainedPct: res.OpsVsRevenueSplit.RevenueRetained,
	}
	if res.PaybackMonths != nil {
		v := *res.PaybackMonths
		h.PaybackMonths = &v
	}
	return h
}

func buildScenarioRows(b domain.Bands) []ScenarioRow {
	vsBase := func(v float64) float64 {
		if b.P50 == 0 {
			return 0
		}
		return (v - b.P50) / math.Abs(b.P50) * 100
	}
	return []ScenarioRow{
		{Label: "Conservative (P10)", NPV: b.P10, VsBase: vsBase(b.P10)},
		{Label: "Base Case (P50)", NPV: b.P50, Baseline: true},
		{Label: "Optimistic (P90)", NPV: b.P90, VsBase: vsBase(b.P90)},
	}
}

func (g *Generator) buildAssumptions(in domain.DealInputs) []AssumptionRow {
	rows := []AssumptionRow{
		{"Annual Calls", formatCount(in.AnnualCalls)},
		{"Agent Cost", fmt.Sprintf("£%.2f/min", in.AgentCostPerMin)},
		{"PolyAI Cost", fmt.Sprintf("£%.2f/min", in.PolyAICostPerMin)},
		{"Telephony Cost", fmt.Sprintf("£%.3f/min", in.TelcoCostPerMin)},
		{"After-Call Work", fmt.Sprintf("%.1f min", in.ACWMinutes)},
		{"Abandon Rate", fmt.Sprintf("%s → %s", formatPct(in.BaselineAbandonRate), formatPct(in.AIAbandonRate))},
		{"Inflation", formatPct(in.Inflation)},
		{"Volume Growth", formatPct(in.VolumeGrowth)},
		{"Discount Rate", formatPct(in.DiscountRate)},
		{"Risk Adjustment", fmt.Sprintf("%s (%s)", formatPct(in.RiskAdjustment), g.cfg.RiskTreatment)},
	}
	if in.BusinessHoursOnly {
		rows = append(rows, AssumptionRow{"Coverage", fmt.Sprintf("Business hours only, %s of calls out of hours", formatPct(in.NightFraction))})
	} else {
		rows = append(rows, AssumptionRow{"Coverage", "24/7"})
	}
	if in.ImplementationCost > 0 {
		rows = append(rows, AssumptionRow{"Implementation Cost", formatMoney(in.ImplementationCost)})
	}
	rows = append(rows,
		AssumptionRow{"ROI Basis", string(g.cfg.ROIBasis)},
		AssumptionRow{"Scenario Method", string(g.cfg.ScenarioMethod)},
	)
	return rows
}

func defaultNotes() []string {
	return []string{
		"Containment rates improve linearly from M0 to M3 over 3 months",
		"Costs include agent time, ACW, telephony, and PolyAI usage",
		"Revenue impact calculated from abandon rate reduction",
		"All values in GBP unless specified",
		"Not official PolyAI pricing",
	}
}
