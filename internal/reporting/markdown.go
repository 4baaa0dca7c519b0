package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeCell(r.Title)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.Fingerprint != "" {
		sb.WriteString(fmt.Sprintf("Fingerprint: `%s`\n\n", r.Fingerprint))
	}

	// Headline
	h := r.Headline
	sb.WriteString("## Headline Metrics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| 5-Year Total Value | %s |\n", formatMoney(h.TotalValue5Y)))
	sb.WriteString(fmt.Sprintf("| Payback Period | %s |\n", formatPayback(h.PaybackMonths)))
	sb.WriteString(fmt.Sprintf("| 5-Year NPV | %s |\n", formatMoney(h.NPV5Y)))
	sb.WriteString(fmt.Sprintf("| 5-Year ROI | %.0f%% |\n", h.ROI5YPercent))
	sb.WriteString("\n")

	// Value split
	sb.WriteString("## Value Breakdown\n\n")
	sb.WriteString(fmt.Sprintf("- Operational Savings: %.1f%%\n", h.OpsSavingsPct))
	sb.WriteString(fmt.Sprintf("- Revenue Protection: %.1f%%\n\n", h.RevenueRetainedPct))

	// Yearly projection
	sb.WriteString("## 5-Year Projection\n\n")
	if len(r.Results.Yearly) > 0 {
		sb.WriteString("| Year | Baseline Cost | AI Cost | Ops Savings | Revenue Retained | Total Value | Cumulative | Discounted |\n")
		sb.WriteString("|------|---------------|---------|-------------|------------------|-------------|------------|------------|\n")
		for _, y := range r.Results.Yearly {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s | %s |\n",
				y.Year,
				formatMoney(y.BaselineCost), formatMoney(y.AICost),
				formatMoney(y.OpsSavings), formatMoney(y.RevenueRetained),
				formatMoney(y.TotalValue), formatMoney(y.CumulativeValue),
				formatMoney(y.DiscountedValue)))
		}
	} else {
		sb.WriteString("No projection available.\n")
	}
	sb.WriteString("\n")

	// Tornado
	sb.WriteString("## Sensitivity Analysis\n\n")
	if len(r.Tornado) > 0 {
		sb.WriteString("| Driver | NPV Impact |\n")
		sb.WriteString("|--------|------------|\n")
		for _, t := range r.Tornado {
			sb.WriteString(fmt.Sprintf("| %s | ±%s |\n", escapeCell(t.Driver), formatMoney(absf(t.Impact))))
		}
	} else {
		sb.WriteString("No sensitivity data available.\n")
	}
	sb.WriteString("\n")

	// Scenarios
	sb.WriteString("## Scenario Analysis\n\n")
	sb.WriteString("| Scenario | NPV | vs Base Case |\n")
	sb.WriteString("|----------|-----|--------------|\n")
	for _, s := range r.Scenarios {
		vs := "-"
		if !s.Baseline {
			vs = fmt.Sprintf("%+.1f%%", s.VsBase)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", s.Label, formatMoney(s.NPV), vs))
	}
	sb.WriteString("\n")

	// Assumptions
	sb.WriteString("## Key Assumptions\n\n")
	sb.WriteString("| Assumption | Value |\n")
	sb.WriteString("|------------|-------|\n")
	for _, a := range r.Assumptions {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", a.Label, escapeCell(a.Value)))
	}
	sb.WriteString("\n")

	// Intent mix
	sb.WriteString("## Intent Mix\n\n")
	sb.WriteString("| Intent | Volume Share | Avg Minutes | Containment M0 | Containment M3 | Handoff Minutes |\n")
	sb.WriteString("|--------|--------------|-------------|----------------|----------------|-----------------|\n")
	for _, it := range r.Inputs.Intents {
		sb.WriteString(fmt.Sprintf("| %s | %s | %.1f | %s | %s | %.1f |\n",
			escapeCell(it.Name), formatPct(it.VolumeShare), it.AvgMinutes,
			formatPct(it.ContainmentM0), formatPct(it.ContainmentM3), it.HandoffMinutes))
	}
	sb.WriteString("\n")

	// Notes
	if len(r.Notes) > 0 {
		sb.WriteString("## Notes\n\n")
		for _, n := range r.Notes {
			sb.WriteString(fmt.Sprintf("- %s\n", n))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// escapeCell keeps user supplied text from breaking table rows.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
