package reporting

import (
	"fmt"
	"strings"
)

// CSVHeader lists the export columns in order.
const CSVHeader = "Year,Baseline_Minutes,Automated_Minutes,Handoff_Minutes,Human_Minutes," +
	"Baseline_Cost_GBP,AI_Cost_GBP,Ops_Savings_GBP,Revenue_Retained_GBP,Total_Value_GBP," +
	"Cumulative_Value_GBP,Discounted_Value_GBP," +
	"Annual_Calls,Agent_Cost_Per_Min,PolyAI_Cost_Per_Min,Payback_Months,ROI_5Y_Percent,NPV_5Y_GBP"

// RenderCSV renders the yearly projection as CSV string.
// Deal-level columns repeat on every row; Payback_Months is empty when there is no payback.
func RenderCSV(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString(CSVHeader)
	sb.WriteString("\n")

	payback := ""
	if r.Headline.PaybackMonths != nil {
		payback = fmt.Sprintf("%.1f", *r.Headline.PaybackMonths)
	}

	// Rows
	for _, y := range r.Results.Yearly {
		sb.WriteString(fmt.Sprintf("%d,%.0f,%.0f,%.0f,%.0f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.0f,%.2f,%.2f,%s,%.1f,%.2f\n",
			y.Year,
			y.BaselineMinutes,
			y.AutomatedMinutes,
			y.HandoffMinutes,
			y.HumanMinutes,
			y.BaselineCost,
			y.AICost,
			y.OpsSavings,
			y.RevenueRetained,
			y.TotalValue,
			y.CumulativeValue,
			y.DiscountedValue,
			r.Inputs.AnnualCalls,
			r.Inputs.AgentCostPerMin,
			r.Inputs.PolyAICostPerMin,
			payback,
			r.Headline.ROI5YPercent,
			r.Headline.NPV5Y,
		))
	}

	return sb.String()
}
