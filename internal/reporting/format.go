package reporting

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxWhole is the largest magnitude rounded through int64.
const maxWhole = 1e18

// formatMoney renders v as whole pounds with thousands separators, e.g. £-1,234.
func formatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return "£" + sign + formatCount(v)
}

func formatCount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	if math.Abs(v) >= maxWhole {
		return strconv.FormatFloat(v, 'e', 3, 64)
	}
	return groupThousands(int64(math.Round(v)))
}

func formatPct(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 1, 64) + "%"
}

func formatPayback(months *float64) string {
	if months == nil {
		return "No payback"
	}
	return fmt.Sprintf("%.1f months", *months)
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var sb strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		sb.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}
