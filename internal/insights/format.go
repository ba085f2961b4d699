package insights

import (
	"fmt"
	"strings"
)

// formatCurrency renders a dollar amount with thousands separators,
// e.g. 1234567.5 -> "$1,234,567.50". Negative values keep the sign in
// front of the dollar sign.
func formatCurrency(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "$" + b.String() + "." + parts[1]
	if neg {
		return "-" + out
	}
	return out
}

// formatPercent renders a ratio with one decimal, e.g. 12.34 -> "12.3%".
func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// formatDays renders an average day count with one decimal.
func formatDays(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
