package exporter

import (
	"fmt"
	"strconv"

	"watchdog/pkg/contracts/domain"
)

// formatMoney renders a monetary field with exactly 2 decimal places so
// values like 13.4 appear as 13.40. Absent values render as empty cells.
func formatMoney(m domain.Money) string {
	if !m.Valid {
		return ""
	}
	return fmt.Sprintf("%.2f", m.Value)
}

// formatDate renders a date field as ISO 8601, empty when absent
func formatDate(d domain.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Value.Format("2006-01-02")
}

// formatDays renders a day count field, empty when absent
func formatDays(d domain.Days) string {
	if !d.Valid {
		return ""
	}
	return strconv.FormatFloat(d.Value, 'f', -1, 64)
}

// formatYear renders the vehicle year, empty when unknown
func formatYear(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
