// Package normalize coerces raw row fields into the typed SaleRecord
// projection. Failures are isolated per field: a value that cannot be
// parsed is marked absent and the record is still emitted, degraded. The
// normalization functions are idempotent, so re-normalizing an already
// clean value yields the same result.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"watchdog/internal/ingest"
	"watchdog/pkg/contracts/domain"
)

// Column aliases, first match wins. Uploads come from several CRM exports
// that name the same field differently.
var (
	repColumns        = []string{"sales_rep_name", "sales_rep", "salesperson", "rep_name"}
	leadSourceColumns = []string{"lead_source", "source"}
	makeColumns       = []string{"vehicle_make", "make"}
	modelColumns      = []string{"vehicle_model", "model"}
	yearColumns       = []string{"vehicle_year", "year"}
	listingColumns    = []string{"listing_price", "list_price", "asking_price"}
	soldPriceColumns  = []string{"sold_price", "selling_price", "sale_price"}
	profitColumns     = []string{"profit", "gross_profit", "total_gross"}
	soldDateColumns   = []string{"sold_date", "sale_date", "date_sold", "solddate", "date"}
	daysColumns       = []string{"days_to_close", "days_in_stock"}
)

// dateFormats are tried in order; the first successful parse wins.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"01-02-2006",
	"02 Jan 2006",
	time.RFC3339,
}

// Record maps one raw row to a typed SaleRecord. It never fails; malformed
// fields degrade to their absent markers individually.
func Record(row ingest.Row) domain.SaleRecord {
	return domain.SaleRecord{
		SalesRep:     Identifier(pick(row, repColumns)),
		LeadSource:   Identifier(pick(row, leadSourceColumns)),
		VehicleMake:  Identifier(pick(row, makeColumns)),
		VehicleModel: Identifier(pick(row, modelColumns)),
		VehicleYear:  Year(pick(row, yearColumns)),
		ListingPrice: Money(pick(row, listingColumns)),
		SoldPrice:    Money(pick(row, soldPriceColumns)),
		Profit:       Money(pick(row, profitColumns)),
		SoldDate:     Date(pick(row, soldDateColumns)),
		DaysToClose:  Days(pick(row, daysColumns)),
	}
}

// Records drains a row stream into typed records, preserving input order.
// The only error it can return is a file-level read failure from the stream.
func Records(rows *ingest.Rows) ([]domain.SaleRecord, error) {
	var records []domain.SaleRecord
	for rows.Next() {
		records = append(records, Record(rows.Row()))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// pick returns the first non-empty value among the aliased columns
func pick(row ingest.Row, columns []string) string {
	for _, col := range columns {
		if v, ok := row.Fields[col]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Money parses a monetary string. Currency symbols, thousands separators
// and surrounding whitespace are stripped; accounting-style parentheses
// mean a negative amount (a loss). Empty or unparsable input is absent,
// never zero.
func Money(s string) domain.Money {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Money{}
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return domain.Money{}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.Money{}
	}
	if negative {
		v = -v
	}
	return domain.MoneyOf(v)
}

// Date tries the known formats in order; failure yields an absent date, not
// an error, so a bad date never drops the record.
func Date(s string) domain.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Date{}
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.DateOf(t)
		}
	}
	return domain.Date{}
}

// Days parses a numeric day count. It is deliberately not date parsing:
// "30" is thirty days, never a calendar value.
func Days(s string) domain.Days {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return domain.Days{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.Days{}
	}
	return domain.DaysOf(v)
}

// Year parses a bare model year; zero means absent
func Year(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1900 || v > 2100 {
		return 0
	}
	return v
}

// Identifier trims a name or category for display. Original casing is
// preserved; grouping uses FoldKey.
func Identifier(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FoldKey returns the case-normalized grouping form of an identifier
func FoldKey(s string) string {
	return strings.ToLower(Identifier(s))
}
