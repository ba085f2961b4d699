package domain

import (
	"encoding/json"
	"time"
)

// Money is a monetary amount that may be absent. A value that failed
// normalization is recorded as absent (Valid=false), never coerced to zero.
type Money struct {
	Value float64
	Valid bool
}

// MoneyOf returns a present monetary amount.
func MoneyOf(v float64) Money {
	return Money{Value: v, Valid: true}
}

// MarshalJSON encodes absent values as null.
func (m Money) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON decodes null as absent.
func (m *Money) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Money{}
		return nil
	}
	m.Valid = true
	return json.Unmarshal(data, &m.Value)
}

// Date is a calendar timestamp that may be absent.
type Date struct {
	Value time.Time
	Valid bool
}

// DateOf returns a present date.
func DateOf(t time.Time) Date {
	return Date{Value: t, Valid: true}
}

// MarshalJSON encodes absent dates as null and present dates as YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Value.Format("2006-01-02"))
}

// UnmarshalJSON decodes null as absent.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	*d = DateOf(t)
	return nil
}

// Days is a numeric day count (e.g. days to close) that may be absent.
type Days struct {
	Value float64
	Valid bool
}

// DaysOf returns a present day count.
func DaysOf(v float64) Days {
	return Days{Value: v, Valid: true}
}

// MarshalJSON encodes absent day counts as null.
func (d Days) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Value)
}

// UnmarshalJSON decodes null as absent.
func (d *Days) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Days{}
		return nil
	}
	d.Valid = true
	return json.Unmarshal(data, &d.Value)
}

// SaleRecord is the typed projection of one uploaded row. Identifier fields
// keep their original casing for display; grouping uses a case-folded form
// computed at aggregation time.
type SaleRecord struct {
	SalesRep     string `json:"sales_rep,omitempty"`
	LeadSource   string `json:"lead_source,omitempty"`
	VehicleMake  string `json:"vehicle_make,omitempty"`
	VehicleModel string `json:"vehicle_model,omitempty"`
	VehicleYear  int    `json:"vehicle_year,omitempty"`

	ListingPrice Money `json:"listing_price"`
	SoldPrice    Money `json:"sold_price"`
	Profit       Money `json:"profit"`

	SoldDate    Date `json:"sold_date"`
	DaysToClose Days `json:"days_to_close"`
}

// Vehicle returns the display form of the record's vehicle, combining make
// and model when both are present.
func (r SaleRecord) Vehicle() string {
	switch {
	case r.VehicleMake != "" && r.VehicleModel != "":
		return r.VehicleMake + " " + r.VehicleModel
	case r.VehicleModel != "":
		return r.VehicleModel
	default:
		return r.VehicleMake
	}
}
