package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchdog/internal/ingest"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  float64
		valid bool
	}{
		{"plain", "1234.50", 1234.50, true},
		{"dollar sign", "$1234.50", 1234.50, true},
		{"thousands separators", "$1,234,567.89", 1234567.89, true},
		{"spaces", " $1,234.50 ", 1234.50, true},
		{"integer", "25000", 25000, true},
		{"negative", "-500", -500, true},
		{"accounting parentheses", "($500.25)", -500.25, true},
		{"empty is absent", "", 0, false},
		{"whitespace is absent", "   ", 0, false},
		{"garbage is absent", "n/a", 0, false},
		{"lone symbol is absent", "$", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Money(tt.in)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.InDelta(t, tt.want, got.Value, 0.0001)
			}
		})
	}
}

func TestMoney_Idempotent(t *testing.T) {
	// Normalizing an already clean value must not change it
	first := Money("$1,234.50")
	require.True(t, first.Valid)

	second := Money("1234.50")
	assert.Equal(t, first, second)
}

func TestDate(t *testing.T) {
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		in    string
		valid bool
	}{
		{"iso", "2024-01-15", true},
		{"us slash", "01/15/2024", true},
		{"us slash short", "1/15/2024", true},
		{"year first slash", "2024/01/15", true},
		{"month name", "Jan 15, 2024", true},
		{"full month name", "January 15, 2024", true},
		{"dashes", "01-15-2024", true},
		{"day month year", "15 Jan 2024", true},
		{"empty", "", false},
		{"garbage", "not a date", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Date(tt.in)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.Equal(t, want.Year(), got.Value.Year())
				assert.Equal(t, want.Month(), got.Value.Month())
				assert.Equal(t, want.Day(), got.Value.Day())
			}
		})
	}
}

func TestDays(t *testing.T) {
	assert.Equal(t, 30.0, Days("30").Value)
	assert.True(t, Days("30").Valid)
	assert.Equal(t, 12.5, Days("12.5").Value)
	assert.False(t, Days("").Valid)
	assert.False(t, Days("soon").Valid)
	// Day counts are numbers, never calendar values
	assert.False(t, Days("2024-01-15").Valid)
}

func TestYear(t *testing.T) {
	assert.Equal(t, 2021, Year("2021"))
	assert.Equal(t, 0, Year(""))
	assert.Equal(t, 0, Year("abc"))
	assert.Equal(t, 0, Year("1850"))
	assert.Equal(t, 0, Year("2150"))
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "Alice Jones", Identifier("  Alice   Jones  "))
	assert.Equal(t, "", Identifier("   "))
	assert.Equal(t, "alice jones", FoldKey(" Alice   JONES "))
}

func TestRecord_AliasResolution(t *testing.T) {
	row := ingest.Row{
		Index: 0,
		Fields: map[string]string{
			"salesperson":   "Alice Jones",
			"source":        "Website",
			"make":          "Toyota",
			"model":         "Camry",
			"year":          "2021",
			"selling_price": "$25,000",
			"gross_profit":  "$3,000.50",
			"sale_date":     "2024-01-15",
			"days_in_stock": "42",
		},
	}

	rec := Record(row)
	assert.Equal(t, "Alice Jones", rec.SalesRep)
	assert.Equal(t, "Website", rec.LeadSource)
	assert.Equal(t, "Toyota", rec.VehicleMake)
	assert.Equal(t, "Camry", rec.VehicleModel)
	assert.Equal(t, 2021, rec.VehicleYear)
	assert.Equal(t, 25000.0, rec.SoldPrice.Value)
	assert.Equal(t, 3000.50, rec.Profit.Value)
	assert.True(t, rec.SoldDate.Valid)
	assert.Equal(t, 42.0, rec.DaysToClose.Value)
	assert.Equal(t, "Toyota Camry", rec.Vehicle())
}

func TestRecord_DegradesPerField(t *testing.T) {
	row := ingest.Row{
		Fields: map[string]string{
			"sales_rep_name": "Bob Smith",
			"sold_price":     "not a price",
			"profit":         "$1,500",
			"sold_date":      "soon",
		},
	}

	rec := Record(row)
	assert.Equal(t, "Bob Smith", rec.SalesRep)
	assert.False(t, rec.SoldPrice.Valid)
	assert.True(t, rec.Profit.Valid)
	assert.Equal(t, 1500.0, rec.Profit.Value)
	assert.False(t, rec.SoldDate.Valid)
}

func TestRecords_PreservesOrder(t *testing.T) {
	data := "Sales Rep Name,Lead Source,Sold Price,Profit\nAlice,Website,1000,100\nBob,Radio,2000,200\nCara,Walk-In,3000,300\n"
	rows, err := ingest.Open([]byte(data), "sales.csv")
	require.NoError(t, err)

	records, err := Records(rows)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Alice", records[0].SalesRep)
	assert.Equal(t, "Bob", records[1].SalesRep)
	assert.Equal(t, "Cara", records[2].SalesRep)
}
