package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const simpleCSV = `Sales Rep Name,Lead Source,Sold Price,Profit,Sold Date
Alice Jones,Website,25000,3000,2024-01-15
Bob Smith,Walk-In,18000,1500,2024-01-16
`

func TestOpen_CSV(t *testing.T) {
	rows, err := Open([]byte(simpleCSV), "sales.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"sales_rep_name", "lead_source", "sold_price", "profit", "sold_date"}, rows.Columns())
	assert.Equal(t, []string{"Sales Rep Name", "Lead Source", "Sold Price", "Profit", "Sold Date"}, rows.Header())

	var count int
	for rows.Next() {
		row := rows.Row()
		assert.Equal(t, count, row.Index)
		assert.Len(t, row.Fields, 5)
		count++
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, 2, count)
}

func TestOpen_DelimiterSniffing(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "semicolon",
			data: "Sales Rep Name;Lead Source;Sold Price;Profit\nAlice;Website;25000;3000\n",
		},
		{
			name: "tab",
			data: "Sales Rep Name\tLead Source\tSold Price\tProfit\nAlice\tWebsite\t25000\t3000\n",
		},
		{
			name: "pipe",
			data: "Sales Rep Name|Lead Source|Sold Price|Profit\nAlice|Website|25000|3000\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Open([]byte(tt.data), "sales.csv")
			require.NoError(t, err)
			assert.Equal(t, []string{"sales_rep_name", "lead_source", "sold_price", "profit"}, rows.Columns())

			require.True(t, rows.Next())
			assert.Equal(t, "Alice", rows.Row().Fields["sales_rep_name"])
			assert.Equal(t, "3000", rows.Row().Fields["profit"])
		})
	}
}

func TestOpen_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Sales Rep Name", "Lead Source", "Sold Price", "Profit"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Alice", "Website", 25000, 3000}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := Open(buf.Bytes(), "sales.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"sales_rep_name", "lead_source", "sold_price", "profit"}, rows.Columns())

	require.True(t, rows.Next())
	assert.Equal(t, "Alice", rows.Row().Fields["sales_rep_name"])
	assert.False(t, rows.Next())
	require.NoError(t, rows.Err())
}

func TestOpen_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		reason string
	}{
		{
			name:   "empty file",
			data:   "",
			reason: "empty",
		},
		{
			name:   "whitespace only",
			data:   "   \n\n  ",
			reason: "empty",
		},
		{
			name:   "single column",
			data:   "Profit\n3000\n",
			reason: "two columns",
		},
		{
			name:   "unrecognizable schema",
			data:   "Foo,Bar,Baz\n1,2,3\n",
			reason: "no recognizable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open([]byte(tt.data), "sales.csv")
			require.Error(t, err)

			var formatErr *FormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Contains(t, formatErr.Reason, tt.reason)
		})
	}
}

func TestRows_SkipsBlankRows(t *testing.T) {
	data := "Sales Rep Name,Lead Source,Sold Price,Profit\nAlice,Website,25000,3000\n,,,\n\nBob,Walk-In,18000,1500\n"
	rows, err := Open([]byte(data), "sales.csv")
	require.NoError(t, err)

	var reps []string
	for rows.Next() {
		reps = append(reps, rows.Row().Fields["sales_rep_name"])
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"Alice", "Bob"}, reps)
}

func TestRows_PadsShortRecords(t *testing.T) {
	data := "Sales Rep Name,Lead Source,Sold Price,Profit\nAlice\n"
	rows, err := Open([]byte(data), "sales.csv")
	require.NoError(t, err)

	require.True(t, rows.Next())
	row := rows.Row()
	assert.Equal(t, "Alice", row.Fields["sales_rep_name"])
	assert.Equal(t, "", row.Fields["lead_source"])
	assert.Equal(t, "", row.Fields["sold_price"])
	assert.Equal(t, "", row.Fields["profit"])
}

func TestNormalizeColumnName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sales Rep Name", "sales_rep_name"},
		{"SoldPrice", "sold_price"},
		{"Lead-Source", "lead_source"},
		{"  profit  ", "profit"},
		{"Days To Close", "days_to_close"},
		{"GlobalCustomerID", "global_customer_id"},
		{"PROFIT", "profit"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeColumnName(tt.in))
		})
	}
}

func TestDetectSchema(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    Schema
	}{
		{
			name:    "simple",
			columns: []string{"sales_rep_name", "lead_source", "sold_price", "profit", "listing_price"},
			want:    SchemaSimple,
		},
		{
			name:    "detailed",
			columns: []string{"global_customer_id", "auto_lead_id", "sold_status", "sold_date", "lead_source"},
			want:    SchemaDetailed,
		},
		{
			name:    "unknown",
			columns: []string{"foo", "bar", "baz"},
			want:    SchemaUnknown,
		},
		{
			name:    "partial match below threshold",
			columns: []string{"lead_source", "foo", "bar"},
			want:    SchemaUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSchema(tt.columns))
		})
	}
}

func TestOpen_LargeQuotedFields(t *testing.T) {
	data := "Sales Rep Name,Lead Source,Sold Price,Profit\n\"Jones, Alice\",\"Web \"\"Direct\"\"\",25000,3000\n"
	rows, err := Open([]byte(data), "sales.csv")
	require.NoError(t, err)

	require.True(t, rows.Next())
	assert.Equal(t, "Jones, Alice", rows.Row().Fields["sales_rep_name"])
	assert.True(t, strings.Contains(rows.Row().Fields["lead_source"], "Direct"))
}
