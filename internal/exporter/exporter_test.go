package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"watchdog/internal/config"
	"watchdog/internal/insights"
	"watchdog/pkg/contracts/domain"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	paths, err := config.NewPaths(config.PathsConfig{
		DataDir: filepath.Join(t.TempDir(), "data"),
		LogsDir: filepath.Join(t.TempDir(), "logs"),
	})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())
	return paths
}

func testDataset() *domain.Dataset {
	sold, _ := time.Parse("2006-01-02", "2024-01-15")
	return &domain.Dataset{
		ID: "abc-123",
		Records: []domain.SaleRecord{
			{
				SalesRep: "Alice", LeadSource: "Website",
				VehicleMake: "Toyota", VehicleModel: "Camry", VehicleYear: 2021,
				ListingPrice: domain.MoneyOf(31000), SoldPrice: domain.MoneyOf(30000),
				Profit:   domain.MoneyOf(5000),
				SoldDate: domain.DateOf(sold), DaysToClose: domain.DaysOf(12),
			},
			{
				SalesRep: "Bob", LeadSource: "Radio",
				Profit: domain.MoneyOf(1500),
			},
		},
	}
}

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	err := writer.WriteSimpleCSV("out.csv", []string{"a", "b"}, [][]string{{"1", "2"}, {"3", "4"}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(paths.ReportsDir, "out.csv"))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "UTF-8 BOM for Excel")
	assert.Contains(t, string(data), "a,b\n1,2\n3,4\n")
}

func TestCSVWriter_Append(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	require.NoError(t, writer.WriteCSV("log.csv", WriteOptions{
		Headers: []string{"h1"},
		Records: [][]string{{"first"}},
	}))
	require.NoError(t, writer.WriteCSV("log.csv", WriteOptions{
		Records: [][]string{{"second"}},
		Append:  true,
	}))

	data, err := os.ReadFile(filepath.Join(paths.ReportsDir, "log.csv"))
	require.NoError(t, err)
	assert.Equal(t, "h1\nfirst\nsecond\n", string(data))
}

func TestReportExporter_ExportDataset(t *testing.T) {
	paths := testPaths(t)
	exp := NewReportExporter(paths)

	filename, err := exp.ExportDataset(testDataset())
	require.NoError(t, err)
	assert.Equal(t, "dataset_abc-123.csv", filename)

	data, err := os.ReadFile(filepath.Join(paths.ReportsDir, filename))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "sales_rep,lead_source,vehicle_make")
	assert.Contains(t, content, "Alice,Website,Toyota,Camry,2021,31000.00,30000.00,5000.00,2024-01-15,12")
	// Absent fields export as empty cells, never zeros
	assert.Contains(t, content, "Bob,Radio,,,,,,1500.00,,")
}

func TestReportExporter_ExportRankings(t *testing.T) {
	paths := testPaths(t)
	exp := NewReportExporter(paths)

	filename, err := exp.ExportRankings(testDataset())
	require.NoError(t, err)
	assert.Equal(t, "rankings_abc-123.xlsx", filename)

	f, err := excelize.OpenFile(filepath.Join(paths.ReportsDir, filename))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Sales Reps", "Lead Sources", "Vehicles"}, f.GetSheetList())

	name, err := f.GetCellValue("Sales Reps", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	rank, err := f.GetCellValue("Sales Reps", "A2")
	require.NoError(t, err)
	assert.Equal(t, "1", rank)
}

func TestChartWriter_Write(t *testing.T) {
	paths := testPaths(t)
	writer := NewChartWriter(paths)

	chart := &insights.ChartData{
		Title:  "Profit by Sales Representative",
		Type:   "bar",
		Labels: []string{"Alice", "Bob"},
		Datasets: []insights.ChartDataset{
			{Label: "Total Profit", Data: []float64{5000, 1500}},
		},
	}

	url, err := writer.Write("abc-123", "rep_performance", chart)
	require.NoError(t, err)
	assert.Equal(t, "/charts/abc-123_rep_performance.json", url)

	data, err := os.ReadFile(filepath.Join(paths.ChartsDir, "abc-123_rep_performance.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Profit by Sales Representative"`)
}

func TestChartWriter_WriteNilChart(t *testing.T) {
	writer := NewChartWriter(testPaths(t))

	url, err := writer.Write("abc-123", "general", nil)
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestChartWriter_Remove(t *testing.T) {
	paths := testPaths(t)
	writer := NewChartWriter(paths)

	chart := &insights.ChartData{Title: "t", Type: "bar"}
	_, err := writer.Write("abc-123", "one", chart)
	require.NoError(t, err)
	_, err = writer.Write("abc-123", "two", chart)
	require.NoError(t, err)
	_, err = writer.Write("other", "one", chart)
	require.NoError(t, err)

	require.NoError(t, writer.Remove("abc-123"))

	matches, err := filepath.Glob(filepath.Join(paths.ChartsDir, "*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Contains(t, matches[0], "other_one.json")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "13.40", formatMoney(domain.MoneyOf(13.4)))
	assert.Equal(t, "", formatMoney(domain.Money{}))

	d, _ := time.Parse("2006-01-02", "2024-03-09")
	assert.Equal(t, "2024-03-09", formatDate(domain.DateOf(d)))
	assert.Equal(t, "", formatDate(domain.Date{}))

	assert.Equal(t, "12.5", formatDays(domain.DaysOf(12.5)))
	assert.Equal(t, "12", formatDays(domain.DaysOf(12)))
	assert.Equal(t, "", formatDays(domain.Days{}))

	assert.Equal(t, "2021", formatYear(2021))
	assert.Equal(t, "", formatYear(0))
}
