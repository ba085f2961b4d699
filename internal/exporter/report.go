package exporter

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"watchdog/internal/analytics"
	"watchdog/internal/config"
	"watchdog/pkg/contracts/domain"
)

var datasetHeaders = []string{
	"sales_rep", "lead_source", "vehicle_make", "vehicle_model",
	"vehicle_year", "listing_price", "sold_price", "profit",
	"sold_date", "days_to_close",
}

// ReportExporter generates downloadable reports from an analyzed dataset
type ReportExporter struct {
	paths     *config.Paths
	csvWriter *CSVWriter
}

// NewReportExporter creates a new report exporter
func NewReportExporter(paths *config.Paths) *ReportExporter {
	return &ReportExporter{
		paths:     paths,
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportDataset writes the normalized records of a dataset as a CSV report.
// Returns the filename within the reports directory.
func (e *ReportExporter) ExportDataset(ds *domain.Dataset) (string, error) {
	records := make([][]string, 0, len(ds.Records))
	for _, rec := range ds.Records {
		records = append(records, recordToRow(rec))
	}

	filename := fmt.Sprintf("dataset_%s.csv", ds.ID)
	if err := e.csvWriter.WriteSimpleCSV(filename, datasetHeaders, records); err != nil {
		return "", fmt.Errorf("failed to export dataset %s: %w", ds.ID, err)
	}
	return filename, nil
}

// ExportRankings writes an XLSX workbook with one sheet per dimension,
// each holding the profit ranking for that dimension. Returns the
// filename within the reports directory.
func (e *ReportExporter) ExportRankings(ds *domain.Dataset) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name string
		dim  analytics.Dimension
	}{
		{"Sales Reps", analytics.DimensionSalesRep},
		{"Lead Sources", analytics.DimensionLeadSource},
		{"Vehicles", analytics.DimensionVehicle},
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return "", fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return "", fmt.Errorf("failed to create sheet %s: %w", sheet.name, err)
			}
		}

		ranking := analytics.Rank(ds.Records, sheet.dim, analytics.MetricProfit)
		if err := writeRankingSheet(f, sheet.name, ranking); err != nil {
			return "", err
		}
	}

	filename := fmt.Sprintf("rankings_%s.xlsx", ds.ID)
	fullPath := filepath.Join(e.paths.ReportsDir, filename)
	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return filename, nil
}

func writeRankingSheet(f *excelize.File, sheet string, ranking []analytics.Aggregate) error {
	headers := []string{"Rank", "Name", "Sales", "Total Profit", "Average Profit"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, agg := range ranking {
		values := []interface{}{row + 1, agg.Name, agg.Count, agg.Sum, agg.Mean}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	return nil
}

func recordToRow(rec domain.SaleRecord) []string {
	return []string{
		rec.SalesRep,
		rec.LeadSource,
		rec.VehicleMake,
		rec.VehicleModel,
		formatYear(rec.VehicleYear),
		formatMoney(rec.ListingPrice),
		formatMoney(rec.SoldPrice),
		formatMoney(rec.Profit),
		formatDate(rec.SoldDate),
		formatDays(rec.DaysToClose),
	}
}
