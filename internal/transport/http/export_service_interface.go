package http

import (
	"context"

	"watchdog/internal/services"
)

// ExportServiceInterface defines the interface for report operations
type ExportServiceInterface interface {
	ExportCSV(ctx context.Context, uploadID string) (string, error)
	ExportRankings(ctx context.Context, uploadID string) (string, error)
	ListReports(ctx context.Context) ([]services.ReportInfo, error)
	ReportPath(name string) (string, error)
}
