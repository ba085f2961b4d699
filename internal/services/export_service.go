package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"watchdog/internal/config"
	"watchdog/internal/exporter"
	"watchdog/internal/store"
)

// ReportInfo describes one generated report file
type ReportInfo struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	Modified  time.Time `json:"modified"`
}

// ExportService generates and serves downloadable reports
type ExportService struct {
	store    *store.Store
	exporter *exporter.ReportExporter
	paths    *config.Paths
	logger   *slog.Logger
}

// NewExportService creates an export service
func NewExportService(st *store.Store, exp *exporter.ReportExporter, paths *config.Paths, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{
		store:    st,
		exporter: exp,
		paths:    paths,
		logger:   logger.With(slog.String("component", "export_service")),
	}
}

// ExportCSV writes the normalized records of a dataset as a CSV report and
// returns the report filename.
func (s *ExportService) ExportCSV(ctx context.Context, uploadID string) (string, error) {
	dataset, err := s.store.Get(uploadID)
	if err != nil {
		return "", err
	}

	filename, err := s.exporter.ExportDataset(dataset)
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "dataset exported",
		slog.String("upload_id", uploadID),
		slog.String("report", filename))
	return filename, nil
}

// ExportRankings writes the per-dimension profit rankings of a dataset as an
// XLSX workbook and returns the report filename.
func (s *ExportService) ExportRankings(ctx context.Context, uploadID string) (string, error) {
	dataset, err := s.store.Get(uploadID)
	if err != nil {
		return "", err
	}

	filename, err := s.exporter.ExportRankings(dataset)
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "rankings exported",
		slog.String("upload_id", uploadID),
		slog.String("report", filename))
	return filename, nil
}

// ListReports returns the generated reports, newest first
func (s *ExportService) ListReports(ctx context.Context) ([]ReportInfo, error) {
	entries, err := os.ReadDir(s.paths.ReportsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoReportsFound
		}
		return nil, fmt.Errorf("failed to read reports directory: %w", err)
	}

	var reports []ReportInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		reports = append(reports, ReportInfo{
			Name:      entry.Name(),
			SizeBytes: info.Size(),
			Modified:  info.ModTime(),
		})
	}

	if len(reports) == 0 {
		return nil, ErrNoReportsFound
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Modified.After(reports[j].Modified)
	})
	return reports, nil
}

// ReportPath resolves a report name to its on-disk path. Names containing
// path separators or traversal elements are rejected.
func (s *ExportService) ReportPath(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", ErrInvalidReport
	}

	path := filepath.Join(s.paths.ReportsDir, name)
	if !config.FileExists(path) {
		return "", ErrReportNotFound
	}
	return path, nil
}
