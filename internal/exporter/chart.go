package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"watchdog/internal/config"
	"watchdog/internal/insights"
)

// ChartWriter persists chart data documents so API responses can reference
// them by URL instead of inlining them into every payload.
type ChartWriter struct {
	paths *config.Paths
}

// NewChartWriter creates a chart writer
func NewChartWriter(paths *config.Paths) *ChartWriter {
	return &ChartWriter{paths: paths}
}

// Write stores a chart document for an upload and returns the URL path
// the HTTP layer serves it under, e.g. "/charts/<uploadID>_profit.json".
func (w *ChartWriter) Write(uploadID, name string, chart *insights.ChartData) (string, error) {
	if chart == nil {
		return "", nil
	}

	data, err := json.MarshalIndent(chart, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode chart: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.json", uploadID, name)
	fullPath := filepath.Join(w.paths.ChartsDir, filename)
	if err := os.MkdirAll(w.paths.ChartsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create charts directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write chart file: %w", err)
	}

	return "/charts/" + filename, nil
}

// Remove deletes all chart documents for an upload. Missing files are not
// an error.
func (w *ChartWriter) Remove(uploadID string) error {
	pattern := filepath.Join(w.paths.ChartsDir, uploadID+"_*.json")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("failed to glob charts: %w", err)
	}
	for _, path := range matches {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove chart %s: %w", path, err)
		}
	}
	return nil
}
