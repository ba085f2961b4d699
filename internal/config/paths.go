package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths is the single source of truth for all file system paths used by the
// application. Everything lives under the configured data directory:
//
//	data/
//	  ├── uploads/   (raw uploaded files, one per upload ID)
//	  ├── charts/    (chart data documents referenced by insight responses)
//	  └── reports/   (exported CSV/XLSX aggregate reports)
//	logs/            (application logs)
type Paths struct {
	DataDir    string
	UploadsDir string
	ChartsDir  string
	ReportsDir string
	LogsDir    string
}

// NewPaths derives the full path set from configuration. Relative
// directories are resolved against the current working directory.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	dataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}
	logsDir, err := filepath.Abs(cfg.LogsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve logs dir: %w", err)
	}

	return &Paths{
		DataDir:    dataDir,
		UploadsDir: filepath.Join(dataDir, "uploads"),
		ChartsDir:  filepath.Join(dataDir, "charts"),
		ReportsDir: filepath.Join(dataDir, "reports"),
		LogsDir:    logsDir,
	}, nil
}

// EnsureDirectories creates all required directories if missing
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.UploadsDir, p.ChartsDir, p.ReportsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// UploadFile returns the on-disk path for a raw upload
func (p *Paths) UploadFile(uploadID, ext string) string {
	return filepath.Join(p.UploadsDir, uploadID+ext)
}

// FileExists checks whether a file exists and is not a directory
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
