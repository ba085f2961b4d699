package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"watchdog/internal/config"
	"watchdog/internal/exporter"
	"watchdog/internal/infrastructure"
	"watchdog/internal/ingest"
	"watchdog/internal/normalize"
	"watchdog/internal/store"
	"watchdog/pkg/contracts/domain"
	"watchdog/pkg/contracts/events"
)

// EventBroadcaster pushes upload lifecycle events to connected clients.
// Satisfied by the websocket hub; faked in tests.
type EventBroadcaster interface {
	BroadcastUploadEvent(event events.UploadEvent)
}

// UploadService ingests uploaded files into normalized datasets and manages
// their lifecycle in the upload store.
type UploadService struct {
	store       *store.Store
	paths       *config.Paths
	broadcaster EventBroadcaster
	metrics     *infrastructure.Metrics
	maxSize     int64
	logger      *slog.Logger
}

// NewUploadService creates an upload service. broadcaster and metrics may be
// nil; events and counters are then skipped.
func NewUploadService(st *store.Store, paths *config.Paths, broadcaster EventBroadcaster, metrics *infrastructure.Metrics, maxSize int64, logger *slog.Logger) *UploadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadService{
		store:       st,
		paths:       paths,
		broadcaster: broadcaster,
		metrics:     metrics,
		maxSize:     maxSize,
		logger:      logger.With(slog.String("component", "upload_service")),
	}
}

// Ingest parses and normalizes an uploaded file, stores the resulting
// dataset and returns it. The raw bytes are kept on disk under the upload ID
// so the original file can be re-examined later.
func (s *UploadService) Ingest(ctx context.Context, filename string, data []byte) (*domain.Dataset, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, ErrMissingFilename
	}
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return nil, ErrUploadTooLarge
	}

	uploadID := uuid.New().String()
	logger := s.logger.With(
		slog.String("upload_id", uploadID),
		slog.String("filename", filename),
	)
	logger.InfoContext(ctx, "ingesting upload", slog.Int("size_bytes", len(data)))

	s.emit(events.UploadEvent{
		Stage:     events.StageReceived,
		UploadID:  uploadID,
		Filename:  filename,
		Timestamp: time.Now().UTC(),
	})

	rows, err := ingest.Open(data, filename)
	if err != nil {
		logger.WarnContext(ctx, "upload rejected", slog.String("error", err.Error()))
		s.countUpload("rejected")
		s.emit(events.UploadEvent{
			Stage:     events.StageFailed,
			UploadID:  uploadID,
			Filename:  filename,
			Message:   err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return nil, err
	}

	s.emit(events.UploadEvent{
		Stage:     events.StageParsed,
		UploadID:  uploadID,
		Filename:  filename,
		Timestamp: time.Now().UTC(),
	})

	records, err := normalize.Records(rows)
	if err != nil {
		logger.WarnContext(ctx, "upload failed during normalization", slog.String("error", err.Error()))
		s.countUpload("rejected")
		s.emit(events.UploadEvent{
			Stage:     events.StageFailed,
			UploadID:  uploadID,
			Filename:  filename,
			Message:   err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return nil, err
	}

	s.emit(events.UploadEvent{
		Stage:     events.StageNormalized,
		UploadID:  uploadID,
		Filename:  filename,
		RowCount:  len(records),
		Timestamp: time.Now().UTC(),
	})

	if err := s.saveRaw(uploadID, filename, data); err != nil {
		// The dataset is already usable in memory; losing the raw copy is
		// not fatal for analysis.
		logger.WarnContext(ctx, "failed to keep raw upload", slog.String("error", err.Error()))
	}

	dataset := &domain.Dataset{
		ID:          uploadID,
		Filename:    filename,
		RowCount:    len(records),
		ColumnCount: len(rows.Columns()),
		Columns:     rows.Columns(),
		UploadedAt:  time.Now().UTC(),
		Records:     records,
	}
	s.store.Put(dataset)
	s.countUpload("accepted")

	s.emit(events.UploadEvent{
		Stage:     events.StageReady,
		UploadID:  uploadID,
		Filename:  filename,
		RowCount:  len(records),
		Timestamp: time.Now().UTC(),
	})

	logger.InfoContext(ctx, "upload ready",
		slog.Int("rows", dataset.RowCount),
		slog.Int("columns", dataset.ColumnCount))

	return dataset, nil
}

// Get returns the dataset for an upload ID
func (s *UploadService) Get(ctx context.Context, uploadID string) (*domain.Dataset, error) {
	return s.store.Get(uploadID)
}

// Delete removes a dataset and its raw file
func (s *UploadService) Delete(ctx context.Context, uploadID string) error {
	if err := s.store.Delete(uploadID); err != nil {
		return err
	}

	// Raw files use the original extension; remove whatever is there.
	matches, err := filepath.Glob(filepath.Join(s.paths.UploadsDir, uploadID+".*"))
	if err == nil {
		for _, path := range matches {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				s.logger.WarnContext(ctx, "failed to remove raw upload",
					slog.String("upload_id", uploadID),
					slog.String("error", err.Error()))
			}
		}
	}

	if err := exporter.NewChartWriter(s.paths).Remove(uploadID); err != nil {
		s.logger.WarnContext(ctx, "failed to remove charts",
			slog.String("upload_id", uploadID),
			slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "upload deleted", slog.String("upload_id", uploadID))
	return nil
}

func (s *UploadService) saveRaw(uploadID, filename string, data []byte) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".csv"
	}
	path := s.paths.UploadFile(uploadID, ext)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create uploads directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write raw upload: %w", err)
	}
	return nil
}

func (s *UploadService) emit(event events.UploadEvent) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastUploadEvent(event)
	}
}

func (s *UploadService) countUpload(outcome string) {
	if s.metrics != nil {
		s.metrics.UploadsTotal.WithLabelValues(outcome).Inc()
	}
}
