package http

import (
	"context"

	"watchdog/pkg/contracts/domain"
)

// UploadServiceInterface defines the interface for upload operations
type UploadServiceInterface interface {
	Ingest(ctx context.Context, filename string, data []byte) (*domain.Dataset, error)
	Get(ctx context.Context, uploadID string) (*domain.Dataset, error)
	Delete(ctx context.Context, uploadID string) error
}
