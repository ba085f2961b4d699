package http

import (
	"context"

	"watchdog/internal/services"
)

// AnalysisServiceInterface defines the interface for analysis operations
type AnalysisServiceInterface interface {
	Analyze(ctx context.Context, uploadID, intent string) (*services.AnalysisResult, error)
	Ask(ctx context.Context, uploadID, question string) (*services.AnalysisResult, error)
}
