package services

import (
	"context"
	"log/slog"

	"watchdog/internal/analytics"
	"watchdog/internal/exporter"
	"watchdog/internal/infrastructure"
	"watchdog/internal/insights"
	"watchdog/internal/store"
	"watchdog/pkg/contracts/domain"
)

// AnalysisResult is the service layer output for analyses and questions
type AnalysisResult struct {
	UploadID string              `json:"upload_id"`
	Intent   string              `json:"intent"`
	Answer   string              `json:"answer,omitempty"`
	Insights []domain.Insight    `json:"insights"`
	Summary  analytics.Summary   `json:"summary"`
	Chart    *insights.ChartData `json:"chart,omitempty"`
	ChartURL string              `json:"chart_url,omitempty"`
}

// AnalysisService runs analyses and answers questions against stored datasets
type AnalysisService struct {
	store   *store.Store
	engine  *insights.Engine
	charts  *exporter.ChartWriter
	metrics *infrastructure.Metrics
	logger  *slog.Logger
}

// NewAnalysisService creates an analysis service. charts and metrics may be
// nil; chart persistence and counters are then skipped.
func NewAnalysisService(st *store.Store, engine *insights.Engine, charts *exporter.ChartWriter, metrics *infrastructure.Metrics, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		store:   st,
		engine:  engine,
		charts:  charts,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "analysis_service")),
	}
}

// Analyze runs an analysis of the given intent over a stored dataset.
// An empty intent string runs the general analysis.
func (s *AnalysisService) Analyze(ctx context.Context, uploadID, intentName string) (*AnalysisResult, error) {
	dataset, err := s.store.Get(uploadID)
	if err != nil {
		return nil, err
	}

	intent := insights.ParseIntent(intentName)
	report, err := s.engine.Generate(dataset.Records, intent)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.AnalysesTotal.WithLabelValues(intent.String()).Inc()
	}

	s.logger.InfoContext(ctx, "analysis complete",
		slog.String("upload_id", uploadID),
		slog.String("intent", intent.String()),
		slog.Int("insights", len(report.Insights)))

	return s.buildResult(ctx, uploadID, report), nil
}

// Ask answers a free-form question about a stored dataset. Questions that
// match no known intent return insights.ErrUnrecognizedQuestion.
func (s *AnalysisService) Ask(ctx context.Context, uploadID, question string) (*AnalysisResult, error) {
	dataset, err := s.store.Get(uploadID)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.QuestionsTotal.Inc()
	}

	report, err := s.engine.Answer(dataset.Records, question)
	if err != nil {
		if err == insights.ErrUnrecognizedQuestion && s.metrics != nil {
			s.metrics.UnrecognizedQuestions.Inc()
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "question answered",
		slog.String("upload_id", uploadID),
		slog.String("intent", report.Intent.String()))

	return s.buildResult(ctx, uploadID, report), nil
}

func (s *AnalysisService) buildResult(ctx context.Context, uploadID string, report *insights.Report) *AnalysisResult {
	result := &AnalysisResult{
		UploadID: uploadID,
		Intent:   report.Intent.String(),
		Answer:   report.Answer,
		Insights: report.Insights,
		Summary:  report.Summary,
		Chart:    report.Chart,
	}

	if s.charts != nil && report.Chart != nil {
		url, err := s.charts.Write(uploadID, report.Intent.String(), report.Chart)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to persist chart",
				slog.String("upload_id", uploadID),
				slog.String("error", err.Error()))
		} else {
			result.ChartURL = url
		}
	}

	return result
}
