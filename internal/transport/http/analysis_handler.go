package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "watchdog/internal/errors"
	"watchdog/internal/insights"
	"watchdog/internal/store"
)

// AnalyzeRequest is the optional body for POST /api/analyze/{uploadID}
type AnalyzeRequest struct {
	Intent string `json:"intent" validate:"omitempty,max=64"`
}

// QuestionRequest is the body for POST /api/question/{uploadID}
type QuestionRequest struct {
	Question string `json:"question" validate:"required,min=2,max=500"`
}

// AnalysisHandler handles analysis and question HTTP requests
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler with RFC 7807 error handling
func NewAnalysisHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
	}
}

// AnalyzeRoutes returns the routes mounted under /api/analyze
func (h *AnalysisHandler) AnalyzeRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/{uploadID}", h.Analyze)
	return r
}

// QuestionRoutes returns the routes mounted under /api/question
func (h *AnalysisHandler) QuestionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/{uploadID}", h.Question)
	return r
}

// Analyze handles POST /api/analyze/{uploadID}. The body may carry an
// intent; an empty body runs the general analysis.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	uploadID := chi.URLParam(r, "uploadID")

	var req AnalyzeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("body", "Request body must be valid JSON"))
			return
		}
		if err := h.validate.Struct(&req); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("intent", "Intent must be at most 64 characters"))
			return
		}
	}

	h.logger.InfoContext(r.Context(), "running analysis",
		slog.String("request_id", reqID),
		slog.String("upload_id", uploadID),
		slog.String("intent", req.Intent))

	result, err := h.service.Analyze(r.Context(), uploadID, req.Intent)
	if err != nil {
		h.handleAnalysisError(w, r, err, uploadID, reqID)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// Question handles POST /api/question/{uploadID}
func (h *AnalysisHandler) Question(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	uploadID := chi.URLParam(r, "uploadID")

	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("body", "Request body must be valid JSON"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("question", "Question must be between 2 and 500 characters"))
		return
	}

	h.logger.InfoContext(r.Context(), "answering question",
		slog.String("request_id", reqID),
		slog.String("upload_id", uploadID))

	result, err := h.service.Ask(r.Context(), uploadID, req.Question)
	if err != nil {
		if errors.Is(err, insights.ErrUnrecognizedQuestion) {
			h.logger.InfoContext(r.Context(), "unrecognized question",
				slog.String("request_id", reqID),
				slog.String("upload_id", uploadID))
			h.errorHandler.HandleError(w, r, apierrors.UnrecognizedQuestionError(req.Question))
			return
		}
		h.handleAnalysisError(w, r, err, uploadID, reqID)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

func (h *AnalysisHandler) handleAnalysisError(w http.ResponseWriter, r *http.Request, err error, uploadID, reqID string) {
	if errors.Is(err, store.ErrUnknownUpload) {
		h.errorHandler.HandleError(w, r, apierrors.UnknownUploadError(uploadID))
		return
	}
	h.logger.ErrorContext(r.Context(), "analysis failed",
		slog.String("error", err.Error()),
		slog.String("upload_id", uploadID),
		slog.String("request_id", reqID))
	h.errorHandler.HandleError(w, r, err)
}
