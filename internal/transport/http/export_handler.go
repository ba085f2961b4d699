package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "watchdog/internal/errors"
	"watchdog/internal/services"
	"watchdog/internal/store"
)

// ExportHandler handles report generation and download HTTP requests
type ExportHandler struct {
	service      ExportServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler with RFC 7807 error handling
func NewExportHandler(service ExportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListReports)
	r.Post("/{uploadID}/csv", h.ExportCSV)
	r.Post("/{uploadID}/rankings", h.ExportRankings)
	r.Get("/download/{filename}", h.DownloadReport)

	return r
}

// ListReports handles GET /api/reports
func (h *ExportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListReports(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoReportsFound) {
			h.errorHandler.HandleError(w, r, apierrors.New(
				http.StatusNotFound,
				"NO_REPORTS_FOUND",
				"No reports available",
			))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   reports,
		"count":  len(reports),
	})
}

// ExportCSV handles POST /api/reports/{uploadID}/csv
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.service.ExportCSV)
}

// ExportRankings handles POST /api/reports/{uploadID}/rankings
func (h *ExportHandler) ExportRankings(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.service.ExportRankings)
}

// DownloadReport handles GET /api/reports/download/{filename}
func (h *ExportHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	path, err := h.service.ReportPath(filename)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidReport):
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filename", "Invalid report name"))
		case errors.Is(err, services.ErrReportNotFound):
			h.errorHandler.HandleError(w, r, apierrors.New(
				http.StatusNotFound,
				"REPORT_NOT_FOUND",
				"Report not found",
			))
		default:
			h.errorHandler.HandleError(w, r, err)
		}
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	http.ServeFile(w, r, path)
}

func (h *ExportHandler) export(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, uploadID string) (string, error)) {
	reqID := middleware.GetReqID(r.Context())
	uploadID := chi.URLParam(r, "uploadID")

	filename, err := fn(r.Context(), uploadID)
	if err != nil {
		if errors.Is(err, store.ErrUnknownUpload) {
			h.errorHandler.HandleError(w, r, apierrors.UnknownUploadError(uploadID))
			return
		}
		h.logger.ErrorContext(r.Context(), "export failed",
			slog.String("error", err.Error()),
			slog.String("upload_id", uploadID),
			slog.String("request_id", reqID))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]string{
			"report":       filename,
			"download_url": "/api/reports/download/" + filename,
		},
	})
}
