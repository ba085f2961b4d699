package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "watchdog/internal/errors"
	"watchdog/internal/ingest"
	"watchdog/internal/services"
	"watchdog/internal/store"
)

// UploadHandler handles dataset upload HTTP requests with RFC 7807 compliance
type UploadHandler struct {
	service      UploadServiceInterface
	maxSize      int64
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewUploadHandler creates a new upload handler with RFC 7807 error handling
func NewUploadHandler(service UploadServiceInterface, maxSize int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *UploadHandler {
	return &UploadHandler{
		service:      service,
		maxSize:      maxSize,
		logger:       logger.With(slog.String("component", "upload_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the upload routes
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Upload)
	r.Route("/{uploadID}", func(r chi.Router) {
		r.Use(h.UploadCtx)
		r.Get("/", h.GetUpload)
		r.Delete("/", h.DeleteUpload)
	})

	return r
}

// UploadCtx middleware validates the upload ID parameter
func (h *UploadHandler) UploadCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uploadID := chi.URLParam(r, "uploadID")
		if uploadID == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("uploadID", "Upload ID is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Upload handles POST /api/uploads. Expects a multipart form with a single
// "file" field holding the CSV or XLSX payload.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	if h.maxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A file upload is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to read upload body",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "processing upload",
		slog.String("request_id", reqID),
		slog.String("filename", header.Filename),
		slog.Int("size_bytes", len(data)))

	dataset, err := h.service.Ingest(r.Context(), header.Filename, data)
	if err != nil {
		h.handleIngestError(w, r, err, reqID)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   dataset,
	})
}

// GetUpload handles GET /api/uploads/{uploadID}
func (h *UploadHandler) GetUpload(w http.ResponseWriter, r *http.Request) {
	uploadID := chi.URLParam(r, "uploadID")

	dataset, err := h.service.Get(r.Context(), uploadID)
	if err != nil {
		if errors.Is(err, store.ErrUnknownUpload) {
			h.errorHandler.HandleError(w, r, apierrors.UnknownUploadError(uploadID))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   dataset,
	})
}

// DeleteUpload handles DELETE /api/uploads/{uploadID}
func (h *UploadHandler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	uploadID := chi.URLParam(r, "uploadID")

	if err := h.service.Delete(r.Context(), uploadID); err != nil {
		if errors.Is(err, store.ErrUnknownUpload) {
			h.errorHandler.HandleError(w, r, apierrors.UnknownUploadError(uploadID))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
	})
}

func (h *UploadHandler) handleIngestError(w http.ResponseWriter, r *http.Request, err error, reqID string) {
	var formatErr *ingest.FormatError
	switch {
	case errors.As(err, &formatErr):
		h.logger.WarnContext(r.Context(), "upload rejected",
			slog.String("reason", formatErr.Reason),
			slog.String("request_id", reqID))
		h.errorHandler.HandleError(w, r, apierrors.UploadFormatError(formatErr))
	case errors.Is(err, services.ErrUploadTooLarge):
		h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
	case errors.Is(err, services.ErrEmptyUpload):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Uploaded file is empty"))
	case errors.Is(err, services.ErrMissingFilename):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Upload has no filename"))
	default:
		h.logger.ErrorContext(r.Context(), "upload failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.errorHandler.HandleError(w, r, err)
	}
}
