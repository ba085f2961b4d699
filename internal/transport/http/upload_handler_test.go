package http

import (
	"bytes"
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "watchdog/internal/errors"
	"watchdog/internal/ingest"
	"watchdog/internal/store"
	"watchdog/pkg/contracts/domain"
)

// MockUploadService is a mock implementation of UploadServiceInterface
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Ingest(ctx context.Context, filename string, data []byte) (*domain.Dataset, error) {
	args := m.Called(filename, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

func (m *MockUploadService) Get(ctx context.Context, uploadID string) (*domain.Dataset, error) {
	args := m.Called(uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

func (m *MockUploadService) Delete(ctx context.Context, uploadID string) error {
	args := m.Called(uploadID)
	return args.Error(0)
}

func newUploadHandler(service UploadServiceInterface) *UploadHandler {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	errorHandler := apierrors.NewErrorHandler(logger, false)
	return NewUploadHandler(service, 1024*1024, logger, errorHandler)
}

func multipartBody(t *testing.T, fieldName, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUploadHandler_Upload(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockUploadService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful upload",
			setupMock: func(m *MockUploadService) {
				dataset := &domain.Dataset{
					ID:         "abc-123",
					Filename:   "sales.csv",
					RowCount:   2,
					UploadedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
				}
				m.On("Ingest", "sales.csv", mock.Anything).Return(dataset, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"upload_id":"abc-123"`,
		},
		{
			name: "unparseable file",
			setupMock: func(m *MockUploadService) {
				m.On("Ingest", "sales.csv", mock.Anything).
					Return(nil, &ingest.FormatError{Reason: "no recognizable sales columns"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "no recognizable sales columns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockUploadService)
			tt.setupMock(mockService)
			handler := newUploadHandler(mockService)

			body, contentType := multipartBody(t, "file", "sales.csv", "Sales Rep Name,Profit\nAlice,3000\n")
			req := httptest.NewRequest("POST", "/api/uploads", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			handler.Upload(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestUploadHandler_UploadMissingFile(t *testing.T) {
	mockService := new(MockUploadService)
	handler := newUploadHandler(mockService)

	body, contentType := multipartBody(t, "document", "sales.csv", "data")
	req := httptest.NewRequest("POST", "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "Ingest")
}

func TestUploadHandler_GetUpload(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockUploadService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "known upload",
			setupMock: func(m *MockUploadService) {
				m.On("Get", "abc-123").Return(&domain.Dataset{ID: "abc-123", Filename: "sales.csv"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"filename":"sales.csv"`,
		},
		{
			name: "unknown upload",
			setupMock: func(m *MockUploadService) {
				m.On("Get", "abc-123").Return(nil, store.ErrUnknownUpload)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockUploadService)
			tt.setupMock(mockService)
			handler := newUploadHandler(mockService)

			req := httptest.NewRequest("GET", "/abc-123", nil)
			rec := httptest.NewRecorder()
			handler.Routes().ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestUploadHandler_DeleteUpload(t *testing.T) {
	mockService := new(MockUploadService)
	mockService.On("Delete", "abc-123").Return(nil)
	handler := newUploadHandler(mockService)

	req := httptest.NewRequest("DELETE", "/abc-123", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"success"`)
	mockService.AssertExpectations(t)
}

func TestUploadHandler_DeleteUnknownUpload(t *testing.T) {
	mockService := new(MockUploadService)
	mockService.On("Delete", "abc-123").Return(store.ErrUnknownUpload)
	handler := newUploadHandler(mockService)

	req := httptest.NewRequest("DELETE", "/abc-123", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockService.AssertExpectations(t)
}
