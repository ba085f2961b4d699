package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"watchdog/internal/analytics"
	apierrors "watchdog/internal/errors"
	"watchdog/internal/insights"
	"watchdog/internal/services"
	"watchdog/internal/store"
)

// MockAnalysisService is a mock implementation of AnalysisServiceInterface
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, uploadID, intent string) (*services.AnalysisResult, error) {
	args := m.Called(uploadID, intent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AnalysisResult), args.Error(1)
}

func (m *MockAnalysisService) Ask(ctx context.Context, uploadID, question string) (*services.AnalysisResult, error) {
	args := m.Called(uploadID, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AnalysisResult), args.Error(1)
}

func newAnalysisHandler(service AnalysisServiceInterface) *AnalysisHandler {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	errorHandler := apierrors.NewErrorHandler(logger, false)
	return NewAnalysisHandler(service, logger, errorHandler)
}

func TestAnalysisHandler_Analyze(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockAnalysisService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "explicit intent",
			body: `{"intent":"rep_performance"}`,
			setupMock: func(m *MockAnalysisService) {
				result := &services.AnalysisResult{
					UploadID: "abc-123",
					Intent:   "rep_performance",
					Summary:  analytics.Summary{TotalRecords: 3},
				}
				m.On("Analyze", "abc-123", "rep_performance").Return(result, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"intent":"rep_performance"`,
		},
		{
			name: "empty body runs general analysis",
			body: "",
			setupMock: func(m *MockAnalysisService) {
				result := &services.AnalysisResult{UploadID: "abc-123", Intent: "general_analysis"}
				m.On("Analyze", "abc-123", "").Return(result, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"intent":"general_analysis"`,
		},
		{
			name: "unknown upload",
			body: "",
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", "abc-123", "").Return(nil, store.ErrUnknownUpload)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "expired",
		},
		{
			name:           "malformed json",
			body:           `{"intent":`,
			setupMock:      func(m *MockAnalysisService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "valid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAnalysisService)
			tt.setupMock(mockService)
			handler := newAnalysisHandler(mockService)

			req := httptest.NewRequest("POST", "/abc-123", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handler.AnalyzeRoutes().ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestAnalysisHandler_Question(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockAnalysisService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "answered question",
			body: `{"question":"Who is my top rep?"}`,
			setupMock: func(m *MockAnalysisService) {
				result := &services.AnalysisResult{
					UploadID: "abc-123",
					Intent:   "rep_performance",
					Answer:   "Your top performing sales representative is Alice.",
				}
				m.On("Ask", "abc-123", "Who is my top rep?").Return(result, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "Alice",
		},
		{
			name: "unrecognized question",
			body: `{"question":"tell me a joke"}`,
			setupMock: func(m *MockAnalysisService) {
				m.On("Ask", "abc-123", "tell me a joke").Return(nil, insights.ErrUnrecognizedQuestion)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "UNRECOGNIZED_QUESTION",
		},
		{
			name:           "missing question field",
			body:           `{}`,
			setupMock:      func(m *MockAnalysisService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Question must be",
		},
		{
			name: "unknown upload",
			body: `{"question":"Who is my top rep?"}`,
			setupMock: func(m *MockAnalysisService) {
				m.On("Ask", "abc-123", "Who is my top rep?").Return(nil, store.ErrUnknownUpload)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAnalysisService)
			tt.setupMock(mockService)
			handler := newAnalysisHandler(mockService)

			req := httptest.NewRequest("POST", "/abc-123", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handler.QuestionRoutes().ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
