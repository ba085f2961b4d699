package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"watchdog/internal/store"
	ws "watchdog/internal/websocket"
)

// HealthService provides health check functionality
type HealthService struct {
	version      string
	buildTime    string
	store        *store.Store
	webSocketHub *ws.Hub
	startTime    time.Time
	logger       *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	BuildTime string                 `json:"build_time,omitempty"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// NewHealthService creates a new health service with injected dependencies
func NewHealthService(version, buildTime string, st *store.Store, hub *ws.Hub, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:      version,
		buildTime:    buildTime,
		store:        st,
		webSocketHub: hub,
		startTime:    time.Now(),
		logger:       logger.With(slog.String("component", "health_service")),
	}
}

// CheckHealth returns the current health status of the application
func (s *HealthService) CheckHealth(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		BuildTime: s.buildTime,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
		Services: map[string]interface{}{},
	}

	if s.store != nil {
		status.Services["store"] = map[string]interface{}{
			"status":          "healthy",
			"active_datasets": s.store.Len(),
		}
	}
	if s.webSocketHub != nil {
		status.Services["websocket"] = map[string]interface{}{
			"status":            "healthy",
			"connected_clients": s.webSocketHub.GetClientCount(),
		}
	}

	return status
}

// Version returns the application version string
func (s *HealthService) Version() string {
	return s.version
}
