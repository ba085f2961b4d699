package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"watchdog/internal/config"
	apierrors "watchdog/internal/errors"
	"watchdog/internal/exporter"
	"watchdog/internal/infrastructure"
	"watchdog/internal/insights"
	customMiddleware "watchdog/internal/middleware"
	"watchdog/internal/services"
	"watchdog/internal/store"
	handlers "watchdog/internal/transport/http"
	ws "watchdog/internal/websocket"
)

const (
	Version = "1.0.0"
	AppName = "Watchdog - Dealership Sales Analytics"
)

// BuildTime is set at compile time via -ldflags
var BuildTime = ""

// Application represents the main application container
type Application struct {
	Config       *config.Config
	Paths        *config.Paths
	Router       *chi.Mux
	Server       *http.Server
	Logger       *slog.Logger
	Metrics      *infrastructure.Metrics
	WebSocketHub *ws.Hub
	Store        *store.Store

	UploadService   *services.UploadService
	AnalysisService *services.AnalysisService
	ExportService   *services.ExportService
	HealthService   *services.HealthService

	errorHandler *apierrors.ErrorHandler
}

// NewApplication creates a new application instance with dependency injection
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	app := &Application{
		Config:  cfg,
		Paths:   paths,
		Logger:  logger,
		Metrics: infrastructure.NewMetrics(),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

func (a *Application) initializeServices() error {
	a.WebSocketHub = ws.NewHub(a.Logger)

	a.Store = store.New(a.Config.Uploads.TTL, a.Logger,
		store.WithCountCallback(func(n int) {
			a.Metrics.DatasetsActive.Set(float64(n))
		}))

	engine := insights.NewEngine(a.Logger)
	chartWriter := exporter.NewChartWriter(a.Paths)
	reportExporter := exporter.NewReportExporter(a.Paths)

	a.UploadService = services.NewUploadService(
		a.Store, a.Paths, a.WebSocketHub, a.Metrics,
		a.Config.Uploads.MaxSize, a.Logger)
	a.AnalysisService = services.NewAnalysisService(
		a.Store, engine, chartWriter, a.Metrics, a.Logger)
	a.ExportService = services.NewExportService(
		a.Store, reportExporter, a.Paths, a.Logger)
	a.HealthService = services.NewHealthService(
		Version, BuildTime, a.Store, a.WebSocketHub, a.Logger)

	a.errorHandler = apierrors.NewErrorHandler(a.Logger, false)
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)

	// WebSocket endpoint stays outside the middleware group; timeouts and
	// compression break long-lived connections.
	r.HandleFunc("/ws", a.handleWebSocket)

	// Prometheus endpoint, also outside the API middleware chain
	r.Handle("/metrics", a.Metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(a.Metrics.HTTPMiddleware)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
		a.setupStaticRoutes(r)
	})

	a.Router = r
}

func (a *Application) setupAPIRoutes(r chi.Router) {
	uploadHandler := handlers.NewUploadHandler(
		a.UploadService, a.Config.Uploads.MaxSize, a.Logger, a.errorHandler)
	analysisHandler := handlers.NewAnalysisHandler(
		a.AnalysisService, a.Logger, a.errorHandler)
	exportHandler := handlers.NewExportHandler(
		a.ExportService, a.Logger, a.errorHandler)
	healthHandler := handlers.NewHealthHandler(
		a.HealthService, a.Logger, a.errorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))

		r.Mount("/health", healthHandler.Routes())
		r.Mount("/uploads", uploadHandler.Routes())
		r.Mount("/analyze", analysisHandler.AnalyzeRoutes())
		r.Mount("/question", analysisHandler.QuestionRoutes())
		r.Mount("/reports", exportHandler.Routes())
	})
}

func (a *Application) setupStaticRoutes(r chi.Router) {
	// Chart documents referenced by analysis responses
	r.Route("/charts", func(r chi.Router) {
		r.Use(customMiddleware.Compress(5))
		r.Handle("/*", http.StripPrefix("/charts", http.FileServer(http.Dir(a.Paths.ChartsDir))))
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run starts the application and blocks until interrupted or a component
// fails. Shutdown is graceful within the configured timeout.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.WebSocketHub.Start()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("HTTP server listening",
			slog.String("addr", a.Server.Addr),
			slog.String("version", Version))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.Store.StartJanitor(gctx, a.Config.Uploads.JanitorInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown()
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.Logger.Info("Application shutdown complete")
	return nil
}

func (a *Application) shutdown() error {
	a.Logger.Info("Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.WebSocketHub.Stop()
	infrastructure.CloseLogFile()
	return nil
}

// handleWebSocket upgrades the connection and hands it to the hub
func (a *Application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	a.Logger.InfoContext(r.Context(), "WebSocket upgrade request",
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("origin", r.Header.Get("Origin")))

	upgrader := websocket.Upgrader{
		ReadBufferSize:   a.Config.WebSocket.ReadBufferSize,
		WriteBufferSize:  a.Config.WebSocket.WriteBufferSize,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      a.checkWebSocketOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.Logger.ErrorContext(r.Context(), "WebSocket upgrade failed",
			slog.String("error", err.Error()))
		return
	}

	ws.ServeWS(a.WebSocketHub, conn)
}

func (a *Application) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients have no Origin header
		return true
	}
	for _, allowed := range a.Config.Security.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	a.Logger.Warn("Rejected WebSocket origin", slog.String("origin", origin))
	return false
}
