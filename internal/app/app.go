package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"retailreports/internal/config"
	apierrors "retailreports/internal/errors"
	"retailreports/internal/exporter"
	"retailreports/internal/history"
	"retailreports/internal/infrastructure"
	customMiddleware "retailreports/internal/middleware"
	"retailreports/internal/services"
	"retailreports/internal/storage"
	handlers "retailreports/internal/transport/http"
)

// Components is everything needed to export reports, shared by the HTTP
// server and the command line tool
type Components struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.ExportMetrics
	Store         storage.Store
	Ledger        *history.Ledger
	Engine        *exporter.Engine
	ExportService *services.ExportService
	HealthService *services.HealthService
}

// Application represents the report server
type Application struct {
	*Components

	Router       *chi.Mux
	Server       *http.Server
	ErrorHandler *apierrors.ErrorHandler
}

// NewComponents resolves paths, then wires telemetry, storage, the history
// ledger and the export services. Close must be called when done.
func NewComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, apierrors.NewConfigError("failed to resolve paths", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, apierrors.NewConfigError("failed to create directories", err)
	}
	paths.LogPathResolution(logger)

	c := &Components{
		Config: cfg,
		Paths:  paths,
		Logger: logger,
	}

	c.OTelProviders, err = infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	c.Metrics, err = infrastructure.NewExportMetrics(c.OTelProviders.Meter)
	if err != nil {
		c.Close(ctx)
		return nil, fmt.Errorf("failed to create export metrics: %w", err)
	}

	c.Store, err = newStore(ctx, cfg, paths, logger)
	if err != nil {
		c.Close(ctx)
		return nil, err
	}

	opts := []services.ExportServiceOption{
		services.WithTracer(c.OTelProviders.Tracer),
		services.WithMetrics(c.Metrics),
		services.WithTimeout(cfg.Export.Timeout),
	}

	var recorder services.HistoryRecorder
	if cfg.History.Enabled {
		c.Ledger, err = history.Open(ctx, paths.HistoryFile, logger)
		if err != nil {
			c.Close(ctx)
			return nil, err
		}
		recorder = c.Ledger
		opts = append(opts, services.WithHistory(c.Ledger))
	}

	c.Engine = exporter.NewEngine(c.Store,
		exporter.WithLogger(logger),
		exporter.WithCompression(cfg.Export.Compression),
		exporter.WithColumnWidth(cfg.Export.ColumnWidth),
	)
	c.ExportService = services.NewExportService(c.Engine, c.Store, logger, opts...)
	c.HealthService = services.NewHealthService(cfg.Telemetry.ServiceVersion, c.Store, recorder, logger)

	logger.InfoContext(ctx, "components initialized",
		slog.String("backend", cfg.Export.Backend),
		slog.Bool("history", cfg.History.Enabled),
		slog.Bool("telemetry", cfg.Telemetry.Enabled))

	return c, nil
}

// newStore picks the artifact store for the configured backend
func newStore(ctx context.Context, cfg *config.Config, paths *config.Paths, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Export.Backend {
	case config.BackendS3:
		return storage.NewS3StoreFromConfig(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.Prefix, logger)
	default:
		return storage.NewLocalStore(paths.ReportsDir, logger)
	}
}

// Close releases the ledger and flushes telemetry
func (c *Components) Close(ctx context.Context) error {
	var errs []error
	if c.Ledger != nil {
		if err := c.Ledger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close history ledger: %w", err))
		}
	}
	if c.OTelProviders != nil {
		if err := c.OTelProviders.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewApplication loads configuration and the logger, then builds the server
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(ctx, cfg, logger)
}

// New builds the server from an explicit configuration
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	components, err := NewComponents(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &Application{
		Components:   components,
		ErrorHandler: apierrors.NewErrorHandler(components.Logger, false),
	}
	app.setupRouter()
	app.createServer()

	return app, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
	r.Use(customMiddleware.SecurityHeaders)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)

		validator := customMiddleware.NewValidationMiddleware(a.Logger, a.ErrorHandler, a.Config.Server.MaxBodyBytes)
		reportHandler := handlers.NewReportHandler(a.ExportService, validator, a.Logger, a.ErrorHandler)

		r.Route("/reports", func(r chi.Router) {
			if a.Config.RateLimit.Enabled {
				limiter := customMiddleware.NewRateLimiter(a.Config.RateLimit.RPS, a.Config.RateLimit.Burst, a.Logger, a.ErrorHandler)
				r.Use(limiter.Handler)
			}
			r.Mount("/", reportHandler.Routes())
		})
	})

	r.Get("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP).GetMetrics)

	a.Router = r
}

// createServer creates the HTTP server
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

// Start starts serving in the background. A listener failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", a.Config.Telemetry.ServiceVersion),
		slog.Int("port", a.Config.Server.Port),
		slog.String("reports_dir", a.Paths.ReportsDir))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := a.Close(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error releasing components", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return infrastructure.CloseLogFile()
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
