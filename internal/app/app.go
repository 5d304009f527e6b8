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
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"salescli/internal/config"
	"salescli/internal/dataset"
	apierrors "salescli/internal/errors"
	"salescli/internal/infrastructure"
	customMiddleware "salescli/internal/middleware"
	"salescli/internal/services"
	"salescli/internal/submission"
	handlers "salescli/internal/transport/http"
)

const (
	VERSION = "1.0.0"
	AppName = "salescli"
)

// Application represents the web service container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.Metrics
	Services      *ServiceContainer
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Dataset    *services.DatasetService
	Submission *services.SubmissionService
	Health     *services.HealthService
}

// NewServices wires the services described by cfg. It is shared by the web
// service and the command-line tools. metrics may be nil.
func NewServices(cfg *config.Config, paths *config.Paths, metrics *infrastructure.Metrics, logger *slog.Logger) (*ServiceContainer, error) {
	norm, err := submission.ParseNormalization(cfg.Ensemble.Normalization)
	if err != nil {
		return nil, fmt.Errorf("ensemble configuration: %w", err)
	}

	loader := dataset.NewLoader(logger, paths.DataDir).WithSpecFile(cfg.Dataset.SpecFile)
	partitioner := dataset.NewPartitioner(logger, dataset.Config{
		ValidationBlock: cfg.Dataset.ValidationBlock,
		TestBlock:       cfg.Dataset.TestBlock,
		ClipMin:         cfg.Dataset.ClipMin,
		ClipMax:         cfg.Dataset.ClipMax,
	})
	writer := submission.NewWriter(logger, submission.WriterConfig{
		DataFolder: paths.DataDir,
		ClipMin:    cfg.Dataset.ClipMin,
		ClipMax:    cfg.Dataset.ClipMax,
	})
	averager := submission.NewAverager(logger, writer, submission.AveragerConfig{
		Normalization:    norm,
		MaxParallelReads: cfg.Ensemble.MaxParallelReads,
	})

	return &ServiceContainer{
		Dataset:    services.NewDatasetService(loader, partitioner, metrics, logger),
		Submission: services.NewSubmissionService(averager, writer, cfg.Dataset.ClipMin, cfg.Dataset.ClipMax, metrics, logger),
		Health:     services.NewHealthService(VERSION, paths.DataDir, paths.OutputDir, logger),
	}, nil
}

// NewApplication creates the web service from an already loaded
// configuration and logger.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", VERSION))

	paths, err := cfg.Paths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	metrics, err := infrastructure.NewMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	svc, err := NewServices(cfg, paths, metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		Services:      svc,
	}
	a.setupRouter()
	a.createServer()
	return a, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	// RequestID → OTel → Logger → Recoverer → SecurityHeaders → RateLimit
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.NewOTelMiddleware(a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(errorHandler.Recoverer)
	r.Use(customMiddleware.SecurityHeaders)

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.RateLimit(a.Config.Security.RateLimit, a.Logger))
		a.setupAPIRoutes(r, errorHandler)
	})

	if a.OTelProviders != nil && a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	validator := customMiddleware.NewRequestValidator(a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout))

		healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)

		datasetHandler := handlers.NewDatasetHandler(a.Services.Dataset, errorHandler, a.Logger)
		r.Mount("/datasets", datasetHandler.Routes())

		submissionHandler := handlers.NewSubmissionHandler(a.Services.Submission, validator, errorHandler, a.Logger)
		r.Mount("/submissions", submissionHandler.Routes())
		r.Post("/scores", submissionHandler.Score)
	})
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

// Start starts the HTTP server in the background. A listen failure cancels
// ctx through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	status := a.Services.Health.HealthCheck(ctx)
	if status.Status != services.StatusHealthy {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.Any("checks", status.Checks))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
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

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
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
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	// The run context may already be cancelled; give shutdown its own.
	stopCtx, stopCancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout+time.Second)
	defer stopCancel()
	return a.Stop(stopCtx)
}
