package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"salescli/internal/validation"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	dataDir   string
	outputDir string
	files     *validation.FileValidator
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Uptime    float64                  `json:"uptime_seconds"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Checks    map[string]ServiceHealth `json:"checks,omitempty"`
}

// ServiceHealth represents the health of one dependency
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health states.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
)

// NewHealthService creates a health service checking the given folders.
func NewHealthService(version, dataDir, outputDir string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("data_dir", dataDir),
		slog.String("output_dir", outputDir))

	return &HealthService{
		version:   version,
		dataDir:   dataDir,
		outputDir: outputDir,
		files:     validation.NewFileValidator(logger),
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck reports the service as healthy when every folder check passes
// and degraded otherwise. The process itself is always up when it answers.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Version:   hs.version,
		Uptime:    time.Since(hs.startTime).Seconds(),
		Runtime: map[string]interface{}{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
		Checks: map[string]ServiceHealth{
			"data":   hs.checkDataDir(),
			"output": hs.checkOutputDir(),
		},
	}

	for _, check := range status.Checks {
		if check.Status != StatusReady {
			status.Status = StatusDegraded
			break
		}
	}

	hs.logger.DebugContext(ctx, "health check completed",
		slog.String("status", status.Status),
		slog.Float64("uptime_seconds", status.Uptime))
	return status
}

func (hs *HealthService) checkDataDir() ServiceHealth {
	if err := hs.files.ValidateDataDirectory(hs.dataDir); err != nil {
		return ServiceHealth{Status: StatusNotReady, Message: err.Error()}
	}
	ids, err := hs.files.ListFeatureSets(hs.dataDir)
	if err != nil {
		return ServiceHealth{Status: StatusNotReady, Message: err.Error()}
	}
	return ServiceHealth{Status: StatusReady, Message: fmt.Sprintf("%d feature set(s) available", len(ids))}
}

func (hs *HealthService) checkOutputDir() ServiceHealth {
	if err := hs.files.ValidateOutputDirectory(hs.outputDir); err != nil {
		return ServiceHealth{Status: StatusNotReady, Message: err.Error()}
	}
	return ServiceHealth{Status: StatusReady}
}
