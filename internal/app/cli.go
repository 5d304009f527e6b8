package app

import (
	"fmt"
	"log/slog"

	"salescli/internal/config"
	"salescli/internal/infrastructure"
	"salescli/internal/validation"
)

// CLI bundles what every command-line tool needs before it can do work.
type CLI struct {
	Config   *config.Config
	Paths    *config.Paths
	Logger   *slog.Logger
	Services *ServiceContainer
	Files    *validation.FileValidator
}

// NewCLI loads the configuration, applies the data directory override when
// dataDir is not empty and wires the services. A configuration that cannot be
// loaded falls back to the defaults with a warning.
func NewCLI(component, dataDir string) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	if dataDir != "" {
		cfg.Dataset.DataDir = dataDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, component)

	paths, err := cfg.Paths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create required directories: %w", err)
	}

	svc, err := NewServices(cfg, paths, nil, logger)
	if err != nil {
		return nil, err
	}
	return &CLI{
		Config:   cfg,
		Paths:    paths,
		Logger:   logger,
		Services: svc,
		Files:    validation.NewFileValidator(logger),
	}, nil
}
