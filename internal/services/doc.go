// Package services implements the operations shared by the command-line
// tools and the HTTP API. It sits between the transports and the dataset,
// submission and scoring packages.
//
// # Architecture
//
// Services follow these principles:
//
//	1. Constructor injection of collaborators and *slog.Logger
//	2. context.Context as the first argument of every operation
//	3. One OpenTelemetry span and one operation metric per call
//	4. Domain errors returned unchanged so transports can classify them
//
// # Usage
//
//	loader := dataset.NewLoader(logger, cfg.Dataset.DataDir)
//	partitioner := dataset.NewPartitioner(logger, dataset.Config{...})
//	svc := services.NewDatasetService(loader, partitioner, metrics, logger)
//
//	summary, err := svc.Summarize(ctx, "v1", "all")
//	if err != nil {
//		return err
//	}
package services
