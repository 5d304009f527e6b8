// Package app wires the salescli web service: configuration, logging,
// OpenTelemetry, services, the chi router and the HTTP server lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, config file and SALES_* variables
//	2. Initialize logging and observability
//	3. Initialize services with their dependencies
//	4. Set up HTTP handlers and middleware
//	5. Start the HTTP server and wait for a shutdown signal
//
// NewServices is exported separately so the command-line tools share the
// exact wiring of the web service.
//
// # Usage
//
//	a, err := app.NewApplication(cfg, logger)
//	if err != nil {
//		return err
//	}
//	return a.Run()
package app
