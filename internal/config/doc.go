// Package config provides centralized configuration management for the
// sales toolkit. It loads configuration from multiple sources, validates it
// and resolves the directories the command-line tools and the web server
// read from and write to.
//
// # Configuration Sources
//
// Configuration is built in the following order, later sources winning:
//
//	1. Default values
//	2. A YAML file: $SALES_CONFIG_FILE, ./config.yaml or ./configs/config.yaml
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern SALES_<SECTION>_<FIELD>:
//
//	SALES_DATASET_DATA_DIR=/data/competition
//	SALES_DATASET_VALIDATION_BLOCK=23
//	SALES_ENSEMBLE_NORMALIZATION=weight_sum
//	SALES_LOGGING_LEVEL=debug
//	SALES_SERVER_PORT=8080
//
// # Validation
//
// Every section carries go-playground/validator tags. Load fails when a
// value is out of range, for example a test block that does not come after
// the validation block.
//
// # Path Management
//
// Paths resolves the data and output directories to absolute paths:
//
//	paths, err := cfg.Paths()
//	if err := paths.EnsureDirectories(); err != nil { ... }
package config
