// Package config provides configuration management for the sales analyzer.
//
// Configuration is assembled in three layers, each overriding the previous:
//
//  1. Default() values
//  2. A YAML file (SALES_CONFIG_FILE, or config.yaml / configs/config.yaml)
//  3. SALES_* environment variables
//
// Environment variables follow the struct layout, for example:
//
//	SALES_REPORT_FORMAT=csv
//	SALES_REPORT_TOP_BRANDS_OVERALL=20
//	SALES_SERVER_PORT=9090
//	SALES_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Validation
//
// Load validates the merged result with struct tags and returns an
// *errors.AppError of type CONFIG listing the failing fields.
//
// # Paths
//
// GetPaths resolves the configured directories against the working
// directory:
//
//	paths, _ := config.GetPaths(cfg.Paths)
//	reportPath := paths.GetReportPath(cfg.Report.OutputFileName())
//
// # Testing
//
// Use Default() for a fully valid configuration that needs no environment.
package config
