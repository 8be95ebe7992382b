// Package services implements the application layer of the sales analyzer.
// It sits between the command line and HTTP shells and the analysis core, so
// both shells run exactly the same pipeline.
//
// # Available Services
//
//	- ReportService: runs load, bucket, assemble, render and export
//	- HealthService: liveness and readiness checks for the web shell
//
// # Report runs
//
// Every run gets a run id (a UUID, reused as the log trace id), an
// OpenTelemetry span with one child span per stage, and run metrics:
//
//	svc, err := services.NewReportService(cfg, logger,
//	    services.WithTracer(providers.Tracer),
//	    services.WithMetrics(metrics))
//	result, err := svc.Run(ctx, services.RunRequest{InputPath: "data"})
//
// # Error Handling
//
// A failed run returns a single AppError. Its Stage field names the stage
// that failed (load, bucket, assemble, render or export) and its Type tells
// invalid input apart from export and render failures. No partial report
// file is left behind.
package services
