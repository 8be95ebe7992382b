// Package app wires the sales analyzer web shell: configuration, services,
// router and HTTP server, plus graceful shutdown.
//
// # Initialization Flow
//
//	1. The caller loads configuration and initializes logging and telemetry
//	2. NewApplication resolves paths and creates the output directory
//	3. Report and health services are created with the run metrics
//	4. The chi router is built with the middleware chain
//	   RequestID → RealIP → OTel → Logger → Recoverer → SecurityHeaders
//	5. Run listens and serves until its context is cancelled
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger, providers)
//	if err != nil {
//	    return err
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// When the context is cancelled the server stops accepting connections,
// in-flight uploads finish within Server.ShutdownTimeout, and the telemetry
// providers are flushed.
package app
