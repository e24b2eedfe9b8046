// Package app provides application initialization and lifecycle management
// for the survey analysis web service. It wires configuration loading, the
// structured logger, the market-share engine and the HTTP server together,
// and owns graceful shutdown.
//
// # Initialization Flow
//
// The typical initialization sequence:
//
//	1. Load configuration from the settings file and environment
//	2. Initialize structured logging
//	3. Construct the analysis engine and HTTP metrics
//	4. Assemble the router, middleware chain and HTTP server
//
// # Usage
//
// The main entry point is typically:
//
//	application, err := app.NewApplication(configPath)
//	if err != nil {
//	    slog.Error("startup failed", slog.String("error", err.Error()))
//	    os.Exit(1)
//	}
//	if err := application.Run(); err != nil {
//	    os.Exit(1)
//	}
//
// # Graceful Shutdown
//
// The package handles SIGINT and SIGTERM signals: active requests are
// drained within the configured shutdown timeout and the log file is
// closed. Initialization errors are returned to the caller rather than
// calling os.Exit() directly.
package app
