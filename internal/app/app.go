package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"surveycli/internal/config"
	"surveycli/internal/infrastructure"
	"surveycli/internal/marketshare"
	"surveycli/internal/middleware"
	handlers "surveycli/internal/transport/http"
	"surveycli/pkg/contracts"
)

// Application is the web service container: configuration, the analysis
// engine and the HTTP server wired around it.
type Application struct {
	Config  *config.Config
	Engine  *marketshare.Analyzer
	Metrics *middleware.HTTPMetrics
	Server  *http.Server
	Logger  *slog.Logger
}

// NewApplication loads configuration from configPath (empty means defaults
// plus environment overrides) and assembles the service.
func NewApplication(configPath string) (*Application, error) {
	cfg := config.Load(configPath, slog.Default())

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", contracts.Version),
		slog.Int("port", cfg.Server.Port))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	engine := marketshare.NewAnalyzer(logger, marketshare.Options{
		SiteColumn:      cfg.Analysis.SiteColumn,
		CategoryColumns: cfg.Analysis.CategoryColumns,
		Workers:         cfg.Analysis.Workers,
	})
	metrics := middleware.NewHTTPMetrics(prometheus.DefaultRegisterer)

	app := &Application{
		Config:  cfg,
		Engine:  engine,
		Metrics: metrics,
		Logger:  logger,
	}
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handlers.NewRouter(engine, cfg, metrics, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

// Start begins serving in the background. Listener failures cancel the
// supplied context instead of exiting the process.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "http server listening",
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
	return nil
}

// Stop drains in-flight requests within the configured shutdown timeout.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run serves until interrupted, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
