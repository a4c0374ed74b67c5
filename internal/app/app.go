package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"loaneda/internal/config"
	"loaneda/internal/infrastructure"
	transporthttp "loaneda/internal/transport/http"
	"loaneda/pkg/contracts"
)

// Application is the report viewer
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics
	Pipeline      *Pipeline

	store *reportStore
	wg    sync.WaitGroup
}

// NewApplication creates the viewer from cfg
func NewApplication(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return newApplication(cfg, logger)
}

func newApplication(cfg *config.Config, logger *slog.Logger, opts ...PipelineOption) (*Application, error) {
	app := &Application{
		Config: cfg,
		Logger: logger,
		store:  &reportStore{},
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	app.OTelProviders = providers

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	app.Metrics = metrics

	opts = append([]PipelineOption{
		WithPipelineMetrics(metrics),
		WithTracer(providers.Tracer),
	}, opts...)
	pipeline, err := NewPipeline(cfg, logger, opts...)
	if err != nil {
		return nil, err
	}
	app.Pipeline = pipeline

	app.Router = transporthttp.NewRouter(transporthttp.RouterConfig{
		Service:   app.store,
		Server:    cfg.Server,
		Analysis:  cfg.Analysis,
		Logger:    logger,
		OTel:      providers,
		Metrics:   metrics,
		BuildInfo: buildInfo(),
	})
	app.createServer()

	return app, nil
}

func buildInfo() map[string]string {
	v := contracts.GetVersionInfo()
	return map[string]string{
		"name":       config.AppName,
		"version":    v.Version,
		"commit":     v.GitCommit,
		"build_time": v.BuildTime,
		"go_version": v.GoVersion,
		"schema":     v.ReportSchema,
	}
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Generate runs the pipeline once and publishes the outcome to the viewer
func (a *Application) Generate(ctx context.Context) error {
	start := time.Now()
	res, err := a.Pipeline.Generate(ctx)
	a.store.set(res, err)
	if err != nil {
		a.Logger.ErrorContext(ctx, "Report generation failed",
			slog.String("input", a.Config.Input.Location),
			slog.String("error", err.Error()))
		return err
	}
	a.Logger.InfoContext(ctx, "Report ready",
		slog.String("report_id", res.Report.ID),
		slog.Int("rows", res.Report.Dataset.Rows),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Start launches report generation and the HTTP server. A server error
// cancels ctx through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", contracts.GetVersionString()),
		slog.Int("port", a.Config.Server.Port),
		slog.String("input", a.Config.Input.Location),
		slog.String("level", a.Config.Logging.Level))

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		_ = a.Generate(ctx)
	}()

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop shuts the server down and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		a.Logger.WarnContext(ctx, "Report generation still running at shutdown")
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run starts the application and blocks until SIGINT, SIGTERM or a server
// failure.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}
	cancel()

	// ctx is cancelled by now; shutdown gets its own deadline
	return a.Stop(context.Background())
}
