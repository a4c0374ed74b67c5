// Command eda-report loads a loan-application CSV, analyses it and writes the
// EDA report artifacts. It exits 1 on any failure and writes nothing then.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"loaneda/internal/app"
	"loaneda/internal/config"
	"loaneda/internal/infrastructure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath  string
	input       string
	out         string
	formats     string
	displayRows int
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("eda-report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&opts.input, "input", "", "dataset location: file path, http(s) URL or s3://bucket/key")
	fs.StringVar(&opts.out, "out", "", "output directory")
	fs.StringVar(&opts.formats, "formats", "", "comma separated output formats (html,csv,xlsx,json,pdf)")
	fs.IntVar(&opts.displayRows, "display-rows", 0, "rows shown in the summary table")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// apply overlays flags on cfg; flags win over file and environment
func (o *options) apply(cfg *config.Config) error {
	if o.input != "" {
		cfg.Input.Location = o.input
	}
	if o.out != "" {
		cfg.Output.Dir = o.out
	}
	if o.formats != "" {
		cfg.Output.Formats = strings.Split(o.formats, ",")
	}
	if o.displayRows != 0 {
		cfg.Analysis.DisplayRows = o.displayRows
	}
	return cfg.Revalidate()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 1
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "eda-report: %v\n", err)
		return 1
	}
	if err := opts.apply(cfg); err != nil {
		fmt.Fprintf(stderr, "eda-report: %v\n", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		logger.Error("Failed to initialize OpenTelemetry", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			logger.Warn("OpenTelemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		logger.Error("Failed to create metrics", slog.String("error", err.Error()))
		return 1
	}

	pipeline, err := app.NewPipeline(cfg, logger,
		app.WithPipelineMetrics(metrics),
		app.WithTracer(providers.Tracer))
	if err != nil {
		logger.Error("Failed to initialize pipeline", slog.String("error", err.Error()))
		return 1
	}

	logger.InfoContext(ctx, "Starting EDA report",
		slog.String("input", cfg.Input.Location),
		slog.String("output_dir", cfg.Output.Dir),
		slog.Any("formats", cfg.Output.Formats))

	res, artifacts, err := pipeline.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "EDA report failed", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "eda-report: %v\n", err)
		return 1
	}

	for _, a := range artifacts {
		fmt.Fprintf(stdout, "%-5s %s\n", a.Format, a.Path)
	}
	logger.InfoContext(ctx, "EDA report complete",
		slog.String("report_id", res.Report.ID),
		slog.Int("rows", res.Report.Dataset.Rows),
		slog.Int("artifacts", len(artifacts)))
	return 0
}
