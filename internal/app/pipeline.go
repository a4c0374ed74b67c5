package app

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"loaneda/internal/analysis"
	"loaneda/internal/config"
	"loaneda/internal/dataset"
	apperrors "loaneda/internal/errors"
	"loaneda/internal/exporter"
	"loaneda/internal/infrastructure"
	"loaneda/internal/report"
	"loaneda/internal/source"
	"loaneda/internal/validation"
	"loaneda/pkg/contracts/domain"
)

// Result is a finished, rendered report
type Result struct {
	Report *domain.Report
	HTML   []byte
}

// Pipeline loads a dataset, analyses it and renders the report
type Pipeline struct {
	cfg     *config.Config
	opener  source.Opener
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
	tracer  trace.Tracer
	pdf     *exporter.PDFPrinter
	files   *validation.FileValidator
	// checkLocal is set when the opener was built from the configuration
	checkLocal bool
	runOpts    []analysis.Option
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithOpener replaces the opener built from the configuration
func WithOpener(o source.Opener) PipelineOption {
	return func(p *Pipeline) { p.opener = o }
}

// WithPipelineMetrics records run, stage and artifact metrics
func WithPipelineMetrics(m *infrastructure.PipelineMetrics) PipelineOption {
	return func(p *Pipeline) { p.metrics = m }
}

// WithTracer sets the tracer used for pipeline and stage spans
func WithTracer(t trace.Tracer) PipelineOption {
	return func(p *Pipeline) { p.tracer = t }
}

// WithRunnerOptions passes extra options to the analysis runner
func WithRunnerOptions(opts ...analysis.Option) PipelineOption {
	return func(p *Pipeline) { p.runOpts = append(p.runOpts, opts...) }
}

// NewPipeline creates a pipeline for cfg
func NewPipeline(cfg *config.Config, logger *slog.Logger, opts ...PipelineOption) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		cfg:    cfg,
		logger: infrastructure.WithComponent(logger, "pipeline"),
		tracer: otel.Tracer(infrastructure.InstrumentationName + "/pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.opener == nil {
		c, err := source.FromConfig(cfg, logger)
		if err != nil {
			return nil, err
		}
		p.opener = c
		p.checkLocal = true
	}
	p.pdf = exporter.NewPDFPrinter(cfg.Output.PDFTimeout, logger)
	p.files = validation.NewFileValidator(p.logger)
	return p, nil
}

// Load opens and parses the configured dataset
func (p *Pipeline) Load(ctx context.Context) (*dataset.Dataset, error) {
	ctx, span := p.tracer.Start(ctx, "dataset.load",
		trace.WithAttributes(attribute.String("dataset.location", p.cfg.Input.Location)))
	defer span.End()

	if path, ok := source.LocalPath(p.cfg.Input.Location); ok && p.checkLocal {
		if err := p.files.ValidateDatasetFile(path); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	start := time.Now()
	rc, meta, err := p.opener.Open(ctx, p.cfg.Input.Location)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer rc.Close()

	ds, err := dataset.Read(rc, meta.Name(), dataset.Options{
		Delimiter: p.cfg.Input.DelimiterRune(),
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	p.logger.InfoContext(ctx, "dataset loaded",
		slog.String("source", meta.Source),
		slog.String("location", meta.Location),
		slog.Int("rows", ds.Rows()),
		slog.Int("columns", len(ds.Columns())),
		slog.Duration("duration", time.Since(start)))
	span.SetAttributes(attribute.Int("dataset.rows", ds.Rows()))
	return ds, nil
}

// Generate runs load, analysis and rendering. Errors keep their AppError
// type so callers can map them to exit codes or HTTP problems.
func (p *Pipeline) Generate(ctx context.Context) (*Result, error) {
	ctx = infrastructure.EnsureTraceID(ctx)

	ds, err := p.Load(ctx)
	if err != nil {
		p.metrics.RecordRun(ctx, 0, err)
		return nil, err
	}

	opts := append([]analysis.Option{
		analysis.WithTracer(p.tracer),
		analysis.WithMetrics(p.metrics),
	}, p.runOpts...)
	rep, err := analysis.NewRunner(p.cfg, p.logger, opts...).Run(ctx, ds)
	if err != nil {
		return nil, err
	}
	rep.Source = p.cfg.Input.Location
	rep.Commentary = report.Commentary(rep)

	html, err := report.Build(rep, p.cfg.Analysis.DisplayRows)
	if err != nil {
		return nil, apperrors.NewRenderError("failed to render HTML report", err)
	}
	return &Result{Report: rep, HTML: html}, nil
}

// Export writes res in the configured formats under the output directory
func (p *Pipeline) Export(ctx context.Context, res *Result) ([]exporter.Artifact, error) {
	formats, err := p.cfg.ReportFormats()
	if err != nil {
		return nil, apperrors.NewConfigError("invalid output formats", err)
	}
	paths, err := config.GetPaths(p.cfg.Output.Dir)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid output directory", err)
	}
	paths.LogPathResolution(p.logger)
	if err := p.files.ValidateOutputDirectory(paths.OutputDir); err != nil {
		return nil, err
	}

	exp := exporter.New(paths, p.logger,
		exporter.WithMetrics(p.metrics),
		exporter.WithPDFPrinter(p.pdf))
	return exp.Export(ctx, res.Report, res.HTML, formats)
}

// Run generates the report and writes every configured artifact
func (p *Pipeline) Run(ctx context.Context) (*Result, []exporter.Artifact, error) {
	res, err := p.Generate(ctx)
	if err != nil {
		return nil, nil, err
	}
	artifacts, err := p.Export(ctx, res)
	if err != nil {
		return nil, nil, err
	}
	return res, artifacts, nil
}
