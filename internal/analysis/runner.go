package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"loaneda/internal/config"
	"loaneda/internal/dataset"
	"loaneda/internal/infrastructure"
	"loaneda/pkg/contracts/domain"
)

// Stage names, in execution order
const (
	StageValidate   = "validate"
	StageSummary    = "summary"
	StageMissing    = "missingness"
	StageTarget     = "target"
	StageBivariate  = "bivariate"
	StageQuality    = "quality"
	tracerComponent = "loaneda/analysis"
)

// Runner executes the analysis stages over one dataset
type Runner struct {
	title    string
	columns  config.ColumnsConfig
	params   config.AnalysisConfig
	rules    []QualityRule
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *infrastructure.PipelineMetrics
	now      func() time.Time
	newRunID func() string
}

// Option customises a Runner
type Option func(*Runner)

// WithTracer sets the tracer used for stage spans
func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithMetrics records stage durations and flagged rows
func WithMetrics(m *infrastructure.PipelineMetrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithClock overrides the time source used for report timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner creates a runner from the application config
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	rules := cfg.Analysis.QualityRules
	if len(rules) == 0 {
		rules = config.DefaultQualityRules(cfg.Columns, cfg.Analysis.OutlierPercentile)
	}

	r := &Runner{
		title:    cfg.Output.Title,
		columns:  cfg.Columns,
		params:   cfg.Analysis,
		rules:    RulesFromConfig(rules),
		logger:   logger.With(slog.String("component", "analysis")),
		tracer:   otel.Tracer(tracerComponent),
		now:      time.Now,
		newRunID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every stage in order and returns the completed report. The
// dataset is only read. Cancellation is checked between stages.
func (r *Runner) Run(ctx context.Context, ds *dataset.Dataset) (*domain.Report, error) {
	start := r.now()
	runID := r.newRunID()
	ctx = infrastructure.WithRunID(ctx, runID)

	ctx, span := r.tracer.Start(ctx, "analysis.run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("dataset.name", ds.Name()),
		attribute.Int("dataset.rows", ds.Rows()),
	))
	defer span.End()

	r.logger.InfoContext(ctx, "analysis started",
		slog.String("dataset", ds.Name()),
		slog.Int("rows", ds.Rows()),
		slog.Int("columns", len(ds.Columns())))

	rep := &domain.Report{
		ID:      runID,
		Title:   r.title,
		Status:  domain.ReportStatusProcessing,
		Source:  ds.Name(),
		Dataset: ds.Info(),
		Parameters: domain.AnalysisParameters{
			DisplayRows:        r.params.DisplayRows,
			PercentileMethod:   PercentileMethod,
			DensityGridPoints:  r.params.DensityGridPoints,
			TopCorrelations:    r.params.TopCorrelations,
			QualitySampleRows:  r.params.QualitySampleRows,
			MinCategorySupport: r.params.MinCategorySupport,
			DaysPerYear:        r.params.DaysPerYear,
		},
	}

	var target []int
	stages := []struct {
		name string
		fn   func(context.Context) error
	}{
		{StageValidate, func(context.Context) error { return r.validate(ds) }},
		{StageSummary, func(context.Context) error {
			var err error
			rep.Columns, err = Summarize(ds)
			return err
		}},
		{StageMissing, func(context.Context) error {
			var err error
			rep.Missing, err = Missingness(ds)
			return err
		}},
		{StageTarget, func(context.Context) error {
			var err error
			if rep.Target, err = TargetDistribution(ds, r.columns.Target); err != nil {
				return err
			}
			target, err = targetClasses(ds, r.columns.Target)
			return err
		}},
		{StageBivariate, func(context.Context) error {
			var err error
			rep.Bivariate, err = r.bivariate(ds, target)
			return err
		}},
		{StageQuality, func(ctx context.Context) error {
			var err error
			if rep.Quality, err = QualityChecks(ds, r.rules, r.qualityOptions()); err != nil {
				return err
			}
			for _, f := range rep.Quality {
				r.metrics.RecordFlagged(ctx, f.Rule, f.Flagged)
			}
			return nil
		}},
	}

	for _, st := range stages {
		if err := r.runStage(ctx, st.name, st.fn); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			r.metrics.RecordRun(ctx, ds.Rows(), err)
			return nil, err
		}
	}

	rep.Status = domain.ReportStatusCompleted
	rep.GeneratedAt = start.UTC()
	rep.Duration = r.now().Sub(start)

	r.metrics.RecordRun(ctx, ds.Rows(), nil)
	r.logger.InfoContext(ctx, "analysis completed",
		slog.Duration("duration", rep.Duration),
		slog.Int("missing_columns", len(rep.Missing)),
		slog.Int("quality_findings", len(rep.Quality)))

	return rep, nil
}

func (r *Runner) runStage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("analysis cancelled before %s: %w", name, err)
	}

	ctx, span := r.tracer.Start(ctx, "analysis."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	r.metrics.RecordStage(ctx, name, elapsed, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.ErrorContext(ctx, "stage failed",
			slog.String("stage", name),
			slog.String("error", err.Error()))
		return fmt.Errorf("%s stage: %w", name, err)
	}

	r.logger.DebugContext(ctx, "stage completed",
		slog.String("stage", name),
		slog.Duration("duration", elapsed))
	return nil
}

func (r *Runner) validate(ds *dataset.Dataset) error {
	required := r.columns.Required()
	for _, rule := range r.rules {
		required = append(required, rule.Column)
	}
	if err := ds.RequireColumns(required...); err != nil {
		return err
	}
	for _, col := range []string{r.columns.Income, r.columns.Credit, r.columns.ExtSource, r.columns.DaysBirth, r.columns.DaysEmployed} {
		if err := ds.RequireNumeric(col); err != nil {
			return err
		}
	}
	for _, rule := range r.rules {
		if err := ds.RequireNumeric(rule.Column); err != nil {
			return err
		}
	}
	return ds.ValidateBinary(r.columns.Target)
}

func (r *Runner) bivariate(ds *dataset.Dataset, target []int) (domain.Bivariate, error) {
	var out domain.Bivariate

	ext, err := ds.Floats(r.columns.ExtSource)
	if err != nil {
		return out, err
	}
	if d, ok := DensityByTarget(r.columns.ExtSource, r.columns.ExtSource, ext, target, r.params.DensityGridPoints); ok {
		out.Densities = append(out.Densities, d)
	}

	birth, err := ds.Floats(r.columns.DaysBirth)
	if err != nil {
		return out, err
	}
	age := make([]float64, len(birth))
	for i, d := range birth {
		age[i] = -d / r.params.DaysPerYear
	}
	if d, ok := DensityByTarget(r.columns.DaysBirth, "Age (years)", age, target, r.params.DensityGridPoints); ok {
		out.Densities = append(out.Densities, d)
	}

	income, err := ds.Floats(r.columns.Income)
	if err != nil {
		return out, err
	}
	if b, ok := BoxByTarget(r.columns.Income, income, target); ok {
		out.Boxes = append(out.Boxes, b)
	}

	levels, missing, err := ds.Strings(r.columns.Occupation)
	if err != nil {
		return out, err
	}
	out.Categories = append(out.Categories,
		CategoryRatesByTarget(r.columns.Occupation, levels, missing, target, r.params.MinCategorySupport))

	exclude := map[string]bool{r.columns.Target: true}
	if r.columns.ID != "" {
		exclude[r.columns.ID] = true
	}
	out.Correlations, err = CorrelateWithTarget(ds, target, exclude, r.params.TopCorrelations)
	return out, err
}

func (r *Runner) qualityOptions() QualityOptions {
	opts := QualityOptions{
		SampleRows: r.params.QualitySampleRows,
		IDColumn:   r.columns.ID,
	}
	if r.params.DaysEmployedSentinel != 0 {
		opts.Sentinels = map[string]float64{r.columns.DaysEmployed: r.params.DaysEmployedSentinel}
	}
	return opts
}
