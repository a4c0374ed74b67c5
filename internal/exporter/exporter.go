package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"loaneda/internal/config"
	apperrors "loaneda/internal/errors"
	"loaneda/internal/infrastructure"
	"loaneda/pkg/contracts/domain"
)

// Artifact is one file produced by Export
type Artifact struct {
	Format domain.ReportFormat `json:"format"`
	Path   string              `json:"path"`
}

// Exporter writes report artifacts under a resolved set of paths
type Exporter struct {
	paths   *config.Paths
	pdf     *PDFPrinter
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
}

// Option configures an Exporter
type Option func(*Exporter)

// WithMetrics records one artifact counter increment per written file
func WithMetrics(m *infrastructure.PipelineMetrics) Option {
	return func(e *Exporter) { e.metrics = m }
}

// WithPDFPrinter replaces the default headless Chrome printer
func WithPDFPrinter(p *PDFPrinter) Option {
	return func(e *Exporter) { e.pdf = p }
}

// New creates an exporter writing to paths
func New(paths *config.Paths, logger *slog.Logger, opts ...Option) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Exporter{
		paths:  paths,
		logger: logger.With(slog.String("component", "exporter")),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pdf == nil {
		e.pdf = NewPDFPrinter(config.DefaultPDFTimeout, logger)
	}
	return e
}

// Export writes every requested format. html is the rendered report
// document; it is required when HTML or PDF output is requested. All
// formats except PDF are written concurrently; PDF is printed from the HTML
// file once it exists. Files are staged in a temporary directory under the
// output directory and moved into place only when every format succeeded,
// so a failed export leaves no artifact behind.
func (e *Exporter) Export(ctx context.Context, rep *domain.Report, html []byte, formats []domain.ReportFormat) ([]Artifact, error) {
	want := make(map[domain.ReportFormat]bool, len(formats))
	for _, f := range formats {
		want[f] = true
	}
	if (want[domain.ReportFormatHTML] || want[domain.ReportFormatPDF]) && len(html) == 0 {
		return nil, apperrors.NewRenderError("HTML document is empty", nil)
	}

	if err := e.paths.EnsureDirectories(); err != nil {
		return nil, apperrors.NewStorageError("failed to prepare output directory", err)
	}
	stageDir, err := os.MkdirTemp(e.paths.OutputDir, ".export-")
	if err != nil {
		return nil, apperrors.NewStorageError("failed to create staging directory", err)
	}
	defer os.RemoveAll(stageDir)

	stage, err := config.GetPaths(stageDir)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to resolve staging paths", err)
	}
	if err := stage.EnsureDirectories(); err != nil {
		return nil, apperrors.NewStorageError("failed to prepare staging directory", err)
	}

	staged, err := e.write(ctx, stage, rep, html, want)
	if err != nil {
		return nil, err
	}

	out, err := e.commit(stageDir, staged)
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	for _, a := range out {
		e.metrics.RecordArtifact(ctx, string(a.Format))
		e.logger.Info("Artifact written", slog.String("format", string(a.Format)), slog.String("path", a.Path))
	}
	return out, nil
}

// write produces every requested artifact under stage
func (e *Exporter) write(ctx context.Context, stage *config.Paths, rep *domain.Report, html []byte, want map[domain.ReportFormat]bool) ([]Artifact, error) {
	var (
		artifacts = make(chan Artifact, 8)
		g, gctx   = errgroup.WithContext(ctx)
		csvWriter = NewCSVWriter(stage, e.logger)
	)
	run := func(format domain.ReportFormat, write func() ([]string, error)) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			paths, err := write()
			if err != nil {
				return fmt.Errorf("%s export: %w", format, err)
			}
			for _, p := range paths {
				artifacts <- Artifact{Format: format, Path: p}
			}
			return nil
		})
	}

	if want[domain.ReportFormatHTML] || want[domain.ReportFormatPDF] {
		run(domain.ReportFormatHTML, func() ([]string, error) {
			return []string{stage.ReportHTML}, os.WriteFile(stage.ReportHTML, html, 0644)
		})
	}
	if want[domain.ReportFormatCSV] {
		run(domain.ReportFormatCSV, func() ([]string, error) { return writeCSV(csvWriter, stage, rep) })
	}
	if want[domain.ReportFormatExcel] {
		run(domain.ReportFormatExcel, func() ([]string, error) {
			return []string{stage.ReportXLSX}, WriteXLSX(stage.ReportXLSX, rep)
		})
	}
	if want[domain.ReportFormatJSON] {
		run(domain.ReportFormatJSON, func() ([]string, error) {
			return []string{stage.ReportJSON}, WriteJSON(stage.ReportJSON, rep)
		})
	}

	err := g.Wait()
	close(artifacts)

	var out []Artifact
	for a := range artifacts {
		out = append(out, a)
	}
	if err != nil {
		return nil, apperrors.NewRenderError("failed to write report artifacts", err)
	}

	if want[domain.ReportFormatPDF] {
		if err := e.pdf.Print(ctx, stage.ReportHTML, stage.ReportPDF); err != nil {
			return nil, apperrors.NewRenderError("failed to print PDF report", err)
		}
		out = append(out, Artifact{Format: domain.ReportFormatPDF, Path: stage.ReportPDF})
		if !want[domain.ReportFormatHTML] {
			// HTML was only an intermediate for the PDF
			out = dropArtifact(out, domain.ReportFormatHTML)
		}
	}
	return out, nil
}

// commit moves staged artifacts to their final paths. A failed move undoes
// the moves already made.
func (e *Exporter) commit(stageDir string, staged []Artifact) ([]Artifact, error) {
	out := make([]Artifact, 0, len(staged))
	for _, a := range staged {
		rel, err := filepath.Rel(stageDir, a.Path)
		if err != nil {
			e.rollback(out)
			return nil, apperrors.NewStorageError("failed to resolve artifact path", err)
		}
		final := filepath.Join(e.paths.OutputDir, rel)
		if err := os.Rename(a.Path, final); err != nil {
			e.rollback(out)
			return nil, apperrors.NewStorageError(fmt.Sprintf("failed to move %s into place", rel), err)
		}
		out = append(out, Artifact{Format: a.Format, Path: final})
	}
	return out, nil
}

func (e *Exporter) rollback(moved []Artifact) {
	for _, a := range moved {
		if err := os.Remove(a.Path); err != nil {
			e.logger.Warn("Failed to remove artifact after aborted export",
				slog.String("path", a.Path),
				slog.String("error", err.Error()))
		}
	}
}

func writeCSV(w *CSVWriter, paths *config.Paths, rep *domain.Report) ([]string, error) {
	if err := writeColumnSummary(w, paths, rep); err != nil {
		return nil, err
	}
	if err := w.WriteTable(paths.MissingnessCSV, MissingnessTable(rep)); err != nil {
		return nil, err
	}
	if err := w.WriteTable(paths.QualityFindingsCSV, QualityTable(rep)); err != nil {
		return nil, err
	}
	return []string{paths.ColumnSummaryCSV, paths.MissingnessCSV, paths.QualityFindingsCSV}, nil
}

// writeColumnSummary streams the summary table, which grows with the
// column count of the dataset
func writeColumnSummary(w *CSVWriter, paths *config.Paths, rep *domain.Report) error {
	t := ColumnSummaryTable(rep)
	sw, err := w.CreateStreamWriter(paths.ColumnSummaryCSV, t.Headers)
	if err != nil {
		return err
	}
	for _, rec := range t.Records() {
		if err := sw.WriteRecord(rec); err != nil {
			sw.Close()
			return err
		}
	}
	return sw.Close()
}

func dropArtifact(in []Artifact, format domain.ReportFormat) []Artifact {
	out := in[:0]
	for _, a := range in {
		if a.Format != format {
			out = append(out, a)
		}
	}
	return out
}
