package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every file path a report run writes to.
// This is the single source of truth for artifact locations.
type Paths struct {
	OutputDir string
	TablesDir string
	LogsDir   string

	ReportHTML string
	ReportJSON string
	ReportXLSX string
	ReportPDF  string

	ColumnSummaryCSV   string
	MissingnessCSV     string
	QualityFindingsCSV string
}

// GetPaths resolves artifact paths under outputDir. Relative directories are
// made absolute against the current working directory.
func GetPaths(outputDir string) (*Paths, error) {
	if outputDir == "" {
		outputDir = DefaultReportsDir
	}
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory %s: %w", outputDir, err)
	}

	// Directory structure:
	// <out>/
	//   ├── eda_report.html
	//   ├── eda_report.json
	//   ├── eda_report.xlsx
	//   ├── eda_report.pdf
	//   └── tables/        (CSV exports)
	tablesDir := filepath.Join(abs, "tables")

	return &Paths{
		OutputDir: abs,
		TablesDir: tablesDir,
		LogsDir:   filepath.Join(abs, "logs"),

		ReportHTML: filepath.Join(abs, ReportHTMLFile),
		ReportJSON: filepath.Join(abs, ReportJSONFile),
		ReportXLSX: filepath.Join(abs, ReportXLSXFile),
		ReportPDF:  filepath.Join(abs, ReportPDFFile),

		ColumnSummaryCSV:   filepath.Join(tablesDir, ColumnSummaryCSV),
		MissingnessCSV:     filepath.Join(tablesDir, MissingnessCSV),
		QualityFindingsCSV: filepath.Join(tablesDir, QualityFindingsCSV),
	}, nil
}

// EnsureDirectories creates all output directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.TablesDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPathResolution logs the resolved artifact paths
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Resolved output paths",
		slog.String("output_dir", p.OutputDir),
		slog.String("tables_dir", p.TablesDir),
		slog.String("report_html", p.ReportHTML))
}
