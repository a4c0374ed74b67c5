package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"loaneda/internal/config"
	apperrors "loaneda/internal/errors"
	"loaneda/pkg/contracts/domain"
)

func ptr(f float64) *float64 { return &f }

func testReport() *domain.Report {
	return &domain.Report{
		ID:     "5f0c6a3e-8e43-4a8b-9b7a-2d4f7c1e9a10",
		Title:  "Loan Application Exploratory Data Analysis",
		Status: domain.ReportStatusCompleted,
		Columns: []domain.ColumnSummary{
			{Name: "AMT_INCOME_TOTAL", Kind: domain.ColumnKindNumeric, Missing: 4, CompletionRate: 0.96, Unique: 90,
				Stats: &domain.NumericStats{Count: 96, Mean: 150000, Std: 20000, Min: 90000, Median: 149000, Max: 900000}},
			{Name: "OCCUPATION_TYPE", Kind: domain.ColumnKindCategorical, Missing: 25, CompletionRate: 0.75, Unique: 5},
		},
		Missing: []domain.MissingColumn{{Name: "OCCUPATION_TYPE", Missing: 25, Fraction: 0.25}},
		Target: domain.TargetDistribution{Column: "TARGET", Total: 100, Classes: []domain.TargetClass{
			{Value: 0, Label: "Repaid", Count: 92, Proportion: 0.92},
			{Value: 1, Label: "Default", Count: 8, Proportion: 0.08},
		}},
		Bivariate: domain.Bivariate{
			Categories:   []domain.CategoryRates{{Feature: "OCCUPATION_TYPE", Overall: 0.08, Levels: []domain.CategoryRate{{Level: "Drivers", Count: 20, Rate: 0.15}}}},
			Correlations: []domain.Correlation{{Feature: "EXT_SOURCE_2", R: -0.16, N: 90}},
		},
		Quality: []domain.QualityFinding{
			{Rule: "income_above_percentile", Column: "AMT_INCOME_TOTAL", Kind: domain.QualityAbovePercentile,
				Percentile: 0.99, Threshold: ptr(800000), Checked: 96, Flagged: 1, SampleIDs: []string{"100099"}},
			{Rule: "days_employed_positive", Column: "DAYS_EMPLOYED", Kind: domain.QualityPositive, Checked: 100, Flagged: 6},
		},
	}
}

func newTestExporter(t *testing.T) (*Exporter, *config.Paths) {
	t.Helper()
	paths, err := config.GetPaths(t.TempDir())
	require.NoError(t, err)
	return New(paths, nil), paths
}

func TestExport_AllFormatsButPDF(t *testing.T) {
	exp, paths := newTestExporter(t)
	rep := testReport()
	html := []byte("<!DOCTYPE html><html><body>report</body></html>")

	artifacts, err := exp.Export(context.Background(), rep, html, []domain.ReportFormat{
		domain.ReportFormatHTML, domain.ReportFormatCSV, domain.ReportFormatExcel, domain.ReportFormatJSON,
	})
	require.NoError(t, err)
	require.Len(t, artifacts, 6)
	for _, a := range artifacts {
		assert.FileExists(t, a.Path)
	}

	got, err := os.ReadFile(paths.ReportHTML)
	require.NoError(t, err)
	assert.Equal(t, html, got)

	var decoded domain.Report
	data, err := os.ReadFile(paths.ReportJSON)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rep.Quality[0].SampleIDs, decoded.Quality[0].SampleIDs)

	summary, err := os.ReadFile(paths.ColumnSummaryCSV)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(summary, utf8BOM))
	assert.Contains(t, string(summary), "AMT_INCOME_TOTAL,numeric,4,0.96,90,96,150000,20000,90000,149000,900000")
	assert.Contains(t, string(summary), "OCCUPATION_TYPE,categorical,25,0.75,5,,,,,,")
}

func TestExport_OnlyRequestedFormats(t *testing.T) {
	exp, paths := newTestExporter(t)

	artifacts, err := exp.Export(context.Background(), testReport(), nil, []domain.ReportFormat{domain.ReportFormatJSON})
	require.NoError(t, err)
	require.Equal(t, []Artifact{{Format: domain.ReportFormatJSON, Path: paths.ReportJSON}}, artifacts)
	assert.NoFileExists(t, paths.ReportHTML)
	assert.NoFileExists(t, paths.MissingnessCSV)
}

func TestExport_HTMLRequiresDocument(t *testing.T) {
	exp, _ := newTestExporter(t)

	_, err := exp.Export(context.Background(), testReport(), nil, []domain.ReportFormat{domain.ReportFormatHTML})
	require.Error(t, err)
	typ, ok := apperrors.TypeOf(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrTypeRender, typ)
}

func TestExport_FailureLeavesNoArtifacts(t *testing.T) {
	html := []byte("<!DOCTYPE html><html><body>report</body></html>")

	tests := []struct {
		name    string
		formats []domain.ReportFormat
		setup   func(t *testing.T, paths *config.Paths) []Option
		errType apperrors.ErrorType
	}{
		{
			name: "xlsx target occupied by a directory",
			formats: []domain.ReportFormat{
				domain.ReportFormatHTML, domain.ReportFormatCSV, domain.ReportFormatJSON, domain.ReportFormatExcel,
			},
			setup: func(t *testing.T, paths *config.Paths) []Option {
				require.NoError(t, os.MkdirAll(paths.ReportXLSX, 0755))
				return nil
			},
			errType: apperrors.ErrTypeStorage,
		},
		{
			name:    "pdf printer fails",
			formats: []domain.ReportFormat{domain.ReportFormatHTML, domain.ReportFormatJSON, domain.ReportFormatPDF},
			setup: func(t *testing.T, paths *config.Paths) []Option {
				p := NewPDFPrinter(5*time.Second, nil)
				p.ExecPath = filepath.Join(t.TempDir(), "no-such-chrome")
				return []Option{WithPDFPrinter(p)}
			},
			errType: apperrors.ErrTypeRender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, err := config.GetPaths(t.TempDir())
			require.NoError(t, err)
			exp := New(paths, nil, tt.setup(t, paths)...)

			_, err = exp.Export(context.Background(), testReport(), html, tt.formats)
			require.Error(t, err)
			typ, _ := apperrors.TypeOf(err)
			assert.Equal(t, tt.errType, typ)

			for _, p := range []string{
				paths.ReportHTML, paths.ReportJSON, paths.ReportPDF,
				paths.ColumnSummaryCSV, paths.MissingnessCSV, paths.QualityFindingsCSV,
			} {
				assert.NoFileExists(t, p)
			}

			// Only the output layout and the pre-existing directory remain
			entries, err := os.ReadDir(paths.OutputDir)
			require.NoError(t, err)
			for _, entry := range entries {
				assert.True(t, entry.IsDir(), entry.Name())
				assert.NotContains(t, entry.Name(), ".export-")
			}
			tables, err := os.ReadDir(paths.TablesDir)
			require.NoError(t, err)
			assert.Empty(t, tables)
		})
	}
}

func TestExport_CancelledContext(t *testing.T) {
	exp, _ := newTestExporter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := exp.Export(ctx, testReport(), nil, []domain.ReportFormat{domain.ReportFormatJSON, domain.ReportFormatExcel})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, testReport()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Missing", "Target", "Quality", "Occupation", "Correlation"}, f.GetSheetList())

	rows, err := f.GetRows("Quality")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "threshold", rows[0][4])
	assert.Equal(t, "800000", rows[1][4])
	assert.Equal(t, "", rows[2][4], "positive rule has no threshold")

	rows, err = f.GetRows("Occupation")
	require.NoError(t, err)
	assert.Equal(t, []string{"OCCUPATION_TYPE", "Drivers", "20", "0.15", "0.08"}, rows[1])
}

func TestTables_Headers(t *testing.T) {
	for _, tbl := range Tables(testReport()) {
		for _, row := range tbl.Rows {
			assert.Len(t, row, len(tbl.Headers), tbl.Sheet)
		}
	}
}

func TestPDFPrinter_Print(t *testing.T) {
	if testing.Short() {
		t.Skip("headless Chrome test skipped in short mode")
	}
	chrome := ""
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if p, err := exec.LookPath(name); err == nil {
			chrome = p
			break
		}
	}
	if chrome == "" {
		t.Skip("no Chrome binary on PATH")
	}

	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "report.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte("<html><body><h1>EDA</h1></body></html>"), 0644))

	p := NewPDFPrinter(30*time.Second, nil)
	p.ExecPath = chrome
	pdfPath := filepath.Join(dir, "report.pdf")
	require.NoError(t, p.Print(context.Background(), htmlPath, pdfPath))

	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
