package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loaneda/internal/charts"
	"loaneda/pkg/contracts/domain"
)

func ptr(f float64) *float64 { return &f }

func sampleReport() *domain.Report {
	return &domain.Report{
		ID:          "5f0c6a3e-8e43-4a8b-9b7a-2d4f7c1e9a10",
		Title:       "Loan Application Exploratory Data Analysis",
		Status:      domain.ReportStatusCompleted,
		Source:      "application_train.csv",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Dataset:     domain.DatasetInfo{Name: "application_train.csv", Rows: 100, Columns: 4, NumericColumns: 3, CategoricalColumns: 1, TotalMissingCells: 30},
		Parameters:  domain.AnalysisParameters{PercentileMethod: "linear (type 7)"},
		Columns: []domain.ColumnSummary{
			{Name: "TARGET", Kind: domain.ColumnKindNumeric, CompletionRate: 1, Unique: 2, Stats: &domain.NumericStats{Count: 100, Mean: 0.08, Std: 0.27, Max: 1}},
			{Name: "AMT_INCOME_TOTAL", Kind: domain.ColumnKindNumeric, Missing: 4, CompletionRate: 0.96, Unique: 90, Stats: &domain.NumericStats{Count: 96, Mean: 150000, Std: 20000, Min: 90000, Median: 149000, Max: 900000}},
			{Name: "EXT_SOURCE_2", Kind: domain.ColumnKindNumeric, Missing: 10, CompletionRate: 0.9, Unique: 90},
			{Name: "OCCUPATION_TYPE", Kind: domain.ColumnKindCategorical, Missing: 16, CompletionRate: 0.84, Unique: 5},
		},
		Missing: []domain.MissingColumn{
			{Name: "OCCUPATION_TYPE", Missing: 16, Fraction: 0.16},
			{Name: "EXT_SOURCE_2", Missing: 10, Fraction: 0.1},
		},
		Target: domain.TargetDistribution{
			Column: "TARGET",
			Total:  100,
			Classes: []domain.TargetClass{
				{Value: 0, Label: "Repaid", Count: 92, Proportion: 0.92},
				{Value: 1, Label: "Default", Count: 8, Proportion: 0.08},
			},
			ImbalanceRatio: 11.5,
		},
		Bivariate: domain.Bivariate{
			Correlations: []domain.Correlation{{Feature: "EXT_SOURCE_2", R: -0.16, N: 90}},
		},
		Quality: []domain.QualityFinding{
			{
				Rule: "income_above_percentile", Column: "AMT_INCOME_TOTAL", Kind: domain.QualityAbovePercentile,
				Percentile: 0.99, Threshold: ptr(800000), Checked: 96, Flagged: 1, Share: 1.0 / 96,
				SampleIDs:   []string{"100099"},
				Description: "1 of 96 AMT_INCOME_TOTAL values (1.04%) are above the 99th percentile of 800000",
			},
			{
				Rule: "days_employed_positive", Column: "DAYS_EMPLOYED", Kind: domain.QualityPositive,
				Checked: 100, Description: "0 of 100 DAYS_EMPLOYED values (0.00%) are positive, which is not a valid day count",
			},
		},
	}
}

func TestCommentary(t *testing.T) {
	rep := sampleReport()
	got := Commentary(rep)

	require.Len(t, got, 5)
	assert.Equal(t, "TARGET is imbalanced: 92.0% of loans were repaid and 8.0% defaulted, about 11.5 majority rows per minority row.", got[0])
	assert.Equal(t, "2 of 4 columns have missing values. The most incomplete is OCCUPATION_TYPE with 16.0% of values missing.", got[1])
	assert.Contains(t, got[2], "EXT_SOURCE_2 (r = -0.160, weak)")
	assert.Contains(t, got[2], "lower default rate")
	assert.Equal(t, "1 of 96 AMT_INCOME_TOTAL values (1.04%) are above the 99th percentile of 800000.", got[3])
	assert.Equal(t, "No positive DAYS_EMPLOYED values were found.", got[4])
}

func TestCommentary_EdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Report)
		index  int
		want   string
	}{
		{
			name: "no labelled rows",
			mutate: func(r *domain.Report) {
				r.Target = domain.TargetDistribution{Column: "TARGET"}
			},
			index: 0,
			want:  "TARGET has no labelled rows.",
		},
		{
			name: "single class",
			mutate: func(r *domain.Report) {
				r.Target = domain.TargetDistribution{Column: "TARGET", Total: 10, Classes: []domain.TargetClass{
					{Value: 0, Label: "Repaid", Count: 10, Proportion: 1},
					{Value: 1, Label: "Default"},
				}}
			},
			index: 0,
			want:  "TARGET holds a single class: all 10 labelled rows are Repaid.",
		},
		{
			name:   "complete data",
			mutate: func(r *domain.Report) { r.Missing = nil },
			index:  1,
			want:   "No column has missing values.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := sampleReport()
			tt.mutate(rep)
			assert.Equal(t, tt.want, Commentary(rep)[tt.index])
		})
	}

	assert.Nil(t, Commentary(nil))
}

func TestNewView_TruncatesSummary(t *testing.T) {
	rep := sampleReport()

	v := NewView(rep, nil, 2)
	assert.Len(t, v.Columns, 2)
	assert.Equal(t, 2, v.HiddenRows)

	v = NewView(rep, nil, 0)
	assert.Len(t, v.Columns, 4)
	assert.Zero(t, v.HiddenRows)
}

func TestRenderHTML(t *testing.T) {
	rep := sampleReport()
	rep.Commentary = Commentary(rep)
	set := &charts.Set{
		Missingness: &charts.Figure{Name: "missingness", Caption: "Missing share", SVG: []byte(`<svg id="m"></svg>`)},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, NewView(rep, set, 3)))
	html := buf.String()

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<title>Loan Application Exploratory Data Analysis</title>")
	assert.Contains(t, html, `<svg id="m"></svg>`, "charts are embedded unescaped")
	assert.Contains(t, html, "1 more columns are listed")
	assert.Contains(t, html, "100099")
	assert.Contains(t, html, "TARGET is imbalanced")
	assert.Contains(t, html, "&gt; 0")
	assert.NotContains(t, html, "<td class=\"name\">4</td>", "truncated rows are not rendered")
}

func TestBuild(t *testing.T) {
	rep := sampleReport()

	out, err := Build(rep, 10)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<svg")
	assert.Contains(t, string(out), "Share of missing values per column")
}
