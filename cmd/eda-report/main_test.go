package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loaneda/internal/config"
	"loaneda/internal/shared/testutil"
)

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseFlags([]string{"-input", "s3://data/train.csv", "-formats", "html,json", "-display-rows", "12"}, &stderr)
	require.NoError(t, err)

	cfg := config.Default()
	require.NoError(t, opts.apply(cfg))
	assert.Equal(t, "s3://data/train.csv", cfg.Input.Location)
	assert.Equal(t, []string{"html", "json"}, cfg.Output.Formats)
	assert.Equal(t, 12, cfg.Analysis.DisplayRows)
	assert.Equal(t, config.DefaultReportsDir, cfg.Output.Dir)

	_, err = parseFlags([]string{"-unknown"}, &stderr)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		args     func(t *testing.T, out string) []string
		wantCode int
		wantFile string
	}{
		{
			name: "writes html and json",
			args: func(t *testing.T, out string) []string {
				return []string{"-input", testutil.WriteLoanCSV(t, 90, 10), "-out", out, "-formats", "html,json"}
			},
			wantCode: 0,
			wantFile: config.ReportJSONFile,
		},
		{
			name: "missing input exits 1",
			args: func(t *testing.T, out string) []string {
				return []string{"-input", filepath.Join(t.TempDir(), "nope.csv"), "-out", out}
			},
			wantCode: 1,
		},
		{
			name: "unsupported format exits 1",
			args: func(t *testing.T, out string) []string {
				return []string{"-input", testutil.WriteLoanCSV(t, 10, 2), "-out", out, "-formats", "docx"}
			},
			wantCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "reports")
			var stdout, stderr bytes.Buffer

			code := run(context.Background(), tt.args(t, out), &stdout, &stderr)
			assert.Equal(t, tt.wantCode, code, stderr.String())

			if tt.wantFile != "" {
				assert.FileExists(t, filepath.Join(out, tt.wantFile))
				assert.FileExists(t, filepath.Join(out, config.ReportHTMLFile))
				assert.Contains(t, stdout.String(), config.ReportJSONFile)
				return
			}
			assert.NoDirExists(t, out)
		})
	}
}
