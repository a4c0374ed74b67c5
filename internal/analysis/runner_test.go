package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loaneda/internal/config"
	apperrors "loaneda/internal/errors"
	"loaneda/pkg/contracts/domain"
)

func newTestRunner(t *testing.T, mutate func(*config.Config)) *Runner {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return NewRunner(cfg, logger, WithClock(func() time.Time { return clock }))
}

func TestRunner_Run(t *testing.T) {
	ds := loadCSV(t, syntheticCSV(200, 16))
	r := newTestRunner(t, nil)

	rep, err := r.Run(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, domain.ReportStatusCompleted, rep.Status)
	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, "synthetic.csv", rep.Source)
	assert.Equal(t, 200, rep.Dataset.Rows)
	assert.Equal(t, PercentileMethod, rep.Parameters.PercentileMethod)

	assert.Len(t, rep.Columns, 9)
	assert.NotEmpty(t, rep.Missing)
	assert.Equal(t, 16, rep.Target.Classes[1].Count)
	assert.InDelta(t, 0.08, rep.Target.Classes[1].Proportion, 1e-12)

	require.Len(t, rep.Bivariate.Densities, 2)
	assert.Equal(t, "EXT_SOURCE_2", rep.Bivariate.Densities[0].Feature)
	assert.Equal(t, "Age (years)", rep.Bivariate.Densities[1].Label)
	require.Len(t, rep.Bivariate.Boxes, 1)
	require.Len(t, rep.Bivariate.Categories, 1)
	assert.NotEmpty(t, rep.Bivariate.Correlations)

	require.Len(t, rep.Quality, 3)
	assert.Equal(t, "income_above_percentile", rep.Quality[0].Rule)
	assert.Equal(t, "credit_above_percentile", rep.Quality[1].Rule)
	assert.Equal(t, "days_employed_positive", rep.Quality[2].Rule)
	require.NotNil(t, rep.Quality[2].Sentinel)
	assert.Equal(t, 10, rep.Quality[2].AtSentinel)
}

func TestRunner_Idempotent(t *testing.T) {
	ds := loadCSV(t, syntheticCSV(150, 12))
	r := newTestRunner(t, nil)

	first, err := r.Run(context.Background(), ds)
	require.NoError(t, err)
	second, err := r.Run(context.Background(), ds)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	first.ID, second.ID = "", ""
	first.Duration, second.Duration = 0, 0
	assert.Equal(t, first, second)

	// The source table is untouched
	again, err := Summarize(ds)
	require.NoError(t, err)
	assert.Equal(t, first.Columns, again)
}

func TestRunner_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		mutate func(*config.Config)
	}{
		{
			name: "missing required column",
			csv:  "SK_ID_CURR,TARGET\n1,0\n2,1\n",
		},
		{
			name: "target not binary",
			csv:  syntheticCSV(10, 2) + "100099,3,1,1,0.5,-9000,-10,Drivers,0\n",
		},
		{
			name: "quality rule on unknown column",
			csv:  syntheticCSV(10, 2),
			mutate: func(c *config.Config) {
				c.Analysis.QualityRules = []config.QualityRuleConfig{
					{Name: "annuity", Column: "AMT_ANNUITY", Kind: "positive"},
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := loadCSV(t, tt.csv)
			_, err := newTestRunner(t, tt.mutate).Run(context.Background(), ds)
			require.Error(t, err)
			assert.True(t, errors.Is(err, &apperrors.AppError{Type: apperrors.ErrTypeValidation}), err.Error())
		})
	}
}

func TestRunner_Cancelled(t *testing.T) {
	ds := loadCSV(t, syntheticCSV(20, 2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestRunner(t, nil).Run(ctx, ds)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
