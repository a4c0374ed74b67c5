package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"loaneda/internal/dataset"
	"loaneda/pkg/contracts/domain"
)

// Summarize produces one summary row per column in file order. Numeric
// columns carry descriptive statistics over their non-missing values; the
// standard deviation is the sample one (n-1) and is zero below two values.
func Summarize(ds *dataset.Dataset) ([]domain.ColumnSummary, error) {
	rows := ds.Rows()
	cols := ds.Columns()
	out := make([]domain.ColumnSummary, 0, len(cols))

	for _, col := range cols {
		kind, err := ds.Kind(col)
		if err != nil {
			return nil, err
		}
		missing, err := ds.MissingCount(col)
		if err != nil {
			return nil, err
		}
		unique, err := ds.Unique(col)
		if err != nil {
			return nil, err
		}

		s := domain.ColumnSummary{
			Name:    col,
			Kind:    kind,
			Missing: missing,
			Unique:  unique,
		}
		if rows > 0 {
			s.CompletionRate = 1 - float64(missing)/float64(rows)
		}

		if kind == domain.ColumnKindNumeric {
			values, err := ds.Floats(col)
			if err != nil {
				return nil, err
			}
			s.Stats = describe(values)
		}
		out = append(out, s)
	}
	return out, nil
}

// describe returns nil when the column has no finite values
func describe(values []float64) *domain.NumericStats {
	sorted := sortedFinite(values)
	if len(sorted) == 0 {
		return nil
	}

	st := &domain.NumericStats{
		Count:  len(sorted),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Median: Percentile(sorted, 0.5),
	}
	if len(sorted) < 2 {
		st.Mean = sorted[0]
		return st
	}
	st.Mean, st.Std = stat.MeanStdDev(sorted, nil)
	return st
}

// DisplaySummary truncates a summary table to the first n rows
func DisplaySummary(summaries []domain.ColumnSummary, n int) []domain.ColumnSummary {
	if n <= 0 || n >= len(summaries) {
		return summaries
	}
	return summaries[:n]
}
