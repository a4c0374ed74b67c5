package exporter

import (
	"strings"

	"loaneda/pkg/contracts/domain"
)

// Table is a report section flattened into rows. Cells hold string, int or
// float64 so the XLSX writer can keep numbers numeric.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]any
}

// Records renders every cell as text for CSV output.
func (t Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(row))
		for j, cell := range row {
			rec[j] = formatCell(cell)
		}
		out[i] = rec
	}
	return out
}

func formatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int:
		return formatInt(c)
	case float64:
		return formatFloat(c)
	case *float64:
		return formatOptional(c)
	}
	return ""
}

// ColumnSummaryTable lists every column with its descriptive statistics
func ColumnSummaryTable(rep *domain.Report) Table {
	t := Table{
		Sheet:   "Summary",
		Headers: []string{"column", "kind", "missing", "completion_rate", "unique", "count", "mean", "std", "min", "median", "max"},
	}
	for _, c := range rep.Columns {
		row := []any{c.Name, string(c.Kind), c.Missing, c.CompletionRate, c.Unique}
		if s := c.Stats; s != nil {
			row = append(row, s.Count, s.Mean, s.Std, s.Min, s.Median, s.Max)
		} else {
			row = append(row, nil, nil, nil, nil, nil, nil)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// MissingnessTable lists columns with at least one missing value
func MissingnessTable(rep *domain.Report) Table {
	t := Table{Sheet: "Missing", Headers: []string{"column", "missing", "fraction"}}
	for _, m := range rep.Missing {
		t.Rows = append(t.Rows, []any{m.Name, m.Missing, m.Fraction})
	}
	return t
}

// TargetTable lists the target classes
func TargetTable(rep *domain.Report) Table {
	t := Table{Sheet: "Target", Headers: []string{"value", "label", "count", "proportion"}}
	for _, c := range rep.Target.Classes {
		t.Rows = append(t.Rows, []any{c.Value, c.Label, c.Count, c.Proportion})
	}
	return t
}

// QualityTable lists one row per quality rule
func QualityTable(rep *domain.Report) Table {
	t := Table{
		Sheet:   "Quality",
		Headers: []string{"rule", "column", "kind", "percentile", "threshold", "checked", "flagged", "share", "max_flagged", "at_sentinel", "sample_ids", "description"},
	}
	for _, f := range rep.Quality {
		var pct any
		if f.Kind == domain.QualityAbovePercentile {
			pct = f.Percentile
		}
		t.Rows = append(t.Rows, []any{
			f.Rule, f.Column, string(f.Kind), pct, f.Threshold, f.Checked, f.Flagged, f.Share,
			f.MaxFlagged, f.AtSentinel, strings.Join(f.SampleIDs, " "), f.Description,
		})
	}
	return t
}

// OccupationTable lists default rates per category level for every
// categorical comparison in the report.
func OccupationTable(rep *domain.Report) Table {
	t := Table{Sheet: "Occupation", Headers: []string{"feature", "level", "count", "default_rate", "overall_rate"}}
	for _, cr := range rep.Bivariate.Categories {
		for _, l := range cr.Levels {
			t.Rows = append(t.Rows, []any{cr.Feature, l.Level, l.Count, l.Rate, cr.Overall})
		}
	}
	return t
}

// CorrelationTable lists the features most correlated with the target
func CorrelationTable(rep *domain.Report) Table {
	t := Table{Sheet: "Correlation", Headers: []string{"feature", "pearson_r", "pairs"}}
	for _, c := range rep.Bivariate.Correlations {
		t.Rows = append(t.Rows, []any{c.Feature, c.R, c.N})
	}
	return t
}

// Tables returns every table in workbook order
func Tables(rep *domain.Report) []Table {
	return []Table{
		ColumnSummaryTable(rep),
		MissingnessTable(rep),
		TargetTable(rep),
		QualityTable(rep),
		OccupationTable(rep),
		CorrelationTable(rep),
	}
}
