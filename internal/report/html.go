package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"

	"loaneda/internal/analysis"
	"loaneda/internal/charts"
	"loaneda/pkg/contracts/domain"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(
	template.New("report.html.tmpl").Funcs(funcMap).ParseFS(templateFS, "templates/report.html.tmpl"),
)

var funcMap = template.FuncMap{
	"pct":   func(f float64) string { return strconv.FormatFloat(f*100, 'f', 2, 64) + "%" },
	"num":   formatStat,
	"fixed": func(f float64, prec int) string { return strconv.FormatFloat(f, 'f', prec, 64) },
	"deref": func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	},
	"inc": func(i int) int { return i + 1 },
}

// Figure is a chart ready for inline embedding
type Figure struct {
	Name    string
	Caption string
	SVG     template.HTML
}

// View is the data handed to the HTML template.
type View struct {
	Report      *domain.Report
	Columns     []domain.ColumnSummary
	HiddenRows  int
	Missingness *Figure
	Target      *Figure
	Bivariate   []Figure
	Correlation *Figure
}

// NewView prepares rep for rendering. The summary table is cut to
// displayRows; a non-positive value shows every column.
func NewView(rep *domain.Report, set *charts.Set, displayRows int) *View {
	v := &View{Report: rep, Columns: analysis.DisplaySummary(rep.Columns, displayRows)}
	v.HiddenRows = len(rep.Columns) - len(v.Columns)
	if set == nil {
		return v
	}

	v.Missingness = inline(set.Missingness)
	v.Target = inline(set.Target)
	v.Correlation = inline(set.Correlations)
	for i := range set.Bivariate {
		v.Bivariate = append(v.Bivariate, *inline(&set.Bivariate[i]))
	}
	return v
}

// inline trusts the SVG: it is produced by go-chart from report data, never
// from user-supplied markup.
func inline(f *charts.Figure) *Figure {
	if f == nil {
		return nil
	}
	return &Figure{Name: f.Name, Caption: f.Caption, SVG: template.HTML(f.SVG)}
}

// RenderHTML writes the complete report document to w
func RenderHTML(w io.Writer, v *View) error {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, v); err != nil {
		return fmt.Errorf("execute report template: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Build renders charts for rep and returns the finished HTML document.
func Build(rep *domain.Report, displayRows int) ([]byte, error) {
	set, err := charts.Render(rep)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := RenderHTML(&buf, NewView(rep, set, displayRows)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatStat(f float64) string {
	switch {
	case f == math.Trunc(f) && math.Abs(f) < 1e15:
		return strconv.FormatFloat(f, 'f', 0, 64)
	case math.Abs(f) >= 1000:
		return strconv.FormatFloat(f, 'f', 1, 64)
	default:
		return strconv.FormatFloat(f, 'g', 4, 64)
	}
}
