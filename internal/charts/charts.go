package charts

import (
	"bytes"
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"loaneda/pkg/contracts/domain"
)

const (
	defaultWidth  = 720
	defaultHeight = 400
	barWidth      = 22
	barSpacing    = 8
)

// ClassColors colour target classes consistently across figures
var ClassColors = map[int]drawing.Color{
	0: chart.ColorBlue,
	1: chart.ColorRed,
}

var classNames = map[int]string{0: "Repaid (0)", 1: "Default (1)"}

func classColor(class int) drawing.Color {
	if c, ok := ClassColors[class]; ok {
		return c
	}
	return chart.ColorAlternateGray
}

// barChartWidth grows with the number of bars so labels stay readable
func barChartWidth(bars int) int {
	w := bars*(barWidth+barSpacing) + 120
	if w < defaultWidth {
		return defaultWidth
	}
	return w
}

func renderBars(c chart.BarChart) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", c.Title, err)
	}
	return buf.Bytes(), nil
}

func renderChart(c chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", c.Title, err)
	}
	return buf.Bytes(), nil
}

// paddedRange returns a y range from zero to just above max
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	if hi <= lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi + (hi-lo)*0.05}
}

// Missingness draws the missing percentage per column as horizontal bars,
// first column on top so a descending input reads top-down.
func Missingness(cols []domain.MissingColumn) ([]byte, error) {
	if len(cols) == 0 {
		return nil, nil
	}

	labels := make([]string, 0, len(cols))
	values := make([]float64, 0, len(cols))
	maxPct := 0.0
	for _, c := range cols {
		labels = append(labels, c.Name)
		values = append(values, c.Fraction*100)
		maxPct = math.Max(maxPct, c.Fraction*100)
	}

	return renderChart(chart.Chart{
		Title:      "Missing values by column (%)",
		Width:      defaultWidth,
		Height:     missingnessHeight(len(cols)),
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: hbarLabelWidth(labels), Right: 24, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "% missing", Range: paddedRange(0, maxPct)},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(cols))},
		},
		Series: []chart.Series{hbarSeries{
			Name:   "missing",
			Style:  chart.Style{FillColor: chart.ColorAlternateGray, StrokeColor: chart.ColorAlternateGray, StrokeWidth: 1},
			Labels: labels,
			Values: values,
		}},
	})
}

// missingnessHeight grows with the number of rows so labels never overlap
func missingnessHeight(rows int) int {
	h := rows*hbarRowHeight + 110
	if h < 240 {
		return 240
	}
	return h
}

// Target draws the row count per target class
func Target(dist domain.TargetDistribution) ([]byte, error) {
	if dist.Total == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, 0, len(dist.Classes))
	maxCount := 0.0
	for _, c := range dist.Classes {
		col := classColor(c.Value)
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s: %d (%.1f%%)", c.Label, c.Count, c.Proportion*100),
			Value: float64(c.Count),
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
		maxCount = math.Max(maxCount, float64(c.Count))
	}

	return renderBars(chart.BarChart{
		Title:      fmt.Sprintf("%s distribution", dist.Column),
		Width:      480,
		Height:     defaultHeight,
		BarWidth:   120,
		BarSpacing: 60,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis:      chart.YAxis{Name: "rows", Range: paddedRange(0, maxCount)},
		Bars:       bars,
	})
}

// Density overlays the per-class density curves of one feature
func Density(cmp domain.DensityComparison) ([]byte, error) {
	if len(cmp.Curves) == 0 {
		return nil, nil
	}

	series := make([]chart.Series, 0, len(cmp.Curves))
	maxY := 0.0
	for _, c := range cmp.Curves {
		col := classColor(c.Class)
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%s, n=%d", classNames[c.Class], c.Count),
			XValues: c.X,
			YValues: c.Y,
			Style:   chart.Style{StrokeColor: col, StrokeWidth: 2, FillColor: col.WithAlpha(40)},
		})
		for _, y := range c.Y {
			maxY = math.Max(maxY, y)
		}
	}

	x := cmp.Curves[0].X
	ch := chart.Chart{
		Title:      fmt.Sprintf("Distribution of %s by target", cmp.Label),
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: cmp.Label, Range: &chart.ContinuousRange{Min: x[0], Max: x[len(x)-1]}},
		YAxis:      chart.YAxis{Name: "density", Range: paddedRange(0, maxY)},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return renderChart(ch)
}

// Box draws one box with whiskers per class. Boxes sit at x = class.
func Box(cmp domain.BoxComparison) ([]byte, error) {
	if len(cmp.Boxes) == 0 {
		return nil, nil
	}

	const half = 0.25
	var series []chart.Series
	lo, hi := math.Inf(1), math.Inf(-1)
	ticks := make([]chart.Tick, 0, len(cmp.Boxes))

	line := func(xs, ys []float64, col drawing.Color) chart.Series {
		return chart.ContinuousSeries{
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: col, StrokeWidth: 2},
		}
	}

	for _, b := range cmp.Boxes {
		x := float64(b.Class)
		col := classColor(b.Class)
		series = append(series,
			// box
			line([]float64{x - half, x + half, x + half, x - half, x - half},
				[]float64{b.Q1, b.Q1, b.Q3, b.Q3, b.Q1}, col),
			line([]float64{x - half, x + half}, []float64{b.Median, b.Median}, chart.ColorBlack),
			// whiskers and caps
			line([]float64{x, x}, []float64{b.Q1, b.LowerWhisker}, col),
			line([]float64{x, x}, []float64{b.Q3, b.UpperWhisker}, col),
			line([]float64{x - half/2, x + half/2}, []float64{b.LowerWhisker, b.LowerWhisker}, col),
			line([]float64{x - half/2, x + half/2}, []float64{b.UpperWhisker, b.UpperWhisker}, col),
		)
		lo = math.Min(lo, b.LowerWhisker)
		hi = math.Max(hi, b.UpperWhisker)
		ticks = append(ticks, chart.Tick{
			Value: x,
			Label: fmt.Sprintf("%s, %d outliers", classNames[b.Class], b.Outliers),
		})
	}

	return renderChart(chart.Chart{
		Title:      fmt.Sprintf("%s by target (whiskers at 1.5 IQR)", cmp.Feature),
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Range: &chart.ContinuousRange{Min: -0.75, Max: 1.75}, Ticks: ticks},
		YAxis:      chart.YAxis{Name: cmp.Feature, Range: paddedRange(math.Min(lo, 0), hi)},
		Series:     series,
	})
}

// CategoryRates draws the default rate per category level
func CategoryRates(cr domain.CategoryRates) ([]byte, error) {
	if len(cr.Levels) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, 0, len(cr.Levels))
	maxRate := 0.0
	for _, l := range cr.Levels {
		col := chart.ColorBlue
		if l.Rate > cr.Overall {
			col = chart.ColorRed
		}
		bars = append(bars, chart.Value{
			Label: l.Level,
			Value: l.Rate * 100,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
		maxRate = math.Max(maxRate, l.Rate*100)
	}

	return renderBars(chart.BarChart{
		Title:      fmt.Sprintf("Default rate by %s (overall %.1f%%)", cr.Feature, cr.Overall*100),
		Width:      barChartWidth(len(bars)),
		Height:     defaultHeight + 120,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 130}},
		XAxis:      chart.Style{TextRotationDegrees: 90, FontSize: 8},
		YAxis:      chart.YAxis{Name: "% default", Range: paddedRange(0, maxRate)},
		Bars:       bars,
	})
}

// Correlations draws signed Pearson coefficients around a zero baseline
func Correlations(cs []domain.Correlation) ([]byte, error) {
	if len(cs) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, 0, len(cs))
	bound := 0.0
	for _, c := range cs {
		col := chart.ColorBlue
		if c.R > 0 {
			col = chart.ColorRed
		}
		bars = append(bars, chart.Value{
			Label: c.Feature,
			Value: c.R,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
		bound = math.Max(bound, math.Abs(c.R))
	}
	if bound == 0 {
		bound = 0.1
	}

	return renderBars(chart.BarChart{
		Title:        "Correlation with target (Pearson r)",
		Width:        barChartWidth(len(bars)),
		Height:       defaultHeight + 120,
		BarWidth:     barWidth,
		BarSpacing:   barSpacing,
		UseBaseValue: true,
		BaseValue:    0,
		Background:   chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 130}},
		XAxis:        chart.Style{TextRotationDegrees: 90, FontSize: 8},
		YAxis:        chart.YAxis{Name: "r", Range: &chart.ContinuousRange{Min: -bound * 1.1, Max: bound * 1.1}},
		Bars:         bars,
	})
}
