package charts

import (
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
)

const (
	hbarRowHeight = 18
	hbarLabelSize = 8.0
	hbarGap       = 0.15
)

// hbarSeries draws one horizontal bar per value, first value on top, with
// its label right-aligned against the left edge of the canvas.
type hbarSeries struct {
	Name   string
	Style  chart.Style
	Labels []string
	Values []float64
}

var _ chart.Series = hbarSeries{}

func (s hbarSeries) GetName() string { return s.Name }

func (s hbarSeries) GetStyle() chart.Style { return s.Style }

func (s hbarSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }

func (s hbarSeries) Validate() error {
	if len(s.Labels) != len(s.Values) {
		return fmt.Errorf("hbar series %q: %d labels for %d values", s.Name, len(s.Labels), len(s.Values))
	}
	return nil
}

// Render expects a y range of [0, len(Values)]; row i occupies the band
// between n-i-1 and n-i.
func (s hbarSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := s.Style.InheritFrom(defaults)
	labelStyle := chart.Style{
		Font:      defaults.Font,
		FontSize:  hbarLabelSize,
		FontColor: chart.DefaultTextColor,
	}

	n := float64(len(s.Values))
	for i, v := range s.Values {
		top := canvasBox.Bottom - yrange.Translate(n-float64(i)-hbarGap)
		bottom := canvasBox.Bottom - yrange.Translate(n-float64(i)-1+hbarGap)
		right := canvasBox.Left + xrange.Translate(v)
		if right > canvasBox.Left {
			chart.Draw.Box(r, chart.Box{Top: top, Left: canvasBox.Left, Right: right, Bottom: bottom}, style)
		}

		tb := chart.Draw.MeasureText(r, s.Labels[i], labelStyle)
		x := canvasBox.Left - tb.Width() - 6
		y := (top+bottom)/2 + tb.Height()/2
		chart.Draw.Text(r, s.Labels[i], x, y, labelStyle)
	}
}

// hbarLabelWidth estimates the left padding needed for the widest label
func hbarLabelWidth(labels []string) int {
	longest := 0
	for _, l := range labels {
		if len(l) > longest {
			longest = len(l)
		}
	}
	w := longest*6 + 24
	if w < 80 {
		return 80
	}
	return w
}
