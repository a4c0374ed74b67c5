package analysis

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"loaneda/internal/dataset"
	"loaneda/pkg/contracts/domain"
)

// MissingLevel labels rows whose category is missing
const MissingLevel = "(missing)"

// BoxStats computes the five-number summary with Tukey whiskers at 1.5*IQR.
// ok is false when there are no finite values.
func BoxStats(values []float64) (domain.BoxSummary, bool) {
	sorted := sortedFinite(values)
	if len(sorted) == 0 {
		return domain.BoxSummary{}, false
	}

	b := domain.BoxSummary{
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     Percentile(sorted, 0.25),
		Median: Percentile(sorted, 0.5),
		Q3:     Percentile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
	iqr := b.Q3 - b.Q1
	lowFence, highFence := b.Q1-1.5*iqr, b.Q3+1.5*iqr

	b.LowerWhisker, b.UpperWhisker = b.Max, b.Min
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			b.Outliers++
			continue
		}
		b.LowerWhisker = math.Min(b.LowerWhisker, v)
		b.UpperWhisker = math.Max(b.UpperWhisker, v)
	}
	return b, true
}

// BoxByTarget builds box summaries of feature per target class
func BoxByTarget(feature string, values []float64, target []int) (domain.BoxComparison, bool) {
	byClass := splitByClass(values, target)
	cmp := domain.BoxComparison{Feature: feature}
	for class := 0; class <= 1; class++ {
		b, ok := BoxStats(byClass[class])
		if !ok {
			continue
		}
		b.Class = class
		cmp.Boxes = append(cmp.Boxes, b)
	}
	return cmp, len(cmp.Boxes) > 0
}

// CategoryRatesByTarget computes the default rate (mean target) per level.
// Rows with a missing target are ignored; missing levels are grouped under
// MissingLevel. Levels with fewer than minSupport rows are dropped. Levels are
// sorted by rate descending, then by name.
func CategoryRatesByTarget(feature string, levels []string, missing []bool, target []int, minSupport int) domain.CategoryRates {
	type acc struct{ n, positives int }
	groups := make(map[string]*acc)

	total, positives := 0, 0
	for i, lvl := range levels {
		if i >= len(target) || target[i] < 0 {
			continue
		}
		if missing[i] {
			lvl = MissingLevel
		}
		g, ok := groups[lvl]
		if !ok {
			g = &acc{}
			groups[lvl] = g
		}
		g.n++
		g.positives += target[i]
		total++
		positives += target[i]
	}

	out := domain.CategoryRates{Feature: feature}
	if total > 0 {
		out.Overall = float64(positives) / float64(total)
	}
	for lvl, g := range groups {
		if g.n < minSupport {
			continue
		}
		out.Levels = append(out.Levels, domain.CategoryRate{
			Level: lvl,
			Count: g.n,
			Rate:  float64(g.positives) / float64(g.n),
		})
	}
	sort.Slice(out.Levels, func(i, j int) bool {
		if out.Levels[i].Rate != out.Levels[j].Rate {
			return out.Levels[i].Rate > out.Levels[j].Rate
		}
		return out.Levels[i].Level < out.Levels[j].Level
	})
	return out
}

// Pearson returns the correlation of x and y over pairwise complete rows.
// ok is false with fewer than three pairs or a constant side.
func Pearson(x []float64, y []int) (r float64, n int, ok bool) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(x))
	for i, v := range x {
		if i >= len(y) || isMissing(v) || y[i] < 0 {
			continue
		}
		xs = append(xs, v)
		ys = append(ys, float64(y[i]))
	}
	if len(xs) < 3 {
		return 0, len(xs), false
	}
	r = stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, len(xs), false
	}
	return r, len(xs), true
}

// CorrelateWithTarget ranks numeric columns by |r| with the target and keeps
// the top n. exclude names columns to skip in addition to SK_ID_* columns.
func CorrelateWithTarget(ds *dataset.Dataset, target []int, exclude map[string]bool, n int) ([]domain.Correlation, error) {
	var out []domain.Correlation
	for _, col := range ds.Columns() {
		if exclude[col] || strings.HasPrefix(col, "SK_ID_") {
			continue
		}
		kind, err := ds.Kind(col)
		if err != nil {
			return nil, err
		}
		if kind != domain.ColumnKindNumeric {
			continue
		}
		values, err := ds.Floats(col)
		if err != nil {
			return nil, err
		}
		r, count, ok := Pearson(values, target)
		if !ok {
			continue
		}
		out = append(out, domain.Correlation{Feature: col, R: r, N: count})
	}

	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := math.Abs(out[i].R), math.Abs(out[j].R)
		if ai != aj {
			return ai > aj
		}
		return out[i].Feature < out[j].Feature
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}
