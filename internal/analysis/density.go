package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"loaneda/pkg/contracts/domain"
)

// SilvermanBandwidth is Silverman's rule of thumb:
// 0.9 * min(std, IQR/1.34) * n^(-1/5). sorted must be ascending.
func SilvermanBandwidth(sorted []float64) float64 {
	n := len(sorted)
	if n < 2 {
		return 0
	}
	std := stat.StdDev(sorted, nil)
	iqr := Percentile(sorted, 0.75) - Percentile(sorted, 0.25)

	spread := std
	if iqr > 0 && iqr/1.34 < spread {
		spread = iqr / 1.34
	}
	return 0.9 * spread * math.Pow(float64(n), -0.2)
}

// Grid returns points evenly spaced over [lo, hi] inclusive
func Grid(lo, hi float64, points int) []float64 {
	if points < 2 {
		points = 2
	}
	if hi <= lo {
		lo, hi = lo-0.5, lo+0.5
	}
	out := make([]float64, points)
	floats.Span(out, lo, hi)
	return out
}

// GaussianKDE evaluates a Gaussian kernel density estimate of values on
// grid with bandwidth h.
func GaussianKDE(values, grid []float64, h float64) []float64 {
	out := make([]float64, len(grid))
	if len(values) == 0 || h <= 0 {
		return out
	}
	norm := 1 / (float64(len(values)) * h * math.Sqrt(2*math.Pi))
	for i, x := range grid {
		sum := 0.0
		for _, v := range values {
			u := (x - v) / h
			sum += math.Exp(-0.5 * u * u)
		}
		out[i] = sum * norm
	}
	return out
}

// DensityByTarget estimates the density of feature for each target class on a
// grid shared by both classes. Rows missing either value are skipped, as are
// classes with fewer than two values. ok is false when no curve was produced.
func DensityByTarget(feature, label string, values []float64, target []int, gridPoints int) (domain.DensityComparison, bool) {
	byClass := splitByClass(values, target)

	pooled := sortedFinite(append(append([]float64(nil), byClass[0]...), byClass[1]...))
	if len(pooled) == 0 {
		return domain.DensityComparison{}, false
	}
	grid := Grid(pooled[0], pooled[len(pooled)-1], gridPoints)

	cmp := domain.DensityComparison{Feature: feature, Label: label}
	for class := 0; class <= 1; class++ {
		sorted := sortedFinite(byClass[class])
		if len(sorted) < 2 {
			continue
		}
		h := SilvermanBandwidth(sorted)
		if h <= 0 {
			// constant class: fall back to a narrow kernel around the value
			h = (grid[len(grid)-1] - grid[0]) / float64(len(grid))
		}
		cmp.Curves = append(cmp.Curves, domain.DensityCurve{
			Class:     class,
			Count:     len(sorted),
			Mean:      stat.Mean(sorted, nil),
			Bandwidth: h,
			X:         append([]float64(nil), grid...),
			Y:         GaussianKDE(sorted, grid, h),
		})
	}
	return cmp, len(cmp.Curves) > 0
}

// splitByClass partitions values by target class, dropping rows where either
// side is missing.
func splitByClass(values []float64, target []int) [2][]float64 {
	var out [2][]float64
	for i, v := range values {
		if i >= len(target) || isMissing(v) {
			continue
		}
		if c := target[i]; c == 0 || c == 1 {
			out[c] = append(out[c], v)
		}
	}
	return out
}
