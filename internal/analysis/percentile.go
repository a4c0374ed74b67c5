package analysis

import (
	"math"
	"sort"
)

// PercentileMethod names the interpolation convention recorded in reports
const PercentileMethod = "linear (type 7)"

// Percentile returns the p-th percentile (0..1) of sorted, which must be
// ascending and non-empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	index := p * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// PercentileOf sorts a copy of the finite values and returns their p-th
// percentile. ok is false when no finite value exists.
func PercentileOf(values []float64, p float64) (value float64, ok bool) {
	sorted := sortedFinite(values)
	if len(sorted) == 0 {
		return 0, false
	}
	return Percentile(sorted, p), true
}

// finite drops NaN and infinities
func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func sortedFinite(values []float64) []float64 {
	out := finite(values)
	sort.Float64s(out)
	return out
}

func isMissing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
