package analysis

import (
	"sort"

	"loaneda/internal/dataset"
	"loaneda/pkg/contracts/domain"
)

// Missingness returns the columns with at least one missing cell, ordered by
// missing fraction descending and then by name.
func Missingness(ds *dataset.Dataset) ([]domain.MissingColumn, error) {
	rows := ds.Rows()
	if rows == 0 {
		return nil, nil
	}

	var out []domain.MissingColumn
	for _, col := range ds.Columns() {
		n, err := ds.MissingCount(col)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue
		}
		out = append(out, domain.MissingColumn{
			Name:     col,
			Missing:  n,
			Fraction: float64(n) / float64(rows),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Fraction != out[j].Fraction {
			return out[i].Fraction > out[j].Fraction
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
