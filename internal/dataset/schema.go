package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"

	apperrors "loaneda/internal/errors"
)

// RequireColumns fails with a validation error naming every absent column.
// Empty names are ignored so optional columns can be passed through.
func (d *Dataset) RequireColumns(cols ...string) error {
	var missing []string
	seen := make(map[string]bool)
	for _, c := range cols {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		if !d.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return apperrors.NewAppValidationError(
		fmt.Sprintf("dataset %s is missing required columns: %s", d.name, strings.Join(missing, ", ")),
	).WithContext("missing_columns", missing)
}

// RequireNumeric fails unless col exists and holds numbers
func (d *Dataset) RequireNumeric(col string) error {
	if _, err := d.Floats(col); err != nil {
		return err
	}
	return nil
}

// ValidateBinary checks that every non-missing value of col is 0 or 1 and
// that at least one value is present.
func (d *Dataset) ValidateBinary(col string) error {
	values, err := d.Floats(col)
	if err != nil {
		return err
	}

	present := 0
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v != 0 && v != 1 {
			return apperrors.NewAppValidationError(
				fmt.Sprintf("column %s must be binary (0/1), found %v at row %d", col, v, i),
			).WithContext("column", col).WithContext("row", i)
		}
		present++
	}
	if present == 0 {
		return apperrors.NewAppValidationError(fmt.Sprintf("column %s has no values", col)).
			WithContext("column", col)
	}
	return nil
}
