package dataset

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apperrors "loaneda/internal/errors"
	"loaneda/pkg/contracts/domain"
)

// DefaultNaNValues are the cell values treated as missing on load
var DefaultNaNValues = []string{"", "NA", "NaN", "<nil>", "null"}

// Options controls CSV parsing
type Options struct {
	Delimiter rune
	NaNValues []string
	// Types pins the type of specific columns and skips detection for them
	Types map[string]series.Type
}

// Dataset is an immutable, column-oriented view of the loaded table
type Dataset struct {
	name  string
	df    dataframe.DataFrame
	index map[string]int
}

// Read parses a CSV with a header row. Column types are detected from the
// values; a column that is entirely numeric becomes numeric.
func Read(r io.Reader, name string, opts Options) (*Dataset, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if len(opts.NaNValues) == 0 {
		opts.NaNValues = DefaultNaNValues
	}

	loadOpts := []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithDelimiter(opts.Delimiter),
		dataframe.NaNValues(opts.NaNValues),
	}
	if len(opts.Types) > 0 {
		loadOpts = append(loadOpts, dataframe.WithTypes(opts.Types))
	}

	df := dataframe.ReadCSV(r, loadOpts...)
	if df.Err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to parse %s", name), df.Err).
			WithContext("dataset", name)
	}
	return FromDataFrame(name, df)
}

// FromDataFrame wraps an existing DataFrame. The frame is copied.
func FromDataFrame(name string, df dataframe.DataFrame) (*Dataset, error) {
	if df.Err != nil {
		return nil, apperrors.NewParsingError("invalid dataframe", df.Err)
	}
	if df.Ncol() == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s has no columns", name), nil)
	}

	names := df.Names()
	index := make(map[string]int, len(names))
	for i, n := range names {
		if _, dup := index[n]; dup {
			return nil, apperrors.NewParsingError(fmt.Sprintf("duplicate column %q in %s", n, name), nil)
		}
		index[n] = i
	}

	return &Dataset{name: name, df: df.Copy(), index: index}, nil
}

// Name returns the dataset's display name (usually the file name)
func (d *Dataset) Name() string { return d.name }

// Rows returns the number of data rows
func (d *Dataset) Rows() int { return d.df.Nrow() }

// Columns returns the column names in file order
func (d *Dataset) Columns() []string {
	return d.df.Names()
}

// Has reports whether the column exists
func (d *Dataset) Has(col string) bool {
	_, ok := d.index[col]
	return ok
}

// Kind classifies a column as numeric, boolean or categorical
func (d *Dataset) Kind(col string) (domain.ColumnKind, error) {
	i, ok := d.index[col]
	if !ok {
		return "", apperrors.NewNotFoundError(fmt.Sprintf("column %s", col))
	}
	return kindOf(d.df.Types()[i]), nil
}

func kindOf(t series.Type) domain.ColumnKind {
	switch t {
	case series.Int, series.Float:
		return domain.ColumnKindNumeric
	case series.Bool:
		return domain.ColumnKindBoolean
	default:
		return domain.ColumnKindCategorical
	}
}

func (d *Dataset) column(col string) (series.Series, error) {
	if !d.Has(col) {
		return series.Series{}, apperrors.NewNotFoundError(fmt.Sprintf("column %s", col))
	}
	return d.df.Col(col), nil
}

// Floats returns the column as float64 with NaN in missing cells. Boolean
// columns map to 0 and 1; categorical columns are rejected.
func (d *Dataset) Floats(col string) ([]float64, error) {
	s, err := d.column(col)
	if err != nil {
		return nil, err
	}
	if kindOf(s.Type()) == domain.ColumnKindCategorical {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("column %s is not numeric", col))
	}

	out := make([]float64, s.Len())
	for i := range out {
		e := s.Elem(i)
		if e.IsNA() {
			out[i] = math.NaN()
			continue
		}
		out[i] = e.Float()
	}
	return out, nil
}

// Strings returns the column rendered as text together with its missing mask.
// Missing cells hold the empty string. Floats keep every significant digit.
func (d *Dataset) Strings(col string) ([]string, []bool, error) {
	s, err := d.column(col)
	if err != nil {
		return nil, nil, err
	}

	values := make([]string, s.Len())
	missing := make([]bool, s.Len())
	isFloat := s.Type() == series.Float
	for i := range values {
		e := s.Elem(i)
		if e.IsNA() {
			missing[i] = true
			continue
		}
		if isFloat {
			values[i] = strconv.FormatFloat(e.Float(), 'f', -1, 64)
			continue
		}
		values[i] = e.String()
	}
	return values, missing, nil
}

// MissingCount returns the number of missing cells in col
func (d *Dataset) MissingCount(col string) (int, error) {
	s, err := d.column(col)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, na := range s.IsNaN() {
		if na {
			n++
		}
	}
	return n, nil
}

// Unique counts distinct non-missing values in col. Numeric columns compare
// the parsed values.
func (d *Dataset) Unique(col string) (int, error) {
	kind, err := d.Kind(col)
	if err != nil {
		return 0, err
	}
	if kind == domain.ColumnKindNumeric {
		floats, err := d.Floats(col)
		if err != nil {
			return 0, err
		}
		seen := make(map[float64]struct{})
		for _, v := range floats {
			if !math.IsNaN(v) {
				seen[v] = struct{}{}
			}
		}
		return len(seen), nil
	}

	values, missing, err := d.Strings(col)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]struct{})
	for i, v := range values {
		if !missing[i] {
			seen[v] = struct{}{}
		}
	}
	return len(seen), nil
}

// Subset returns a new Dataset containing only the given rows, in order
func (d *Dataset) Subset(rows []int) (*Dataset, error) {
	for _, r := range rows {
		if r < 0 || r >= d.Rows() {
			return nil, apperrors.NewAppValidationError(fmt.Sprintf("row %d out of range [0,%d)", r, d.Rows()))
		}
	}
	sub := d.df.Subset(rows)
	if sub.Err != nil {
		return nil, apperrors.NewAnalysisError("subset failed", sub.Err)
	}
	return &Dataset{name: d.name, df: sub, index: d.index}, nil
}

// Info summarises the shape of the dataset
func (d *Dataset) Info() domain.DatasetInfo {
	info := domain.DatasetInfo{
		Name:    d.name,
		Rows:    d.Rows(),
		Columns: d.df.Ncol(),
	}
	for _, t := range d.df.Types() {
		if kindOf(t) == domain.ColumnKindNumeric {
			info.NumericColumns++
		} else {
			info.CategoricalColumns++
		}
	}
	for _, name := range d.df.Names() {
		n, _ := d.MissingCount(name)
		info.TotalMissingCells += n
	}
	return info
}
