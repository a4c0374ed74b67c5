package domain

import (
	"time"
)

// Report is the machine-readable result of one EDA run over a loan-application
// dataset. Everything except ID, GeneratedAt and Duration is a pure function of
// the input table and the analysis parameters.
type Report struct {
	ID          string        `json:"id" validate:"required,uuid"`
	Title       string        `json:"title" validate:"required,min=3,max=200"`
	Status      ReportStatus  `json:"status"`
	Source      string        `json:"source"`
	GeneratedAt time.Time     `json:"generated_at"`
	Duration    time.Duration `json:"duration"`

	Dataset    DatasetInfo        `json:"dataset"`
	Parameters AnalysisParameters `json:"parameters"`

	Columns   []ColumnSummary    `json:"columns"`
	Missing   []MissingColumn    `json:"missing"`
	Target    TargetDistribution `json:"target"`
	Bivariate Bivariate          `json:"bivariate"`
	Quality   []QualityFinding   `json:"quality"`

	Commentary []string `json:"commentary,omitempty"`
}

// ReportStatus represents the status of a report
type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusProcessing ReportStatus = "processing"
	ReportStatusCompleted  ReportStatus = "completed"
	ReportStatusFailed     ReportStatus = "failed"
)

// ReportFormat defines an output artifact format
type ReportFormat string

const (
	ReportFormatHTML  ReportFormat = "html"
	ReportFormatCSV   ReportFormat = "csv"
	ReportFormatExcel ReportFormat = "xlsx"
	ReportFormatJSON  ReportFormat = "json"
	ReportFormatPDF   ReportFormat = "pdf"
)

// ParseReportFormat maps a user-supplied name to a ReportFormat.
func ParseReportFormat(s string) (ReportFormat, bool) {
	switch ReportFormat(s) {
	case ReportFormatHTML, ReportFormatCSV, ReportFormatExcel, ReportFormatJSON, ReportFormatPDF:
		return ReportFormat(s), true
	case "excel":
		return ReportFormatExcel, true
	}
	return "", false
}

// DatasetInfo describes the loaded table.
type DatasetInfo struct {
	Name               string `json:"name"`
	Rows               int    `json:"rows"`
	Columns            int    `json:"columns"`
	NumericColumns     int    `json:"numeric_columns"`
	CategoricalColumns int    `json:"categorical_columns"`
	TotalMissingCells  int    `json:"total_missing_cells"`
}

// AnalysisParameters records the knobs a report was produced with.
type AnalysisParameters struct {
	DisplayRows        int     `json:"display_rows"`
	PercentileMethod   string  `json:"percentile_method"`
	DensityGridPoints  int     `json:"density_grid_points"`
	TopCorrelations    int     `json:"top_correlations"`
	QualitySampleRows  int     `json:"quality_sample_rows"`
	MinCategorySupport int     `json:"min_category_support"`
	DaysPerYear        float64 `json:"days_per_year"`
}

// ColumnKind classifies a column by its inferred type.
type ColumnKind string

const (
	ColumnKindNumeric     ColumnKind = "numeric"
	ColumnKindCategorical ColumnKind = "categorical"
	ColumnKindBoolean     ColumnKind = "boolean"
)

// ColumnSummary is one row of the summary statistics table.
type ColumnSummary struct {
	Name           string        `json:"name"`
	Kind           ColumnKind    `json:"kind"`
	Missing        int           `json:"missing"`
	CompletionRate float64       `json:"completion_rate"`
	Unique         int           `json:"unique"`
	Stats          *NumericStats `json:"stats,omitempty"`
}

// NumericStats holds descriptive statistics over the non-missing values of a
// numeric column. Std is the sample standard deviation (n-1).
type NumericStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// MissingColumn is one bar of the missingness chart.
type MissingColumn struct {
	Name     string  `json:"name"`
	Missing  int     `json:"missing"`
	Fraction float64 `json:"fraction"`
}

// TargetDistribution describes class balance of the binary target.
type TargetDistribution struct {
	Column         string        `json:"column"`
	Classes        []TargetClass `json:"classes"`
	Total          int           `json:"total"`
	Missing        int           `json:"missing"`
	ImbalanceRatio float64       `json:"imbalance_ratio"`
}

// TargetClass is the count and share of a single target value.
type TargetClass struct {
	Value      int     `json:"value"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Proportion float64 `json:"proportion"`
}

// Bivariate groups the relationships between features and the target.
type Bivariate struct {
	Densities    []DensityComparison `json:"densities,omitempty"`
	Boxes        []BoxComparison     `json:"boxes,omitempty"`
	Categories   []CategoryRates     `json:"categories,omitempty"`
	Correlations []Correlation       `json:"correlations,omitempty"`
}

// DensityComparison holds kernel density estimates of one feature per class.
type DensityComparison struct {
	Feature string         `json:"feature"`
	Label   string         `json:"label"`
	Curves  []DensityCurve `json:"curves"`
}

// DensityCurve is a KDE evaluated on a shared grid.
type DensityCurve struct {
	Class     int       `json:"class"`
	Count     int       `json:"count"`
	Mean      float64   `json:"mean"`
	Bandwidth float64   `json:"bandwidth"`
	X         []float64 `json:"x"`
	Y         []float64 `json:"y"`
}

// BoxComparison holds box-plot statistics of one feature per class.
type BoxComparison struct {
	Feature string       `json:"feature"`
	Boxes   []BoxSummary `json:"boxes"`
}

// BoxSummary is a five-number summary with Tukey whiskers.
type BoxSummary struct {
	Class        int     `json:"class"`
	Count        int     `json:"count"`
	Min          float64 `json:"min"`
	Q1           float64 `json:"q1"`
	Median       float64 `json:"median"`
	Q3           float64 `json:"q3"`
	Max          float64 `json:"max"`
	LowerWhisker float64 `json:"lower_whisker"`
	UpperWhisker float64 `json:"upper_whisker"`
	Outliers     int     `json:"outliers"`
}

// CategoryRates is the target rate per level of a categorical feature.
type CategoryRates struct {
	Feature string         `json:"feature"`
	Overall float64        `json:"overall"`
	Levels  []CategoryRate `json:"levels"`
}

// CategoryRate is the default rate of one category level.
type CategoryRate struct {
	Level string  `json:"level"`
	Count int     `json:"count"`
	Rate  float64 `json:"rate"`
}

// Correlation is the Pearson correlation of a numeric feature with the target.
type Correlation struct {
	Feature string  `json:"feature"`
	R       float64 `json:"r"`
	N       int     `json:"n"`
}

// QualityRuleKind enumerates the supported data-quality filters.
type QualityRuleKind string

const (
	// QualityAbovePercentile flags values strictly above a percentile threshold.
	QualityAbovePercentile QualityRuleKind = "above_percentile"
	// QualityPositive flags values strictly greater than zero.
	QualityPositive QualityRuleKind = "positive"
)

// QualityFinding is the outcome of one quality rule.
type QualityFinding struct {
	Rule        string          `json:"rule"`
	Column      string          `json:"column"`
	Kind        QualityRuleKind `json:"kind"`
	Percentile  float64         `json:"percentile,omitempty"`
	Threshold   *float64        `json:"threshold,omitempty"`
	Checked     int             `json:"checked"`
	Flagged     int             `json:"flagged"`
	Share       float64         `json:"share"`
	SampleRows  []int           `json:"sample_rows,omitempty"`
	SampleIDs   []string        `json:"sample_ids,omitempty"`
	MaxFlagged  float64         `json:"max_flagged,omitempty"`
	Sentinel    *float64        `json:"sentinel,omitempty"`
	AtSentinel  int             `json:"at_sentinel,omitempty"`
	Description string          `json:"description"`
}
