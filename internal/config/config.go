package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"loaneda/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Columns   ColumnsConfig   `yaml:"columns" envconfig:"COLUMNS"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Storage   StorageConfig   `yaml:"storage" envconfig:"STORAGE"`
}

// InputConfig locates the dataset. Location may be a local path, an
// http(s) URL or an s3://bucket/key reference.
type InputConfig struct {
	Location  string `yaml:"location" envconfig:"LOCATION" validate:"required"`
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER" validate:"len=1"`
}

// OutputConfig controls where and how the report is written
type OutputConfig struct {
	Dir     string   `yaml:"dir" envconfig:"DIR" validate:"required"`
	Title   string   `yaml:"title" envconfig:"TITLE" validate:"required,min=3,max=200"`
	Formats []string `yaml:"formats" envconfig:"FORMATS" validate:"min=1,dive,oneof=html csv xlsx excel json pdf"`
	// PDFTimeout bounds the headless browser session used for PDF export.
	PDFTimeout time.Duration `yaml:"pdf_timeout" envconfig:"PDF_TIMEOUT" validate:"gt=0"`
}

// ColumnsConfig names the dataset columns the analysis refers to
type ColumnsConfig struct {
	ID           string `yaml:"id" envconfig:"ID"`
	Target       string `yaml:"target" envconfig:"TARGET" validate:"required"`
	Income       string `yaml:"income" envconfig:"INCOME" validate:"required"`
	Credit       string `yaml:"credit" envconfig:"CREDIT" validate:"required"`
	ExtSource    string `yaml:"ext_source" envconfig:"EXT_SOURCE" validate:"required"`
	DaysBirth    string `yaml:"days_birth" envconfig:"DAYS_BIRTH" validate:"required"`
	DaysEmployed string `yaml:"days_employed" envconfig:"DAYS_EMPLOYED" validate:"required"`
	Occupation   string `yaml:"occupation" envconfig:"OCCUPATION" validate:"required"`
}

// Required returns the columns that must exist for a report to be produced.
func (c ColumnsConfig) Required() []string {
	return []string{c.Target, c.Income, c.Credit, c.ExtSource, c.DaysBirth, c.DaysEmployed, c.Occupation}
}

// AnalysisConfig contains the tunables of the analysis stages
type AnalysisConfig struct {
	DisplayRows          int                 `yaml:"display_rows" envconfig:"DISPLAY_ROWS" validate:"min=1"`
	OutlierPercentile    float64             `yaml:"outlier_percentile" envconfig:"OUTLIER_PERCENTILE" validate:"gt=0,lt=1"`
	DensityGridPoints    int                 `yaml:"density_grid_points" envconfig:"DENSITY_GRID_POINTS" validate:"min=10,max=2000"`
	TopCorrelations      int                 `yaml:"top_correlations" envconfig:"TOP_CORRELATIONS" validate:"min=1"`
	QualitySampleRows    int                 `yaml:"quality_sample_rows" envconfig:"QUALITY_SAMPLE_ROWS" validate:"min=0"`
	MinCategorySupport   int                 `yaml:"min_category_support" envconfig:"MIN_CATEGORY_SUPPORT" validate:"min=1"`
	DaysPerYear          float64             `yaml:"days_per_year" envconfig:"DAYS_PER_YEAR" validate:"gt=0"`
	DaysEmployedSentinel float64             `yaml:"days_employed_sentinel" envconfig:"DAYS_EMPLOYED_SENTINEL"`
	QualityRules         []QualityRuleConfig `yaml:"quality_rules" ignored:"true" validate:"dive"`
}

// QualityRuleConfig declares one data-quality filter
type QualityRuleConfig struct {
	Name       string  `yaml:"name" validate:"required"`
	Column     string  `yaml:"column" validate:"required"`
	Kind       string  `yaml:"kind" validate:"required,oneof=above_percentile positive"`
	Percentile float64 `yaml:"percentile" validate:"gte=0,lt=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// ServerConfig contains HTTP server configuration for the report viewer
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	EnableTracing  bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	EnableMetrics  bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// StorageConfig holds S3-compatible object storage credentials used when
// the input location is an s3:// reference.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint" envconfig:"ENDPOINT"`
	AccessKey string `yaml:"access_key" envconfig:"ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" envconfig:"SECRET_KEY"`
	Region    string `yaml:"region" envconfig:"REGION"`
	UseSSL    bool   `yaml:"use_ssl" envconfig:"USE_SSL"`
}

// Load builds the configuration. Precedence, lowest first: Default(), the
// YAML file, then EDA_* environment variables (a .env file is read first if
// present). An empty path searches the usual locations.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values on top of cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize fills derived values that depend on other fields
func (c *Config) normalize() {
	if len(c.Analysis.QualityRules) == 0 {
		c.Analysis.QualityRules = DefaultQualityRules(c.Columns, c.Analysis.OutlierPercentile)
	}
	for i, f := range c.Output.Formats {
		c.Output.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	// JSON is the only supported log encoding
	c.Logging.Format = "json"
}

// Revalidate normalizes and validates cfg again after callers changed it,
// for example from command line flags.
func (c *Config) Revalidate() error {
	c.normalize()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Validate checks struct constraints
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	for _, r := range c.Analysis.QualityRules {
		if r.Kind == string(domain.QualityAbovePercentile) && r.Percentile <= 0 {
			return fmt.Errorf("quality rule %q: percentile must be in (0,1)", r.Name)
		}
	}
	return nil
}

// ReportFormats returns the configured output formats, deduplicated.
func (c *Config) ReportFormats() ([]domain.ReportFormat, error) {
	seen := make(map[domain.ReportFormat]bool)
	var formats []domain.ReportFormat
	for _, f := range c.Output.Formats {
		rf, ok := domain.ParseReportFormat(f)
		if !ok {
			return nil, fmt.Errorf("unsupported output format: %s", f)
		}
		if !seen[rf] {
			seen[rf] = true
			formats = append(formats, rf)
		}
	}
	return formats, nil
}

// DelimiterRune returns the configured CSV delimiter as a rune
func (c InputConfig) DelimiterRune() rune {
	if c.Delimiter == "" {
		return ','
	}
	return []rune(c.Delimiter)[0]
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"loaneda.yaml",
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// DefaultQualityRules reproduces the report's three checks: income and credit
// above the given percentile, and positive employment duration.
func DefaultQualityRules(cols ColumnsConfig, percentile float64) []QualityRuleConfig {
	return []QualityRuleConfig{
		{Name: "income_above_percentile", Column: cols.Income, Kind: string(domain.QualityAbovePercentile), Percentile: percentile},
		{Name: "credit_above_percentile", Column: cols.Credit, Kind: string(domain.QualityAbovePercentile), Percentile: percentile},
		{Name: "days_employed_positive", Column: cols.DaysEmployed, Kind: string(domain.QualityPositive)},
	}
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Location:  DefaultInputFile,
			Delimiter: ",",
		},
		Output: OutputConfig{
			Dir:        DefaultReportsDir,
			Title:      DefaultReportTitle,
			Formats:    []string{"html"},
			PDFTimeout: DefaultPDFTimeout,
		},
		Columns: ColumnsConfig{
			ID:           ColumnID,
			Target:       ColumnTarget,
			Income:       ColumnIncome,
			Credit:       ColumnCredit,
			ExtSource:    ColumnExtSource,
			DaysBirth:    ColumnDaysBirth,
			DaysEmployed: ColumnDaysEmployed,
			Occupation:   ColumnOccupation,
		},
		Analysis: AnalysisConfig{
			DisplayRows:          DefaultDisplayRows,
			OutlierPercentile:    DefaultOutlierPercentile,
			DensityGridPoints:    DefaultDensityGridPoints,
			TopCorrelations:      DefaultTopCorrelations,
			QualitySampleRows:    DefaultQualitySampleRows,
			MinCategorySupport:   1,
			DaysPerYear:          DaysPerYear,
			DaysEmployedSentinel: DaysEmployedSentinel,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/loaneda.log",
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			EnableTracing:  false,
			TraceExporter:  "none",
			EnableMetrics:  true,
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
		Storage: StorageConfig{
			Region: "us-east-1",
		},
	}
}
