package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "loaneda"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable (EDA_INPUT_LOCATION, ...)
	EnvPrefix = "EDA"

	// Dataset defaults
	DefaultInputFile   = "application_train.csv"
	DefaultReportsDir  = "reports"
	DefaultReportTitle = "Loan Application Exploratory Data Analysis"

	// Column names of the loan-application dataset
	ColumnID           = "SK_ID_CURR"
	ColumnTarget       = "TARGET"
	ColumnIncome       = "AMT_INCOME_TOTAL"
	ColumnCredit       = "AMT_CREDIT"
	ColumnExtSource    = "EXT_SOURCE_2"
	ColumnDaysBirth    = "DAYS_BIRTH"
	ColumnDaysEmployed = "DAYS_EMPLOYED"
	ColumnOccupation   = "OCCUPATION_TYPE"

	// Analysis defaults
	DefaultDisplayRows       = 20
	DefaultOutlierPercentile = 0.99
	DefaultDensityGridPoints = 100
	DefaultTopCorrelations   = 10
	DefaultQualitySampleRows = 5
	DaysPerYear              = 365.0
	// DaysEmployedSentinel is the placeholder the dataset uses for
	// applicants without an employment record.
	DaysEmployedSentinel = 365243.0

	// Rate Limiting
	DefaultRateLimit = 20 // requests per second
	DefaultBurstSize = 40

	// Timeouts
	DefaultHTTPTimeout = 30 * time.Second
	DefaultPDFTimeout  = 60 * time.Second

	// Output file names
	ReportHTMLFile     = "eda_report.html"
	ReportJSONFile     = "eda_report.json"
	ReportXLSXFile     = "eda_report.xlsx"
	ReportPDFFile      = "eda_report.pdf"
	ColumnSummaryCSV   = "column_summary.csv"
	MissingnessCSV     = "missingness.csv"
	QualityFindingsCSV = "quality_findings.csv"

	// API Endpoints
	APIBasePath     = "/api/v1"
	HealthEndpoint  = "/api/health"
	MetricsEndpoint = "/metrics"
)
