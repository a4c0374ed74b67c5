// Package config provides centralized configuration management for loaneda.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Command line flags (applied by the cmd packages, highest priority)
//  2. Environment variables, including a local .env file
//  3. YAML configuration file
//  4. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern EDA_<SECTION>_<FIELD>:
//
//	EDA_INPUT_LOCATION=s3://datasets/application_train.csv
//	EDA_OUTPUT_FORMATS=html,xlsx,json
//	EDA_ANALYSIS_DISPLAY_ROWS=30
//	EDA_LOGGING_LEVEL=debug
//	EDA_SERVER_PORT=8090
//
// Quality rules can only be customised from the YAML file:
//
//	analysis:
//	  quality_rules:
//	    - name: income_above_percentile
//	      column: AMT_INCOME_TOTAL
//	      kind: above_percentile
//	      percentile: 0.99
//
// # Validation
//
// Struct constraints are enforced with go-playground/validator at load time.
package config
