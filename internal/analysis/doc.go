// Package analysis computes the exploratory statistics of the loan-application
// report: column summaries, missingness, target balance, bivariate
// relationships with the target and data-quality findings.
//
// Every stage is a pure function of a read-only dataset.Dataset. Runner
// executes the stages in a fixed order inside OpenTelemetry spans and
// assembles a domain.Report.
//
// # Percentiles
//
// Percentiles use linear interpolation between closest ranks on the sorted
// non-missing values (rank index p*(n-1), Hyndman-Fan type 7). Outlier rules
// flag values strictly above the threshold; missing values are never flagged.
package analysis
