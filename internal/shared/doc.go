// Package shared holds code used across loaneda packages that belongs to no
// single layer.
//
// The testutil subpackage provides:
//
//   - LoanCSV, a deterministic loan-application table generator
//   - BufferedHandler, an slog handler that captures records for assertions
//
// It must not import any other internal package.
package shared
