// Package app wires the loaneda components together.
//
// # Pipeline
//
// Pipeline is the batch path shared by both binaries:
//
//  1. Open the dataset location (local path, http(s) URL or s3:// object)
//  2. Parse the CSV into a dataset
//  3. Run the analysis stages
//  4. Generate commentary and render the HTML report
//  5. Write the requested artifacts concurrently
//
// Any failure aborts the run; no partial report is written.
//
// # Application
//
// Application is the report viewer. It starts the HTTP server at once and
// generates the report in the background; report endpoints answer 503 until
// the report is ready. SIGINT and SIGTERM trigger a graceful shutdown that
// flushes telemetry.
//
// # Error Handling
//
// All initialization errors are returned to the caller. The package never
// calls os.Exit, leaving exit codes to the main functions.
package app
