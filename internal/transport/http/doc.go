// Package http implements the HTTP handlers of the report viewer.
// Handlers stay thin: they read the current report snapshot from a
// ReportService and format it, leaving all analysis to the pipeline.
//
// # Routes
//
//	GET /                         rendered HTML report
//	GET /api/v1/report            full report as JSON
//	GET /api/v1/report/summary    column summaries (?limit=, ?kind=)
//	GET /api/v1/report/columns/{column}
//	GET /api/v1/report/missing
//	GET /api/v1/report/target
//	GET /api/v1/report/correlations
//	GET /api/v1/report/quality
//	GET /api/health               liveness plus report state
//	GET /api/health/ready         503 until the report is available
//	GET /api/version
//	GET /metrics                  Prometheus exposition
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/report-not-ready",
//	    "title": "Service Unavailable",
//	    "status": 503,
//	    "detail": "The report is still being generated",
//	    "instance": "/api/v1/report"
//	}
package http
