// Package exporter writes report artifacts to disk.
//
// This package contains four writers:
//
// CSVWriter: core CSV writing with headers, streaming, and a UTF-8 BOM for
// Excel compatibility. Used for the column summary, missingness and quality
// tables.
//
// WriteXLSX: one workbook with a sheet per report table.
//
// WriteJSON: the machine-readable report.
//
// PDFPrinter: prints the rendered HTML report through headless Chrome.
//
// Exporter ties them together and writes every requested format concurrently:
//
//	exp := exporter.New(paths, logger, exporter.WithMetrics(metrics))
//	artifacts, err := exp.Export(ctx, report, html, formats)
package exporter
