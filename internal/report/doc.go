// Package report turns an analysis result into the self-contained HTML
// report and the plain-language commentary that accompanies it.
package report
