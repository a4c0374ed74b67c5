package http

import (
	"context"

	"loaneda/pkg/contracts/domain"
)

// Snapshot is an immutable, fully rendered report
type Snapshot struct {
	Report *domain.Report
	HTML   []byte
}

// ReportService provides the report the viewer serves. Current returns
// ErrReportNotReady while the report is being generated, or the error that
// made generation fail.
type ReportService interface {
	Current(ctx context.Context) (*Snapshot, error)
}
