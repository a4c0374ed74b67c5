package app

import (
	"context"
	"sync"

	apperrors "loaneda/internal/errors"
	transporthttp "loaneda/internal/transport/http"
)

// reportStore holds the outcome of the background generation
type reportStore struct {
	mu       sync.RWMutex
	snapshot *transporthttp.Snapshot
	err      error
}

// Current implements transporthttp.ReportService
func (s *reportStore) Current(ctx context.Context) (*transporthttp.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.snapshot == nil {
		return nil, apperrors.ErrReportNotReady
	}
	return s.snapshot, nil
}

func (s *reportStore) set(res *Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		return
	}
	s.snapshot = &transporthttp.Snapshot{Report: res.Report, HTML: res.HTML}
}
