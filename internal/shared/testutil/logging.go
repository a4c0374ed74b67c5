package testutil

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogRecord is one captured log line
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// BufferedHandler captures log records for assertions. Handlers derived with
// WithAttrs share the same buffer.
type BufferedHandler struct {
	mu      *sync.Mutex
	records *[]LogRecord
	attrs   []slog.Attr
}

// NewBufferedHandler creates an empty capturing handler
func NewBufferedHandler() *BufferedHandler {
	return &BufferedHandler{mu: &sync.Mutex{}, records: &[]LogRecord{}}
}

func (h *BufferedHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *BufferedHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	*h.records = append(*h.records, LogRecord{Level: r.Level, Message: r.Message, Attrs: attrs})
	return nil
}

func (h *BufferedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &BufferedHandler{mu: h.mu, records: h.records, attrs: merged}
}

// WithGroup is a no-op; groups are flattened
func (h *BufferedHandler) WithGroup(string) slog.Handler { return h }

// Records returns a copy of the captured records
func (h *BufferedHandler) Records() []LogRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]LogRecord, len(*h.records))
	copy(out, *h.records)
	return out
}

// Find returns the first record whose message contains msg
func (h *BufferedHandler) Find(msg string) (LogRecord, bool) {
	for _, r := range h.Records() {
		if strings.Contains(r.Message, msg) {
			return r, true
		}
	}
	return LogRecord{}, false
}

// CountLevel returns the number of records at level
func (h *BufferedHandler) CountLevel(level slog.Level) int {
	n := 0
	for _, r := range h.Records() {
		if r.Level == level {
			n++
		}
	}
	return n
}

// NewTestLogger returns a logger backed by a BufferedHandler
func NewTestLogger() (*slog.Logger, *BufferedHandler) {
	h := NewBufferedHandler()
	return slog.New(h), h
}

// DiscardLogger drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// AssertNoErrors fails t if any error-level record was captured
func AssertNoErrors(t *testing.T, h *BufferedHandler) {
	t.Helper()
	for _, r := range h.Records() {
		if r.Level >= slog.LevelError {
			t.Errorf("unexpected error log: %s %v", r.Message, r.Attrs)
		}
	}
}
