package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	apperrors "loaneda/internal/errors"
)

// HTTPOpener downloads datasets over http(s)
type HTTPOpener struct {
	Client *http.Client
	logger *slog.Logger
}

func NewHTTPOpener(cli *http.Client, logger *slog.Logger) *HTTPOpener {
	if cli == nil {
		cli = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPOpener{Client: cli, logger: logger.With(slog.String("opener", "http"))}
}

func (h *HTTPOpener) Open(ctx context.Context, url string) (io.ReadCloser, Meta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, Meta{}, apperrors.NewAppValidationError(fmt.Sprintf("invalid dataset url %q: %v", url, err))
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, Meta{}, apperrors.NewNetworkError("download dataset", err).WithContext("url", url)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, Meta{}, apperrors.NewNotFoundError(fmt.Sprintf("dataset %s", url))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		resp.Body.Close()
		return nil, Meta{}, apperrors.NewNetworkError(fmt.Sprintf("http status %d", resp.StatusCode), nil).
			WithContext("url", url)
	}

	size := resp.ContentLength
	if size < 0 {
		size = -1
	}
	h.logger.DebugContext(ctx, "dataset download started",
		slog.String("url", url),
		slog.String("content_type", resp.Header.Get("Content-Type")),
		slog.Int64("size", size))

	return resp.Body, Meta{
		Source:      "http",
		Location:    url,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        size,
	}, nil
}
