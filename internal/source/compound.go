package source

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"loaneda/internal/config"
	apperrors "loaneda/internal/errors"
)

// Compound routes a location to the opener for its scheme. Locations
// without a scheme are local paths.
type Compound struct {
	Local *LocalOpener
	HTTP  *HTTPOpener
	S3    *S3Opener
}

func NewCompound(local *LocalOpener, httpOp *HTTPOpener, s3Op *S3Opener) *Compound {
	return &Compound{Local: local, HTTP: httpOp, S3: s3Op}
}

func (c *Compound) Open(ctx context.Context, location string) (io.ReadCloser, Meta, error) {
	loc := strings.TrimSpace(location)

	switch {
	case strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://"):
		if c.HTTP == nil {
			return nil, Meta{}, apperrors.NewConfigError("http opener not configured", nil)
		}
		return c.HTTP.Open(ctx, loc)

	case strings.HasPrefix(loc, "s3://"):
		if c.S3 == nil {
			return nil, Meta{}, apperrors.NewConfigError("s3 opener not configured: set EDA_STORAGE_ENDPOINT", nil)
		}
		return c.S3.Open(ctx, loc)

	default:
		if c.Local == nil {
			return nil, Meta{}, apperrors.NewConfigError("local opener not configured", nil)
		}
		path, _ := LocalPath(loc)
		return c.Local.Open(ctx, path)
	}
}

// LocalPath reports whether location names a local file and returns its path
func LocalPath(location string) (string, bool) {
	loc := strings.TrimSpace(location)
	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") || strings.HasPrefix(loc, "s3://") {
		return "", false
	}
	return strings.TrimPrefix(loc, "file://"), true
}

// FromConfig builds a Compound opener. The S3 opener is only wired when a
// storage endpoint is configured.
func FromConfig(cfg *config.Config, logger *slog.Logger) (*Compound, error) {
	c := NewCompound(
		NewLocalOpener(logger),
		NewHTTPOpener(&http.Client{Timeout: config.DefaultHTTPTimeout}, logger),
		nil,
	)
	if cfg.Storage.Endpoint != "" {
		client, err := NewS3Client(cfg.Storage)
		if err != nil {
			return nil, err
		}
		c.S3 = NewS3Opener(client, logger)
	}
	return c, nil
}
