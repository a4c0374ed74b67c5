package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	apperrors "loaneda/internal/errors"
)

// LocalOpener reads datasets from the filesystem
type LocalOpener struct {
	logger *slog.Logger
}

func NewLocalOpener(logger *slog.Logger) *LocalOpener {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalOpener{logger: logger.With(slog.String("opener", "local"))}
}

func (o *LocalOpener) Open(ctx context.Context, location string) (io.ReadCloser, Meta, error) {
	if err := ctx.Err(); err != nil {
		return nil, Meta{}, err
	}

	info, err := os.Stat(location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Meta{}, apperrors.NewNotFoundError(fmt.Sprintf("dataset %s", location))
		}
		return nil, Meta{}, apperrors.NewStorageError("stat dataset", err).WithContext("location", location)
	}
	if info.IsDir() {
		return nil, Meta{}, apperrors.NewAppValidationError(fmt.Sprintf("%s is a directory", location))
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, Meta{}, apperrors.NewStorageError("open dataset", err).WithContext("location", location)
	}

	o.logger.DebugContext(ctx, "dataset opened",
		slog.String("location", location),
		slog.Int64("size", info.Size()))

	return f, Meta{
		Source:      "file",
		Location:    location,
		ContentType: "text/csv",
		Size:        info.Size(),
	}, nil
}
