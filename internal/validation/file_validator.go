// Package validation holds filesystem pre-flight checks run before a report
// touches its input or output locations.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "loaneda/internal/errors"
)

// datasetExtensions are the file extensions a delimited dataset usually has
var datasetExtensions = map[string]bool{".csv": true, ".tsv": true, ".txt": true}

// FileValidator checks dataset and output locations
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateDatasetFile checks that path is a readable regular file. An
// unexpected extension is only logged.
func (v *FileValidator) ValidateDatasetFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return apperrors.NewNotFoundError(fmt.Sprintf("dataset %s", path))
	}
	if err != nil {
		return apperrors.NewStorageError("stat dataset", err).WithContext("location", path)
	}
	if info.IsDir() {
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}

	file, err := os.Open(path)
	if err != nil {
		return apperrors.NewStorageError("dataset is not readable", err).WithContext("location", path)
	}
	file.Close()

	ext := strings.ToLower(filepath.Ext(path))
	if !datasetExtensions[ext] {
		v.logger.Warn("Dataset has an unexpected extension",
			slog.String("file", path),
			slog.String("extension", ext))
	}

	v.logger.Debug("Dataset file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures dir exists or can be created, and is
// writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	testFile, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	name := testFile.Name()
	testFile.Close()
	os.Remove(name)

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}
