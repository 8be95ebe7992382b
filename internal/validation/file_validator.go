package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "salesanalyzer/internal/errors"
	"salesanalyzer/internal/files"
)

// FileValidator checks run inputs and outputs before any work is done
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputFile checks that path is a readable sales export
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist",
			slog.String("file", path))
		return apperrors.NewNotFoundError("input file " + path)
	}
	if err != nil {
		v.logger.Error("Failed to stat input file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewInvalidInputError("cannot stat input file", err).WithContext("path", path)
	}
	if info.IsDir() {
		return apperrors.NewInvalidInputError(fmt.Sprintf("%s is a directory, not a file", path), nil)
	}
	if !files.IsInputFile(path) {
		v.logger.Error("Unsupported input file",
			slog.String("file", path),
			slog.String("extension", filepath.Ext(path)))
		return apperrors.NewInvalidInputError(
			fmt.Sprintf("%s is not an .xlsx or .csv file", filepath.Base(path)), nil).
			WithContext("path", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewInvalidInputError("input file is not readable", err).WithContext("path", path)
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateUpload checks the name and size of an uploaded export.
// maxBytes <= 0 disables the size check.
func (v *FileValidator) ValidateUpload(name string, size, maxBytes int64) error {
	if strings.ToLower(filepath.Ext(name)) != ".xlsx" && strings.ToLower(filepath.Ext(name)) != ".csv" {
		return apperrors.NewAppValidationError(
			fmt.Sprintf("%q is not an .xlsx or .csv file", name)).WithContext("field", "file")
	}
	if maxBytes > 0 && size > maxBytes {
		return apperrors.NewAppValidationError(
			fmt.Sprintf("upload of %d bytes exceeds the %d byte limit", size, maxBytes)).
			WithContext("field", "file")
	}
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewExportError("cannot create output directory", err).WithContext("directory", dir)
	}

	// Verify it's writable by creating a probe file
	probe, err := os.CreateTemp(dir, ".write_test-*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewExportError("output directory is not writable", err).WithContext("directory", dir)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
