// Package validation checks input and output paths before a batch analysis
// run starts, so path problems fail fast instead of mid-export.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "surveycli/internal/errors"
)

// PathValidator validates the filesystem surfaces of a run.
type PathValidator struct {
	logger *slog.Logger
}

// NewPathValidator creates a path validator. A nil logger falls back to
// slog.Default().
func NewPathValidator(logger *slog.Logger) *PathValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &PathValidator{logger: logger}
}

// ValidateWorkbook checks that path names a readable Excel workbook and not
// an Office lock file.
func (v *PathValidator) ValidateWorkbook(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return apperrors.NewNotFoundError(fmt.Sprintf("workbook %s", path))
	}
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("stat workbook %s", path), err)
	}
	if info.IsDir() {
		return apperrors.NewValidationError(fmt.Sprintf("%s is a directory, not a workbook", path))
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".xls" {
		return apperrors.NewValidationError(
			fmt.Sprintf("%s is not an Excel workbook (extension %s)", path, ext))
	}
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return apperrors.NewValidationError(
			fmt.Sprintf("%s is an Office lock file, not a workbook", path))
	}

	file, err := os.Open(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("workbook %s is not readable", path), err)
	}
	file.Close()

	v.logger.Debug("workbook validated",
		slog.String("path", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures the report directory exists and is
// writable, creating it when necessary.
func (v *PathValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("create output directory %s", dir), err)
	}

	probe := filepath.Join(dir, ".write_test")
	file, err := os.Create(probe)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(probe)

	v.logger.Debug("output directory validated", slog.String("directory", dir))
	return nil
}
