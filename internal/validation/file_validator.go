// Package validation provides file system pre-checks shared by the
// comparison executables.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileValidator provides common file validation functions for the
// comparison executables
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

// ValidateRootDirectory validates that the comparison root exists and is a
// directory. An empty root (no batches, no workbooks) is not an error; the
// run simply produces no output.
func (v *FileValidator) ValidateRootDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("root directory does not exist",
			slog.String("directory", dir))
		return fmt.Errorf("root directory %s does not exist", dir)
	}
	if err != nil {
		v.logger.Error("failed to stat root directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		v.logger.Error("root path is not a directory",
			slog.String("path", dir))
		return fmt.Errorf("%s is not a directory", dir)
	}

	pattern := filepath.Join(dir, "*", "*.xlsx")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("failed to check for workbooks: %w", err)
	}
	if len(matches) == 0 {
		v.logger.Warn("no batch workbooks found under root",
			slog.String("directory", dir),
			slog.String("pattern", pattern))
		// Not an error - there may still be workbooks in the root itself.
		return nil
	}

	v.logger.Info("root directory validated",
		slog.String("directory", dir),
		slog.Int("workbooks_found", len(matches)))

	return nil
}

// ValidateOutputDirectory ensures the output directory exists or can be
// created, and is writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, []byte("test"), 0644); err != nil {
		v.logger.Error("output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	os.Remove(probe)

	return nil
}
