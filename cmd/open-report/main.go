// Command open-report compares open-fund NAV histories. On top of the
// merge-and-interpolate pipeline it rescales every competitor series to a
// common baseline anchored at the reference family's first reporting
// date, and writes a timestamped comparison workbook into each batch
// folder (or the root itself when it has no subfolders).
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"navcompare/internal/app"
	"navcompare/internal/config"
	"navcompare/internal/infrastructure"
	"navcompare/internal/validation"
)

func main() {
	root := flag.String("root", "", "root directory containing batch subfolders (defaults to the configured root, then the working directory)")
	marker := flag.String("reference", "", "reference family marker override (substring of product names)")
	out := flag.String("out", "", "directory reports are written to (defaults to the standard per-variant placement)")
	logLevel := flag.String("log-level", "", "log level override: debug | info | warn | error")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *root != "" {
		cfg.Paths.RootDir = *root
	}
	if *marker != "" {
		cfg.Patterns.ReferenceMarker = *marker
	}
	if *out != "" {
		cfg.Paths.OutputDir = *out
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.NewRunContext(context.Background())

	logger.InfoContext(ctx, "Starting open-fund NAV comparison",
		slog.String("root", cfg.Paths.RootDir),
		slog.String("reference_marker", cfg.Patterns.ReferenceMarker))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateRootDirectory(cfg.Paths.RootDir); err != nil {
		logger.ErrorContext(ctx, "Root directory validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.Paths.OutputDir != "" {
		if err := validator.ValidateOutputDirectory(cfg.Paths.OutputDir); err != nil {
			logger.ErrorContext(ctx, "Output directory validation failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	runner := app.NewRunner(cfg, logger, app.VariantOpen)
	if err := runner.Run(ctx); err != nil {
		logger.ErrorContext(ctx, "Comparison run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
