// Command closed-report compares closed-fund NAV histories. It scans the
// batch subfolders of a root directory, aligns and interpolates each
// batch's NAV series, and writes one summary workbook with an embedded
// comparison chart per batch into the root directory.
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

	logger.InfoContext(ctx, "Starting closed-fund NAV comparison",
		slog.String("root", cfg.Paths.RootDir))

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

	runner := app.NewRunner(cfg, logger, app.VariantClosed)
	if err := runner.Run(ctx); err != nil {
		logger.ErrorContext(ctx, "Comparison run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
