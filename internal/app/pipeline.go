// Package app wires the comparison pipeline: discover batches, extract
// NAV data, merge and resample, normalize (open variant), join product
// info, and write one report per batch. Every per-file and per-batch
// failure is logged and skipped; a run never aborts on bad input.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"navcompare/internal/config"
	"navcompare/internal/files"
	"navcompare/internal/lookup"
	"navcompare/internal/navdata"
	"navcompare/internal/report"
	"navcompare/internal/series"
)

// Variant selects which comparison report the pipeline produces.
type Variant int

const (
	// VariantClosed merges and interpolates closed-fund NAV histories and
	// writes one summary workbook per batch into the root directory.
	VariantClosed Variant = iota
	// VariantOpen additionally normalizes competitor NAVs to the
	// reference family's start date and writes a timestamped workbook
	// into each batch directory.
	VariantOpen
)

// Runner executes one comparison run over a root directory.
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	variant   Variant
	discovery *files.Discovery
	writer    *report.Writer
	patterns  navdata.Patterns

	// now is swappable so tests get stable output names
	now func() time.Time
}

// NewRunner creates a pipeline runner for the configured root directory.
func NewRunner(cfg *config.Config, logger *slog.Logger, variant Variant) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:       cfg,
		logger:    logger,
		variant:   variant,
		discovery: files.NewDiscovery(cfg.Paths.RootDir),
		writer:    report.NewWriter(cfg.Patterns.ReferenceMarker),
		patterns: navdata.Patterns{
			HistorySheet: cfg.Patterns.HistorySheet,
			LatestSheet:  cfg.Patterns.LatestSheet,
			DateColumn:   cfg.Patterns.DateColumn,
			NAVColumn:    cfg.Patterns.NAVColumn,
			CodeColumn:   cfg.Patterns.CodeColumn,
		},
		now: time.Now,
	}
}

// Run processes every batch under the root directory. The returned error
// covers only setup problems (unreadable root); data problems degrade to
// skipped files or batches.
func (r *Runner) Run(ctx context.Context) error {
	root := r.cfg.Paths.RootDir
	r.logger.InfoContext(ctx, "starting comparison run",
		slog.String("root", root),
		slog.Int("variant", int(r.variant)))

	lk := r.loadLookup(ctx, root)

	batches, err := r.discovery.ListBatchDirs(".")
	if err != nil {
		return fmt.Errorf("failed to list batch directories: %w", err)
	}

	// The open-fund tool also runs against a flat directory: without
	// subfolders the root itself is the single batch.
	if len(batches) == 0 && r.variant == VariantOpen {
		batches = []files.FileInfo{{
			Path:  root,
			Name:  filepath.Base(absOrSelf(root)),
			IsDir: true,
		}}
	}

	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.processBatch(ctx, batch, lk); err != nil {
			r.logger.ErrorContext(ctx, "batch failed, continuing",
				slog.String("batch", batch.Name),
				slog.String("error", err.Error()))
		}
	}

	r.logger.InfoContext(ctx, "comparison run finished",
		slog.Int("batches", len(batches)))
	return nil
}

// loadLookup loads the master product lookup table when a lookup workbook
// exists under the root. A missing workbook or a failed load disables
// product-info output for the whole run and is not an error.
func (r *Runner) loadLookup(ctx context.Context, root string) *lookup.Table {
	f, ok, err := r.discovery.FindLookupWorkbook(".", r.cfg.Patterns.LookupFile)
	if err != nil {
		r.logger.WarnContext(ctx, "lookup discovery failed, product info disabled",
			slog.String("root", root),
			slog.String("error", err.Error()))
		return nil
	}
	if !ok {
		r.logger.InfoContext(ctx, "no lookup workbook found, product info disabled",
			slog.String("marker", r.cfg.Patterns.LookupFile))
		return nil
	}

	opts := lookup.Options{
		SheetPatterns: r.cfg.Patterns.LookupSheet,
		HeaderRow:     r.cfg.Patterns.LookupHeaderRow,
		CodeColumn:    r.cfg.Patterns.CodeColumn,
	}
	lk, err := lookup.Load(f.Path, opts)
	if err != nil {
		r.logger.WarnContext(ctx, "lookup load failed, product info disabled",
			slog.String("file", f.Name),
			slog.String("error", err.Error()))
		return nil
	}

	r.logger.InfoContext(ctx, "lookup table loaded",
		slog.String("file", f.Name),
		slog.Int("rows", len(lk.Rows)))
	return lk
}

// processBatch runs the full pipeline for one batch folder.
func (r *Runner) processBatch(ctx context.Context, batch files.FileInfo, lk *lookup.Table) error {
	logger := r.logger.With(slog.String("batch", batch.Name))
	logger.InfoContext(ctx, "processing batch", slog.String("path", batch.Path))

	workbooks, err := r.discovery.FindWorkbooks(batch.Path)
	if err != nil {
		return fmt.Errorf("failed to scan batch: %w", err)
	}

	byProduct := make(map[string]*series.Series)
	var codes []string
	for _, wb := range workbooks {
		ext, err := navdata.ExtractWorkbook(ctx, wb.Path, r.patterns)
		if err != nil {
			logger.WarnContext(ctx, "workbook unreadable, skipping",
				slog.String("file", wb.Name),
				slog.String("error", err.Error()))
			continue
		}
		if ext.Series != nil {
			byProduct[ext.Series.Name] = ext.Series
		}
		codes = append(codes, ext.Codes...)
	}

	if len(byProduct) == 0 {
		logger.WarnContext(ctx, "no usable NAV series in batch, skipping")
		return nil
	}

	raw := series.Merge(byProduct)
	plot := raw.Resample()
	info := r.batchInfo(lk, codes)

	var outPath string
	switch r.variant {
	case VariantOpen:
		outPath = filepath.Join(r.outputDir(batch.Path),
			fmt.Sprintf("%s_开放式产品对比_%s.xlsx", batch.Name, r.now().Format("20060102_150405")))
		if err := r.writeOpen(outPath, raw, plot, info); err != nil {
			return err
		}
	default:
		outPath = filepath.Join(r.outputDir(r.cfg.Paths.RootDir),
			fmt.Sprintf("%s_产品净值汇总_含连接图表.xlsx", batch.Name))
		if err := r.writer.WriteClosed(outPath, raw, plot, info); err != nil {
			return err
		}
	}

	logger.InfoContext(ctx, "report written",
		slog.String("output", outPath),
		slog.Int("products", len(byProduct)),
		slog.Int("days", len(plot.Dates)))
	return nil
}

// writeOpen builds the normalized tables and writes the open-fund report.
// When the reference family has no data at all, the report carries the raw
// tables unnormalized rather than failing the batch.
func (r *Runner) writeOpen(path string, raw, plot *series.Table, info *lookup.Table) error {
	marker := r.cfg.Patterns.ReferenceMarker

	norm := raw
	normPlot := plot
	if baseline, ok := raw.BaselineDate(marker); ok {
		norm = raw.Normalize(marker, baseline)
		normPlot = norm.Resample().TrimBefore(baseline)
	} else {
		r.logger.Warn("no reference-family data in batch, skipping normalization",
			slog.String("marker", marker))
	}

	return r.writer.WriteOpen(path, raw, norm, plot, normPlot, info)
}

// batchInfo filters the lookup table to the batch's registration codes.
// The open variant also applies the preferred column order.
func (r *Runner) batchInfo(lk *lookup.Table, codes []string) *lookup.Table {
	if lk == nil || len(codes) == 0 {
		return nil
	}
	info := lk.FilterByCodes(lookup.CodeSet(codes))
	if r.variant == VariantOpen {
		info = info.ReorderColumns(r.cfg.Report.PreferredInfoColumns)
	}
	return info
}

// outputDir returns the directory reports go to: the configured output
// override when set, otherwise the variant's default placement.
func (r *Runner) outputDir(fallback string) string {
	if r.cfg.Paths.OutputDir != "" {
		return r.cfg.Paths.OutputDir
	}
	return fallback
}

// absOrSelf resolves a path for display purposes, falling back to the
// input when resolution fails.
func absOrSelf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
