package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"surveycli/internal/config"
	"surveycli/internal/exporter"
	"surveycli/internal/infrastructure"
	"surveycli/internal/ingest"
	"surveycli/internal/marketshare"
	"surveycli/internal/validation"
	"surveycli/pkg/contracts/domain"
)

func main() {
	in := flag.String("in", "", "input survey workbook (.xlsx)")
	sheet := flag.String("sheet", "", "worksheet to analyze (defaults to the first sheet)")
	out := flag.String("out", "reports", "output directory for CSV reports")
	categories := flag.String("categories", "all", "comma-separated analyzer categories (e.g. IA,CBC,CHEM) or 'all'")
	configPath := flag.String("config", "settings.yaml", "path to the YAML settings file")
	filterColumn := flag.String("filter-column", "", "optional column to filter records by before analysis")
	filterValue := flag.String("filter-value", "All", "value the filter column must equal ('All' disables)")
	workbook := flag.Bool("workbook", false, "also write a formatted .xlsx report per category")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: analyzer -in survey.xlsx [-sheet NAME] [-out DIR] [-categories IA,CBC]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := config.Load(*configPath, slog.Default())
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureTraceID(context.Background())
	if err := run(ctx, cfg, logger, runOptions{
		input:         *in,
		sheet:         *sheet,
		outDir:        *out,
		categories:    *categories,
		filterColumn:  *filterColumn,
		filterValue:   *filterValue,
		writeWorkbook: *workbook,
	}); err != nil {
		logger.ErrorContext(ctx, "analysis run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type runOptions struct {
	input         string
	sheet         string
	outDir        string
	categories    string
	filterColumn  string
	filterValue   string
	writeWorkbook bool
}

// run executes the batch analysis: read the worksheet once, then analyze and
// export each requested category. One failing category does not abort the
// rest; the run fails only when every category fails.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts runOptions) error {
	start := time.Now()

	paths := validation.NewPathValidator(logger)
	if err := paths.ValidateWorkbook(opts.input); err != nil {
		return err
	}
	if err := paths.ValidateOutputDirectory(opts.outDir); err != nil {
		return err
	}

	reader := ingest.NewReader(logger)
	sheet := opts.sheet
	if sheet == "" {
		names, err := reader.SheetNames(opts.input)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			return fmt.Errorf("workbook %s has no sheets", opts.input)
		}
		sheet = names[0]
	}

	records, err := reader.ReadSheet(ctx, opts.input, sheet)
	if err != nil {
		return err
	}

	if opts.filterColumn != "" {
		before := len(records)
		records = ingest.FilterByColumn(records, opts.filterColumn, opts.filterValue)
		logger.InfoContext(ctx, "records filtered",
			slog.String("column", opts.filterColumn),
			slog.String("value", opts.filterValue),
			slog.Int("before", before),
			slog.Int("after", len(records)))
	}

	names, err := resolveCategories(cfg, opts.categories)
	if err != nil {
		return err
	}

	engine := marketshare.NewAnalyzer(logger, marketshare.Options{
		SiteColumn:      cfg.Analysis.SiteColumn,
		CategoryColumns: cfg.Analysis.CategoryColumns,
		Workers:         cfg.Analysis.Workers,
	})
	csvWriter := exporter.NewCSVWriter(opts.outDir, logger)
	var workbookWriter *exporter.WorkbookWriter
	if opts.writeWorkbook {
		workbookWriter = exporter.NewWorkbookWriter(logger)
	}

	var succeeded, failed int
	for _, name := range names {
		if err := analyzeCategory(ctx, cfg, engine, csvWriter, workbookWriter, opts.outDir, name, records); err != nil {
			logger.ErrorContext(ctx, "category analysis failed",
				slog.String("category", name),
				slog.String("error", err.Error()))
			failed++
			continue
		}
		succeeded++
	}

	logger.InfoContext(ctx, "analysis run complete",
		slog.Int("succeeded", succeeded),
		slog.Int("failed", failed),
		slog.Duration("elapsed", time.Since(start)))

	if succeeded == 0 && failed > 0 {
		return fmt.Errorf("all %d categories failed", failed)
	}
	return nil
}

func analyzeCategory(ctx context.Context, cfg *config.Config, engine *marketshare.Analyzer, csvWriter *exporter.CSVWriter, workbookWriter *exporter.WorkbookWriter, outDir, name string, records []domain.Record) error {
	analyzerCfg, err := cfg.AnalyzerConfig(name)
	if err != nil {
		return err
	}

	result, err := engine.Analyze(ctx, records, analyzerCfg)
	if err != nil {
		return err
	}

	if err := csvWriter.WriteResult(result); err != nil {
		return err
	}
	if workbookWriter != nil {
		path := filepath.Join(outDir, fmt.Sprintf("%s_analysis.xlsx", name))
		if err := workbookWriter.Write(path, result); err != nil {
			return err
		}
	}
	return nil
}

// resolveCategories expands "all" to the configured category list and
// validates explicit names against it.
func resolveCategories(cfg *config.Config, arg string) ([]string, error) {
	configured := cfg.Categories()
	if strings.EqualFold(strings.TrimSpace(arg), "all") {
		return configured, nil
	}

	known := make(map[string]bool, len(configured))
	for _, name := range configured {
		known[name] = true
	}
	var names []string
	for _, raw := range strings.Split(arg, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if !known[name] {
			return nil, fmt.Errorf("unknown category %q (configured: %s)", name, strings.Join(configured, ", "))
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no categories requested")
	}
	return names, nil
}
