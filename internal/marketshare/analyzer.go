package marketshare

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "surveycli/internal/errors"
	"surveycli/pkg/contracts/domain"
)

const (
	// DefaultSiteColumn identifies a customer site in the survey sheets.
	DefaultSiteColumn = "Customer Name"
	// DefaultWorkers bounds the parallel aggregation fold.
	DefaultWorkers = 4
)

// DefaultCategoryColumns are the categorical breakdowns computed when the
// caller does not override them.
var DefaultCategoryColumns = []string{"CITY", "Class", "Region", "Type"}

// Options configures an Analyzer.
type Options struct {
	// Sentinels overrides the "no brand reported" token set. Empty keeps
	// DefaultSentinels.
	Sentinels []string
	// SiteColumn is the distinct-site identifier column. Empty disables
	// site counting and Summarize falls back to the record count.
	SiteColumn string
	// CategoryColumns are the pivot/count breakdown columns.
	CategoryColumns []string
	// Workers bounds the parallel aggregation; values below 1 mean
	// sequential evaluation.
	Workers int
}

// DefaultOptions returns the options used by the survey workbooks this tool
// was built for.
func DefaultOptions() Options {
	return Options{
		SiteColumn:      DefaultSiteColumn,
		CategoryColumns: DefaultCategoryColumns,
		Workers:         DefaultWorkers,
	}
}

// Analyzer orchestrates one analyzer category's full analysis: aggregation,
// market share, value scaling, pivots and summary statistics. An Analyzer is
// immutable after construction and safe for concurrent use; each Analyze
// call owns its own outputs.
type Analyzer struct {
	norm       *Normalizer
	logger     *slog.Logger
	siteColumn string
	categories []string
	workers    int
}

// NewAnalyzer creates an analyzer with the given options. A nil logger
// falls back to slog.Default().
func NewAnalyzer(logger *slog.Logger, opts Options) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Analyzer{
		norm:       NewNormalizer(opts.Sentinels...),
		logger:     logger,
		siteColumn: opts.SiteColumn,
		categories: opts.CategoryColumns,
		workers:    workers,
	}
}

// Analyze runs the complete engine for one analyzer category and returns
// the full output contract: brand totals, ordered market share, monetary
// brand values, one pivot per configured category column, summary stats and
// collected diagnostics.
//
// A configuration error is fatal for this category only; callers running a
// multi-category batch continue with the remaining categories. Everything
// else degrades gracefully into warnings or explicitly empty results.
func (a *Analyzer) Analyze(ctx context.Context, records []domain.Record, cfg domain.AnalyzerConfig) (*domain.AnalysisResult, error) {
	start := time.Now()
	runID := uuid.New().String()

	logger := a.logger.With(
		slog.String("run_id", runID),
		slog.String("category", cfg.Name),
	)
	logger.InfoContext(ctx, "starting market share analysis",
		slog.Int("records", len(records)),
		slog.Int("slots", cfg.Slots()))

	if err := cfg.Validate(); err != nil {
		logger.ErrorContext(ctx, "analyzer configuration rejected",
			slog.String("error", err.Error()))
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("category %s has an invalid column configuration", cfg.Name), err)
	}

	totals, diags, err := a.Aggregate(ctx, records, cfg)
	if err != nil {
		return nil, fmt.Errorf("aggregate category %s: %w", cfg.Name, err)
	}

	shares := Shares(totals)
	if len(shares) == 0 {
		logger.WarnContext(ctx, "zero total volume; market share not computable")
	}

	result := &domain.AnalysisResult{
		RunID:       runID,
		Category:    cfg.Name,
		BrandTotals: totals,
		MarketShare: shares,
		BrandValues: ScaleTotals(totals, cfg.TestPrice),
		Records:     len(records),
		GeneratedAt: start,
	}

	pivots := make(map[string]*domain.PivotTable)
	for _, column := range a.categories {
		table, pivotDiags, err := a.Pivot(ctx, records, cfg, column)
		if err != nil {
			return nil, fmt.Errorf("pivot category %s by %s: %w", cfg.Name, column, err)
		}
		// Pivot re-allocates the same rows; only missing-column warnings
		// unseen during aggregation are worth keeping.
		mergeNewMissing(diags, pivotDiags)
		if table.IsEmpty() {
			continue
		}
		pivots[column] = table
	}
	if len(pivots) > 0 {
		result.Pivots = pivots
	}

	result.Summary = a.Summarize(records, totals, shares)
	result.Warnings = diags.Warnings()
	result.Elapsed = time.Since(start)

	logger.InfoContext(ctx, "market share analysis completed",
		slog.Int("brands", len(totals)),
		slog.Float64("total_volume", result.Summary.TotalVolume),
		slog.Int("pivots", len(pivots)),
		slog.Int("warnings", len(result.Warnings)),
		slog.Duration("elapsed", result.Elapsed))

	return result, nil
}

// mergeNewMissing copies only missing-column warnings from src into dst,
// relying on dst's per-column dedup to drop repeats.
func mergeNewMissing(dst, src *Diagnostics) {
	if src == nil {
		return
	}
	for _, w := range src.Warnings() {
		if w.Kind == domain.WarnMissingColumn {
			dst.MissingColumn(w.Column)
		}
	}
}
