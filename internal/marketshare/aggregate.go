package marketshare

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"surveycli/pkg/contracts/domain"
)

// Aggregate folds AllocateRow over every record and sums per-brand volumes.
// Addition is commutative, so the fold is evaluated as a bounded parallel
// map/reduce over record chunks; results are identical to a sequential pass
// up to floating-point reordering. A malformed cell degrades that row's
// contribution to zero rather than aborting the run.
func (a *Analyzer) Aggregate(ctx context.Context, records []domain.Record, cfg domain.AnalyzerConfig) (domain.BrandTotals, *Diagnostics, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validate analyzer config: %w", err)
	}

	diags := NewDiagnostics()
	a.reportMissingColumns(records, cfg, diags)

	if len(records) == 0 {
		return domain.BrandTotals{}, diags, nil
	}

	workers := a.workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(records) {
		workers = len(records)
	}
	if workers == 1 {
		totals := make(domain.BrandTotals)
		for i, record := range records {
			if err := ctx.Err(); err != nil {
				return nil, nil, fmt.Errorf("aggregation canceled: %w", err)
			}
			for _, alloc := range AllocateRow(record, cfg, a.norm, i, diags) {
				totals[alloc.Brand] += alloc.Volume
			}
		}
		return totals, diags, nil
	}

	chunkTotals := make([]domain.BrandTotals, workers)
	chunkDiags := make([]*Diagnostics, workers)
	chunkSize := (len(records) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		start := w * chunkSize
		end := start + chunkSize
		if end > len(records) {
			end = len(records)
		}
		if start >= end {
			chunkTotals[w] = domain.BrandTotals{}
			chunkDiags[w] = NewDiagnostics()
			continue
		}
		g.Go(func() error {
			totals := make(domain.BrandTotals)
			local := NewDiagnostics()
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				for _, alloc := range AllocateRow(records[i], cfg, a.norm, i, local) {
					totals[alloc.Brand] += alloc.Volume
				}
			}
			chunkTotals[w] = totals
			chunkDiags[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("aggregation canceled: %w", err)
	}

	totals := make(domain.BrandTotals)
	for w := 0; w < workers; w++ {
		for brand, volume := range chunkTotals[w] {
			totals[brand] += volume
		}
		diags.Merge(chunkDiags[w])
	}
	return totals, diags, nil
}

// reportMissingColumns warns once for every configured column that appears
// in no record of the run. The schema is the union of column keys across
// the record set, so ragged rows do not trigger false positives.
func (a *Analyzer) reportMissingColumns(records []domain.Record, cfg domain.AnalyzerConfig, diags *Diagnostics) {
	if len(records) == 0 {
		return
	}
	schema := make(map[string]struct{})
	for _, record := range records {
		for column := range record {
			schema[column] = struct{}{}
		}
	}
	for _, column := range cfg.Columns() {
		if _, ok := schema[column]; !ok {
			diags.MissingColumn(column)
		}
	}
}
