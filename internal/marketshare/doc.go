// Package marketshare implements the workload-allocation and market-share
// aggregation engine for laboratory survey data.
//
// A survey sheet carries one row per customer site. Up to four competing
// analyzer brands may each report a daily test workload on the same row. The
// engine pro-rates each row's annualized test volume across its co-reporting
// brands, folds the allocations into per-brand yearly totals, and derives
// percentage market shares, categorical pivots and summary statistics.
//
// # Core Components
//
//   - normalize.go: brand-label canonicalization and total numeric coercion
//   - allocator.go: per-row proportional allocation of annualized volume
//   - aggregate.go: cross-row summation (sequential and parallel fold)
//   - shares.go: percentage market-share computation
//   - pivot.go: category x brand volume pivoting
//   - summary.go: descriptive statistics over a record set
//   - diagnostics.go: structured warning collection
//   - analyzer.go: orchestrator producing a complete AnalysisResult
//
// # Invariants
//
// The engine preserves the proportional-conservation law: whenever a row
// yields any allocation, the allocated volumes sum to that row's yearly
// volume up to floating-point rounding. Market shares over a non-empty
// market sum to 100 within 1e-6, and a pivot's per-brand column sums equal
// the brand's global total over the same records and configuration.
//
// All computation is deterministic and free of shared mutable state: every
// call owns its inputs and outputs, so concurrent analyses need no locking.
// Malformed cells never abort a run; they degrade to zero contributions and
// are reported through the Diagnostics collector.
//
// # Usage Example
//
//	engine := marketshare.NewAnalyzer(logger, marketshare.DefaultOptions())
//	result, err := engine.Analyze(ctx, records, cfg)
//	if err != nil {
//	    return err // configuration error, fatal for this category only
//	}
//	for _, s := range result.MarketShare {
//	    fmt.Printf("%s: %.1f%%\n", s.Brand, s.Share)
//	}
package marketshare
