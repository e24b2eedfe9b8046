package marketshare

import (
	"surveycli/pkg/contracts/domain"
)

// brandWorkload is one working-set entry for a single row: a present brand
// paired with its positive daily workload.
type brandWorkload struct {
	brand    string
	workload float64
}

// AllocateRow distributes one record's annualized test volume across the
// brands it mentions, in proportion to their reported daily workloads.
//
// For each brand/workload column pair the brand is normalized and the
// workload coerced to a non-negative float. Pairs with a present brand and
// positive workload form the working set. When the working set's daily sum
// or the row's yearly volume is non-positive the row credits nobody and the
// result is empty.
//
// The same brand appearing under two different columns is two independent
// slots; downstream summation merges them like any other brand. The sum of
// the returned volumes equals the row's yearly volume up to floating-point
// rounding whenever the result is non-empty.
//
// diags may be nil when the caller does not collect warnings. row is the
// zero-based record index used in coercion warnings.
func AllocateRow(record domain.Record, cfg domain.AnalyzerConfig, norm *Normalizer, row int, diags *Diagnostics) []domain.Allocation {
	if norm == nil {
		norm = defaultNormalizer
	}

	working := make([]brandWorkload, 0, cfg.Slots())
	dailySum := 0.0
	for i := 0; i < cfg.Slots(); i++ {
		brand, present := norm.Normalize(record.Get(cfg.BrandColumns[i]))
		raw := record.Get(cfg.WorkloadColumns[i])
		workload, ok := ParseNumeric(raw)
		if !ok && diags != nil {
			diags.Coercion(row, cfg.WorkloadColumns[i], raw)
		}
		if !present || workload <= 0 {
			continue
		}
		working = append(working, brandWorkload{brand: brand, workload: workload})
		dailySum += workload
	}
	if dailySum <= 0 {
		return nil
	}

	rowYearly := rowYearlyVolume(record, cfg, dailySum, row, diags)
	if rowYearly <= 0 {
		return nil
	}

	allocations := make([]domain.Allocation, 0, len(working))
	for _, bw := range working {
		allocations = append(allocations, domain.Allocation{
			Brand:  bw.brand,
			Volume: rowYearly * (bw.workload / dailySum),
		})
	}
	return allocations
}

// rowYearlyVolume resolves the record's annualized volume according to the
// category's configured mode: a dedicated yearly-total column, or the daily
// sum scaled by days-per-year.
func rowYearlyVolume(record domain.Record, cfg domain.AnalyzerConfig, dailySum float64, row int, diags *Diagnostics) float64 {
	if cfg.YearlyColumn != "" {
		raw := record.Get(cfg.YearlyColumn)
		yearly, ok := ParseNumeric(raw)
		if !ok && diags != nil {
			diags.Coercion(row, cfg.YearlyColumn, raw)
		}
		return yearly
	}
	return dailySum * float64(cfg.DaysPerYear)
}
