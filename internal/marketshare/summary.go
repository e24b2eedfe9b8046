package marketshare

import (
	"surveycli/pkg/contracts/domain"
)

// Summarize derives descriptive statistics from a record set and the
// aggregates already computed over it. Distinct sites are counted from the
// configured site column, falling back to the record count when that column
// is absent. An empty market surfaces as HasTopBrand == false rather than a
// crash or a fabricated label.
func (a *Analyzer) Summarize(records []domain.Record, totals domain.BrandTotals, shares []domain.BrandShare) domain.SummaryStats {
	stats := domain.SummaryStats{
		Sites:       a.countSites(records),
		TotalVolume: totals.GrandTotal(),
	}
	if len(shares) > 0 {
		stats.TopBrand = shares[0].Brand
		stats.HasTopBrand = true
	}

	counts := make(map[string]map[string]int)
	for _, column := range a.categories {
		perValue := make(map[string]int)
		for _, record := range records {
			value := record.Get(column)
			if value == "" {
				continue
			}
			perValue[value]++
		}
		if len(perValue) > 0 {
			counts[column] = perValue
		}
	}
	if len(counts) > 0 {
		stats.CategoryCounts = counts
	}
	return stats
}

// countSites counts distinct non-blank site identifiers, or falls back to
// the record count when the site column never appears.
func (a *Analyzer) countSites(records []domain.Record) int {
	if a.siteColumn == "" {
		return len(records)
	}
	seen := make(map[string]struct{})
	present := false
	for _, record := range records {
		value := record.Get(a.siteColumn)
		if value == "" {
			continue
		}
		present = true
		seen[value] = struct{}{}
	}
	if !present {
		return len(records)
	}
	return len(seen)
}
