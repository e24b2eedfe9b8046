package marketshare

import (
	"context"
	"fmt"

	"surveycli/pkg/contracts/domain"
)

// UnknownCategory is the label rows fall into when their category cell is
// missing or blank after trimming.
const UnknownCategory = "UNKNOWN"

// Pivot re-runs row allocation grouped by a categorical column (city,
// class, region, type), accumulating volume keyed by (category value,
// brand). It returns nil when zero allocations were produced across the
// whole record set; a returned table always has at least one positive cell,
// since rows only contribute through positive allocations.
func (a *Analyzer) Pivot(ctx context.Context, records []domain.Record, cfg domain.AnalyzerConfig, categoryColumn string) (*domain.PivotTable, *Diagnostics, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validate analyzer config: %w", err)
	}
	if categoryColumn == "" {
		return nil, nil, fmt.Errorf("category column is required")
	}

	diags := NewDiagnostics()
	a.reportMissingColumns(records, cfg, diags)

	table := domain.NewPivotTable(categoryColumn)
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("pivot canceled: %w", err)
		}
		allocations := AllocateRow(record, cfg, a.norm, i, diags)
		if len(allocations) == 0 {
			continue
		}
		value := record.Get(categoryColumn)
		if value == "" {
			value = UnknownCategory
		}
		for _, alloc := range allocations {
			table.Add(value, alloc.Brand, alloc.Volume)
		}
	}

	if table.IsEmpty() {
		return nil, diags, nil
	}
	return table, diags, nil
}
