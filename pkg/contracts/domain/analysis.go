package domain

import (
	"sort"
	"time"
)

// PivotTable accumulates allocated yearly volume keyed by (category value,
// brand) for one categorical column, e.g. CITY or Class.
type PivotTable struct {
	// Category is the column the table was grouped by.
	Category string `json:"category"`
	// Cells maps category value → brand → summed yearly volume. Only
	// observed combinations are present; Matrix fills the gaps with zero.
	Cells map[string]BrandTotals `json:"cells"`
}

// NewPivotTable returns an empty pivot table for the given category column.
func NewPivotTable(category string) *PivotTable {
	return &PivotTable{Category: category, Cells: make(map[string]BrandTotals)}
}

// Add accumulates volume into the (value, brand) cell.
func (p *PivotTable) Add(value, brand string, volume float64) {
	row, ok := p.Cells[value]
	if !ok {
		row = make(BrandTotals)
		p.Cells[value] = row
	}
	row[brand] += volume
}

// IsEmpty reports whether no allocation ever reached the table.
func (p *PivotTable) IsEmpty() bool {
	return p == nil || len(p.Cells) == 0
}

// Brands returns the distinct brands observed anywhere in the table, sorted.
func (p *PivotTable) Brands() []string {
	seen := make(map[string]struct{})
	for _, row := range p.Cells {
		for brand := range row {
			seen[brand] = struct{}{}
		}
	}
	brands := make([]string, 0, len(seen))
	for brand := range seen {
		brands = append(brands, brand)
	}
	sort.Strings(brands)
	return brands
}

// Values returns the distinct category values in the table, sorted.
func (p *PivotTable) Values() []string {
	values := make([]string, 0, len(p.Cells))
	for v := range p.Cells {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Volume returns the cell volume for (value, brand), zero when unobserved.
func (p *PivotTable) Volume(value, brand string) float64 {
	return p.Cells[value][brand]
}

// Matrix materializes the table as one row per category value and one column
// per brand, zero-filled for unobserved combinations. Row order follows
// Values(), column order follows the brands argument (pass Brands() for the
// natural sorted order).
func (p *PivotTable) Matrix(brands []string) [][]float64 {
	values := p.Values()
	matrix := make([][]float64, len(values))
	for i, value := range values {
		row := make([]float64, len(brands))
		for j, brand := range brands {
			row[j] = p.Cells[value][brand]
		}
		matrix[i] = row
	}
	return matrix
}

// BrandTotal sums the table's volume for one brand across all category values.
func (p *PivotTable) BrandTotal(brand string) float64 {
	total := 0.0
	for _, row := range p.Cells {
		total += row[brand]
	}
	return total
}

// SummaryStats is a read-only descriptive snapshot of one analysis run.
type SummaryStats struct {
	// Sites counts distinct site identifiers, falling back to the record
	// count when no site column is present.
	Sites int `json:"sites"`
	// TotalVolume is the grand total yearly volume across all brands.
	TotalVolume float64 `json:"total_volume"`
	// TopBrand is the highest-share brand. HasTopBrand distinguishes a
	// genuinely empty market from a brand whose label is "".
	TopBrand    string `json:"top_brand,omitempty"`
	HasTopBrand bool   `json:"has_top_brand"`
	// CategoryCounts maps each configured categorical column present in the
	// data to its per-value record counts.
	CategoryCounts map[string]map[string]int `json:"category_counts,omitempty"`
}

// WarningKind classifies a non-fatal anomaly collected during analysis.
type WarningKind string

const (
	// WarnMissingColumn flags a configured column absent from the record
	// schema; the affected slots contribute zero workload.
	WarnMissingColumn WarningKind = "missing_column"
	// WarnValueCoercion flags a cell that failed numeric parsing and was
	// treated as zero.
	WarnValueCoercion WarningKind = "value_coercion"
)

// Warning is one structured diagnostic record. Warnings degrade gracefully:
// they are collected and returned, never raised.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Column string      `json:"column,omitempty"`
	Row    int         `json:"row,omitempty"`
	Value  string      `json:"value,omitempty"`
	Detail string      `json:"detail,omitempty"`
}

// AnalysisResult is the complete output of one analyzer-category run.
type AnalysisResult struct {
	RunID    string `json:"run_id"`
	Category string `json:"category"`

	BrandTotals BrandTotals  `json:"brand_totals"`
	MarketShare []BrandShare `json:"market_share"`
	// BrandValues is BrandTotals scaled by the category's test price; empty
	// when no price is configured.
	BrandValues BrandTotals            `json:"brand_values,omitempty"`
	Pivots      map[string]*PivotTable `json:"pivots,omitempty"`
	Summary     SummaryStats           `json:"summary"`
	Warnings    []Warning              `json:"warnings,omitempty"`

	Records     int           `json:"records"`
	GeneratedAt time.Time     `json:"generated_at"`
	Elapsed     time.Duration `json:"elapsed"`
}

// IsEmpty reports whether the run produced zero total volume after
// aggregation. Callers must treat this as "no data", not as an error.
func (r *AnalysisResult) IsEmpty() bool {
	return r == nil || r.BrandTotals.GrandTotal() <= 0
}
