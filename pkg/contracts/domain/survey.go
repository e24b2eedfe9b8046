package domain

import (
	"fmt"
	"strings"
)

// Record is a single row of a laboratory survey sheet, keyed by column
// header. Cell values are kept raw (as read from the workbook); numeric
// coercion and brand normalization happen in the engine. A missing key and
// an empty string are equivalent.
type Record map[string]string

// Get returns the trimmed cell value for the given column, or "" when the
// column is absent from this record.
func (r Record) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// Has reports whether the record carries a non-blank value for the column.
func (r Record) Has(column string) bool {
	return r.Get(column) != ""
}

// AnalyzerConfig describes the column layout of one analyzer category
// (IA, CBC, CHEM or a caller-defined equivalent). BrandColumns and
// WorkloadColumns are parallel lists: slot i pairs BrandColumns[i] with
// WorkloadColumns[i].
//
// Exactly one annualization mode must be set: either YearlyColumn names a
// dedicated per-row yearly-total column that is pro-rated across the row's
// brands, or DaysPerYear multiplies the row's daily workload sum.
type AnalyzerConfig struct {
	Name            string   `json:"name" yaml:"name" validate:"required"`
	BrandColumns    []string `json:"brand_columns" yaml:"brand_cols" validate:"required,min=1,dive,required"`
	WorkloadColumns []string `json:"workload_columns" yaml:"workload_cols" validate:"required,min=1,dive,required"`
	YearlyColumn    string   `json:"yearly_column,omitempty" yaml:"yearly_col,omitempty"`
	DaysPerYear     int      `json:"days_per_year,omitempty" yaml:"days_per_year,omitempty" validate:"min=0"`
	TestPrice       float64  `json:"test_price,omitempty" yaml:"test_price,omitempty" validate:"min=0"`
}

// Validate checks the structural invariants that struct tags cannot express:
// parallel column lists of equal length and exactly one annualization mode.
func (c AnalyzerConfig) Validate() error {
	if len(c.BrandColumns) == 0 || len(c.WorkloadColumns) == 0 {
		return fmt.Errorf("category %s: brand and workload column lists are required", c.Name)
	}
	if len(c.BrandColumns) != len(c.WorkloadColumns) {
		return fmt.Errorf("category %s: %d brand columns but %d workload columns",
			c.Name, len(c.BrandColumns), len(c.WorkloadColumns))
	}
	hasYearly := strings.TrimSpace(c.YearlyColumn) != ""
	hasDays := c.DaysPerYear > 0
	if hasYearly == hasDays {
		return fmt.Errorf("category %s: exactly one of yearly_column or days_per_year must be set", c.Name)
	}
	return nil
}

// Slots returns the number of brand/workload column pairs.
func (c AnalyzerConfig) Slots() int {
	return len(c.BrandColumns)
}

// Columns returns every column name the category reads, in slot order,
// with the yearly column (if any) last.
func (c AnalyzerConfig) Columns() []string {
	cols := make([]string, 0, len(c.BrandColumns)+len(c.WorkloadColumns)+1)
	cols = append(cols, c.BrandColumns...)
	cols = append(cols, c.WorkloadColumns...)
	if strings.TrimSpace(c.YearlyColumn) != "" {
		cols = append(cols, c.YearlyColumn)
	}
	return cols
}

// Allocation is one brand's share of a single record's annualized volume.
type Allocation struct {
	Brand  string  `json:"brand"`
	Volume float64 `json:"volume"`
}

// BrandTotals maps a normalized brand label to its cumulative yearly test
// volume across a record set. Values are never negative.
type BrandTotals map[string]float64

// GrandTotal returns the summed volume across all brands.
func (t BrandTotals) GrandTotal() float64 {
	total := 0.0
	for _, v := range t {
		total += v
	}
	return total
}

// Clone returns an independent copy of the totals.
func (t BrandTotals) Clone() BrandTotals {
	out := make(BrandTotals, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// BrandShare is one row of a market-share table. Shares are percentages in
// [0,100]; a full table sums to 100 within floating-point tolerance.
type BrandShare struct {
	Brand  string  `json:"brand"`
	Volume float64 `json:"volume"`
	Share  float64 `json:"share"`
}

// ShareMap flattens an ordered share table into a brand → percentage map for
// callers that do not care about ordering.
func ShareMap(shares []BrandShare) map[string]float64 {
	m := make(map[string]float64, len(shares))
	for _, s := range shares {
		m[s.Brand] = s.Share
	}
	return m
}
