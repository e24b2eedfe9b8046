package marketshare

import (
	"fmt"
	"sync"

	"surveycli/pkg/contracts/domain"
)

// Diagnostics collects the non-fatal anomalies of one analysis call. It is
// returned to the caller instead of being logged ambiently, so presentation
// layers decide what to surface. Safe for concurrent use by the parallel
// aggregation fold.
type Diagnostics struct {
	mu       sync.Mutex
	warnings []domain.Warning
	missing  map[string]struct{}
}

// NewDiagnostics returns an empty collector.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{missing: make(map[string]struct{})}
}

// MissingColumn records a configured column absent from the record schema.
// Each column is reported once per run.
func (d *Diagnostics) MissingColumn(column string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, seen := d.missing[column]; seen {
		return
	}
	d.missing[column] = struct{}{}
	d.warnings = append(d.warnings, domain.Warning{
		Kind:   domain.WarnMissingColumn,
		Column: column,
		Detail: fmt.Sprintf("column %q not present in input; slots read from it contribute zero", column),
	})
}

// Coercion records a cell that failed numeric parsing and was treated as 0.
func (d *Diagnostics) Coercion(row int, column, raw string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.warnings = append(d.warnings, domain.Warning{
		Kind:   domain.WarnValueCoercion,
		Column: column,
		Row:    row,
		Value:  raw,
		Detail: "non-numeric cell treated as 0",
	})
}

// Merge folds another collector's warnings into this one. Used to combine
// per-chunk diagnostics after a parallel aggregation.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	other.mu.Lock()
	warnings := make([]domain.Warning, len(other.warnings))
	copy(warnings, other.warnings)
	other.mu.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, w := range warnings {
		if w.Kind == domain.WarnMissingColumn {
			if _, seen := d.missing[w.Column]; seen {
				continue
			}
			d.missing[w.Column] = struct{}{}
		}
		d.warnings = append(d.warnings, w)
	}
}

// Warnings returns the collected warnings. The returned slice is a copy.
func (d *Diagnostics) Warnings() []domain.Warning {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Warning, len(d.warnings))
	copy(out, d.warnings)
	return out
}

// Len returns the number of collected warnings.
func (d *Diagnostics) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.warnings)
}
