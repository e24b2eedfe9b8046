package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPivotTable tests accumulation, enumeration and the zero-filled matrix
func TestPivotTable(t *testing.T) {
	table := NewPivotTable("CITY")
	assert.True(t, table.IsEmpty())

	table.Add("Baghdad", "ALPHACO", 100)
	table.Add("Baghdad", "ALPHACO", 50)
	table.Add("Baghdad", "BETACO", 25)
	table.Add("Basra", "BETACO", 75)

	assert.False(t, table.IsEmpty())
	assert.Equal(t, []string{"ALPHACO", "BETACO"}, table.Brands())
	assert.Equal(t, []string{"Baghdad", "Basra"}, table.Values())

	assert.InDelta(t, 150.0, table.Volume("Baghdad", "ALPHACO"), 1e-12)
	assert.Zero(t, table.Volume("Basra", "ALPHACO"), "unobserved cell is zero")
	assert.Zero(t, table.Volume("Mosul", "BETACO"), "unobserved row is zero")

	assert.InDelta(t, 150.0, table.BrandTotal("ALPHACO"), 1e-12)
	assert.InDelta(t, 100.0, table.BrandTotal("BETACO"), 1e-12)

	matrix := table.Matrix(table.Brands())
	require.Len(t, matrix, 2)
	assert.Equal(t, []float64{150, 25}, matrix[0])
	assert.Equal(t, []float64{0, 75}, matrix[1])
}

// TestPivotTableNil tests nil-receiver safety for IsEmpty
func TestPivotTableNil(t *testing.T) {
	var table *PivotTable
	assert.True(t, table.IsEmpty())
}

// TestAnalysisResultIsEmpty tests the empty-result contract
func TestAnalysisResultIsEmpty(t *testing.T) {
	var result *AnalysisResult
	assert.True(t, result.IsEmpty())

	assert.True(t, (&AnalysisResult{}).IsEmpty())
	assert.True(t, (&AnalysisResult{BrandTotals: BrandTotals{}}).IsEmpty())
	assert.False(t, (&AnalysisResult{BrandTotals: BrandTotals{"A": 1}}).IsEmpty())
}
