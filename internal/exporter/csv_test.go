package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveycli/pkg/contracts/domain"
)

func sampleResult() *domain.AnalysisResult {
	pivot := domain.NewPivotTable("CITY")
	pivot.Add("Baghdad", "ALPHACO", 140)
	pivot.Add("Baghdad", "BETACO", 210)
	pivot.Add("Basra", "ALPHACO", 400)

	return &domain.AnalysisResult{
		RunID:    "test-run",
		Category: "IA",
		BrandTotals: domain.BrandTotals{
			"ALPHACO": 540, "BETACO": 210,
		},
		MarketShare: []domain.BrandShare{
			{Brand: "ALPHACO", Volume: 540, Share: 72},
			{Brand: "BETACO", Volume: 210, Share: 28},
		},
		BrandValues: domain.BrandTotals{
			"ALPHACO": 1080, "BETACO": 420,
		},
		Pivots:  map[string]*domain.PivotTable{"CITY": pivot},
		Records: 3,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := strings.TrimPrefix(string(data), "\xEF\xBB\xBF")
	rows, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return rows
}

// TestWriteResult tests the full CSV file set for one analysis run
func TestWriteResult(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir, nil)

	require.NoError(t, writer.WriteResult(sampleResult()))

	t.Run("market share table", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(dir, "IA_market_share.csv"))
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"Brand", "YearlyVolume", "SharePercent"}, rows[0])
		assert.Equal(t, []string{"ALPHACO", "540.00", "72.00"}, rows[1])
		assert.Equal(t, []string{"BETACO", "210.00", "28.00"}, rows[2])
	})

	t.Run("brand values table", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(dir, "IA_brand_values.csv"))
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"ALPHACO", "1080.00"}, rows[1])
	})

	t.Run("pivot table zero-fills gaps", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(dir, "IA_pivot_CITY.csv"))
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"CITY", "ALPHACO", "BETACO"}, rows[0])
		assert.Equal(t, []string{"Baghdad", "140.00", "210.00"}, rows[1])
		assert.Equal(t, []string{"Basra", "400.00", "0.00"}, rows[2])
	})

	t.Run("files carry a UTF-8 BOM", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(dir, "IA_market_share.csv"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF"))
	})
}

// TestWriteResultNoValues tests that a result without a test price skips
// the brand-values file
func TestWriteResultNoValues(t *testing.T) {
	dir := t.TempDir()
	result := sampleResult()
	result.BrandValues = nil

	require.NoError(t, NewCSVWriter(dir, nil).WriteResult(result))

	_, err := os.Stat(filepath.Join(dir, "IA_brand_values.csv"))
	assert.True(t, os.IsNotExist(err))
}

// TestWriteResultNil tests the nil-result guard
func TestWriteResultNil(t *testing.T) {
	assert.Error(t, NewCSVWriter(t.TempDir(), nil).WriteResult(nil))
}

// TestWriteCreatesDirectories tests nested output paths
func TestWriteCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir, nil)

	err := writer.Write(filepath.Join("nested", "deep", "out.csv"), WriteOptions{
		Headers: []string{"A"},
		Rows:    [][]string{{"1"}},
	})
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(dir, "nested", "deep", "out.csv"))
	assert.Len(t, rows, 2)
}

// TestSanitizeName tests filename sanitization
func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Customer_Name", sanitizeName("Customer Name"))
	assert.Equal(t, "a_b_c", sanitizeName("a/b:c"))
	assert.Equal(t, "plain", sanitizeName("plain"))
}
