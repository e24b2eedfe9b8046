package marketshare

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "surveycli/internal/errors"
	"surveycli/pkg/contracts/domain"
)

func newTestAnalyzer(workers int) *Analyzer {
	opts := DefaultOptions()
	opts.Workers = workers
	return NewAnalyzer(nil, opts)
}

func sampleRecords() []domain.Record {
	return []domain.Record{
		{
			"Customer Name": "Lab One", "CITY": "Baghdad", "Class": "A",
			"IA Brand 1": "AlphaCo", "IA Workload - Brand 1": "10",
			"IA Brand 2": "BetaCo", "IA Workload - Brand 2": "15",
			"IA Total Yearly": "350",
		},
		{
			"Customer Name": "Lab Two", "CITY": "Basra", "Class": "B",
			"IA Brand 1": "AlphaCo", "IA Workload - Brand 1": "20",
			"IA Total Yearly": "400",
		},
		{
			"Customer Name": "Lab Three", "CITY": "Baghdad", "Class": "A",
			"IA Brand 1": "NILL", "IA Workload - Brand 1": "5",
			"IA Total Yearly": "100",
		},
	}
}

// TestAggregate tests the full fold over a small record set
func TestAggregate(t *testing.T) {
	a := newTestAnalyzer(1)

	totals, diags, err := a.Aggregate(context.Background(), sampleRecords(), yearlyConfig())
	require.NoError(t, err)
	require.NotNil(t, diags)

	assert.InDelta(t, 540.0, totals["ALPHACO"], 1e-9)
	assert.InDelta(t, 210.0, totals["BETACO"], 1e-9)
	assert.InDelta(t, 750.0, totals.GrandTotal(), 1e-9)
}

// TestAggregateParallelMatchesSequential tests that the chunked fold and
// the sequential fold agree up to floating-point tolerance
func TestAggregateParallelMatchesSequential(t *testing.T) {
	records := make([]domain.Record, 0, 200)
	for i := 0; i < 200; i++ {
		records = append(records, sampleRecords()[i%3])
	}

	seqTotals, _, err := newTestAnalyzer(1).Aggregate(context.Background(), records, yearlyConfig())
	require.NoError(t, err)

	parTotals, _, err := newTestAnalyzer(8).Aggregate(context.Background(), records, yearlyConfig())
	require.NoError(t, err)

	require.Equal(t, len(seqTotals), len(parTotals))
	for brand, volume := range seqTotals {
		assert.InDelta(t, volume, parTotals[brand], 1e-6, brand)
	}
}

// TestAggregateEmptyInput tests the degenerate cases
func TestAggregateEmptyInput(t *testing.T) {
	a := newTestAnalyzer(4)

	t.Run("no records", func(t *testing.T) {
		totals, diags, err := a.Aggregate(context.Background(), nil, yearlyConfig())
		require.NoError(t, err)
		assert.Empty(t, totals)
		assert.Zero(t, diags.Len())
	})

	t.Run("records with no usable rows", func(t *testing.T) {
		records := []domain.Record{
			{"IA Brand 1": "NILL", "IA Workload - Brand 1": "10", "IA Total Yearly": "100"},
		}
		totals, _, err := a.Aggregate(context.Background(), records, yearlyConfig())
		require.NoError(t, err)
		assert.Empty(t, totals)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := yearlyConfig()
		cfg.WorkloadColumns = cfg.WorkloadColumns[:1]
		_, _, err := a.Aggregate(context.Background(), sampleRecords(), cfg)
		assert.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := newTestAnalyzer(1).Aggregate(ctx, sampleRecords(), yearlyConfig())
		assert.Error(t, err)
	})
}

// TestAggregateMissingColumns tests schema-level warnings
func TestAggregateMissingColumns(t *testing.T) {
	a := newTestAnalyzer(1)
	records := []domain.Record{
		{"IA Brand 1": "A", "IA Workload - Brand 1": "10", "IA Total Yearly": "330"},
	}

	_, diags, err := a.Aggregate(context.Background(), records, yearlyConfig())
	require.NoError(t, err)

	missing := make(map[string]bool)
	for _, w := range diags.Warnings() {
		require.Equal(t, domain.WarnMissingColumn, w.Kind)
		missing[w.Column] = true
	}
	assert.True(t, missing["IA Brand 2"])
	assert.True(t, missing["IA Workload - Brand 2"])
	assert.True(t, missing["IA Brand 3"])
	assert.True(t, missing["IA Workload - Brand 3"])
	assert.False(t, missing["IA Brand 1"])
}

// TestAnalyze tests the end-to-end single-category run
func TestAnalyze(t *testing.T) {
	a := newTestAnalyzer(2)
	cfg := yearlyConfig()
	cfg.TestPrice = 2.0

	result, err := a.Analyze(context.Background(), sampleRecords(), cfg)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "IA", result.Category)
	assert.Equal(t, 3, result.Records)
	assert.False(t, result.IsEmpty())

	// Totals and ordered shares.
	assert.InDelta(t, 540.0, result.BrandTotals["ALPHACO"], 1e-9)
	assert.InDelta(t, 210.0, result.BrandTotals["BETACO"], 1e-9)
	require.Len(t, result.MarketShare, 2)
	assert.Equal(t, "ALPHACO", result.MarketShare[0].Brand)
	assert.InDelta(t, 72.0, result.MarketShare[0].Share, 1e-9)
	assert.InDelta(t, 28.0, result.MarketShare[1].Share, 1e-9)

	// Brand values scale totals by the test price.
	require.NotNil(t, result.BrandValues)
	assert.InDelta(t, 1080.0, result.BrandValues["ALPHACO"], 1e-9)

	// Pivots exist for columns present in the data and stay consistent
	// with the overall totals.
	require.Contains(t, result.Pivots, "CITY")
	city := result.Pivots["CITY"]
	assert.InDelta(t, result.BrandTotals["ALPHACO"], city.BrandTotal("ALPHACO"), 1e-6)
	assert.InDelta(t, result.BrandTotals["BETACO"], city.BrandTotal("BETACO"), 1e-6)
	assert.InDelta(t, 350.0, city.Volume("Baghdad", "ALPHACO")+city.Volume("Baghdad", "BETACO"), 1e-6)
	assert.InDelta(t, 400.0, city.Volume("Basra", "ALPHACO"), 1e-6)

	// Summary.
	assert.Equal(t, 3, result.Summary.Sites)
	assert.InDelta(t, 750.0, result.Summary.TotalVolume, 1e-9)
	assert.True(t, result.Summary.HasTopBrand)
	assert.Equal(t, "ALPHACO", result.Summary.TopBrand)
	assert.Equal(t, 2, result.Summary.CategoryCounts["CITY"]["Baghdad"])
}

// TestAnalyzeEmptyMarket tests that zero usable volume is a valid empty
// result, not an error
func TestAnalyzeEmptyMarket(t *testing.T) {
	a := newTestAnalyzer(1)
	records := []domain.Record{
		{"Customer Name": "Lab", "IA Brand 1": "NILL", "IA Workload - Brand 1": "9", "IA Total Yearly": "50"},
	}

	result, err := a.Analyze(context.Background(), records, yearlyConfig())
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
	assert.Empty(t, result.MarketShare)
	assert.Empty(t, result.Pivots)
	assert.False(t, result.Summary.HasTopBrand)
	assert.Equal(t, 1, result.Summary.Sites)
}

// TestAnalyzeInvalidConfig tests the config-error taxonomy
func TestAnalyzeInvalidConfig(t *testing.T) {
	a := newTestAnalyzer(1)

	tests := []struct {
		name   string
		mutate func(*domain.AnalyzerConfig)
	}{
		{"mismatched column lists", func(c *domain.AnalyzerConfig) {
			c.WorkloadColumns = c.WorkloadColumns[:2]
		}},
		{"both annualization modes", func(c *domain.AnalyzerConfig) {
			c.DaysPerYear = 330
		}},
		{"no annualization mode", func(c *domain.AnalyzerConfig) {
			c.YearlyColumn = ""
		}},
		{"no columns", func(c *domain.AnalyzerConfig) {
			c.BrandColumns = nil
			c.WorkloadColumns = nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := yearlyConfig()
			tt.mutate(&cfg)
			_, err := a.Analyze(context.Background(), sampleRecords(), cfg)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
		})
	}
}

// TestAnalyzeDeterministic tests that repeated runs produce identical
// analytical output
func TestAnalyzeDeterministic(t *testing.T) {
	a := newTestAnalyzer(4)
	cfg := yearlyConfig()

	first, err := a.Analyze(context.Background(), sampleRecords(), cfg)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), sampleRecords(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first.BrandTotals, second.BrandTotals)
	assert.Equal(t, first.MarketShare, second.MarketShare)
	assert.Equal(t, first.Summary, second.Summary)
}
