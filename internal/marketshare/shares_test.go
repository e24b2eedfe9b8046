package marketshare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveycli/pkg/contracts/domain"
)

// TestShares tests percentage conversion, ordering and tie-breaking
func TestShares(t *testing.T) {
	t.Run("worked example", func(t *testing.T) {
		shares := Shares(domain.BrandTotals{"ALPHACO": 140, "BETACO": 210})
		require.Len(t, shares, 2)

		assert.Equal(t, "BETACO", shares[0].Brand)
		assert.InDelta(t, 60.0, shares[0].Share, 1e-9)
		assert.Equal(t, "ALPHACO", shares[1].Brand)
		assert.InDelta(t, 40.0, shares[1].Share, 1e-9)
	})

	t.Run("shares sum to 100", func(t *testing.T) {
		shares := Shares(domain.BrandTotals{
			"A": 123.45, "B": 0.007, "C": 9876.2, "D": 1.0 / 3.0,
		})
		sum := 0.0
		for _, s := range shares {
			assert.GreaterOrEqual(t, s.Share, 0.0)
			assert.LessOrEqual(t, s.Share, 100.0)
			sum += s.Share
		}
		assert.InDelta(t, 100.0, sum, ShareEpsilon)
	})

	t.Run("equal volumes break ties lexically", func(t *testing.T) {
		shares := Shares(domain.BrandTotals{"ZULU": 50, "ALPHA": 50, "MIKE": 100})
		require.Len(t, shares, 3)
		assert.Equal(t, "MIKE", shares[0].Brand)
		assert.Equal(t, "ALPHA", shares[1].Brand)
		assert.Equal(t, "ZULU", shares[2].Brand)
	})

	t.Run("empty market yields nil", func(t *testing.T) {
		assert.Nil(t, Shares(domain.BrandTotals{}))
		assert.Nil(t, Shares(domain.BrandTotals{"A": 0}))
	})

	t.Run("single brand holds the whole market", func(t *testing.T) {
		shares := Shares(domain.BrandTotals{"ONLY": 7})
		require.Len(t, shares, 1)
		assert.InDelta(t, 100.0, shares[0].Share, 1e-9)
	})
}

// TestScaleTotals tests the monetary brand-values view
func TestScaleTotals(t *testing.T) {
	totals := domain.BrandTotals{"A": 100, "B": 300}

	t.Run("positive price scales every brand", func(t *testing.T) {
		values := ScaleTotals(totals, 2.5)
		require.Len(t, values, 2)
		assert.InDelta(t, 250.0, values["A"], 1e-9)
		assert.InDelta(t, 750.0, values["B"], 1e-9)
	})

	t.Run("scaling preserves share proportions", func(t *testing.T) {
		volumeShares := domain.ShareMap(Shares(totals))
		valueShares := domain.ShareMap(Shares(ScaleTotals(totals, 17.0)))
		for brand, share := range volumeShares {
			assert.InDelta(t, share, valueShares[brand], 1e-9)
		}
	})

	t.Run("zero price disables value analysis", func(t *testing.T) {
		assert.Nil(t, ScaleTotals(totals, 0))
		assert.Nil(t, ScaleTotals(totals, -1))
	})

	t.Run("input is not mutated", func(t *testing.T) {
		_ = ScaleTotals(totals, 3)
		assert.InDelta(t, 100.0, totals["A"], 1e-12)
	})
}
