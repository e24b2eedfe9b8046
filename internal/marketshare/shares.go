package marketshare

import (
	"sort"

	"surveycli/pkg/contracts/domain"
)

// ShareEpsilon bounds the floating-point drift tolerated in a share table's
// sum: shares over a non-empty market sum to 100 within this tolerance.
const ShareEpsilon = 1e-6

// Shares converts brand totals into an ordered percentage market-share
// table. Entries are sorted by descending volume; equal volumes fall back to
// lexical brand order so output is deterministic regardless of map iteration.
// A non-positive grand total signals "no computable market" and yields an
// empty table. The input is never mutated.
func Shares(totals domain.BrandTotals) []domain.BrandShare {
	grand := totals.GrandTotal()
	if grand <= 0 {
		return nil
	}

	shares := make([]domain.BrandShare, 0, len(totals))
	for brand, volume := range totals {
		shares = append(shares, domain.BrandShare{
			Brand:  brand,
			Volume: volume,
			Share:  volume / grand * 100,
		})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		if shares[i].Volume != shares[j].Volume {
			return shares[i].Volume > shares[j].Volume
		}
		return shares[i].Brand < shares[j].Brand
	})
	return shares
}

// ScaleTotals multiplies every brand total by a flat per-test price,
// producing the monetary "brand values" view. A non-positive price yields
// nil, meaning value analysis was not requested.
func ScaleTotals(totals domain.BrandTotals, price float64) domain.BrandTotals {
	if price <= 0 || len(totals) == 0 {
		return nil
	}
	values := make(domain.BrandTotals, len(totals))
	for brand, volume := range totals {
		values[brand] = volume * price
	}
	return values
}
