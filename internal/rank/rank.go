// Package rank filters estimated ads against the user's price and margin
// bands and orders them by closeness to the targets.
package rank

import (
	"fmt"
	"sort"

	"carhunt-engine/internal/domain"
)

// MarginSentinel stands in for the margin distance of ads whose margin is
// undefined, so they always sort after every ad with a real margin.
const MarginSentinel = 1_000_000_000

type Params struct {
	TargetPrice         int
	TargetMargin        int
	PriceTolerance      int
	MarginTolerance     int
	RequireNumericPrice bool
}

// Validate rejects parameter shapes that indicate a caller bug. Runtime
// conditions (no ads, no estimates) are never errors here.
func (p Params) Validate() error {
	if p.TargetPrice <= 0 {
		return fmt.Errorf("rank: target price must be > 0, got %d", p.TargetPrice)
	}
	if p.PriceTolerance < 0 {
		return fmt.Errorf("rank: price tolerance must be >= 0, got %d", p.PriceTolerance)
	}
	if p.MarginTolerance < 0 {
		return fmt.Errorf("rank: margin tolerance must be >= 0, got %d", p.MarginTolerance)
	}
	return nil
}

// FilterAndRank applies, in order: URL dedup, the numeric-price
// requirement, the closed price band, the margin band (ads without a
// margin are deferred to ranking, never dropped by this filter), then
// sorts ascending by (margin distance, price distance) with a stable sort
// so equal ads keep their input order. When the margin band matches
// nothing, every surviving ad with a reference value is returned instead
// for user inspection.
func FilterAndRank(ads []domain.EstimatedAd, p Params) ([]domain.RankedAd, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	lo := p.TargetPrice - p.PriceTolerance
	if lo < 0 {
		lo = 0
	}
	hi := p.TargetPrice + p.PriceTolerance

	seen := make(map[string]bool, len(ads))
	var band []domain.RankedAd
	for _, ad := range ads {
		if ad.URL == "" || seen[ad.URL] {
			continue
		}
		seen[ad.URL] = true

		if ad.Price == nil {
			if p.RequireNumericPrice {
				continue
			}
			band = append(band, newRanked(ad, p))
			continue
		}
		if *ad.Price < lo || *ad.Price > hi {
			continue
		}
		band = append(band, newRanked(ad, p))
	}
	if len(band) == 0 {
		return nil, nil
	}

	mLo := p.TargetMargin - p.MarginTolerance
	mHi := p.TargetMargin + p.MarginTolerance

	var kept, undefined []domain.RankedAd
	for _, ad := range band {
		if ad.Margin == nil {
			undefined = append(undefined, ad)
			continue
		}
		if *ad.Margin >= mLo && *ad.Margin <= mHi {
			kept = append(kept, ad)
		}
	}

	var out []domain.RankedAd
	if len(kept) > 0 {
		out = append(kept, undefined...)
	} else {
		// relaxation: nothing inside the margin band, so surface every ad
		// that at least has a reference value for inspection
		for _, ad := range band {
			if ad.ReferencePrice != nil {
				out = append(out, ad)
			}
		}
		if len(out) == 0 {
			// no reference values at all; every ad is margin-undefined,
			// so hand them all to the price-proximity sort
			out = undefined
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MarginDistance != out[j].MarginDistance {
			return out[i].MarginDistance < out[j].MarginDistance
		}
		return out[i].PriceDistance < out[j].PriceDistance
	})
	return out, nil
}

func newRanked(ad domain.EstimatedAd, p Params) domain.RankedAd {
	r := domain.RankedAd{
		EstimatedAd:    ad,
		PriceDistance:  MarginSentinel,
		MarginDistance: MarginSentinel,
	}
	if ad.Price != nil {
		r.PriceDistance = abs(*ad.Price - p.TargetPrice)
		if ad.ReferencePrice != nil {
			m := *ad.ReferencePrice - *ad.Price
			r.Margin = &m
			r.MarginDistance = abs(m - p.TargetMargin)
		}
	}
	return r
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
