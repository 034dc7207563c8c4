package scrape

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"carhunt-engine/internal/domain"
	"carhunt-engine/internal/rank"
	"carhunt-engine/internal/scrape/types"
)

// Estimator is what the runner needs from the estimation layer; nil
// results mean "no estimate", never an error.
type Estimator interface {
	Estimate(ctx context.Context, brandText, modelText, yearText string) *int
}

type Deps struct {
	Source    types.AdSource
	Estimator Estimator
	// OnProgress is optional; it receives coarse pipeline events for the UI.
	OnProgress func(stage string, done, total int)
}

// Result carries the ranked ads plus non-fatal trouble along the way, so a
// caller can show partial results together with a warning.
type Result struct {
	Query    types.Query
	Params   rank.Params
	Ads      []domain.RankedAd
	Warnings []string
	Took     time.Duration
}

// estimateWorkers bounds parallel estimations per search. The catalog
// client collapses duplicate in-flight lookups, so workers mostly hit the
// cache after the first few ads of a brand.
const estimateWorkers = 4

// RunSearch drives one search end to end: fetch listing pages, estimate a
// reference value per ad, compute margins and rank. Ad-source failure is
// recorded as a warning so partial results still rank; the only hard
// failure is malformed ranking parameters.
func RunSearch(ctx context.Context, d Deps, q types.Query, p rank.Params) (Result, error) {
	start := time.Now()
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if q.MaxPrice <= 0 {
		// let the source pre-filter server-side at the top of the band
		q.MaxPrice = p.TargetPrice + p.PriceTolerance
	}

	res := Result{Query: q, Params: p}

	raw, err := d.Source.Fetch(ctx, q)
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("ad source %s: %v", d.Source.Name(), err))
		log.Printf("[search] source %s failed: %v", d.Source.Name(), err)
	}
	progress(d, "fetched", len(raw), len(raw))

	// Parallel estimation is an optimization only; results land in a slice
	// indexed by input position so ordering never depends on completion
	// time, and the catalog cache is the single synchronized resource.
	est := make([]domain.EstimatedAd, len(raw))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(estimateWorkers)
	for i, ad := range raw {
		i, ad := i, ad
		est[i].RawAd = ad
		g.Go(func() error {
			brand, model, year := estimationTexts(ad, q)
			est[i].ReferencePrice = d.Estimator.Estimate(gctx, brand, model, year)
			return nil
		})
	}
	_ = g.Wait()
	progress(d, "estimated", len(est), len(est))

	ranked, err := rank.FilterAndRank(est, p)
	if err != nil {
		return Result{}, err
	}
	res.Ads = ranked
	res.Took = time.Since(start)
	progress(d, "ranked", len(ranked), len(ranked))

	log.Printf("[search] q=%q ads=%d ranked=%d took=%s", q.ModelText, len(raw), len(ranked), res.Took)
	return res, nil
}

// estimationTexts fills the estimator inputs from an ad's structured
// fields when the source provided them, falling back to the title (the
// resolvers handle free text) and finally the query text.
func estimationTexts(ad domain.RawAd, q types.Query) (brand, model, year string) {
	brand, model, year = ad.BrandText, ad.ModelText, ad.YearText
	if brand == "" {
		brand = ad.Title
	}
	if model == "" {
		model = ad.Title
	}
	if year == "" {
		year = ad.Title
	}
	if year == "" {
		year = q.ModelText
	}
	return brand, model, year
}

func progress(d Deps, stage string, done, total int) {
	if d.OnProgress != nil {
		d.OnProgress(stage, done, total)
	}
}
