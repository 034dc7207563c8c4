// Package estimate turns an ad's (brand, model, year) free text into a
// FIPE reference value. Catalog failures are absorbed along the way;
// absence of an estimate is the only failure signal.
package estimate

import (
	"context"
	"strings"

	"carhunt-engine/internal/domain"
	"carhunt-engine/internal/match"
	"carhunt-engine/internal/money"
)

// Catalog is the slice of the pricing catalog the estimator needs.
// *fipe.Client satisfies it.
type Catalog interface {
	Brands(ctx context.Context) ([]domain.Brand, error)
	Models(ctx context.Context, brandCode string) ([]domain.Model, error)
	YearVariants(ctx context.Context, brandCode, modelCode string) ([]domain.YearVariant, error)
	Price(ctx context.Context, brandCode, modelCode, yearCode string) (string, error)
}

type Options struct {
	BrandCutoff     float64           // accept brand match at or above this score
	ModelCutoff     float64           // model candidate cutoff
	ModelCandidates int               // how many model candidates to try
	BrandAliases    map[string]string // nil means the built-in table
}

type Estimator struct {
	cat Catalog
	opt Options
}

func New(cat Catalog, opt Options) *Estimator {
	if opt.BrandCutoff <= 0 {
		opt.BrandCutoff = match.DefaultBrandCutoff
	}
	if opt.ModelCutoff <= 0 {
		opt.ModelCutoff = match.DefaultModelCutoff
	}
	if opt.ModelCandidates <= 0 {
		opt.ModelCandidates = match.DefaultModelCandidates
	}
	return &Estimator{cat: cat, opt: opt}
}

// Estimate returns the reference value in whole reais, or nil when any
// input is blank, any catalog lookup fails, or no candidate resolves to a
// usable price. Model candidates are tried best-first: a near match with
// no price for the resolved year loses to the next candidate that has one.
func (e *Estimator) Estimate(ctx context.Context, brandText, modelText, yearText string) *int {
	if strings.TrimSpace(brandText) == "" ||
		strings.TrimSpace(modelText) == "" ||
		strings.TrimSpace(yearText) == "" {
		return nil
	}

	brands, err := e.cat.Brands(ctx)
	if err != nil {
		return nil
	}
	brand, score := match.ResolveBrand(brandText, brands, e.opt.BrandAliases)
	if brand == nil || score < e.opt.BrandCutoff {
		return nil
	}

	models, err := e.cat.Models(ctx, brand.Code)
	if err != nil {
		return nil
	}

	for _, cand := range match.ResolveModel(modelText, models, e.opt.ModelCandidates, e.opt.ModelCutoff) {
		variants, err := e.cat.YearVariants(ctx, brand.Code, cand.Model.Code)
		if err != nil {
			continue
		}
		variant := match.ResolveYearVariant(yearText, variants)
		if variant == nil {
			continue
		}
		raw, err := e.cat.Price(ctx, brand.Code, cand.Model.Code, variant.Code)
		if err != nil {
			continue
		}
		if val, ok := money.ParseBRL(raw); ok {
			return &val
		}
	}
	return nil
}
