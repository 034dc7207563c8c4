package types

import (
	"context"

	"carhunt-engine/internal/domain"
)

// Query is what an ad source needs to produce a batch of listings.
type Query struct {
	ModelText string // free text, e.g. "onix premier 2022"
	State     string // optional, e.g. "minas-gerais"
	City      string // optional, e.g. "belo-horizonte"
	MaxPrice  int    // price ceiling in reais; 0 means none
	MaxPages  int    // result pages to sweep; <= 0 means 1
}

// SearchStatus mirrors the last run for the API.
type SearchStatus struct {
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	LastFound int    `json:"last_found"`
	Running   bool   `json:"running"`
}

// AdSource produces a finite batch of raw ads for a query. It must not
// block indefinitely; timeout policy belongs to the implementation.
type AdSource interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]domain.RawAd, error)
}
