package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"carhunt-engine/internal/config"
	"carhunt-engine/internal/events"
	"carhunt-engine/internal/rank"
	"carhunt-engine/internal/scrape"
	"carhunt-engine/internal/scrape/types"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Atomic stores
	CfgVal       *atomic.Value // stores config.Config
	SearchStatus *atomic.Value // stores types.SearchStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Core entrypoints (injected for testability)
	Estimate  func(ctx context.Context, brandText, modelText, yearText string) *int
	RunSearch func(ctx context.Context, q types.Query, p rank.Params) (scrape.Result, error)
}
