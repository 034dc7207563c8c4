package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"carhunt-engine/internal/config"
	"carhunt-engine/internal/estimate"
	"carhunt-engine/internal/events"
	"carhunt-engine/internal/fipe"
	"carhunt-engine/internal/httpapi"
	"carhunt-engine/internal/match"
	"carhunt-engine/internal/netutil"
	"carhunt-engine/internal/rank"
	"carhunt-engine/internal/scrape"
	"carhunt-engine/internal/scrape/olx"
	"carhunt-engine/internal/scrape/types"
	"carhunt-engine/internal/store"
)

func main() {
	once := flag.Bool("once", false, "run one search from config and print results instead of serving")
	csvPath := flag.String("csv", "", "with -once: also write results to this CSV file")
	flag.Parse()

	// Engine data dir: use env if provided (the UI can pass one), else local folder.
	dataDir := os.Getenv("CARHUNT_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir; a second instance would fight over sqlite.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("lock data dir: %v", err)
	}
	if !locked {
		log.Fatalf("another engine is already running in %s", dataDir)
	}
	defer lock.Unlock()

	userCfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		if err := config.OverlayAliases(&cfg, filepath.Join(dataDir, "aliases.yml")); err != nil {
			return cfg, err
		}
		normalized, vr := config.NormalizeAndValidate(cfg)
		for _, warn := range vr.Warnings {
			log.Printf("[config] warning: %s", warn)
		}
		if !vr.OK() {
			return cfg, fmt.Errorf("invalid config: %v", vr.Errors)
		}
		return normalized, nil
	}

	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	db, err := store.Open(filepath.Join(dataDir, "carhunt.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()
	deps := buildPipeline(cfg, hub)

	if *once {
		runOnce(deps, cfg, db, *csvPath)
		return
	}

	var status atomic.Value
	status.Store(types.SearchStatus{})

	mux := httpapi.NewMux(httpapi.Deps{
		DB:           db.Pool,
		Hub:          hub,
		CfgVal:       &cfgVal,
		SearchStatus: &status,
		UserCfgPath:  userCfgPath,
		LoadCfg:      loadCfg,
		Estimate:     deps.Estimator.Estimate,
		RunSearch: func(ctx context.Context, q types.Query, p rank.Params) (scrape.Result, error) {
			return scrape.RunSearch(ctx, deps, q, p)
		},
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[engine] listening on http://%s (data=%s)", addr, dataDir)

	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.RequestID,
			httpapi.Recover,
			httpapi.AccessLog,
			httpapi.Cors,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Fatal(srv.Serve(ln))
}

// buildPipeline wires the catalog client, estimator and ad source. Both
// HTTP surfaces share one per-host limiter so the engine stays polite.
func buildPipeline(cfg config.Config, hub *events.Hub) scrape.Deps {
	lim := netutil.NewHostLimiter(1, 1)

	catalogBase := cfg.Catalog.BaseURL
	if catalogBase == "" {
		catalogBase = fipe.DefaultBaseURL
	}
	lim.SetURLRate(catalogBase, cfg.Catalog.RequestsPerSecond)

	scrapeBase := cfg.Scrape.BaseURL
	if scrapeBase == "" {
		scrapeBase = olx.DefaultBaseURL
	}
	lim.SetURLRate(scrapeBase, cfg.Scrape.RequestsPerSecond)

	catalog := fipe.New(fipe.Config{
		BaseURL:        catalogBase,
		PriceCacheSize: cfg.Catalog.PriceCacheSize,
		Limiter:        lim,
	})
	est := estimate.New(catalog, estimate.Options{
		BrandCutoff:     cfg.Matching.BrandCutoff,
		ModelCutoff:     cfg.Matching.ModelCutoff,
		ModelCandidates: cfg.Matching.ModelCandidates,
		BrandAliases:    mergedAliases(cfg),
	})
	source := olx.New(olx.Config{
		BaseURL: scrapeBase,
		Retries: cfg.Scrape.Retries,
	}, lim)

	return scrape.Deps{
		Source:    source,
		Estimator: est,
		OnProgress: func(stage string, done, total int) {
			hub.Publish(events.MakeEvent("", "search_progress",
				map[string]any{"stage": stage, "done": done, "total": total}))
		},
	}
}

// mergedAliases extends the built-in shorthand table with config entries;
// config wins on conflict.
func mergedAliases(cfg config.Config) map[string]string {
	if len(cfg.Matching.BrandAliases) == 0 {
		return nil // resolver falls back to the built-in table
	}
	out := match.DefaultBrandAliases()
	for k, v := range cfg.Matching.BrandAliases {
		out[k] = v
	}
	return out
}
