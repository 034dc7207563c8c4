package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"carhunt-engine/internal/config"
	"carhunt-engine/internal/events"
	"carhunt-engine/internal/rank"
	"carhunt-engine/internal/scrape"
	"carhunt-engine/internal/scrape/types"
	"carhunt-engine/internal/store"
)

type SearchHandler struct {
	DB           *sql.DB
	CfgVal       *atomic.Value // config.Config
	SearchStatus *atomic.Value // types.SearchStatus
	Hub          *events.Hub
	RunSearch    func(ctx context.Context, q types.Query, p rank.Params) (scrape.Result, error)
}

// searchRequest overrides the configured search; zero values fall back to
// config so a bare POST runs the saved search.
type searchRequest struct {
	Model               string `json:"model"`
	State               string `json:"state"`
	City                string `json:"city"`
	TargetPrice         int    `json:"target_price"`
	TargetMargin        int    `json:"target_margin"`
	PriceTolerance      *int   `json:"price_tolerance"`
	MarginTolerance     *int   `json:"margin_tolerance"`
	RequireNumericPrice *bool  `json:"require_numeric_price"`
	MaxPages            int    `json:"max_pages"`
}

type searchResponse struct {
	SearchID int64          `json:"search_id"`
	Ads      []rankedAdJSON `json:"ads"`
	Warnings []string       `json:"warnings,omitempty"`
	TookMS   int64          `json:"took_ms"`
}

type rankedAdJSON struct {
	Title          string `json:"title"`
	PriceText      string `json:"price_text"`
	Price          *int   `json:"price"`
	ReferencePrice *int   `json:"reference_price"`
	Margin         *int   `json:"margin"`
	PriceDistance  int    `json:"price_distance"`
	MarginDistance int    `json:"margin_distance"`
	Location       string `json:"location,omitempty"`
	URL            string `json:"url"`
}

func (h SearchHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.SearchStatus.Load().(types.SearchStatus)
	writeJSON(w, st)
}

// Run executes a search synchronously; concurrent runs are rejected so the
// scraper never hammers the listing site from two directions.
func (h SearchHandler) Run(w http.ResponseWriter, r *http.Request) {
	st := h.SearchStatus.Load().(types.SearchStatus)
	if st.Running {
		WriteError(w, r, http.StatusConflict, "already_running", "a search is already running")
		return
	}

	var req searchRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
	}

	cfg := h.CfgVal.Load().(config.Config)
	q, p := merge(cfg, req)

	h.SearchStatus.Store(types.SearchStatus{
		LastRunAt: time.Now().Format(time.RFC3339),
		Running:   true,
		LastOkAt:  st.LastOkAt,
	})
	h.Hub.Publish(events.MakeEvent(RequestIDFrom(r.Context()), "search_started", map[string]any{"model": q.ModelText}))

	res, err := h.RunSearch(r.Context(), q, p)
	now := time.Now().Format(time.RFC3339)
	next := types.SearchStatus{LastRunAt: now}
	if err != nil {
		next.LastError = err.Error()
		next.LastOkAt = st.LastOkAt
		h.SearchStatus.Store(next)
		WriteError(w, r, http.StatusBadRequest, "invalid_params", err.Error())
		return
	}
	next.LastOkAt = now
	next.LastFound = len(res.Ads)
	h.SearchStatus.Store(next)

	searchID, err := store.InsertSearch(r.Context(), h.DB, store.Search{
		Model:           q.ModelText,
		State:           q.State,
		City:            q.City,
		TargetPrice:     p.TargetPrice,
		TargetMargin:    p.TargetMargin,
		PriceTolerance:  p.PriceTolerance,
		MarginTolerance: p.MarginTolerance,
	}, res.Ads)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_failed", err.Error())
		return
	}
	h.Hub.Publish(events.MakeEvent(RequestIDFrom(r.Context()), "search_finished",
		map[string]any{"search_id": searchID, "ads": len(res.Ads)}))

	out := searchResponse{
		SearchID: searchID,
		Ads:      make([]rankedAdJSON, 0, len(res.Ads)),
		Warnings: res.Warnings,
		TookMS:   res.Took.Milliseconds(),
	}
	for _, ad := range res.Ads {
		out.Ads = append(out.Ads, rankedAdJSON{
			Title:          ad.Title,
			PriceText:      ad.PriceText,
			Price:          ad.Price,
			ReferencePrice: ad.ReferencePrice,
			Margin:         ad.Margin,
			PriceDistance:  ad.PriceDistance,
			MarginDistance: ad.MarginDistance,
			Location:       ad.Location,
			URL:            ad.URL,
		})
	}
	writeJSON(w, out)
}

func merge(cfg config.Config, req searchRequest) (types.Query, rank.Params) {
	q := types.Query{
		ModelText: pick(req.Model, cfg.Search.Model),
		State:     pick(req.State, cfg.Search.State),
		City:      pick(req.City, cfg.Search.City),
		MaxPages:  pickInt(req.MaxPages, cfg.Search.MaxPages),
	}
	p := rank.Params{
		TargetPrice:         pickInt(req.TargetPrice, cfg.Search.TargetPrice),
		TargetMargin:        pickInt(req.TargetMargin, cfg.Search.TargetMargin),
		PriceTolerance:      cfg.Search.PriceTolerance,
		MarginTolerance:     cfg.Search.MarginTolerance,
		RequireNumericPrice: cfg.Search.RequireNumericPrice,
	}
	if req.PriceTolerance != nil {
		p.PriceTolerance = *req.PriceTolerance
	}
	if req.MarginTolerance != nil {
		p.MarginTolerance = *req.MarginTolerance
	}
	if req.RequireNumericPrice != nil {
		p.RequireNumericPrice = *req.RequireNumericPrice
	}
	return q, p
}

func pick(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func pickInt(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}
