package httpapi

import "net/http"

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Estimation
	eh := EstimateHandler{Estimate: d.Estimate}
	mux.HandleFunc("/estimate", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: eh.Post,
	}))

	// Search
	sh := SearchHandler{
		DB:           d.DB,
		CfgVal:       d.CfgVal,
		SearchStatus: d.SearchStatus,
		Hub:          d.Hub,
		RunSearch:    d.RunSearch,
	}
	mux.HandleFunc("/search", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Run,
	}))
	mux.HandleFunc("/search/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Status,
	}))

	// Persisted results
	rh := ResultsHandler{DB: d.DB}
	mux.HandleFunc("/searches", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.List,
	}))
	mux.HandleFunc("/searches/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.GetByPath, // /searches/{id}/ads or /searches/{id}/csv
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	// SSE events
	evh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: evh.ServeSSE,
	}))

	return mux
}
