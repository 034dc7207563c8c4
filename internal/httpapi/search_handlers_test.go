package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"carhunt-engine/internal/config"
	"carhunt-engine/internal/domain"
	"carhunt-engine/internal/events"
	"carhunt-engine/internal/rank"
	"carhunt-engine/internal/scrape"
	"carhunt-engine/internal/scrape/types"
)

func newSearchHandler(t *testing.T, run func(ctx context.Context, q types.Query, p rank.Params) (scrape.Result, error)) SearchHandler {
	t.Helper()

	cfg := config.Default()
	cfg.Search.Model = "onix premier"
	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	var status atomic.Value
	status.Store(types.SearchStatus{})

	return SearchHandler{
		DB:           openResultsDB(t),
		CfgVal:       &cfgVal,
		SearchStatus: &status,
		Hub:          events.NewHub(),
		RunSearch:    run,
	}
}

func TestSearchRun(t *testing.T) {
	price := 82000
	ref := 89000
	margin := 7000

	var gotQuery types.Query
	var gotParams rank.Params
	h := newSearchHandler(t, func(_ context.Context, q types.Query, p rank.Params) (scrape.Result, error) {
		gotQuery, gotParams = q, p
		return scrape.Result{
			Query:  q,
			Params: p,
			Ads: []domain.RankedAd{{
				EstimatedAd: domain.EstimatedAd{
					RawAd:          domain.RawAd{Title: "Onix Premier 2022", Price: &price, URL: "u/a"},
					ReferencePrice: &ref,
				},
				Margin:         &margin,
				PriceDistance:  2000,
				MarginDistance: 1000,
			}},
		}, nil
	})

	body := `{"model":"uno mille","target_price":30000,"price_tolerance":4000}`
	rec := httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	// request fields override config, everything else falls back
	require.Equal(t, "uno mille", gotQuery.ModelText)
	require.Equal(t, 30000, gotParams.TargetPrice)
	require.Equal(t, 4000, gotParams.PriceTolerance)
	require.Equal(t, config.Default().Search.TargetMargin, gotParams.TargetMargin)

	var resp struct {
		SearchID int64 `json:"search_id"`
		Ads      []struct {
			Title  string `json:"title"`
			Margin *int   `json:"margin"`
		} `json:"ads"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Greater(t, resp.SearchID, int64(0))
	require.Len(t, resp.Ads, 1)
	require.Equal(t, "Onix Premier 2022", resp.Ads[0].Title)
	require.NotNil(t, resp.Ads[0].Margin)
	require.Equal(t, 7000, *resp.Ads[0].Margin)

	st := h.SearchStatus.Load().(types.SearchStatus)
	require.False(t, st.Running)
	require.Equal(t, 1, st.LastFound)
	require.Empty(t, st.LastError)
}

func TestSearchRunEmptyBodyUsesConfig(t *testing.T) {
	h := newSearchHandler(t, func(_ context.Context, q types.Query, p rank.Params) (scrape.Result, error) {
		require.Equal(t, "onix premier", q.ModelText)
		require.Equal(t, config.Default().Search.TargetPrice, p.TargetPrice)
		return scrape.Result{Query: q, Params: p}, nil
	})

	rec := httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodPost, "/search", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchRunConflict(t *testing.T) {
	h := newSearchHandler(t, func(_ context.Context, q types.Query, p rank.Params) (scrape.Result, error) {
		return scrape.Result{}, nil
	})
	h.SearchStatus.Store(types.SearchStatus{Running: true})

	rec := httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodPost, "/search", nil))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestSearchStatus(t *testing.T) {
	h := newSearchHandler(t, nil)
	h.SearchStatus.Store(types.SearchStatus{LastFound: 7})

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/search/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var st types.SearchStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	require.Equal(t, 7, st.LastFound)
}
