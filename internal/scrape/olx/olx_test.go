package olx

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"carhunt-engine/internal/scrape/types"
)

const listingPage = `
<html><body><ul>
  <li><a data-ds-component="DS-AdCard" href="/d/onix-premier-1"
         title="Onix Premier 1.0 Turbo 2022"><h3>R$ 82.000</h3></a></li>
  <li><a data-ds-component="DS-AdCard" href="https://mg.olx.com.br/d/uno-mille-2">
         <h2>Uno Mille 2010</h2>
         <span data-ds-component="DS-Price">R$ 15.900</span></a></li>
  <li><a data-ds-component="DS-AdCard" href="/d/onix-premier-1"
         title="Onix Premier 1.0 Turbo 2022"><h3>R$ 82.000</h3></a></li>
</ul></body></html>`

const fallbackPage = `
<html><body>
  <a href="https://sp.olx.com.br/d/gol-16-3">Gol 1.6 2015 <span>R$ 35.000</span></a>
  <a href="https://sp.olx.com.br/sobre">Sobre a OLX</a>
  <a href="/ajuda">Ajuda</a>
</body></html>`

func TestExtractAds(t *testing.T) {
	ads, err := ExtractAds(strings.NewReader(listingPage))
	require.NoError(t, err)
	require.Len(t, ads, 2) // duplicate card collapses

	require.Equal(t, "https://www.olx.com.br/d/onix-premier-1", ads[0].URL)
	require.Equal(t, "Onix Premier 1.0 Turbo 2022", ads[0].Title)
	require.Equal(t, "R$ 82.000", ads[0].PriceText)
	require.NotNil(t, ads[0].Price)
	require.Equal(t, 82000, *ads[0].Price)

	require.Equal(t, "https://mg.olx.com.br/d/uno-mille-2", ads[1].URL)
	require.Equal(t, "Uno Mille 2010", ads[1].Title)
	require.NotNil(t, ads[1].Price)
	require.Equal(t, 15900, *ads[1].Price)
}

func TestExtractAdsFallback(t *testing.T) {
	ads, err := ExtractAds(strings.NewReader(fallbackPage))
	require.NoError(t, err)
	require.Len(t, ads, 1) // only the /d/ detail link counts

	require.Equal(t, "https://sp.olx.com.br/d/gol-16-3", ads[0].URL)
	require.Equal(t, "Gol 1.6 2015 R$ 35.000", ads[0].Title)
	require.NotNil(t, ads[0].Price)
	require.Equal(t, 35000, *ads[0].Price)
}

func TestExtractAdsEmptyPage(t *testing.T) {
	ads, err := ExtractAds(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)
	require.Empty(t, ads)
}

func TestSearchURL(t *testing.T) {
	s := New(Config{BaseURL: "https://ex.test/carros"}, nil)

	q := types.Query{
		ModelText: "onix premier",
		State:     "Minas Gerais",
		City:      "Belo Horizonte",
		MaxPrice:  85000,
	}
	require.Equal(t,
		"https://ex.test/carros/minas-gerais/belo-horizonte?pe=85000&q=onix+premier&sf=1",
		s.SearchURL(q, 1))
	require.Equal(t,
		"https://ex.test/carros/minas-gerais/belo-horizonte?o=3&pe=85000&q=onix+premier&sf=1",
		s.SearchURL(q, 3))

	// no state means no path segments, and the city alone is ignored
	bare := types.Query{ModelText: "uno", City: "Osasco"}
	require.Equal(t, "https://ex.test/carros?q=uno&sf=1", s.SearchURL(bare, 1))
}

func TestFetchSkipsFailedPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("o") != "" {
			http.Error(w, "throttled", http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, listingPage)
	}))
	t.Cleanup(srv.Close)

	s := New(Config{BaseURL: srv.URL, Retries: 0}, nil)
	ads, err := s.Fetch(context.Background(), types.Query{ModelText: "onix", MaxPages: 2})
	require.NoError(t, err) // page 2 failed but page 1 delivered
	require.Len(t, ads, 2)
}

func TestFetchAllPagesFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	s := New(Config{BaseURL: srv.URL, Retries: 0}, nil)
	_, err := s.Fetch(context.Background(), types.Query{ModelText: "onix", MaxPages: 2})
	require.Error(t, err)
}
