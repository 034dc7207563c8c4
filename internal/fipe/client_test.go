package fipe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func newCatalogServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/marcas", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `[{"nome":"Fiat","codigo":"21"},{"nome":"Volkswagen","codigo":"59"}]`)
	})
	mux.HandleFunc("/marcas/21/modelos", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"modelos":[{"nome":"Uno Mille 1.0","codigo":4828}]}`)
	})
	mux.HandleFunc("/marcas/21/modelos/4828/anos", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `[{"nome":"2014 Gasolina","codigo":"2014-1"}]`)
	})
	mux.HandleFunc("/marcas/21/modelos/4828/anos/2014-1", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"Valor":"R$ 18.500,00","Marca":"Fiat","Modelo":"Uno Mille 1.0"}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestClientWalksCatalog(t *testing.T) {
	srv, _ := newCatalogServer(t)
	c := New(Config{BaseURL: srv.URL})
	ctx := context.Background()

	brands, err := c.Brands(ctx)
	require.NoError(t, err)
	require.Len(t, brands, 2)
	require.Equal(t, "21", brands[0].Code)
	require.Equal(t, "Fiat", brands[0].Name)

	models, err := c.Models(ctx, "21")
	require.NoError(t, err)
	require.Len(t, models, 1)
	// numeric model codes come back as strings
	require.Equal(t, "4828", models[0].Code)

	variants, err := c.YearVariants(ctx, "21", "4828")
	require.NoError(t, err)
	require.Len(t, variants, 1)
	require.Equal(t, "2014-1", variants[0].Code)
	require.Equal(t, "2014 Gasolina", variants[0].Label)

	price, err := c.Price(ctx, "21", "4828", "2014-1")
	require.NoError(t, err)
	require.Equal(t, "R$ 18.500,00", price)
}

func TestClientCachesSuccesses(t *testing.T) {
	srv, hits := newCatalogServer(t)
	c := New(Config{BaseURL: srv.URL})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.Brands(ctx)
		require.NoError(t, err)
		_, err = c.Models(ctx, "21")
		require.NoError(t, err)
		_, err = c.YearVariants(ctx, "21", "4828")
		require.NoError(t, err)
		_, err = c.Price(ctx, "21", "4828", "2014-1")
		require.NoError(t, err)
	}

	// one request per endpoint, everything after that is served from cache
	require.Equal(t, int64(4), hits.Load())
}

func TestClientEmptyIsNotCached(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `[]`)
	}))
	t.Cleanup(srv.Close)

	c := New(Config{BaseURL: srv.URL})
	ctx := context.Background()

	_, err := c.Brands(ctx)
	require.ErrorIs(t, err, ErrEmpty)
	_, err = c.Brands(ctx)
	require.ErrorIs(t, err, ErrEmpty)
	require.Equal(t, int64(2), hits.Load())
}

func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := New(Config{BaseURL: srv.URL})

	_, err := c.Brands(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = c.Price(context.Background(), "21", "4828", "2014-1")
	require.ErrorIs(t, err, ErrUnavailable)
}
