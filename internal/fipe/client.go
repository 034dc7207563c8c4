// Package fipe is a cached client for the hierarchical FIPE pricing
// catalog: brands -> models -> year variants -> reference price.
package fipe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"carhunt-engine/internal/domain"
	"carhunt-engine/internal/netutil"
)

const DefaultBaseURL = "https://parallelum.com.br/fipe/api/v1/carros"

// DefaultPriceCacheSize bounds the only cache keyed by a full
// (brand, model, year) triple; the upper levels are small and unbounded.
const DefaultPriceCacheSize = 4096

type Config struct {
	BaseURL        string
	PriceCacheSize int
	Limiter        *netutil.HostLimiter
}

// Client caches every successful lookup for the lifetime of the instance;
// the catalog is treated as append-only within a run. Failures are never
// cached. Safe for concurrent use: cache writes hold a mutex and duplicate
// in-flight fetches for the same key are collapsed.
type Client struct {
	base string
	hc   *http.Client
	lim  *netutil.HostLimiter

	mu       sync.Mutex
	brands   []domain.Brand
	models   map[string][]domain.Model
	variants map[string][]domain.YearVariant

	prices *lru.Cache[string, string]
	group  singleflight.Group
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PriceCacheSize <= 0 {
		cfg.PriceCacheSize = DefaultPriceCacheSize
	}
	prices, _ := lru.New[string, string](cfg.PriceCacheSize)
	return &Client{
		base:     cfg.BaseURL,
		hc:       &http.Client{Timeout: 20 * time.Second},
		lim:      cfg.Limiter,
		models:   make(map[string][]domain.Model),
		variants: make(map[string][]domain.YearVariant),
		prices:   prices,
	}
}

// wire shape for brands and models; model codes come back as JSON
// numbers, brand codes as digit strings, and json.Number accepts both.
type codeName struct {
	Nome   string      `json:"nome"`
	Codigo json.Number `json:"codigo"`
}

// year codes are not numbers ("2014-1"), so they get their own shape.
type yearWire struct {
	Nome   string `json:"nome"`
	Codigo string `json:"codigo"`
}

type modelsPayload struct {
	Modelos []codeName `json:"modelos"`
}

type pricePayload struct {
	Valor string `json:"Valor"`
}

// Brands is fetched at most once per client.
func (c *Client) Brands(ctx context.Context) ([]domain.Brand, error) {
	c.mu.Lock()
	if c.brands != nil {
		out := c.brands
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("brands", func() (any, error) {
		var wire []codeName
		if err := c.getJSON(ctx, c.base+"/marcas", &wire); err != nil {
			return nil, err
		}
		if len(wire) == 0 {
			return nil, ErrEmpty
		}
		out := make([]domain.Brand, 0, len(wire))
		for _, w := range wire {
			out = append(out, domain.Brand{Code: w.Codigo.String(), Name: w.Nome})
		}
		c.mu.Lock()
		c.brands = out
		c.mu.Unlock()
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Brand), nil
}

// Models is cached per brand code.
func (c *Client) Models(ctx context.Context, brandCode string) ([]domain.Model, error) {
	c.mu.Lock()
	if out, ok := c.models[brandCode]; ok {
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	key := "models:" + brandCode
	v, err, _ := c.group.Do(key, func() (any, error) {
		var wire modelsPayload
		url := fmt.Sprintf("%s/marcas/%s/modelos", c.base, brandCode)
		if err := c.getJSON(ctx, url, &wire); err != nil {
			return nil, err
		}
		if len(wire.Modelos) == 0 {
			return nil, ErrEmpty
		}
		out := make([]domain.Model, 0, len(wire.Modelos))
		for _, w := range wire.Modelos {
			out = append(out, domain.Model{Code: w.Codigo.String(), Name: w.Nome})
		}
		c.mu.Lock()
		c.models[brandCode] = out
		c.mu.Unlock()
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Model), nil
}

// YearVariants is cached per (brand, model) pair, in catalog order.
func (c *Client) YearVariants(ctx context.Context, brandCode, modelCode string) ([]domain.YearVariant, error) {
	key := brandCode + "/" + modelCode
	c.mu.Lock()
	if out, ok := c.variants[key]; ok {
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("years:"+key, func() (any, error) {
		var wire []yearWire
		url := fmt.Sprintf("%s/marcas/%s/modelos/%s/anos", c.base, brandCode, modelCode)
		if err := c.getJSON(ctx, url, &wire); err != nil {
			return nil, err
		}
		if len(wire) == 0 {
			return nil, ErrEmpty
		}
		out := make([]domain.YearVariant, 0, len(wire))
		for _, w := range wire {
			out = append(out, domain.YearVariant{Code: w.Codigo, Label: w.Nome})
		}
		c.mu.Lock()
		c.variants[key] = out
		c.mu.Unlock()
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.YearVariant), nil
}

// Price returns the catalog's reference value as the raw text the service
// quotes it in ("R$ 32.000,00"); parsing is the caller's concern. Cached
// in a bounded LRU keyed by the full triple.
func (c *Client) Price(ctx context.Context, brandCode, modelCode, yearCode string) (string, error) {
	key := brandCode + "/" + modelCode + "/" + yearCode
	if val, ok := c.prices.Get(key); ok {
		return val, nil
	}

	v, err, _ := c.group.Do("price:"+key, func() (any, error) {
		var wire pricePayload
		url := fmt.Sprintf("%s/marcas/%s/modelos/%s/anos/%s", c.base, brandCode, modelCode, yearCode)
		if err := c.getJSON(ctx, url, &wire); err != nil {
			return nil, err
		}
		if wire.Valor == "" {
			return nil, ErrEmpty
		}
		c.prices.Add(key, wire.Valor)
		return wire.Valor, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	if c.lim != nil {
		if err := c.lim.WaitURL(ctx, url); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("User-Agent", "CarHunt/1.0 (+local)")

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return nil
}
