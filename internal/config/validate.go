package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims the obvious and rejects parameter shapes that
// indicate a misconfiguration rather than a runtime condition. Negative
// tolerances fail hard here; they would silently empty every search.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.Search.Model = strings.TrimSpace(out.Search.Model)
	out.Search.State = strings.TrimSpace(out.Search.State)
	out.Search.City = strings.TrimSpace(out.Search.City)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Search.TargetPrice <= 0 {
		res.addErr("search.target_price must be > 0")
	}
	if out.Search.PriceTolerance < 0 {
		res.addErr("search.price_tolerance must be >= 0")
	}
	if out.Search.MarginTolerance < 0 {
		res.addErr("search.margin_tolerance must be >= 0")
	}
	if out.Search.MaxPages <= 0 {
		res.addErr("search.max_pages must be >= 1")
	} else if out.Search.MaxPages > 10 {
		res.addWarn("search.max_pages is high (%d); listing sites throttle heavy sweeps.", out.Search.MaxPages)
	}
	if out.Search.Model == "" {
		res.addWarn("search.model is empty; searches need a model unless one is passed per request.")
	}
	if out.Search.City != "" && out.Search.State == "" {
		res.addWarn("search.city is set without search.state; the city will be ignored.")
	}

	checkCutoff := func(name string, v float64) {
		if v < 0 || v > 1 {
			res.addErr("%s must be within 0..1", name)
		}
	}
	checkCutoff("matching.brand_cutoff", out.Matching.BrandCutoff)
	checkCutoff("matching.model_cutoff", out.Matching.ModelCutoff)
	if out.Matching.ModelCandidates < 1 {
		res.addErr("matching.model_candidates must be >= 1")
	}
	for alias, canonical := range out.Matching.BrandAliases {
		if strings.TrimSpace(alias) == "" || strings.TrimSpace(canonical) == "" {
			res.addErr("matching.brand_aliases entries cannot be blank")
			break
		}
	}

	if out.Catalog.PriceCacheSize < 0 {
		res.addErr("catalog.price_cache_size must be >= 0")
	}
	if out.Catalog.RequestsPerSecond < 0 || out.Scrape.RequestsPerSecond < 0 {
		res.addErr("requests_per_second must be >= 0")
	}
	if out.Scrape.Retries < 0 {
		res.addErr("scrape.retries must be >= 0")
	}

	return out, res
}
