// Package olx adapts OLX listing pages into raw ad records. It is one
// AdSource implementation; the core pipeline only sees the interface.
package olx

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"carhunt-engine/internal/domain"
	"carhunt-engine/internal/money"
	"carhunt-engine/internal/netutil"
	"carhunt-engine/internal/scrape/types"
	"carhunt-engine/internal/scrape/util"
)

const (
	DefaultBaseURL = "https://www.olx.com.br/autos-e-pecas/carros-vans-e-utilitarios"
	siteOrigin     = "https://www.olx.com.br"
)

// rotated across retry attempts; OLX answers plain requests fine but not
// always the same UA twice in a row
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
}

var priceRe = regexp.MustCompile(`R\$\s*[\d.,]+`)

type Config struct {
	BaseURL string
	Retries int           // attempts beyond the first, per page
	Backoff time.Duration // grows linearly with the attempt number
}

type Scraper struct {
	cfg Config
	hc  *http.Client
	lim *netutil.HostLimiter
}

func New(cfg Config, lim *netutil.HostLimiter) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 1500 * time.Millisecond
	}
	return &Scraper{
		cfg: cfg,
		hc:  &http.Client{Timeout: 25 * time.Second},
		lim: lim,
	}
}

func (s *Scraper) Name() string { return "olx" }

// Fetch sweeps up to q.MaxPages result pages, deduplicating by ad URL.
// A failed page is logged and skipped; the error is surfaced only when
// every page failed, so partial results still flow downstream.
func (s *Scraper) Fetch(ctx context.Context, q types.Query) ([]domain.RawAd, error) {
	pages := q.MaxPages
	if pages <= 0 {
		pages = 1
	}

	seen := make(map[string]bool)
	var out []domain.RawAd
	okPages := 0
	var lastErr error

	for p := 1; p <= pages; p++ {
		pageURL := s.SearchURL(q, p)
		body, err := s.get(ctx, pageURL)
		if err != nil {
			lastErr = err
			log.Printf("[olx] page %d/%d failed: %v", p, pages, err)
			continue
		}
		ads, err := ExtractAds(strings.NewReader(body))
		if err != nil {
			lastErr = err
			log.Printf("[olx] page %d/%d parse failed: %v", p, pages, err)
			continue
		}
		okPages++
		for _, ad := range ads {
			if seen[ad.URL] {
				continue
			}
			seen[ad.URL] = true
			out = append(out, ad)
		}
	}

	if okPages == 0 && lastErr != nil {
		return nil, fmt.Errorf("olx fetch: %w", lastErr)
	}
	return out, nil
}

// SearchURL builds the listing URL: optional /state/city path segments,
// free-text q=, price ceiling pe=, page o= (page 1 carries no o).
func (s *Scraper) SearchURL(q types.Query, page int) string {
	base := s.cfg.BaseURL
	if st := util.Slugify(q.State); st != "" {
		base += "/" + st
		if ct := util.Slugify(q.City); ct != "" {
			base += "/" + ct
		}
	}

	v := url.Values{}
	v.Set("q", q.ModelText)
	v.Set("sf", "1")
	if q.MaxPrice > 0 {
		v.Set("pe", strconv.Itoa(q.MaxPrice))
	}
	if page > 1 {
		v.Set("o", strconv.Itoa(page))
	}
	return base + "?" + v.Encode()
}

func (s *Scraper) get(ctx context.Context, pageURL string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(s.cfg.Backoff * time.Duration(attempt)):
			}
		}
		if s.lim != nil {
			if err := s.lim.WaitURL(ctx, pageURL); err != nil {
				return "", err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("User-Agent", userAgents[attempt%len(userAgents)])

		res, err := s.hc.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(res.Body)
		res.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if res.StatusCode >= 400 {
			lastErr = fmt.Errorf("status %d", res.StatusCode)
			continue
		}
		return string(body), nil
	}
	return "", lastErr
}

// ExtractAds parses a listing page. Primary strategy: DS-AdCard anchors.
// Fallback: any anchor pointing at an ad detail page ("/d/"). Ads without
// a URL, or with neither title nor price text, are dropped.
func ExtractAds(r io.Reader) ([]domain.RawAd, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var ads []domain.RawAd
	doc.Find(`a[data-ds-component="DS-AdCard"]`).Each(func(_ int, a *goquery.Selection) {
		if ad, ok := adFromCard(a); ok {
			ads = append(ads, ad)
		}
	})

	if len(ads) == 0 {
		doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if !strings.Contains(href, "/d/") || !strings.Contains(href, "olx.com.br") {
				return
			}
			if ad, ok := adFromCard(a); ok {
				ads = append(ads, ad)
			}
		})
	}

	seen := make(map[string]bool, len(ads))
	out := ads[:0]
	for _, ad := range ads {
		if seen[ad.URL] {
			continue
		}
		seen[ad.URL] = true
		out = append(out, ad)
	}
	return out, nil
}

func adFromCard(a *goquery.Selection) (domain.RawAd, bool) {
	href, _ := a.Attr("href")
	href = strings.TrimSpace(href)
	if href == "" {
		return domain.RawAd{}, false
	}
	if strings.HasPrefix(href, "/") {
		href = siteOrigin + href
	}

	title := util.CleanText(a.AttrOr("title", ""))
	if title == "" {
		title = util.CleanText(a.Find("h2").First().Text())
	}
	if title == "" {
		title = util.Truncate(util.CleanText(a.Text()), 80)
	}

	priceText := findPriceText(a)
	if title == "" && priceText == "" {
		return domain.RawAd{}, false
	}

	ad := domain.RawAd{
		Title:     title,
		PriceText: priceText,
		URL:       href,
	}
	if v, ok := money.ParseBRL(priceText); ok {
		ad.Price = &v
	}
	return ad, true
}

func findPriceText(a *goquery.Selection) string {
	if t := util.CleanText(a.Find(`[data-ds-component="DS-Price"]`).First().Text()); t != "" {
		return t
	}
	if t := util.CleanText(a.Find("h3").First().Text()); priceRe.MatchString(t) {
		return t
	}
	found := ""
	a.Find("span, p").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		t := util.CleanText(el.Text())
		if priceRe.MatchString(t) {
			found = priceRe.FindString(t)
			return false
		}
		return true
	})
	return found
}
