// Package netutil holds the outbound-request politeness layer shared by
// the scraper and the catalog client.
package netutil

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter rate-limits per hostname so a burst against the listing
// site never delays catalog lookups and vice versa. Hosts get the default
// rate unless SetURLRate configured one.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rates    map[string]rate.Limit
	def      rate.Limit
	burst    int
}

func NewHostLimiter(defaultPerSec float64, burst int) *HostLimiter {
	if defaultPerSec <= 0 {
		defaultPerSec = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		rates:    make(map[string]rate.Limit),
		def:      rate.Limit(defaultPerSec),
		burst:    burst,
	}
}

// SetURLRate pins the rate for the host of raw. Zero or negative keeps the
// default; an unparseable URL is ignored.
func (hl *HostLimiter) SetURLRate(raw string, perSec float64) {
	if perSec <= 0 {
		return
	}
	host := hostOf(raw)
	if host == "" {
		return
	}

	hl.mu.Lock()
	defer hl.mu.Unlock()
	hl.rates[host] = rate.Limit(perSec)
	if lim, ok := hl.limiters[host]; ok {
		lim.SetLimit(rate.Limit(perSec))
	}
}

// WaitURL blocks until the host of raw may be hit again.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	host := hostOf(raw)
	if host == "" {
		host = "_"
	}
	return hl.limiterFor(host).Wait(ctx)
}

func (hl *HostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, ok := hl.limiters[host]; ok {
		return lim
	}
	r := hl.def
	if pinned, ok := hl.rates[host]; ok {
		r = pinned
	}
	lim := rate.NewLimiter(r, hl.burst)
	hl.limiters[host] = lim
	return lim
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
