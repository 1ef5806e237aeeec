package api

import (
	"net/http"
	"strconv"
	"time"
)

// RateLimit is the hourly request window DNSimple reports on every response.
type RateLimit struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
}

// Exhausted reports whether no requests remain in the window.
func (r RateLimit) Exhausted() bool {
	return r.Limit > 0 && r.Remaining <= 0
}

// ResetIn is the time left until the window resets, rounded up to a second
// and never negative.
func (r RateLimit) ResetIn(now time.Time) time.Duration {
	if r.Reset.IsZero() || !now.Before(r.Reset) {
		return 0
	}
	d := r.Reset.Sub(now)
	if rem := d % time.Second; rem != 0 {
		d += time.Second - rem
	}
	return d
}

// parseRateLimit reads the X-RateLimit-* headers. It returns false when none
// is present or parseable.
func parseRateLimit(h http.Header) (RateLimit, bool) {
	var (
		rl    RateLimit
		found bool
	)
	for name, dst := range map[string]*int{
		"X-RateLimit-Limit":     &rl.Limit,
		"X-RateLimit-Remaining": &rl.Remaining,
	} {
		if n, err := strconv.Atoi(h.Get(name)); err == nil {
			*dst = n
			found = true
		}
	}
	if epoch, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil && epoch > 0 {
		rl.Reset = time.Unix(epoch, 0).UTC()
		found = true
	}
	return rl, found
}

// RateLimit returns the window reported by the most recent response.
func (c *Client) RateLimit() (RateLimit, bool) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()
	return c.rateLimit, c.hasRateLimit
}

func (c *Client) observeRateLimit(h http.Header) {
	rl, ok := parseRateLimit(h)
	if !ok {
		return
	}
	c.rateLimitMu.Lock()
	c.rateLimit, c.hasRateLimit = rl, true
	c.rateLimitMu.Unlock()
}
