package http

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterConfig configures per-domain request pacing.
type RateLimiterConfig struct {
	// DefaultRPS is the requests-per-second limit applied to domains
	// without a custom rate. 0 disables limiting.
	DefaultRPS float64

	// CustomRates maps a domain to its requests-per-second limit.
	CustomRates map[string]float64
}

// DefaultRateLimiterConfig returns conservative defaults for YouTube
// endpoints: the timedtext endpoint tolerates roughly one request per
// second before throttling kicks in.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		DefaultRPS: 1.0,
		CustomRates: map[string]float64{
			"www.googleapis.com": 10.0,
		},
	}
}

// RateLimiter applies token-bucket rate limiting per domain.
type RateLimiter struct {
	config RateLimiterConfig

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewRateLimiter creates a rate limiter with the given configuration.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	return &RateLimiter{
		config:   cfg,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until the request to urlStr is allowed, or the context is done.
func (rl *RateLimiter) Wait(ctx context.Context, urlStr string) error {
	limiter := rl.getLimiter(urlStr)
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

// getLimiter returns the rate limiter for a given URL, creating one if necessary.
func (rl *RateLimiter) getLimiter(urlStr string) *rate.Limiter {
	domain := extractDomain(urlStr)
	rps := rl.rps(domain)
	if rps == 0 {
		return nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limiters[domain]; ok {
		return limiter
	}

	limiter := rate.NewLimiter(rate.Limit(rps), 1)
	rl.limiters[domain] = limiter
	return limiter
}

// rps returns the requests per second for a given domain.
func (rl *RateLimiter) rps(domain string) float64 {
	if rps, ok := rl.config.CustomRates[domain]; ok {
		return rps
	}
	return rl.config.DefaultRPS
}

// extractDomain extracts the host (without port) from a URL string.
func extractDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Hostname()
}
