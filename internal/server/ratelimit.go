package server

import (
	"net/http"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// ClientRateLimiter hands out one token bucket per client IP. Buckets of
// clients that went quiet expire with the LRU entry.
type ClientRateLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

// NewClientRateLimiter allows rps requests per second per client with the
// given burst. rps <= 0 disables limiting.
func NewClientRateLimiter(rps float64, burst int) *ClientRateLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &ClientRateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](MaxTrackedClients, nil, ClientIdleTTL),
		limit:    limit,
		burst:    burst,
	}
}

// Allow spends one token from ip's bucket
func (l *ClientRateLimiter) Allow(ip string) bool {
	if l.limit == rate.Inf {
		return true
	}

	l.mu.Lock()
	limiter, ok := l.limiters.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
	}
	// Add refreshes the idle timer
	l.limiters.Add(ip, limiter)
	l.mu.Unlock()

	return limiter.Allow()
}

// Tracked returns the number of clients with a live bucket
func (l *ClientRateLimiter) Tracked() int {
	return l.limiters.Len()
}

// RateLimitMiddleware answers 429 once a client has spent its burst.
// Public paths are never limited so probes and scrapes keep working.
func RateLimitMiddleware(limiter *ClientRateLimiter, trustedProxies []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ip := extractIP(r, trustedProxies)
			if !limiter.Allow(ip) {
				logger.FromContext(r.Context()).Warn(SecurityAlertRateLimit, "ip", ip, "path", r.URL.Path)
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
