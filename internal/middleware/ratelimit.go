package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds configuration for the rate limiter middleware.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit (tokens added per second).
	RequestsPerSecond float64
	// Burst is the maximum number of requests allowed in a burst.
	Burst int
}

// limiterRegistry hands out one token bucket per client IP and evicts
// buckets that have been idle for longer than the TTL. Eviction happens
// inline during lookups, so the registry owns no background goroutine.
type limiterRegistry struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	ttl       time.Duration
	nextSweep time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterRegistry(ttl time.Duration) *limiterRegistry {
	return &limiterRegistry{
		clients:   map[string]*clientLimiter{},
		ttl:       ttl,
		nextSweep: time.Now().Add(ttl),
	}
}

func (reg *limiterRegistry) get(ip string, cfg RateLimitConfig) *rate.Limiter {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	now := time.Now()
	if now.After(reg.nextSweep) {
		for key, cl := range reg.clients {
			if now.Sub(cl.lastSeen) > reg.ttl {
				delete(reg.clients, key)
			}
		}
		reg.nextSweep = now.Add(reg.ttl)
	}

	if cl, ok := reg.clients[ip]; ok {
		cl.lastSeen = now
		return cl.limiter
	}
	cl := &clientLimiter{
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		lastSeen: now,
	}
	reg.clients[ip] = cl
	return cl.limiter
}

// RateLimiter returns an HTTP middleware that enforces a per-client
// token-bucket rate limit keyed by remote IP. When the limit is exceeded,
// it responds with 429 Too Many Requests and sets standard rate-limit headers.
func RateLimiter(cfg RateLimitConfig) func(http.Handler) http.Handler {
	reg := newLimiterRegistry(10 * time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := reg.get(clientIP(r), cfg)

			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"code":    http.StatusTooManyRequests,
					"message": "rate limit exceeded",
				})
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client IP address from the request, stripping the port.
// Only RemoteAddr is consulted; X-Forwarded-For is untrusted and ignored to
// prevent rate-limit bypass via header spoofing.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
