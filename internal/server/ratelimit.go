package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"o1ready/internal/config"
	"o1ready/internal/errors"

	"golang.org/x/time/rate"
)

// ClientLimiters hands out one token bucket per client key (API key or IP)
// and evicts buckets that have gone quiet.
type ClientLimiters struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	perSec   rate.Limit
	burst    int
	eviction time.Duration
	done     chan struct{}
	logger   *errors.Logger
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiters builds the limiter set from the rate limit config. The
// configured window doubles as the eviction age for idle buckets.
func NewClientLimiters(cfg *config.RateLimitConfig, logger *errors.Logger) *ClientLimiters {
	eviction := cfg.Window
	if eviction <= 0 {
		eviction = 10 * time.Minute
	}

	cl := &ClientLimiters{
		buckets:  make(map[string]*bucket),
		perSec:   rate.Limit(float64(cfg.RequestsPerMin) / 60.0),
		burst:    cfg.BurstCapacity,
		eviction: eviction,
		done:     make(chan struct{}),
		logger:   logger,
	}
	go cl.evictLoop()
	return cl
}

// Allow reports whether the key has a token available right now.
func (cl *ClientLimiters) Allow(key string) bool {
	cl.mu.Lock()
	b, ok := cl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(cl.perSec, cl.burst)}
		cl.buckets[key] = b
	}
	b.lastSeen = time.Now()
	cl.mu.Unlock()

	return b.limiter.Allow()
}

// Stats reports the limiter configuration and active bucket count.
func (cl *ClientLimiters) Stats() map[string]any {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return map[string]any{
		"active_limiters": len(cl.buckets),
		"rate_per_minute": float64(cl.perSec) * 60.0,
		"burst_capacity":  cl.burst,
	}
}

// Close stops the eviction goroutine.
func (cl *ClientLimiters) Close() {
	close(cl.done)
}

func (cl *ClientLimiters) evictLoop() {
	ticker := time.NewTicker(cl.eviction)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cl.evictIdle()
		case <-cl.done:
			return
		}
	}
}

func (cl *ClientLimiters) evictIdle() {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	cutoff := time.Now().Add(-cl.eviction)
	for key, b := range cl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(cl.buckets, key)
		}
	}
	if cl.logger != nil {
		cl.logger.Debug("Rate limiter eviction completed", "remaining_limiters", len(cl.buckets))
	}
}

// rateLimitMiddleware rejects requests whose client key has exhausted its
// token bucket.
func (s *Server) rateLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	if s.RateLimit == nil || !s.RateLimit.Enabled {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(r, s.RateLimit.ByAPIKey, s.RateLimit.ByIP)
			if key == "" {
				next(w, r)
				return
			}

			if !s.RateLimiter.Allow(key) {
				s.Logger.Info("Rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"client_ip", clientIP(r))
				writeErrorResponse(w, "Rate limit exceeded", "Too many requests", http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}

// rateLimitKey prefers the API key identity over the client IP so
// authenticated clients behind a shared NAT get independent buckets.
func rateLimitKey(r *http.Request, byAPIKey, byIP bool) string {
	if byAPIKey {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				apiKey = after
			}
		}
		if apiKey != "" {
			return "api:" + apiKey
		}
	}
	if byIP {
		return "ip:" + clientIP(r)
	}
	return ""
}

// clientIP resolves the originating address, trusting proxy headers before
// falling back to the socket peer.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for ip := range strings.SplitSeq(xff, ",") {
			ip = strings.TrimSpace(ip)
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" && net.ParseIP(xri) != nil {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
