package handler

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// SecurityHeaders sets the response headers every API answer carries.
// Only JSON and uploaded files are served, so the CSP allows nothing
// beyond same-origin images.
func SecurityHeaders(next http.Handler) http.Handler {
	headers := [][2]string{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"X-XSS-Protection", "0"},
		{"Permissions-Policy", "camera=(), microphone=(), geolocation=()"},
		{"Content-Security-Policy", "default-src 'none'; img-src 'self'; frame-ancestors 'none'"},
		{"Strict-Transport-Security", "max-age=63072000; includeSubDomains"},
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, kv := range headers {
			w.Header().Set(kv[0], kv[1])
		}
		next.ServeHTTP(w, r)
	})
}

const (
	rateWindow = time.Minute
	sweepEvery = 5 * time.Minute
)

// RateLimiter limits public writes per client IP over a sliding one-minute
// window. Each scope (contact, newsletter, chat, ...) has its own budget.
type RateLimiter struct {
	max            int
	trustedProxies int
	now            func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter allows maxPerMinute requests per client and scope.
func NewRateLimiter(maxPerMinute int) *RateLimiter {
	rl := &RateLimiter{
		max:  maxPerMinute,
		now:  time.Now,
		hits: make(map[string][]time.Time),
		stop: make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// WithTrustedProxies sets how many reverse proxies append to
// X-Forwarded-For in front of the API. With 0 the header is ignored.
func (rl *RateLimiter) WithTrustedProxies(n int) *RateLimiter {
	rl.trustedProxies = n
	return rl
}

// Stop ends the background sweep.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Limit wraps next under scope.
func (rl *RateLimiter) Limit(scope string, next http.HandlerFunc) http.Handler {
	return rl.scoped(scope, next)
}

// Middleware limits next under a shared scope.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return rl.scoped("", next)
}

func (rl *RateLimiter) scoped(scope string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.clientIP(r)
		wait, ok := rl.take(scope+"|"+ip, rl.now())
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(retrySeconds(wait)))
			slog.Warn("rate limit exceeded", "ip", ip, "scope", scope, "path", r.URL.Path)
			writeError(w, http.StatusTooManyRequests, "rate_limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// take records a hit for key, or reports how long until one is allowed.
func (rl *RateLimiter) take(key string, now time.Time) (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	recent := pruneBefore(rl.hits[key], now.Add(-rateWindow))
	if len(recent) >= rl.max {
		rl.hits[key] = recent
		return recent[0].Add(rateWindow).Sub(now), false
	}
	rl.hits[key] = append(recent, now)
	return 0, true
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.sweep(rl.now())
		}
	}
}

// sweep drops clients with no hit inside the window.
func (rl *RateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, ts := range rl.hits {
		if recent := pruneBefore(ts, now.Add(-rateWindow)); len(recent) > 0 {
			rl.hits[key] = recent
		} else {
			delete(rl.hits, key)
		}
	}
}

// pruneBefore keeps the timestamps after cutoff. ts is ordered.
func pruneBefore(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	return ts[i:]
}

func retrySeconds(d time.Duration) int {
	if s := int(d.Seconds()) + 1; s > 1 {
		return s
	}
	return 1
}

// clientIP takes the X-Forwarded-For entry appended by the outermost
// trusted proxy. Entries to its left are client-controlled and ignored.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && rl.trustedProxies > 0 {
		parts := strings.Split(xff, ",")
		if idx := len(parts) - rl.trustedProxies; idx >= 0 {
			return strings.TrimSpace(parts[idx])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
