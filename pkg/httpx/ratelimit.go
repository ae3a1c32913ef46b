package httpx

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig defines the limiting parameters for an endpoint class.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// Common profiles. Login-style endpoints get StrictLimit to slow down
// credential stuffing; validation endpoints are on every request path in
// the fleet and get PublicLimit.
var (
	StrictLimit   = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20}
	PublicLimit   = RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
)

// visitorTTL bounds how long an idle client keeps its limiter state.
const visitorTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterRegistry struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	cfg      RateLimitConfig
}

func newLimiterRegistry(cfg RateLimitConfig) *limiterRegistry {
	return &limiterRegistry{
		visitors: make(map[string]*visitor),
		cfg:      cfg,
	}
}

func (reg *limiterRegistry) allow(key string) bool {
	now := time.Now()

	reg.mu.Lock()
	defer reg.mu.Unlock()

	v, ok := reg.visitors[key]
	if !ok {
		limit := rate.Limit(float64(reg.cfg.RequestsPerWindow) / reg.cfg.Window.Seconds())
		v = &visitor{limiter: rate.NewLimiter(limit, reg.cfg.Burst)}
		reg.visitors[key] = v
	}
	v.lastSeen = now

	// Lazy eviction of idle visitors, done inline so we don't need a
	// background goroutine per registry.
	if len(reg.visitors) > 1024 {
		for k, vis := range reg.visitors {
			if now.Sub(vis.lastSeen) > visitorTTL {
				delete(reg.visitors, k)
			}
		}
	}

	return v.limiter.Allow()
}

// RateLimitByIP limits requests per client IP address.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	reg := newLimiterRegistry(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !reg.allow(clientIP(r)) {
				w.Header().Set("Retry-After", "60")
				WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitBySubject limits requests per authenticated principal, falling
// back to IP for anonymous requests. Must sit after AuthGate in the chain.
func RateLimitBySubject(cfg RateLimitConfig) Middleware {
	reg := newLimiterRegistry(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if p, ok := PrincipalFromContext(r.Context()); ok {
				key = "sub:" + p.Subject
			}
			if !reg.allow(key) {
				w.Header().Set("Retry-After", "60")
				WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
