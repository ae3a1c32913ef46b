package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/harborcrest/authgate/pkg/httpx"
	"github.com/harborcrest/authgate/pkg/jwtx"
	"github.com/harborcrest/authgate/pkg/slogx"
)

// Router is the gateway's edge handler: a route table of path prefixes,
// each guarded by its own authentication delegate and proxied to its
// upstream.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
}

func NewRouter(buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	r.Mux.HandleFunc("GET /livez", r.livez)

	return r
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// Register mounts a route: requests under the prefix run through the
// delegate for the route's mode, then the reverse proxy. The verifier may
// be nil only for public routes.
func (r *Router) Register(route Route, v jwtx.Verifier) error {
	if route.Mode != ModePublic && v == nil {
		return fmt.Errorf("route %q: mode %q needs a verifier", route.Prefix, route.Mode)
	}

	upstream, err := url.Parse(route.Upstream)
	if err != nil {
		return fmt.Errorf("route %q: %w", route.Prefix, err)
	}

	handler := httpx.Chain(newProxy(upstream, r.logger), Delegate(v, route))

	// "/api" guards the whole subtree, so mount both the exact path and
	// the subtree pattern.
	prefix := strings.TrimRight(route.Prefix, "/")
	if prefix == "" {
		r.Mux.Handle("/", handler)
		return nil
	}
	r.Mux.Handle(prefix, handler)
	r.Mux.Handle(prefix+"/", handler)
	return nil
}

func (r *Router) livez(w http.ResponseWriter, req *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"uptime":  time.Since(r.startTime).String(),
		"version": r.buildVersion,
	})
}
