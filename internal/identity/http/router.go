package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/harborcrest/authgate/internal/identity/service"
	"github.com/harborcrest/authgate/internal/identity/store"
	"github.com/harborcrest/authgate/pkg/httpx"
	"github.com/harborcrest/authgate/pkg/jwtx"
	"github.com/harborcrest/authgate/pkg/slogx"

	_ "github.com/harborcrest/authgate/api/identity" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// publicPaths bypass the authentication gate: health probes, the login and
// validation endpoints, and the API docs.
var publicPaths = httpx.PathList{
	"/livez",
	"/readyz",
	"/auth/login",
	"/auth/validate",
	"/swagger/*",
}

// roleTable restricts administrative routes. Everything else behind the
// gate only needs a valid token.
var roleTable = httpx.RoleTable{
	"/auth/revoke": {jwtx.RoleAdmin},
}

// Router holds shared dependencies for the identity service handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	TokenService *service.TokenService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
	}

	// Global chain: request logging, then the authentication gate, then
	// path-based role enforcement on admitted principals.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.AuthGate(verifier, httpx.GateConfig{PublicPaths: publicPaths}),
		httpx.RequireRolesByPath(roleTable),
	}

	return r
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
//
//	@title			AuthGate Identity Service API
//	@version		0.1.0
//	@description	Issues, validates, and revokes HS256 identity tokens for the service fleet.
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Identity token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) ApplyRoutes() {
	// Login carries credentials: strict per-IP limit against stuffing.
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(&LoginHandler{TokenService: r.TokenService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Validation sits on the gateway's hot path for every request in the
	// fleet, so it gets the public profile.
	r.Mux.Handle("POST /auth/validate",
		httpx.Chain(&ValidateHandler{TokenService: r.TokenService},
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(&LogoutHandler{TokenService: r.TokenService},
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /auth/revoke",
		httpx.Chain(&RevokeHandler{TokenService: r.TokenService},
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /auth/me", &MeHandler{})

	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}
