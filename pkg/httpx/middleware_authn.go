package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/harborcrest/authgate/pkg/jwtx"
	"github.com/harborcrest/authgate/pkg/slogx"
)

// ErrMissingToken reports a protected request without a bearer token.
var ErrMissingToken = errors.New("httpx: missing bearer token")

// GateConfig parameterises the shared authentication gate so every service
// reuses the same implementation instead of re-rolling it.
type GateConfig struct {
	// PublicPaths bypass authentication entirely (health probes, login,
	// token validation). Requests to these paths continue without a
	// Principal.
	PublicPaths PathList
}

// AuthGate is the per-service request gate. Each request terminates in one
// of three outcomes:
//
//   - Bypass: the path is public, continue without a Principal.
//   - Reject: no bearer token, or verification failed. 401 with a
//     structured {status, message, detail} body; downstream never runs.
//   - Admit: the Principal is bound into the request context and the
//     pipeline continues.
//
// A failed verification is terminal for the request; there are no retries.
func AuthGate(v jwtx.Verifier, cfg GateConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.PublicPaths.Matches(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			log := slogx.FromContext(ctx)

			token := BearerToken(r)
			if token == "" {
				WriteError(w, http.StatusUnauthorized, "unauthorized", ErrMissingToken.Error())
				return
			}

			principal, err := v.Verify(ctx, token)
			if err != nil {
				status, detail := classifyAuthError(err)
				if status == http.StatusInternalServerError {
					// Keep the cause in the logs but never in the
					// response, and never the token or secret either.
					log.Error("token verification error", "err", err)
					WriteError(w, status, "internal_error", "token verification failed")
					return
				}
				log.Warn("token rejected", "detail", detail)
				WriteError(w, status, "unauthorized", detail)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, principal)))
		})
	}
}

// BearerToken extracts the token from the Authorization header. A missing
// header or a non-Bearer scheme yields the empty string, which the gate
// treats as "no token", not as a decode error.
func BearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if authz == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// classifyAuthError maps verification failures onto HTTP status and a
// reason string safe to expose. Anything outside the known taxonomy is an
// internal error (e.g. a revocation store outage or corrupted secret).
func classifyAuthError(err error) (int, string) {
	switch {
	case errors.Is(err, jwtx.ErrMalformed):
		return http.StatusUnauthorized, "malformed token"
	case errors.Is(err, jwtx.ErrInvalidSignature):
		return http.StatusUnauthorized, "invalid signature"
	case errors.Is(err, jwtx.ErrExpired):
		return http.StatusUnauthorized, "token expired"
	case errors.Is(err, jwtx.ErrRevoked):
		return http.StatusUnauthorized, "token revoked"
	default:
		return http.StatusInternalServerError, ""
	}
}
