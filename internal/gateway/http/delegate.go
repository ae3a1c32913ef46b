package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/harborcrest/authgate/pkg/authsdk"
	"github.com/harborcrest/authgate/pkg/httpx"
	"github.com/harborcrest/authgate/pkg/jwtx"
	"github.com/harborcrest/authgate/pkg/slogx"
)

// Delegate authenticates requests for one route before they reach the
// proxy. Every request ends in one of three outcomes: forwarded untouched
// (public route), rejected with a structured error body, or forwarded with
// the verified identity attached as X-Auth-* headers.
//
// When verification itself cannot complete, because the identity service
// is unreachable or the revocation store is down, the request fails closed
// with a 503. The gateway never forwards a token it could not verify.
func Delegate(v jwtx.Verifier, route Route) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Inbound copies of the identity headers are never trusted,
			// whatever the route mode.
			r.Header.Del(HeaderAuthSubject)
			r.Header.Del(HeaderAuthRoles)

			if route.Mode == ModePublic {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			log := slogx.FromContext(ctx)

			token := httpx.BearerToken(r)
			if token == "" {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", httpx.ErrMissingToken.Error())
				return
			}

			principal, err := v.Verify(ctx, token)
			if err != nil {
				status, detail := classifyDelegateError(err)
				switch status {
				case http.StatusServiceUnavailable:
					log.Error("verification unavailable", "route", route.Prefix, "err", err)
					httpx.WriteError(w, status, "service_unavailable", detail)
				case http.StatusInternalServerError:
					log.Error("token verification error", "route", route.Prefix, "err", err)
					httpx.WriteError(w, status, "internal_error", "token verification failed")
				default:
					log.Warn("token rejected", "route", route.Prefix, "detail", detail)
					httpx.WriteError(w, status, "unauthorized", detail)
				}
				return
			}

			if !principal.HasAnyRole(route.RequiredRoles...) {
				httpx.WriteError(w, http.StatusForbidden, "forbidden",
					"requires one of: "+strings.Join(route.RequiredRoles, ", "))
				return
			}

			r.Header.Set(HeaderAuthSubject, principal.Subject)
			r.Header.Set(HeaderAuthRoles, strings.Join(principal.Roles, ","))

			next.ServeHTTP(w, r.WithContext(httpx.WithPrincipal(ctx, principal)))
		})
	}
}

// classifyDelegateError extends the per-service taxonomy with the remote
// verification outcomes: the identity service being unreachable is a 503,
// and its 401 verdicts pass through with their detail.
func classifyDelegateError(err error) (int, string) {
	if errors.Is(err, authsdk.ErrUnavailable) {
		return http.StatusServiceUnavailable, "authentication service unavailable"
	}

	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusUnauthorized {
			detail := apiErr.Detail
			if detail == "" {
				detail = "token rejected"
			}
			return http.StatusUnauthorized, detail
		}
		return http.StatusInternalServerError, ""
	}

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
