package httpx

import (
	"net/http"
	"strings"
)

// RoleTable maps path patterns (same syntax as PathList) onto the role set
// required to enter them. It is a static configuration table evaluated
// after the authentication gate has admitted the request.
type RoleTable map[string][]string

// RequireRoles restricts a single route to principals holding at least one
// of the required roles. Authorization failure is 403, distinct from the
// gate's 401: the caller is known, just not allowed.
func RequireRoles(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "no principal on request")
				return
			}
			if !principal.HasAnyRole(required...) {
				WriteError(w, http.StatusForbidden, "forbidden",
					"requires one of: "+strings.Join(required, ", "))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRolesByPath enforces a RoleTable across a whole handler tree.
// Paths with no matching entry pass through; matched paths require an
// admitted principal with one of the listed roles.
func RequireRolesByPath(table RoleTable) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			required, matched := table.lookup(r.URL.Path)
			if !matched {
				next.ServeHTTP(w, r)
				return
			}

			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "no principal on request")
				return
			}
			if !principal.HasAnyRole(required...) {
				WriteError(w, http.StatusForbidden, "forbidden",
					"requires one of: "+strings.Join(required, ", "))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// lookup returns the role set of the longest matching pattern so that a
// specific entry ("/admin/keys/*") wins over a broad one ("/admin/*").
func (t RoleTable) lookup(path string) ([]string, bool) {
	var (
		best      string
		roles     []string
		bestFound bool
	)
	for pattern, required := range t {
		if matchPath(pattern, path) && (!bestFound || len(pattern) > len(best)) {
			best = pattern
			roles = required
			bestFound = true
		}
	}
	return roles, bestFound
}
