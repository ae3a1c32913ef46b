package http

import (
	"net/http"

	"github.com/harborcrest/authgate/pkg/httpx"
)

// MeHandler serves GET /auth/me, echoing the verified principal bound to
// the request by the gate. Mostly useful for debugging what a token
// grants.
type MeHandler struct{}

// ServeHTTP godoc
//
//	@Summary		Current principal
//	@Description	Returns the identity and roles derived from the presented bearer token.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	jwtx.Principal
//	@Failure		401	{object}	httpx.ErrorBody
//	@Router			/auth/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		// Unreachable behind the gate; guards against route miswiring.
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "no principal on request")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, principal)
}
