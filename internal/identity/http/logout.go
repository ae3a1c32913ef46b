package http

import (
	"net/http"

	"github.com/harborcrest/authgate/internal/identity/service"
	"github.com/harborcrest/authgate/pkg/httpx"
	"github.com/harborcrest/authgate/pkg/slogx"
)

// LogoutHandler serves POST /auth/logout. The gate has already verified
// the bearer token; logout puts that same token on the revocation list.
type LogoutHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Logout
//	@Description	Revokes the presented bearer token ahead of its natural expiry. Idempotent.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204	"Token revoked"
//	@Failure		401	{object}	httpx.ErrorBody
//	@Router			/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.TokenService.Revoke(ctx, httpx.BearerToken(r)); err != nil {
		slogx.FromContext(ctx).Error("logout revocation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "logout failed")
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
