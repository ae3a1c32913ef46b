package http

import (
	"encoding/json"
	"net/http"

	"github.com/harborcrest/authgate/internal/identity/service"
	"github.com/harborcrest/authgate/pkg/authsdk"
	"github.com/harborcrest/authgate/pkg/httpx"
	"github.com/harborcrest/authgate/pkg/slogx"
)

// RevokeHandler serves POST /auth/revoke, the administrative
// force-invalidate: an admin can kill any outstanding token, not just
// their own. Route access is restricted to ROLE_ADMIN by the role table.
type RevokeHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Revoke a token (admin)
//	@Description	Puts an arbitrary token on the revocation list. Idempotent, succeeds even for unknown tokens.
//	@Tags			Auth
//	@Accept			json
//	@Security		BearerAuth
//	@Param			request	body	authsdk.RevokeRequest	true	"Token to revoke"
//	@Success		204		"Token revoked"
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		401		{object}	httpx.ErrorBody
//	@Failure		403		{object}	httpx.ErrorBody
//	@Router			/auth/revoke [post].
func (h *RevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.RevokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "token is required")
		return
	}

	if err := h.TokenService.Revoke(ctx, req.Token); err != nil {
		slogx.FromContext(ctx).Error("admin revocation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "revocation failed")
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
