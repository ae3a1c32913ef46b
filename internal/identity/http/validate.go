package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harborcrest/authgate/internal/identity/service"
	"github.com/harborcrest/authgate/pkg/authsdk"
	"github.com/harborcrest/authgate/pkg/httpx"
	"github.com/harborcrest/authgate/pkg/jwtx"
	"github.com/harborcrest/authgate/pkg/slogx"
)

// ValidateHandler serves POST /auth/validate, the remote verification
// endpoint the gateway delegates to. The token travels in the body, not
// the Authorization header: the caller is vouching for someone else's
// token, not its own.
type ValidateHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Validate a token
//	@Description	Runs full verification (signature, expiry, revocation) on a token on behalf of another service.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ValidateRequest	true	"Token to validate"
//	@Success		200		{object}	authsdk.ValidateResponse
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		401		{object}	httpx.ErrorBody
//	@Router			/auth/validate [post].
func (h *ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "token is required")
		return
	}

	v, err := h.TokenService.Validate(ctx, req.Token)
	if err != nil {
		detail, known := rejectionDetail(err)
		if !known {
			log.Error("validate failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "token validation failed")
			return
		}
		log.Info("token rejected", "detail", detail)
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", detail)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.ValidateResponse{
		Username:  v.Principal.Subject,
		Roles:     v.Principal.Roles,
		ExpiresAt: v.ExpiresAt.Unix(),
	})
}

// rejectionDetail maps the verification error taxonomy onto response
// detail strings. Unknown errors are store or configuration trouble and
// must not end up in a 401.
func rejectionDetail(err error) (string, bool) {
	switch {
	case errors.Is(err, jwtx.ErrMalformed):
		return "malformed token", true
	case errors.Is(err, jwtx.ErrInvalidSignature):
		return "invalid signature", true
	case errors.Is(err, jwtx.ErrExpired):
		return "token expired", true
	case errors.Is(err, jwtx.ErrRevoked):
		return "token revoked", true
	default:
		return "", false
	}
}
