package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harborcrest/authgate/internal/identity/service"
	"github.com/harborcrest/authgate/pkg/authsdk"
	"github.com/harborcrest/authgate/pkg/httpx"
	"github.com/harborcrest/authgate/pkg/slogx"
)

// LoginHandler serves POST /auth/login: credentials in, signed token out.
type LoginHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Login
//	@Description	Exchanges a username/password pair for a signed identity token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.LoginResponse
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		401		{object}	httpx.ErrorBody
//	@Router			/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "username and password are required")
		return
	}

	issued, err := h.TokenService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "login failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		Token:     issued.Token,
		TokenType: "Bearer",
		ExpiresIn: int64(issued.ExpiresIn.Seconds()),
	})
}
