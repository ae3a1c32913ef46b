package authsdk

// LoginRequest is the credential payload for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries a freshly issued token.
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// ValidateRequest is the remote verification payload for POST /auth/validate.
type ValidateRequest struct {
	Token string `json:"token"`
}

// ValidateResponse is the identity service's answer for a valid token.
// ExpiresAt is epoch seconds.
type ValidateResponse struct {
	Username  string   `json:"username"`
	Roles     []string `json:"roles"`
	ExpiresAt int64    `json:"expiresAt"`
}

// RevokeRequest asks the identity service to revoke an arbitrary token.
type RevokeRequest struct {
	Token string `json:"token"`
}
