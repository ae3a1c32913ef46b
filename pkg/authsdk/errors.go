package authsdk

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable reports that the identity service could not be
	// reached or did not answer within the timeout. Callers must fail
	// closed on this: never admit a request because the verifier is down.
	ErrUnavailable = errors.New("authsdk: identity service unavailable")

	// ErrUnauthorized reports that the identity service rejected the
	// token or credentials.
	ErrUnauthorized = errors.New("authsdk: unauthorized")
)

// APIError is a structured error body returned by the identity service.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("authsdk: %d %s: %s", e.Status, e.Message, e.Detail)
}

// Unwrap maps 401 responses onto ErrUnauthorized so callers can use
// errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	if e.Status == 401 {
		return ErrUnauthorized
	}
	return nil
}
