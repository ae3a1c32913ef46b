// Package authsdk is the HTTP client for the identity service. The gateway
// uses it for remote token verification; other services may use it for
// login and logout flows in integration tests.
package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every call to the identity service. Remote
// verification sits on the gateway's hot path, so this is deliberately
// short; on expiry the caller fails closed.
const DefaultTimeout = 5 * time.Second

// Client talks to one identity service instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the identity service at baseURL. timeout
// zero uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Login exchanges credentials for a signed token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.postJSON(ctx, "/auth/login", LoginRequest{Username: username, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Validate asks the identity service to verify a token. It returns the
// token's subject and roles on success, ErrUnauthorized (wrapped in an
// *APIError) when the token is rejected, and ErrUnavailable when the
// service cannot be reached in time.
func (c *Client) Validate(ctx context.Context, token string) (*ValidateResponse, error) {
	var out ValidateResponse
	if err := c.postJSON(ctx, "/auth/validate", ValidateRequest{Token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the presented token.
func (c *Client) Logout(ctx context.Context, token string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return decodeAPIError(resp)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// Timeout, connection refused, DNS failure: the caller cannot
		// distinguish "invalid" from "unknown", so surface unavailable.
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("authsdk: decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body *bytes.Reader) (*http.Request, error) {
	url := c.baseURL + path
	if body == nil {
		return http.NewRequestWithContext(ctx, method, url, nil)
	}
	return http.NewRequestWithContext(ctx, method, url, body)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: "error"}
	// Best effort: keep the transport status if the body isn't ours.
	_ = json.NewDecoder(resp.Body).Decode(apiErr)
	if apiErr.Status == 0 {
		apiErr.Status = resp.StatusCode
	}
	return apiErr
}
