package http

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// RouteMode selects how the gateway authenticates requests for a route.
type RouteMode string

const (
	// ModePublic forwards without authentication.
	ModePublic RouteMode = "public"

	// ModeLocal verifies tokens in-process with the shared secret.
	ModeLocal RouteMode = "local"

	// ModeRemote delegates verification to the identity service, which
	// also checks revocation. Slower but always current.
	ModeRemote RouteMode = "remote"
)

// Route maps a path prefix to an upstream service.
type Route struct {
	Prefix        string    `json:"prefix"`
	Upstream      string    `json:"upstream"`
	Mode          RouteMode `json:"mode"`
	RequiredRoles []string  `json:"required_roles,omitempty"`
}

// ParseRoutes decodes the route table from its JSON configuration form and
// validates every entry.
func ParseRoutes(raw string) ([]Route, error) {
	var routes []Route
	if err := json.Unmarshal([]byte(raw), &routes); err != nil {
		return nil, fmt.Errorf("route table is not valid JSON: %w", err)
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("route table is empty")
	}

	seen := make(map[string]bool, len(routes))
	for i, rt := range routes {
		if err := rt.validate(); err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
		if seen[rt.Prefix] {
			return nil, fmt.Errorf("route %d: duplicate prefix %q", i, rt.Prefix)
		}
		seen[rt.Prefix] = true
	}
	return routes, nil
}

func (rt Route) validate() error {
	if !strings.HasPrefix(rt.Prefix, "/") {
		return fmt.Errorf("prefix %q must start with /", rt.Prefix)
	}
	u, err := url.Parse(rt.Upstream)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("upstream %q is not an absolute URL", rt.Upstream)
	}
	switch rt.Mode {
	case ModePublic:
		if len(rt.RequiredRoles) > 0 {
			return fmt.Errorf("public route %q cannot require roles", rt.Prefix)
		}
	case ModeLocal, ModeRemote:
	default:
		return fmt.Errorf("unknown mode %q", rt.Mode)
	}
	return nil
}
