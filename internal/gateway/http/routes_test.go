package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoutes(t *testing.T) {
	raw := `[
		{"prefix": "/api", "upstream": "http://orders:9000", "mode": "remote"},
		{"prefix": "/admin", "upstream": "http://admin:9001", "mode": "local", "required_roles": ["ROLE_ADMIN"]},
		{"prefix": "/public", "upstream": "http://site:9002", "mode": "public"}
	]`

	routes, err := ParseRoutes(raw)
	require.NoError(t, err)
	require.Len(t, routes, 3)
	assert.Equal(t, ModeRemote, routes[0].Mode)
	assert.Equal(t, []string{"ROLE_ADMIN"}, routes[1].RequiredRoles)
}

func TestParseRoutesRejectsBadEntries(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"empty table", `[]`},
		{"relative prefix", `[{"prefix": "api", "upstream": "http://o:1", "mode": "local"}]`},
		{"relative upstream", `[{"prefix": "/api", "upstream": "orders:9000", "mode": "local"}]`},
		{"unknown mode", `[{"prefix": "/api", "upstream": "http://o:1", "mode": "jwt"}]`},
		{"roles on public route", `[{"prefix": "/p", "upstream": "http://o:1", "mode": "public", "required_roles": ["ROLE_ADMIN"]}]`},
		{"duplicate prefix", `[
			{"prefix": "/api", "upstream": "http://a:1", "mode": "public"},
			{"prefix": "/api", "upstream": "http://b:1", "mode": "public"}
		]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRoutes(tc.raw)
			assert.Error(t, err)
		})
	}
}
