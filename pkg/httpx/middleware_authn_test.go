package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harborcrest/authgate/pkg/httpx"
	"github.com/harborcrest/authgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var gateSecret = []byte("gate-test-secret-gate-test-secret")

func newGateFixture(t *testing.T) (*jwtx.Issuer, *jwtx.HS256Verifier) {
	t.Helper()
	codec, err := jwtx.NewCodec(gateSecret)
	require.NoError(t, err)
	return jwtx.NewIssuer(codec, 0), jwtx.NewVerifier(codec, jwtx.DefaultRoles, nil)
}

// echoPrincipal reports whether the gate attached a principal.
func echoPrincipal() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := httpx.PrincipalFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("anonymous"))
			return
		}
		httpx.WriteJSON(w, http.StatusOK, p)
	})
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) httpx.ErrorBody {
	t.Helper()
	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthGateBypass(t *testing.T) {
	_, verifier := newGateFixture(t)
	gate := httpx.AuthGate(verifier, httpx.GateConfig{
		PublicPaths: httpx.PathList{"/livez", "/auth/login", "/public/*"},
	})
	h := gate(echoPrincipal())

	for _, path := range []string{"/livez", "/auth/login", "/public", "/public/deep/path"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
		require.Equal(t, "anonymous", rec.Body.String(), path)
	}
}

func TestAuthGateReject(t *testing.T) {
	issuer, verifier := newGateFixture(t)
	gate := httpx.AuthGate(verifier, httpx.GateConfig{})
	h := gate(echoPrincipal())

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeErrorBody(t, rec)
		require.Equal(t, http.StatusUnauthorized, body.Status)
		require.Equal(t, "unauthorized", body.Message)
		require.Contains(t, body.Detail, "missing bearer token")
	})

	t.Run("wrong scheme is treated as missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwdw==")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, decodeErrorBody(t, rec).Detail, "missing bearer token")
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "malformed token", decodeErrorBody(t, rec).Detail)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := issuer.Issue("alice", []string{"ROLE_USER"}, time.Nanosecond)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "token expired", decodeErrorBody(t, rec).Detail)
	})
}

func TestAuthGateAdmit(t *testing.T) {
	issuer, verifier := newGateFixture(t)
	gate := httpx.AuthGate(verifier, httpx.GateConfig{})
	h := gate(echoPrincipal())

	token, err := issuer.Issue("alice", []string{"ROLE_USER"}, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var p jwtx.Principal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, "alice", p.Subject)
	require.True(t, p.IsUser)
	require.False(t, p.IsAdmin)
}

type failingVerifier struct{ err error }

func (f failingVerifier) Verify(context.Context, string) (jwtx.Principal, error) {
	return jwtx.Principal{}, f.err
}

func TestAuthGateInternalError(t *testing.T) {
	gate := httpx.AuthGate(failingVerifier{err: errors.New("revocation store down")}, httpx.GateConfig{})
	h := gate(echoPrincipal())

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer whatever.token.here")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	// The underlying cause stays in the logs, not the response.
	require.NotContains(t, rec.Body.String(), "revocation store down")
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", ""},
		{"bearer", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"lowercase scheme", "bearer abc.def.ghi", "abc.def.ghi"},
		{"basic scheme", "Basic dXNlcjpwdw==", ""},
		{"scheme only", "Bearer", ""},
		{"padded token", "Bearer   abc.def.ghi", "abc.def.ghi"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			require.Equal(t, tc.want, httpx.BearerToken(req))
		})
	}
}
