package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	gatewayhttp "github.com/harborcrest/authgate/internal/gateway/http"
	identityhttp "github.com/harborcrest/authgate/internal/identity/http"
	"github.com/harborcrest/authgate/internal/identity/service"
	"github.com/harborcrest/authgate/internal/identity/store/drivers/memory"
	"github.com/harborcrest/authgate/pkg/jwtx"
)

const (
	adminUsername = "root"
	adminPassword = "e2e-admin-password"

	sharedSecret = "e2e-shared-secret"
)

// setupIdentityServer starts an in-process identity service backed by the
// memory store with one bootstrapped admin account.
func setupIdentityServer(t *testing.T) (string, func()) {
	t.Helper()

	st := memory.NewStore()

	codec, err := jwtx.NewCodec([]byte(sharedSecret))
	require.NoError(t, err)

	creds := &service.CredentialService{Users: st.Users()}
	created, err := creds.Bootstrap(context.Background(), adminUsername, adminPassword,
		[]string{jwtx.RoleAdmin, jwtx.RoleUser})
	require.NoError(t, err)
	require.True(t, created)

	verifier := jwtx.NewVerifier(codec, jwtx.DefaultRoles, &service.RevocationChecker{
		Repo: st.RevokedTokens(),
	})

	svc := &service.TokenService{
		Codec:       codec,
		Issuer:      jwtx.NewIssuer(codec, time.Hour),
		Verifier:    verifier,
		Revocations: st.RevokedTokens(),
		TokenTTL:    time.Hour,
		Credentials: creds,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := identityhttp.NewRouter(verifier, "e2e", st, logger)
	router.TokenService = svc
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	return srv.URL, srv.Close
}

// setupGateway mounts one route on an in-process gateway and returns its
// base URL.
func setupGateway(t *testing.T, route gatewayhttp.Route, v jwtx.Verifier) (string, func()) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := gatewayhttp.NewRouter("e2e", logger)
	require.NoError(t, router.Register(route, v))

	srv := httptest.NewServer(router)
	return srv.URL, srv.Close
}

// setupBackend starts an upstream that reports the identity headers it
// received.
func setupBackend(t *testing.T) (string, func(), *receivedIdentity) {
	t.Helper()

	got := &receivedIdentity{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Subject = r.Header.Get("X-Auth-Subject")
		got.Roles = r.Header.Get("X-Auth-Roles")
		w.WriteHeader(http.StatusOK)
	}))
	return srv.URL, srv.Close, got
}

type receivedIdentity struct {
	Subject string
	Roles   string
}
