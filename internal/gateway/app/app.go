package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/harborcrest/authgate/internal/gateway/http"
	"github.com/harborcrest/authgate/internal/identity/service"
	"github.com/harborcrest/authgate/internal/identity/store/drivers/redis"
	"github.com/harborcrest/authgate/pkg/authsdk"
	"github.com/harborcrest/authgate/pkg/jwtx"
	"github.com/harborcrest/authgate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application is the edge gateway process: a route table, one verifier per
// verification mode, and the HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	localVerifier  jwtx.Verifier
	remoteVerifier jwtx.Verifier
	redisStore     *redis.RevocationStore

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized. The two
// verifiers are built lazily from config: a route table with only remote
// routes needs no signing secret, and one with only local routes needs no
// identity service URL.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "gateway",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	routes, err := httpapi.ParseRoutes(cfg.Routes)
	if err != nil {
		return nil, fmt.Errorf("GATEWAY_ROUTES: %w", err)
	}

	if err := app.initVerifiers(routes); err != nil {
		return nil, err
	}
	if err := app.initHTTP(routes); err != nil {
		return nil, err
	}

	return app, nil
}

// Run starts the gateway and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("gateway starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the gateway.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.redisStore != nil {
		if err := app.redisStore.Close(); err != nil {
			app.logger.Error("error closing redis connection", "error", err)
		}
	}

	app.logger.Info("gateway stopped")
	return nil
}

// initVerifiers builds the verifier each mode in the route table needs.
func (app *Application) initVerifiers(routes []httpapi.Route) error {
	needsLocal, needsRemote := false, false
	for _, rt := range routes {
		switch rt.Mode {
		case httpapi.ModeLocal:
			needsLocal = true
		case httpapi.ModeRemote:
			needsRemote = true
		}
	}

	if needsLocal {
		if app.cfg.SigningSecret == "" {
			return fmt.Errorf("local-mode routes need AUTH_SIGNING_SECRET")
		}
		secret, err := base64.StdEncoding.DecodeString(app.cfg.SigningSecret)
		if err != nil {
			return fmt.Errorf("AUTH_SIGNING_SECRET must be base64: %w", err)
		}
		codec, err := jwtx.NewCodec(secret)
		if err != nil {
			return fmt.Errorf("failed to initialize token codec: %w", err)
		}

		// Without Redis, local mode trusts signature and expiry alone; the
		// revocation list lives with the identity service.
		var checker jwtx.RevocationChecker
		if app.cfg.RedisAddr != "" {
			app.redisStore = redis.NewRevocationStore(app.cfg.RedisAddr, app.cfg.RedisPassword, app.cfg.RedisDB)
			checker = &service.RevocationChecker{Repo: app.redisStore}
			app.logger.Info("local verification checks shared revocation list", "addr", app.cfg.RedisAddr)
		}
		app.localVerifier = jwtx.NewVerifier(codec, jwtx.DefaultRoles, checker)
	}

	if needsRemote {
		if app.cfg.AuthServiceURL == "" {
			return fmt.Errorf("remote-mode routes need AUTH_SERVICE_URL")
		}
		client := authsdk.NewClient(app.cfg.AuthServiceURL, app.cfg.AuthTimeout)
		app.remoteVerifier = authsdk.NewRemoteVerifier(client, jwtx.DefaultRoles)
	}

	return nil
}

// initHTTP mounts the route table and builds the server.
func (app *Application) initHTTP(routes []httpapi.Route) error {
	router := httpapi.NewRouter(BuildVersion, app.logger)

	for _, rt := range routes {
		var v jwtx.Verifier
		switch rt.Mode {
		case httpapi.ModeLocal:
			v = app.localVerifier
		case httpapi.ModeRemote:
			v = app.remoteVerifier
		}
		if err := router.Register(rt, v); err != nil {
			return err
		}
		app.logger.Info("route mounted",
			"prefix", rt.Prefix,
			"upstream", rt.Upstream,
			"mode", rt.Mode,
		)
	}

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
