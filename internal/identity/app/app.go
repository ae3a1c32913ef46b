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

	httpapi "github.com/harborcrest/authgate/internal/identity/http"
	"github.com/harborcrest/authgate/internal/identity/service"
	"github.com/harborcrest/authgate/internal/identity/store"
	"github.com/harborcrest/authgate/internal/identity/store/drivers/memory"
	"github.com/harborcrest/authgate/internal/identity/store/drivers/redis"
	"github.com/harborcrest/authgate/internal/identity/store/drivers/sqlite"
	"github.com/harborcrest/authgate/pkg/jwtx"
	"github.com/harborcrest/authgate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the identity service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db          store.Store
	revocations store.RevokedTokens
	redisStore  *redis.RevocationStore

	tokenService      *service.TokenService
	credentialService *service.CredentialService
	sweeperService    *service.SweeperService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "identity-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	secret, err := decodeSecret(cfg.SigningSecret)
	if err != nil {
		return nil, err
	}
	codec, err := jwtx.NewCodec(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	if err := app.initServices(codec); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.sweeperService.Start()

	app.logger.Info("identity service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down identity service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.sweeperService.Stop()

	if app.redisStore != nil {
		if err := app.redisStore.Close(); err != nil {
			app.logger.Error("error closing redis connection", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("identity service stopped")
	return nil
}

// initStore initializes the backing store and applies migrations. When a
// Redis address is configured, revocations move there so every instance
// behind a load balancer observes the same revocation list.
func (app *Application) initStore() error {
	switch app.cfg.StoreDriver {
	case "memory":
		app.db = memory.NewStore()
	case "sqlite":
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(dsn)
		if err != nil {
			return fmt.Errorf("failed to initialize store: %w", err)
		}
		app.db = db
	default:
		return fmt.Errorf("unknown store driver %q", app.cfg.StoreDriver)
	}

	if err := app.db.ApplyMigrations(); err != nil {
		_ = app.db.Close()
		return fmt.Errorf("failed to apply store migrations: %w", err)
	}

	app.revocations = app.db.RevokedTokens()
	if app.cfg.RedisAddr != "" {
		app.redisStore = redis.NewRevocationStore(app.cfg.RedisAddr, app.cfg.RedisPassword, app.cfg.RedisDB)
		app.revocations = app.redisStore
		app.logger.Info("revocation list backed by redis", "addr", app.cfg.RedisAddr)
	}

	app.logger.Info("store initialized", "driver", app.cfg.StoreDriver)
	return nil
}

// initServices wires the business logic services and seeds the first user
// on an empty store.
func (app *Application) initServices(codec *jwtx.Codec) error {
	app.credentialService = &service.CredentialService{Users: app.db.Users()}

	verifier := jwtx.NewVerifier(codec, jwtx.DefaultRoles, &service.RevocationChecker{
		Repo: app.revocations,
	})

	app.tokenService = &service.TokenService{
		Codec:       codec,
		Issuer:      jwtx.NewIssuer(codec, app.cfg.TokenTTL),
		Verifier:    verifier,
		Revocations: app.revocations,
		TokenTTL:    app.cfg.TokenTTL,
		Credentials: app.credentialService,
	}

	app.sweeperService = service.NewSweeperService(
		app.revocations,
		app.logger,
		app.cfg.SweepInterval,
	)

	if app.cfg.BootstrapPassword != "" {
		created, err := app.credentialService.Bootstrap(
			context.Background(),
			app.cfg.BootstrapUsername,
			app.cfg.BootstrapPassword,
			[]string{jwtx.RoleAdmin, jwtx.RoleUser},
		)
		if err != nil {
			return fmt.Errorf("failed to bootstrap first user: %w", err)
		}
		if created {
			app.logger.Info("bootstrap user created", "username", app.cfg.BootstrapUsername)
		}
	}

	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokenService.Verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.TokenService = app.tokenService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// decodeSecret decodes the base64 shared secret from the environment. The
// decoded value is what signs tokens; it never appears in logs or errors.
func decodeSecret(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, fmt.Errorf("AUTH_SIGNING_SECRET is required")
	}
	secret, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("AUTH_SIGNING_SECRET must be base64: %w", err)
	}
	return secret, nil
}
