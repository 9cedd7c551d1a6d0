package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	shophttp "github.com/aussiebroadwan/fluffyfriend/internal/shop/http"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/service"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/store"
	"github.com/aussiebroadwan/fluffyfriend/internal/shop/store/drivers/sqlite"
	"github.com/aussiebroadwan/fluffyfriend/pkg/cryptox"
	"github.com/aussiebroadwan/fluffyfriend/pkg/jwtx"
	"github.com/aussiebroadwan/fluffyfriend/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

const cookieIssuer = "fluffyfriend"

// Application wires the shop together and owns its lifecycle.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	cookies *jwtx.CookieCodec
	views   *shophttp.Views

	sessionService      *service.SessionService
	authService         *service.AuthService
	accountService      *service.AccountService
	productService      *service.ProductService
	cartService         *service.CartService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *shophttp.Router
}

// New creates an Application with every dependency initialised. The
// database is migrated and the configured administrator ensured.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "fluffyfriend",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initSessions(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	views, err := shophttp.NewViews(cfg.AppName)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	app.views = views

	app.initServices()

	if err := app.bootstrap(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()
	return app, nil
}

// Handler exposes the root HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the server and blocks until it fails or a shutdown signal
// arrives.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("shop starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		_ = app.db.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown drains in-flight requests, stops housekeeping and closes the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down shop...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("shop stopped")
	return nil
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(app.cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

func (app *Application) initSessions() error {
	key, err := cryptox.LoadSessionKey(app.cfg.SessionKeyFile, app.cfg.SessionKey)
	if err != nil {
		return fmt.Errorf("failed to load session key: %w", err)
	}

	cookies, err := jwtx.NewCookieCodec(key, cookieIssuer)
	if err != nil {
		return fmt.Errorf("failed to create cookie codec: %w", err)
	}
	app.cookies = cookies
	return nil
}

func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Store: app.db,
		TTL:   app.cfg.SessionTTL,
	}

	app.authService = &service.AuthService{
		Store:          app.db,
		Credentials:    &service.CredentialVerifier{Store: app.db},
		TOTP:           service.NewTOTPEngine(),
		Sessions:       app.sessionService,
		AppName:        app.cfg.AppName,
		PendingAuthTTL: app.cfg.PendingAuthTTL,
		EnrollmentTTL:  app.cfg.EnrollmentTTL,
	}

	app.accountService = &service.AccountService{Store: app.db}
	app.productService = &service.ProductService{Store: app.db}
	app.cartService = &service.CartService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) bootstrap() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = slogx.WithContext(ctx, app.logger)

	created, err := app.bootstrapService.EnsureAdmin(ctx, service.BootstrapAdmin{
		Email:    app.cfg.AdminEmail,
		Username: app.cfg.AdminUsername,
		Password: app.cfg.AdminPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	if created {
		app.logger.Info("administrator account created", "email", app.cfg.AdminEmail)
	}
	return nil
}

func (app *Application) initHTTP() {
	router := shophttp.NewRouter(
		app.cookies,
		app.views,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.SecureCookies = app.cfg.SecureCookies
	router.TrustProxy = app.cfg.TrustProxy
	router.SessionService = app.sessionService
	router.AuthService = app.authService
	router.AccountService = app.accountService
	router.ProductService = app.productService
	router.CartService = app.cartService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
