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

	httpapi "github.com/buildvane/rfihub/internal/rfi/http"
	"github.com/buildvane/rfihub/internal/rfi/notify"
	"github.com/buildvane/rfihub/internal/rfi/obs"
	"github.com/buildvane/rfihub/internal/rfi/service"
	"github.com/buildvane/rfihub/internal/rfi/store"
	"github.com/buildvane/rfihub/internal/rfi/store/drivers/sqlite"
	"github.com/buildvane/rfihub/pkg/jwtx"
	"github.com/buildvane/rfihub/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the RFI service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         store.Store
	verifier   jwtx.Verifier
	dispatcher *notify.Dispatcher

	directoryService    *service.DirectoryService
	projectService      *service.ProjectService
	rfiService          *service.RFIService
	clientAccessService *service.ClientAccessService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "rfi-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.AuthIssuer == "" || cfg.AuthJWTSecret == "" {
		return nil, errors.New("RFI_AUTH_ISSUER and RFI_AUTH_JWT_SECRET must be set")
	}
	app.verifier = jwtx.NewVerifierHS256([]byte(cfg.AuthJWTSecret), cfg.AuthIssuer)

	obs.Init()

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.dispatcher.Start()
	app.housekeepingService.Start()

	app.logger.Info("rfi service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully stops the server, the workers, and the database, in
// that order so nothing writes to a closed store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down rfi service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()
	app.dispatcher.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("rfi service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	app.dispatcher = notify.NewDispatcher(app.db, app.logger, app.cfg.NotifyQueueSize)

	app.directoryService = &service.DirectoryService{Store: app.db}
	app.projectService = &service.ProjectService{Store: app.db}
	app.rfiService = &service.RFIService{
		Store:   app.db,
		Emitter: app.dispatcher,
	}
	app.clientAccessService = &service.ClientAccessService{
		Store:   app.db,
		Emitter: app.dispatcher,
		LinkTTL: app.cfg.ClientLinkTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.DirectoryService = app.directoryService
	router.ProjectService = app.projectService
	router.RFIService = app.rfiService
	router.ClientAccessService = app.clientAccessService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
