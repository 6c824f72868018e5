// Package server initializes and runs the auth backend: it validates
// configuration, wires the repositories and services together, and drives
// the HTTP server with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/jhontaff/JWT-Authentication/internal/logging"
	"github.com/jhontaff/JWT-Authentication/internal/server/auth"
	"github.com/jhontaff/JWT-Authentication/internal/server/config"
	"github.com/jhontaff/JWT-Authentication/internal/server/httpapi"
	"github.com/jhontaff/JWT-Authentication/internal/server/shared/db"
	"github.com/jhontaff/JWT-Authentication/internal/server/users"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	manager    db.RepositoryManager
	httpServer *httpapi.Server
}

// NewApp builds the application from configuration. The signing secret is
// decoded and checked here so a misconfigured key fails at startup, never
// at request time.
func NewApp(cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	key, err := cfg.SigningKey()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	codec := auth.NewCodec(key, cfg.TokenTTL)

	manager, err := db.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := users.NewService(manager.Accounts(), manager.Roles(), codec, cfg, logger)

	hs := httpapi.NewServer(cfg.EndpointAddr, us, codec, manager.Accounts(),
		strings.Split(cfg.CORSAllowedOrigins, ","), logger)

	return &App{config: cfg, logger: logger, manager: manager, httpServer: hs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
