// Package server wires the configured backends together and runs the HTTP
// API, plus the optional gRPC health endpoint, until a termination signal.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/blocksearch/internal/logging"
	"github.com/dmitrijs2005/blocksearch/internal/server/config"
	"github.com/dmitrijs2005/blocksearch/internal/server/httpapi"
	"github.com/dmitrijs2005/blocksearch/internal/server/layouts"
	"github.com/dmitrijs2005/blocksearch/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/blocksearch/internal/server/services"
	"github.com/dmitrijs2005/blocksearch/internal/server/tabular"
	"github.com/dmitrijs2005/blocksearch/internal/server/tabular/backend"
	"github.com/gin-gonic/gin"

	gs "github.com/dmitrijs2005/blocksearch/internal/server/grpc"
)

var openStore = backend.Open

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	http   *httpapi.Server
	health *gs.HealthServer
}

func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	logger := logging.NewJSONLogger(out, c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := layouts.ValidateAll(); err != nil {
		return nil, fmt.Errorf("layouts: %w", err)
	}

	store, err := openStore(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("tabular store init error: %w", err)
	}

	return newApp(ctx, c, store, logger)
}

func newApp(ctx context.Context, c *config.Config, store tabular.Store, logger logging.Logger) (*App, error) {
	repos, err := repomanager.New(ctx, c, store, logger)
	if err != nil {
		return nil, fmt.Errorf("user store init error: %w", err)
	}

	if c.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	search := services.NewSearchService(store, logger)
	accounts := services.NewUserService(repos.Users(), c, logger)

	h := httpapi.NewHandler(search, accounts, httpapi.CookieSettings{Name: c.CookieName, Secure: c.CookieSecure}, logger)
	router := httpapi.NewRouter(h, logger)

	app := &App{
		config: c,
		logger: logger,
		repos:  repos,
		http:   httpapi.NewServer(c.HTTPAddr, router, logger),
	}
	if c.GRPCHealthAddr != "" {
		app.health = gs.NewHealthServer(c.GRPCHealthAddr, logger)
	}
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// start runs fn and cancels the whole app when it fails.
func (app *App) start(ctx context.Context, cancelFunc context.CancelFunc, name string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		app.logger.Error(ctx, name+" failed", "error", err)
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"user_backend", app.config.UserBackend,
		"tabular_backend", app.config.TabularBackend,
	)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "http server", app.http.Run)
	}()

	if app.health != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.start(ctx, cancelFunc, "grpc health server", app.health.Run)
		}()
	}

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "closing user store", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
