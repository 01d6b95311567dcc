// Package admin implements usersctl, a small command line tool for managing
// accounts directly in the configured user store.
package admin

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/blocksearch/internal/logging"
	"github.com/dmitrijs2005/blocksearch/internal/server/config"
	"github.com/dmitrijs2005/blocksearch/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/blocksearch/internal/server/repositories/users"
	"github.com/dmitrijs2005/blocksearch/internal/server/tabular"
	"github.com/dmitrijs2005/blocksearch/internal/server/tabular/backend"
)

// Backend is an opened user store plus what the commands need around it.
type Backend struct {
	Users  users.Repository
	Config *config.Config
	Logger logging.Logger
	Close  func() error
}

// Opener opens the user store described by the config file at path.
type Opener func(ctx context.Context, path string) (*Backend, error)

// OpenBackend loads the server configuration and opens the same user store
// the server would use.
func OpenBackend(ctx context.Context, path string) (*Backend, error) {
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)

	var store tabular.Store
	if cfg.UserBackend == config.UserBackendSheets {
		store, err = backend.Open(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("tabular store: %w", err)
		}
	}

	repos, err := repomanager.New(ctx, cfg, store, logger)
	if err != nil {
		return nil, fmt.Errorf("user store: %w", err)
	}

	return &Backend{
		Users:  repos.Users(),
		Config: cfg,
		Logger: logger,
		Close:  repos.Close,
	}, nil
}
