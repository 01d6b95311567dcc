// Package repomanager opens the user backend chosen for the deployment:
// the User sheet of the spreadsheet or a PostgreSQL database.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/blocksearch/internal/logging"
	"github.com/dmitrijs2005/blocksearch/internal/server/config"
	"github.com/dmitrijs2005/blocksearch/internal/server/repositories/users"
	"github.com/dmitrijs2005/blocksearch/internal/server/tabular"
)

// RepositoryManager vends the user repository and releases its resources.
type RepositoryManager interface {
	Users() users.Repository
	Close() error
}

// SheetRepositoryManager keeps users on the spreadsheet; it owns nothing
// that needs closing.
type SheetRepositoryManager struct {
	users *users.SheetRepository
}

func NewSheetRepositoryManager(store tabular.Store, l logging.Logger) *SheetRepositoryManager {
	return &SheetRepositoryManager{users: users.NewSheetRepository(store, l)}
}

func (m *SheetRepositoryManager) Users() users.Repository { return m.users }

func (m *SheetRepositoryManager) Close() error { return nil }

// New picks the backend named by cfg.UserBackend.
func New(ctx context.Context, cfg *config.Config, store tabular.Store, l logging.Logger) (RepositoryManager, error) {
	switch cfg.UserBackend {
	case config.UserBackendSheets:
		return NewSheetRepositoryManager(store, l), nil
	case config.UserBackendPostgres:
		m, err := NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown user backend %q", cfg.UserBackend)
	}
}
