// Package users stores accounts. Two interchangeable backends implement
// Repository: rows on the User sheet of the spreadsheet, or a PostgreSQL
// table. A deployment uses exactly one.
package users

import (
	"context"

	"github.com/dmitrijs2005/blocksearch/internal/server/models"
)

// Repository lookups return common.ErrorNotFound when no user matches and
// a wrapped backend error when the store could not be read.
type Repository interface {
	// Create stores a new user and assigns its id. A username that exists
	// in any letter case yields common.ErrUsernameTaken.
	Create(ctx context.Context, user *models.NewUser) (*models.User, error)
	// GetUserByLogin matches the username case-insensitively.
	GetUserByLogin(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}
