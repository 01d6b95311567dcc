package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/blocksearch/internal/common"
	"github.com/dmitrijs2005/blocksearch/internal/dbx"
	"github.com/dmitrijs2005/blocksearch/internal/server/models"
)

type PostgresRepository struct {
	db *sql.DB
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create runs the duplicate check and the insert in one transaction. The
// unique indexes still decide races; their violations map to the same
// sentinels.
func (r *PostgresRepository) Create(ctx context.Context, user *models.NewUser) (*models.User, error) {
	created := &models.User{Username: user.Username, Password: user.Password}

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var taken bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE lower(username) = lower($1))`,
			user.Username).Scan(&taken)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrUsernameTaken
		}

		query :=
			`INSERT INTO users (username, password, email)
			 VALUES ($1, $2, $3)
			 RETURNING id
			 `
		return tx.QueryRowContext(ctx, query, user.Username, user.Password, user.Email).Scan(&created.ID)
	})

	if err != nil {
		if errors.Is(err, common.ErrUsernameTaken) {
			return nil, err
		}
		if constraint, ok := dbx.UniqueViolation(err); ok {
			if strings.Contains(constraint, "email") {
				return nil, common.ErrEmailTaken
			}
			return nil, common.ErrUsernameTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT id, username, password FROM users
		 WHERE lower(username) = lower($1)
		 `
	return r.getOne(ctx, query, username)
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, username, password FROM users
		 WHERE id = $1
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Username, &user.Password)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
