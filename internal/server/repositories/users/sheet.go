package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/blocksearch/internal/common"
	"github.com/dmitrijs2005/blocksearch/internal/logging"
	"github.com/dmitrijs2005/blocksearch/internal/server/layouts"
	"github.com/dmitrijs2005/blocksearch/internal/server/models"
	"github.com/dmitrijs2005/blocksearch/internal/server/tabular"
)

// SheetRepository keeps users as rows [ID, Username, Password, Email] on
// the User sheet. Creations are serialized by mu, so one process is the
// only writer; nothing guards against a second process.
type SheetRepository struct {
	store  tabular.Store
	sheet  layouts.UserSheet
	mu     sync.Mutex
	logger logging.Logger
}

var _ Repository = (*SheetRepository)(nil)

func NewSheetRepository(store tabular.Store, l logging.Logger) *SheetRepository {
	return &SheetRepository{
		store:  store,
		sheet:  layouts.Users,
		logger: l.With("module", "user_sheet"),
	}
}

// rows reads the lookup window. A missing User sheet holds no users.
func (r *SheetRepository) rows(ctx context.Context) ([]tabular.Row, error) {
	rows, err := r.store.ReadRange(ctx, r.sheet.Range, r.sheet.Render)
	if errors.Is(err, tabular.ErrSheetNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sheet error: %w", err)
	}
	return rows, nil
}

func parseID(row tabular.Row) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(row.Cell(layouts.UserID)), 10, 64)
	return id, err == nil
}

func toUser(row tabular.Row, id int64) *models.User {
	return &models.User{
		ID:       id,
		Username: row.Cell(layouts.UserName),
		Password: row.Cell(layouts.UserPassword),
	}
}

func (r *SheetRepository) GetUserByLogin(ctx context.Context, username string) (*models.User, error) {
	rows, err := r.rows(ctx)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		name := row.Cell(layouts.UserName)
		if name == "" || !strings.EqualFold(name, username) {
			continue
		}
		id, ok := parseID(row)
		if !ok {
			return nil, fmt.Errorf("sheet error: user %q has invalid id %q", name, row.Cell(layouts.UserID))
		}
		return toUser(row, id), nil
	}

	return nil, common.ErrorNotFound
}

// GetUserByID skips rows whose id cell does not parse.
func (r *SheetRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	rows, err := r.rows(ctx)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if rowID, ok := parseID(row); ok && rowID == id {
			return toUser(row, id), nil
		}
	}

	return nil, common.ErrorNotFound
}

// Create checks for a duplicate, makes sure the User sheet and its header
// exist, then appends the user with the next id. Any failure other than a
// duplicate is logged and reported as common.ErrCreateUser. There is no
// rollback: a sheet created before a failed append stays.
func (r *SheetRepository) Create(ctx context.Context, user *models.NewUser) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.rows(ctx)
	if err != nil {
		return nil, r.createFailed(ctx, "read users", err)
	}
	for _, row := range rows {
		if strings.EqualFold(row.Cell(layouts.UserName), user.Username) {
			return nil, common.ErrUsernameTaken
		}
	}

	created, err := r.store.EnsureSheet(ctx, r.sheet.Range.Sheet, r.sheet.Rows, r.sheet.Cols())
	if err != nil {
		return nil, r.createFailed(ctx, "ensure sheet", err)
	}
	if created {
		if err := r.store.UpdateRange(ctx, r.sheet.HeaderRange, [][]any{r.sheet.Header}); err != nil {
			return nil, r.createFailed(ctx, "write header", err)
		}
	}

	rows, err = r.rows(ctx)
	if err != nil {
		return nil, r.createFailed(ctx, "re-read users", err)
	}
	id := nextID(rows)

	row := []any{id, user.Username, user.Password, user.Email}
	if err := r.store.AppendRow(ctx, r.sheet.Append, row); err != nil {
		return nil, r.createFailed(ctx, "append user", err)
	}

	r.logger.Info(ctx, "user created", "id", id, "username", user.Username, "sheet_created", created)
	return &models.User{ID: id, Username: user.Username, Password: user.Password}, nil
}

func (r *SheetRepository) createFailed(ctx context.Context, step string, err error) error {
	r.logger.Error(ctx, "create user failed", "step", step, "error", err)
	return common.ErrCreateUser
}

// nextID is one past the largest parseable id, or 1 for an empty sheet.
func nextID(rows []tabular.Row) int64 {
	var maxID int64
	for _, row := range rows {
		if id, ok := parseID(row); ok && id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}
