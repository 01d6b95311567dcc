package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/blocksearch/internal/common"
	"github.com/dmitrijs2005/blocksearch/internal/logging"
	"github.com/dmitrijs2005/blocksearch/internal/server/auth"
	"github.com/dmitrijs2005/blocksearch/internal/server/config"
	"github.com/dmitrijs2005/blocksearch/internal/server/models"
	"github.com/dmitrijs2005/blocksearch/internal/server/repositories/users"
)

// Session is a signed-in user plus the token that proves it.
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// UserService provides account operations on top of a users.Repository:
//   - Register: create a user with a bcrypt-hashed password
//   - Login: verify credentials and mint a session token
//   - Me / Authenticate: resolve a session back to its user
type UserService struct {
	users           users.Repository
	jwtSecret       []byte
	sessionValidity time.Duration
	logger          logging.Logger
	now             func() time.Time
}

func NewUserService(repo users.Repository, cfg *config.Config, l logging.Logger) *UserService {
	return &UserService{
		users:           repo,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
		logger:          l.With("module", "users"),
		now:             time.Now,
	}
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, msg)
}

// Register validates the input, hashes the password and stores the user.
// Duplicate usernames and emails come back as their own sentinels; every
// other store failure as common.ErrCreateUser.
func (s *UserService) Register(ctx context.Context, username, password, email string) (*Session, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	switch {
	case username == "":
		return nil, validationError("username is required")
	case password == "":
		return nil, validationError("password is required")
	case email == "":
		return nil, validationError("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationError("email is invalid")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error(ctx, "hash password", "error", err)
		return nil, common.ErrorInternal
	}

	u, err := s.users.Create(ctx, &models.NewUser{Username: username, Password: hash, Email: email})
	if err != nil {
		if errors.Is(err, common.ErrUsernameTaken) || errors.Is(err, common.ErrEmailTaken) {
			return nil, err
		}
		s.logger.Error(ctx, "create user", "username", username, "error", err)
		return nil, common.ErrCreateUser
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return s.newSession(u)
}

// Login returns common.ErrorUnauthorized for an unknown user or a wrong
// password, and common.ErrorInternal when the store cannot be read.
func (s *UserService) Login(ctx context.Context, username, password string) (*Session, error) {
	u, err := s.users.GetUserByLogin(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "lookup user", "error", err)
		return nil, common.ErrorInternal
	}

	ok, err := auth.CheckPassword(u.Password, password)
	if err != nil {
		s.logger.Warn(ctx, "stored password is not a bcrypt hash", "user_id", u.ID)
		return nil, common.ErrorUnauthorized
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	return s.newSession(u)
}

// Authenticate maps a session token to its user id.
func (s *UserService) Authenticate(token string) (int64, error) {
	id, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	return id, nil
}

// Me loads the user behind a session. A user deleted since the token was
// issued is unauthorized.
func (s *UserService) Me(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "lookup user", "user_id", id, "error", err)
		return nil, common.ErrorInternal
	}
	return u, nil
}

func (s *UserService) newSession(u *models.User) (*Session, error) {
	token, err := auth.GenerateToken(u.ID, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{User: u, Token: token, ExpiresAt: s.now().Add(s.sessionValidity)}, nil
}
