package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrlokans/bookshelf/internal/entities"
	apperrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/identity"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *entities.User) (string, error)
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
	Sex       string
	DOB       *time.Time
}

// LoginResult is a successful login: the user and a signed session token.
type LoginResult struct {
	User  *entities.User `json:"user"`
	Token string         `json:"token"`
}

var errInvalidCredentials = apperrors.Unauthorized("invalid email or password")

// UserService registers accounts and authenticates them.
type UserService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	log    zerolog.Logger
}

func NewUserService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, log zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		log:    log.With().Str("service", "users").Logger(),
	}
}

// Register creates a regular account together with its default shelves.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*entities.User, error) {
	return s.create(ctx, input, entities.RoleUser)
}

// CreateAdmin creates an administrator account. It is only reachable from the CLI.
func (s *UserService) CreateAdmin(ctx context.Context, input RegisterInput) (*entities.User, error) {
	return s.create(ctx, input, entities.RoleAdmin)
}

func (s *UserService) create(ctx context.Context, input RegisterInput, role entities.Role) (*entities.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" {
		return nil, apperrors.Validation("username and email are required")
	}

	if err := s.ensureUnused(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Sex:          input.Sex,
		DOB:          input.DOB,
		Status:       entities.StatusActive,
	}
	if err := s.users.CreateWithShelves(ctx, user, DefaultShelves(0)); err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info().Uint("user_id", user.ID).Str("username", user.Username).Str("role", string(role)).Msg("user registered")

	return user, nil
}

func (s *UserService) ensureUnused(ctx context.Context, username, email string) error {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return apperrors.Validation("username is already used")
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return apperrors.Validation("email is already registered")
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

// Login verifies credentials of an active account and issues a token. Every
// failure looks the same to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.Status.IsActive() {
		return nil, errInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.log.Debug().Uint("user_id", user.ID).Msg("password mismatch")
		return nil, errInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &LoginResult{User: user, Token: token}, nil
}

// Profile returns the caller's own account.
func (s *UserService) Profile(ctx context.Context, caller identity.Identity) (*entities.User, error) {
	if err := caller.RequireUser(); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, caller.UserID)
}
