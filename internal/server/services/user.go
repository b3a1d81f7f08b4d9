// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, and access-token checks.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dropvault/internal/common"
	"github.com/dmitrijs2005/dropvault/internal/server/auth"
	"github.com/dmitrijs2005/dropvault/internal/server/config"
	"github.com/dmitrijs2005/dropvault/internal/server/models"
	"github.com/dmitrijs2005/dropvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dropvault/internal/server/storage"
)

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint an access token
// - ResolveToken: map a presented token back to an existing user
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new user with the given username and password.
// An empty username or password, or a username that could collide with
// the storage naming scheme, yields common.ErrorValidation; a taken
// username yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {

	if err := storage.ValidateComponent(username); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: empty password", common.ErrorValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{UserName: username, PasswordHash: hash}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the password against the stored hash and, on success,
// returns a signed access token. Unknown users and wrong passwords are
// indistinguishable to the caller: both return common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.UserName, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// ResolveToken validates an access token and confirms that its subject
// still exists, returning the username. Expired and invalid tokens, as
// well as tokens for deleted users, all yield common.ErrorUnauthorized.
func (s *UserService) ResolveToken(ctx context.Context, tokenString string) (string, error) {
	username, err := auth.GetUsernameFromToken(tokenString, s.jwtSecret)
	if err != nil {
		return "", common.ErrorUnauthorized
	}

	repo := s.repomanager.Users(s.db)
	if _, err := repo.GetUserByLogin(ctx, username); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}
	return username, nil
}
