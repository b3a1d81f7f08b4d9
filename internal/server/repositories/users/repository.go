package users

import (
	"context"

	"github.com/dmitrijs2005/dropvault/internal/server/models"
)

// Repository is the credential store: it owns username → password-hash
// records. There is no update or delete; accounts are immutable once
// created.
type Repository interface {
	// Create inserts the user and returns it with ID and CreatedAt set.
	// A duplicate username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByLogin finds a user by exact, case-sensitive username.
	// Returns common.ErrorNotFound on a miss.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
