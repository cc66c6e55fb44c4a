// Package users implements the ledger side of user identities.
package users

import (
	"context"

	"github.com/mzarins/filedepot/internal/server/models"
)

type Repository interface {
	// GetOrCreate resolves the user for identityKey, creating it atomically
	// on first login. Two concurrent first logins converge on one row.
	GetOrCreate(ctx context.Context, identityKey, email, displayName string) (*models.User, error)

	// Create inserts a new user and fails with common.ErrConflict when the
	// identity key is already present.
	Create(ctx context.Context, identityKey, email, displayName string) (*models.User, error)

	GetByIdentityKey(ctx context.Context, identityKey string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
