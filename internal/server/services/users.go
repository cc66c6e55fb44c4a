// Package services contains server-side business logic. This file implements
// UserService, which resolves authenticated identities to ledger users.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mzarins/filedepot/internal/common"
	"github.com/mzarins/filedepot/internal/logging"
	"github.com/mzarins/filedepot/internal/server/models"
	"github.com/mzarins/filedepot/internal/server/repositories/repomanager"
)

// UserService resolves verified identities (key, email, display name) to
// ledger users, creating them on first login.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

// NewUserService constructs a UserService over the ledger.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		logger:      l.With("module", "user_service"),
	}
}

// GetOrCreate returns the user for identityKey, creating it atomically on
// first login. The identity is trusted as given; token validation happens at
// the edge.
func (s *UserService) GetOrCreate(ctx context.Context, identityKey, email, displayName string) (*models.User, error) {
	if identityKey == "" {
		return nil, fmt.Errorf("get or create user: %w: empty identity key", common.ErrInvalidInput)
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.GetOrCreate(ctx, identityKey, email, displayName)
	if err != nil {
		return nil, fmt.Errorf("get or create user %q: %w: %v", identityKey, common.ErrStoreUnavailable, err)
	}
	return u, nil
}

// GetByEmail resolves a user by display email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	u, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w: %v", common.ErrStoreUnavailable, err)
	}
	return u, nil
}
