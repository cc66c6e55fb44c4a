// Package files implements the ledger side of custody records.
package files

import (
	"context"

	"github.com/mzarins/filedepot/internal/server/models"
)

type Repository interface {
	// ListByOwner returns the owner's records in creation order.
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.FileRecord, error)

	GetByID(ctx context.Context, id int64) (*models.FileRecord, error)

	// GetByBlobRef returns the most recent record referencing blobRef,
	// regardless of owner.
	GetByBlobRef(ctx context.Context, blobRef string) (*models.FileRecord, error)

	// GetByOwnerAndBlobRef resolves the record the given owner holds for
	// blobRef; used to authorize share offers.
	GetByOwnerAndBlobRef(ctx context.Context, ownerID int64, blobRef string) (*models.FileRecord, error)

	Insert(ctx context.Context, ownerID int64, blobRef, displayName string) (*models.FileRecord, error)

	// Delete removes the owner's record for blobRef. Deleting a record that
	// does not exist is a no-op.
	Delete(ctx context.Context, ownerID int64, blobRef string) error

	// CountByBlobRef reports how many records still reference blobRef, so
	// the blob itself is only removed once the last custody record is gone.
	CountByBlobRef(ctx context.Context, blobRef string) (int64, error)
}
