// Package shares implements the ledger side of the pending-share handshake.
package shares

import (
	"context"

	"github.com/mzarins/filedepot/internal/server/models"
)

type Repository interface {
	// Create inserts a new share in the pending state, snapshotting blobRef
	// and displayName at offer time.
	Create(ctx context.Context, senderID, recipientID int64, blobRef, displayName string) (*models.PendingShare, error)

	GetByID(ctx context.Context, id int64) (*models.PendingShare, error)

	// GetByBlobRef returns the most recent share referencing blobRef.
	GetByBlobRef(ctx context.Context, blobRef string) (*models.PendingShare, error)

	// ListPendingForRecipient returns the recipient's pending shares in
	// creation order.
	ListPendingForRecipient(ctx context.Context, recipientID int64) ([]*models.PendingShare, error)

	// MarkAccepted flips a share from pending to accepted. The update is
	// conditional on the current status, so exactly one of two concurrent
	// accepts succeeds; the loser gets common.ErrInvalidState.
	MarkAccepted(ctx context.Context, id int64) error

	// Delete removes the share row. Deleting an absent share is a no-op.
	Delete(ctx context.Context, id int64) error
}
