// This file implements SharingService, the coordinator for all custody write
// paths. It sequences ledger and blob store calls per operation — the two
// stores share no transaction — and runs the pending-share state machine.
package services

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/mzarins/filedepot/internal/common"
	"github.com/mzarins/filedepot/internal/dbx"
	"github.com/mzarins/filedepot/internal/logging"
	"github.com/mzarins/filedepot/internal/server/blob"
	"github.com/mzarins/filedepot/internal/server/models"
	"github.com/mzarins/filedepot/internal/server/notify"
	"github.com/mzarins/filedepot/internal/server/repositories/repomanager"
)

// SharingService orchestrates uploads, downloads, deletes and the
// offer/accept/refuse handshake against the ledger and the blob store.
// It is stateless between calls and imposes no in-process locking; races are
// resolved by the ledger's conditional writes.
type SharingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blob.Store
	notifier    notify.Notifier
	logger      logging.Logger
}

// NewSharingService constructs the sharing coordinator.
func NewSharingService(db *sql.DB, m repomanager.RepositoryManager, blobs blob.Store, n notify.Notifier, l logging.Logger) *SharingService {
	return &SharingService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		notifier:    n,
		logger:      l.With("module", "sharing_service"),
	}
}

// storeErr tags a collaborator failure with ErrStoreUnavailable while
// keeping the original message. The coordinator never retries; retry policy
// belongs to the caller since these operations are not idempotent under
// partial failure.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, common.ErrStoreUnavailable, err)
}

// ListFiles returns the owner's records in creation order.
func (s *SharingService) ListFiles(ctx context.Context, ownerID int64) ([]*models.FileRecord, error) {
	records, err := s.repomanager.Files(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeErr("list files", err)
	}
	return records, nil
}

// Upload writes the content to the blob store first and only then inserts
// the custody record, so a record never becomes visible before its blob
// exists. If the insert fails the blob is orphaned: invisible to every
// ownership query and left for storage reclamation.
func (s *SharingService) Upload(ctx context.Context, ownerID int64, content io.Reader, displayName string) (*models.FileRecord, error) {
	if displayName == "" {
		return nil, fmt.Errorf("upload: %w: empty display name", common.ErrInvalidInput)
	}

	buffered := bufio.NewReader(content)
	if _, err := buffered.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("upload %q: %w: empty content", displayName, common.ErrInvalidInput)
		}
		return nil, storeErr(fmt.Sprintf("upload %q: read content", displayName), err)
	}

	blobRef, err := s.blobs.Put(ctx, buffered, displayName)
	if err != nil {
		return nil, storeErr(fmt.Sprintf("upload %q: store blob", displayName), err)
	}

	record, err := s.repomanager.Files(s.db).Insert(ctx, ownerID, blobRef, displayName)
	if err != nil {
		s.logger.Error(ctx, "record insert failed after blob upload, blob orphaned",
			"blob_ref", blobRef, "owner_id", ownerID)
		return nil, storeErr(fmt.Sprintf("upload %q: insert record", displayName), err)
	}

	return record, nil
}

// Download streams the blob for the caller's record. Records owned by other
// users are reported as not found so the response does not confirm their
// existence. A live record whose blob is missing is a detected inconsistency:
// logged, surfaced as not found, never silently substituted.
func (s *SharingService) Download(ctx context.Context, ownerID, fileID int64) (io.ReadCloser, *models.FileRecord, error) {
	record, err := s.resolveOwned(ctx, ownerID, fileID, "download")
	if err != nil {
		return nil, nil, err
	}

	content, err := s.blobs.Get(ctx, record.BlobRef)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Error(ctx, "blob missing for live record",
				"file_id", record.ID, "blob_ref", record.BlobRef)
			return nil, nil, fmt.Errorf("download file %d: blob missing: %w", fileID, common.ErrNotFound)
		}
		return nil, nil, storeErr(fmt.Sprintf("download file %d", fileID), err)
	}

	return content, record, nil
}

// Delete removes the caller's record from the ledger first and the blob
// second, so a crash in between leaves an orphaned blob rather than a live
// record pointing at missing bytes. The blob itself is removed only once no
// record — the owner's or one created by an accepted share — references it.
func (s *SharingService) Delete(ctx context.Context, ownerID, fileID int64) error {
	record, err := s.resolveOwned(ctx, ownerID, fileID, "delete")
	if err != nil {
		return err
	}

	fileRepo := s.repomanager.Files(s.db)

	if err := fileRepo.Delete(ctx, ownerID, record.BlobRef); err != nil {
		return storeErr(fmt.Sprintf("delete file %d: remove record", fileID), err)
	}

	remaining, err := fileRepo.CountByBlobRef(ctx, record.BlobRef)
	if err != nil {
		return storeErr(fmt.Sprintf("delete file %d: count references", fileID), err)
	}
	if remaining > 0 {
		return nil
	}

	if err := s.blobs.Delete(ctx, record.BlobRef); err != nil {
		s.logger.Error(ctx, "blob delete failed after record removal, blob orphaned",
			"blob_ref", record.BlobRef, "file_id", fileID)
		return storeErr(fmt.Sprintf("delete file %d: remove blob", fileID), err)
	}

	return nil
}

// OfferShare creates a pending share from the sender to the user resolved by
// recipientEmail, snapshotting the display name and blob reference. The
// notification push is advisory: its failure never rolls back the offer.
func (s *SharingService) OfferShare(ctx context.Context, senderID int64, recipientEmail, displayName, blobRef string) (*models.PendingShare, error) {
	if recipientEmail == "" || displayName == "" || blobRef == "" {
		return nil, fmt.Errorf("offer share: %w: empty argument", common.ErrInvalidInput)
	}

	userRepo := s.repomanager.Users(s.db)

	recipient, err := userRepo.GetByEmail(ctx, recipientEmail)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("offer share: recipient %q: %w", recipientEmail, common.ErrNotFound)
		}
		return nil, storeErr("offer share: resolve recipient", err)
	}
	if recipient.ID == senderID {
		return nil, fmt.Errorf("offer share: %w: cannot share with yourself", common.ErrInvalidInput)
	}

	if _, err := s.repomanager.Files(s.db).GetByOwnerAndBlobRef(ctx, senderID, blobRef); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("offer share: sender does not own blob %q: %w", blobRef, common.ErrNotFound)
		}
		return nil, storeErr("offer share: resolve record", err)
	}

	share, err := s.repomanager.Shares(s.db).Create(ctx, senderID, recipient.ID, blobRef, displayName)
	if err != nil {
		return nil, storeErr("offer share: create share", err)
	}

	s.notifyRecipient(ctx, senderID, recipient, displayName)

	return share, nil
}

// AcceptShare grants the recipient a new custody record for the shared blob.
// This is copy-on-accept, not move: the sender keeps their own record, and
// two records alias one blob afterwards. The status flip and the record
// insert share one ledger transaction, and the flip is conditional on the
// share still being pending, so a concurrent second accept creates nothing.
func (s *SharingService) AcceptShare(ctx context.Context, shareID int64) (*models.FileRecord, error) {
	share, err := s.repomanager.Shares(s.db).GetByID(ctx, shareID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("accept share %d: %w", shareID, common.ErrNotFound)
		}
		return nil, storeErr(fmt.Sprintf("accept share %d", shareID), err)
	}
	if share.Status != models.SharePending {
		return nil, fmt.Errorf("accept share %d: already accepted: %w", shareID, common.ErrInvalidState)
	}

	recipient, err := s.repomanager.Users(s.db).GetByID(ctx, share.RecipientID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("accept share %d: recipient: %w", shareID, common.ErrNotFound)
		}
		return nil, storeErr(fmt.Sprintf("accept share %d: resolve recipient", shareID), err)
	}

	// Custody cannot be granted for content no longer vouched for: the
	// source record must still exist at read time. A delete racing past
	// this point is caught by the aliasing-aware blob removal in Delete.
	if _, err := s.repomanager.Files(s.db).GetByBlobRef(ctx, share.BlobRef); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("accept share %d: source record gone: %w", shareID, common.ErrNotFound)
		}
		return nil, storeErr(fmt.Sprintf("accept share %d: resolve source", shareID), err)
	}

	var record *models.FileRecord
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Shares(tx).MarkAccepted(ctx, share.ID); err != nil {
			return err
		}
		var insertErr error
		record, insertErr = s.repomanager.Files(tx).Insert(ctx, recipient.ID, share.BlobRef, share.DisplayName)
		return insertErr
	})
	if err != nil {
		if errors.Is(err, common.ErrInvalidState) {
			return nil, fmt.Errorf("accept share %d: already accepted: %w", shareID, common.ErrInvalidState)
		}
		return nil, storeErr(fmt.Sprintf("accept share %d", shareID), err)
	}

	return record, nil
}

// RefuseShare discards the offer outright; no refused row is retained. The
// operation is idempotent by design: refusing a share that does not exist is
// a no-op.
func (s *SharingService) RefuseShare(ctx context.Context, shareID int64) error {
	shareRepo := s.repomanager.Shares(s.db)

	share, err := shareRepo.GetByID(ctx, shareID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return storeErr(fmt.Sprintf("refuse share %d", shareID), err)
	}

	if err := shareRepo.Delete(ctx, share.ID); err != nil {
		return storeErr(fmt.Sprintf("refuse share %d", shareID), err)
	}
	return nil
}

// GetPendingShares returns the recipient's pending shares in creation order.
func (s *SharingService) GetPendingShares(ctx context.Context, recipientID int64) ([]*models.PendingShare, error) {
	result, err := s.repomanager.Shares(s.db).ListPendingForRecipient(ctx, recipientID)
	if err != nil {
		return nil, storeErr("get pending shares", err)
	}
	return result, nil
}

// resolveOwned loads the record for fileID and verifies ownership. Records
// owned by someone else resolve to ErrNotFound so callers cannot probe for
// other users' files.
func (s *SharingService) resolveOwned(ctx context.Context, ownerID, fileID int64, op string) (*models.FileRecord, error) {
	record, err := s.repomanager.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%s file %d: %w", op, fileID, common.ErrNotFound)
		}
		return nil, storeErr(fmt.Sprintf("%s file %d", op, fileID), err)
	}
	if record.OwnerID != ownerID {
		return nil, fmt.Errorf("%s file %d: %w", op, fileID, common.ErrNotFound)
	}
	return record, nil
}

// notifyRecipient pushes a best-effort share notification. The hub send is
// non-blocking; a failure to resolve the sender only degrades the message.
func (s *SharingService) notifyRecipient(ctx context.Context, senderID int64, recipient *models.User, displayName string) {
	if s.notifier == nil {
		return
	}

	message := fmt.Sprintf("a file %q was shared with you", displayName)
	if sender, err := s.repomanager.Users(s.db).GetByID(ctx, senderID); err == nil {
		message = fmt.Sprintf("%s shared %q with you", sender.DisplayName, displayName)
	} else {
		s.logger.Warn(ctx, "could not resolve sender for notification", "sender_id", senderID)
	}

	s.notifier.Notify(ctx, recipient.IdentityKey, message)
}
