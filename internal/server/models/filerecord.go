package models

import "time"

// FileRecord is one unit of custody: it binds an owning user to a blob held
// in object storage. Records are created by upload or by accepting a share
// and deleted by the owner; ownership is never reassigned in place — a
// transfer always creates a new record.
type FileRecord struct {
	ID int64
	// OwnerID is the user holding custody of the blob.
	OwnerID int64
	// BlobRef is the opaque object-storage reference. The ledger has no
	// visibility into whether the blob actually exists.
	BlobRef     string
	DisplayName string
	CreatedAt   time.Time
}
