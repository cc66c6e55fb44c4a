package models

import "time"

// Share status values. Transitions are one-way: a pending share is either
// accepted or its row is deleted on refusal. ShareRefused exists for the
// schema check constraint but is never stored by current code paths.
const (
	SharePending  = "pending"
	ShareAccepted = "accepted"
	ShareRefused  = "refused"
)

// PendingShare is an in-flight or resolved offer to transfer custody.
// DisplayName and BlobRef are snapshots taken at offer time, deliberately
// decoupled from the sender's live FileRecord so the share survives deletion
// of the source record.
type PendingShare struct {
	ID          int64
	BlobRef     string
	DisplayName string
	SenderID    int64
	RecipientID int64
	Status      string
	CreatedAt   time.Time
}
