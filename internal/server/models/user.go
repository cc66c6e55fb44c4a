// Package models defines server-side data models persisted in the ledger.
package models

import "time"

// User is the identity anchor. It is created on first successful
// authentication and never deleted by this service.
type User struct {
	ID          int64
	IdentityKey string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}
