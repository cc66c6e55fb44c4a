// Package blob provides the content-addressed blob store client. The store
// holds raw bytes only; ownership lives in the ledger, and the two are never
// written inside one transaction.
package blob

import (
	"context"
	"io"
	"time"
)

// Object describes one stored blob, as reported by List.
type Object struct {
	Ref        string
	Name       string
	Size       int64
	UploadedAt time.Time
}

// Store is the blob store contract consumed by the sharing coordinator.
type Store interface {
	// Put uploads content and returns the opaque blob reference.
	Put(ctx context.Context, content io.Reader, name string) (string, error)

	// Get streams the blob for ref, or common.ErrNotFound if absent.
	Get(ctx context.Context, ref string) (io.ReadCloser, error)

	// Delete removes the blob for ref. Deleting an absent blob is a no-op.
	Delete(ctx context.Context, ref string) error

	// List enumerates stored blobs; operational use only.
	List(ctx context.Context) ([]Object, error)
}
