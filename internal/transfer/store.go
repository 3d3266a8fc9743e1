// Package transfer is the path-resolution and file-selection core: it
// translates slash-delimited folder paths and file names into Drive object
// IDs, disambiguates duplicate names, and picks export formats for native
// Google document types. It talks to the remote store only through the
// ObjectStore capability and holds no state between calls, so concurrent
// operations are safe whenever the injected store is reentrant.
package transfer

import (
	"context"
	"io"

	"drivecp/internal/drive"
)

// ObjectStore is the remote-store capability the core consumes. The drive
// client implements it; tests substitute an in-memory fake. Retry, backoff,
// and timeouts are the store's responsibility — the core propagates its
// failures without retrying.
type ObjectStore interface {
	// Children lists the children of a folder matching the query.
	Children(ctx context.Context, parentID string, q drive.ChildQuery) ([]drive.Object, error)

	// SharedWithMe lists the shared-with-me collection.
	SharedWithMe(ctx context.Context) ([]drive.Object, error)

	// Create uploads content as a new object under the given parent.
	Create(ctx context.Context, parentID, name string, content io.Reader) (*drive.Object, error)

	// CreateFolder creates a folder under the given parent.
	CreateFolder(ctx context.Context, parentID, name string) (*drive.Object, error)

	// Content streams the raw bytes of an object to w.
	Content(ctx context.Context, id string, w io.Writer) (int64, error)

	// Export streams an object converted to the given MIME type to w.
	Export(ctx context.Context, id, mimeType string, w io.Writer) (int64, error)

	// Trash moves an object to the trash.
	Trash(ctx context.Context, id string) error

	// Delete permanently deletes an object.
	Delete(ctx context.Context, id string) error
}
