package deadcode

import (
	"context"

	"deadwood/internal/model"
)

// ListFilter narrows a List query. Empty fields match everything.
type ListFilter struct {
	Repo string
	Type string
}

// ArchiveStore provides an interface for the archived-findings document store.
// All operations are network-bound; implementations must surface connection
// failures to the caller. A failed store call aborts the current command —
// there is no local retry.
type ArchiveStore interface {
	// Insert persists an item and returns the store-assigned identifier.
	// The store schedules the record for automatic expiry at item.ExpiresAt.
	Insert(ctx context.Context, item *model.ArchiveItem) (string, error)

	// FindByID returns the item with the given identifier, or nil if no such
	// record exists (including records already evicted by TTL).
	FindByID(ctx context.Context, id string) (*model.ArchiveItem, error)

	// List returns up to limit items matching the filter, newest first.
	List(ctx context.Context, filter ListFilter, limit int) ([]*model.ArchiveItem, error)

	// Close releases the store connection.
	Close(ctx context.Context) error
}
