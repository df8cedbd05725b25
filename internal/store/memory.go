package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"deadwood/internal/deadcode"
	"deadwood/internal/model"
)

// MemoryStore is an in-memory implementation of the ArchiveStore interface,
// useful for testing. TTL semantics are approximated by evicting expired
// records on every read. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*model.ArchiveItem
	now   func() time.Time
	ids   deadcode.IDGenerator
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]*model.ArchiveItem),
		now:   time.Now,
		ids:   deadcode.UUIDGenerator{},
	}
}

// SetNowFunc overrides the store's notion of the current time, so tests can
// step past TTL deadlines without sleeping.
func (s *MemoryStore) SetNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetIDGenerator overrides the store's ID generator, so tests can assert on
// predictable identifiers.
func (s *MemoryStore) SetIDGenerator(g deadcode.IDGenerator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = g
}

// Insert persists an item and returns the store-assigned identifier.
func (s *MemoryStore) Insert(_ context.Context, item *model.ArchiveItem) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := *item
	doc.ID = s.ids.New()
	s.items[doc.ID] = &doc
	return doc.ID, nil
}

// FindByID returns the item with the given identifier, or nil when no such
// record exists or it has expired.
func (s *MemoryStore) FindByID(_ context.Context, id string) (*model.ArchiveItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

// List returns up to limit items matching the filter, newest first.
func (s *MemoryStore) List(_ context.Context, filter deadcode.ListFilter, limit int) ([]*model.ArchiveItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()

	var items []*model.ArchiveItem
	for _, item := range s.items {
		if filter.Repo != "" && item.Repo != filter.Repo {
			continue
		}
		if filter.Type != "" && string(item.Type) != filter.Type {
			continue
		}
		copied := *item
		items = append(items, &copied)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(context.Context) error { return nil }

// evictExpired drops records past their expiry. Callers must hold the lock.
func (s *MemoryStore) evictExpired() {
	now := s.now()
	for id, item := range s.items {
		if item.ExpiresAt.Before(now) {
			delete(s.items, id)
		}
	}
}

// Compile-time check that MemoryStore implements deadcode.ArchiveStore
var _ deadcode.ArchiveStore = (*MemoryStore)(nil)
