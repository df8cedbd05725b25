package testutil

import (
	"deadwood/internal/deadcode"
	"deadwood/internal/store"
)

// NewMemoryStore creates an in-memory archive store with sequential IDs and a
// fixed clock, so tests can assert on identifiers and timestamps.
func NewMemoryStore(clock *StubClock) deadcode.ArchiveStore {
	s := store.NewMemoryStore()
	s.SetIDGenerator(NewStubIDGenerator())
	s.SetNowFunc(clock.Now)
	return s
}
