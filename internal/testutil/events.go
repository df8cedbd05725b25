package testutil

import (
	"sync"

	"deadwood/internal/model"
)

// RecordingSink captures scan events for assertions.
type RecordingSink struct {
	mu              sync.Mutex
	FilesArchived   []*model.ArchiveItem
	SymbolsArchived []*model.ArchiveItem
	FilesDeleted    []string
	SymbolsRetained []*model.ArchiveItem
}

func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

func (s *RecordingSink) FileArchived(item *model.ArchiveItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FilesArchived = append(s.FilesArchived, item)
}

func (s *RecordingSink) SymbolArchived(item *model.ArchiveItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SymbolsArchived = append(s.SymbolsArchived, item)
}

func (s *RecordingSink) FileDeleted(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FilesDeleted = append(s.FilesDeleted, path)
}

func (s *RecordingSink) SymbolRetained(item *model.ArchiveItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SymbolsRetained = append(s.SymbolsRetained, item)
}
