package testutil

import (
	"fmt"
	"sync"
)

// MockFileManager is an in-memory FileManager for testing. It records every
// removal and write so tests can assert on the apply and restore stages.
type MockFileManager struct {
	mu      sync.Mutex
	files   map[string][]byte
	removed []string

	// RemoveErr, when set, is returned by every Remove call.
	RemoveErr error
}

// NewMockFileManager creates an empty mock filesystem.
func NewMockFileManager() *MockFileManager {
	return &MockFileManager{
		files: make(map[string][]byte),
	}
}

// AddFile seeds a file into the mock filesystem.
func (m *MockFileManager) AddFile(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = content
}

func (m *MockFileManager) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.files, path)
	m.removed = append(m.removed, path)
	return nil
}

func (m *MockFileManager) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return nil
}

// Removed returns the paths removed so far, in order.
func (m *MockFileManager) Removed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.removed...)
}

// Content returns a seeded or written file's content.
func (m *MockFileManager) Content(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return data, nil
}

// Exists reports whether the path is present in the mock filesystem.
func (m *MockFileManager) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}
