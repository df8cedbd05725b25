package backup

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"deadwood/internal/deadcode"
)

// MemoryVault is an in-memory implementation of the BackupVault interface,
// useful for testing. Safe for concurrent use.
type MemoryVault struct {
	mu      sync.RWMutex
	content map[string][]byte // key -> backup copy
}

// NewMemoryVault creates a new in-memory vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{content: make(map[string][]byte)}
}

// Put stores a backup copy under the given key, overwriting any previous copy.
func (m *MemoryVault) Put(key string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.content[key] = data
	return nil
}

// Get retrieves a backup copy by key.
func (m *MemoryVault) Get(key string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.content[key]
	if !ok {
		return fmt.Errorf("backup not found: %s", key)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	return nil
}

// ValidateSetup always succeeds for the in-memory vault.
func (m *MemoryVault) ValidateSetup() error { return nil }

// Compile-time check that MemoryVault implements deadcode.BackupVault
var _ deadcode.BackupVault = (*MemoryVault)(nil)
