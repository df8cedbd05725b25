package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"deadwood/internal/deadcode"
)

// OSFileManager is the real filesystem implementation of FileManager.
// It performs actual filesystem operations using the os package.
type OSFileManager struct{}

// NewOSFileManager creates a file manager that operates on the real filesystem.
func NewOSFileManager() *OSFileManager {
	return &OSFileManager{}
}

// Remove deletes a file. A missing file is treated as already deleted.
func (m *OSFileManager) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// WriteFile writes data to path, creating parent directories as needed and
// overwriting any existing file.
func (m *OSFileManager) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Compile-time check that OSFileManager implements deadcode.FileManager
var _ deadcode.FileManager = (*OSFileManager)(nil)
