package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"deadwood/internal/deadcode"
)

// FileSystemVault is a filesystem-based implementation of the BackupVault
// interface. Copies are stored under the vault root mirroring their
// project-relative key:
//
//	<root>/
//	  src/utils/helpers.ts       (plaintext copy)
//	  src/legacy/old.ts.age      (encrypted copy)
type FileSystemVault struct {
	root string
}

// NewFileSystemVault creates a filesystem vault rooted at the given path.
func NewFileSystemVault(root string) (*FileSystemVault, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	return &FileSystemVault{root: root}, nil
}

// Put stores a backup copy under the given key, overwriting any previous copy.
func (v *FileSystemVault) Put(key string, r io.Reader, size int64) error {
	destPath := filepath.Join(v.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create backup subdirectory: %w", err)
	}
	return v.writeFile(destPath, r, size)
}

// Get retrieves a backup copy by key and writes it to w.
func (v *FileSystemVault) Get(key string, w io.Writer) error {
	srcPath := filepath.Join(v.root, filepath.FromSlash(key))
	f, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("backup not found: %s", key)
		}
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	return nil
}

// ValidateSetup verifies that the vault root is an accessible directory.
func (v *FileSystemVault) ValidateSetup() error {
	info, err := os.Stat(v.root)
	if err != nil {
		return fmt.Errorf("backup root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("backup root is not a directory: %s", v.root)
	}
	return nil
}

// writeFile writes data from r to the specified path using atomic write (temp file + rename).
func (v *FileSystemVault) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	// Create temp file in the same directory to ensure atomic rename works
	dir := filepath.Dir(destPath)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemVault implements deadcode.BackupVault
var _ deadcode.BackupVault = (*FileSystemVault)(nil)
