package deadcode

import "io"

// BackupVault stores pre-delete safety copies of files the apply stage
// removes, keyed by project-relative path. Operations use io.Reader/io.Writer
// for streaming so large files never need to be held in memory twice.
type BackupVault interface {
	// Put stores a backup copy under the given key. Storing the same key
	// again overwrites the previous copy.
	// size is the number of bytes that will be read from r.
	Put(key string, r io.Reader, size int64) error

	// Get retrieves a backup copy by key and writes it to w.
	Get(key string, w io.Writer) error

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
