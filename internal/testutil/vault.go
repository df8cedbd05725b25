package testutil

import (
	"deadwood/internal/backup"
	"deadwood/internal/deadcode"
)

// NewTestVault creates a new in-memory backup vault for testing.
func NewTestVault() deadcode.BackupVault {
	return backup.NewMemoryVault()
}
