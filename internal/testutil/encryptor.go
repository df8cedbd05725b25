package testutil

import (
	"deadwood/internal/deadcode"
	"deadwood/internal/encryption"
)

// NewTestEncryptor creates a deterministic encryptor for testing.
func NewTestEncryptor() deadcode.Encryptor {
	return encryption.NewTestEncryptor()
}
