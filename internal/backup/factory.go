package backup

import (
	"context"
	"fmt"

	"deadwood/internal/config"
	"deadwood/internal/deadcode"
)

// NewVaultFromConfig creates a BackupVault implementation based on the backup
// config type.
func NewVaultFromConfig(ctx context.Context, cfg config.BackupConfig) (deadcode.BackupVault, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryVault(), nil
	case "s3":
		return NewS3Vault(ctx, cfg)
	case "filesystem":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("filesystem backup requires dir to be set")
		}
		return NewFileSystemVault(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown backup type: %s", cfg.Type)
	}
}
