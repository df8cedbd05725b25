package app

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"deadwood/internal/backup"
	"deadwood/internal/config"
	"deadwood/internal/deadcode"
	"deadwood/internal/encryption"
	"deadwood/internal/fs"
	"deadwood/internal/store"
)

// App is the application layer between the CLI and ScanService.
// It constructs all dependencies from config, wires the archive store and the
// optional backup vault, and manages the store lifecycle on Close.
type App struct {
	cfg       *config.Config
	store     deadcode.ArchiveStore
	vault     deadcode.BackupVault
	encryptor deadcode.Encryptor
	service   *deadcode.ScanService
	opID      string
	logFile   *os.File
}

// Options control optional pieces of the App wiring.
type Options struct {
	// Parser analyzes loaded source units; nil is allowed for commands that
	// never scan (restore, list).
	Parser deadcode.SourceParser

	// Events receives progress notifications; nil means no notifications.
	Events deadcode.EventSink

	// WithBackup wires the backup vault and encryptor from config. Commands
	// that never delete files leave it false and skip vault validation.
	WithBackup bool
}

// New creates a fully wired App. operation identifies the CLI command being
// run (e.g. "scan", "restore"). The caller must call Close when done.
func New(ctx context.Context, cfg *config.Config, operation string, opts Options) (*App, error) {
	if cfg.Store.URI == "" {
		return nil, fmt.Errorf("no store URI configured: pass --mongo, set DEADWOOD_MONGO_URI, or add [store] uri to %s", config.FileName)
	}

	opID := operation + "-" + uuid.New().String()[:8]
	logger, logFile, err := newLogger(GetDefaults()["log_dir"], opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	closeLog := func() {
		if logFile != nil {
			logFile.Close()
		}
	}

	st, err := store.NewMongoStore(ctx, cfg.Store.URI, cfg.Store.Database)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("connecting to archive store: %w", err)
	}

	var vault deadcode.BackupVault
	var encryptor deadcode.Encryptor
	if opts.WithBackup {
		vault, err = backup.NewVaultFromConfig(ctx, cfg.Backup)
		if err != nil {
			st.Close(ctx)
			closeLog()
			return nil, fmt.Errorf("creating backup vault: %w", err)
		}
		if err := vault.ValidateSetup(); err != nil {
			st.Close(ctx)
			closeLog()
			return nil, fmt.Errorf("validating backup vault: %w", err)
		}
		if cfg.Backup.Encrypt {
			encryptor = encryption.NewAgeEncryptor(cfg.Encryption)
		}
	}

	events := opts.Events
	if events == nil {
		events = deadcode.NopSink{}
	}

	svc := deadcode.NewScanService(st, opts.Parser, fs.NewOSFileManager(), vault, encryptor,
		events, &slogAdapter{l: logger}, deadcode.RealClock{})

	return &App{
		cfg:       cfg,
		store:     st,
		vault:     vault,
		encryptor: encryptor,
		service:   svc,
		opID:      opID,
		logFile:   logFile,
	}, nil
}

// Service exposes the wired ScanService for command handlers.
func (a *App) Service() *deadcode.ScanService {
	return a.service
}

// Vault exposes the wired backup vault, or nil when backups are disabled.
func (a *App) Vault() deadcode.BackupVault {
	return a.vault
}

// Encryptor exposes the wired backup encryptor, or nil when encryption is
// disabled.
func (a *App) Encryptor() deadcode.Encryptor {
	return a.encryptor
}

// Close releases the archive store connection and the log file.
// The first error encountered is returned, but every resource is released.
func (a *App) Close(ctx context.Context) error {
	var firstErr error

	if err := a.store.Close(ctx); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing archive store: %w", err)
	}

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}

	return firstErr
}
