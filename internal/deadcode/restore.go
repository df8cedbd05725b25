package deadcode

import (
	"context"
	"errors"
	"fmt"
	"io"

	"deadwood/internal/model"
)

var (
	errNoVault     = errors.New("no backup vault configured")
	errNoEncryptor = errors.New("backup encryption requested but no keys are configured")
)

// Restore fetches an archived item by identifier and base64-decodes its
// content. If destination is non-empty the decoded bytes are written there,
// creating parent directories as needed and overwriting any existing file;
// otherwise the bytes are only returned, for display. A missing identifier —
// including one already evicted by TTL — yields a NotFoundError.
func (s *ScanService) Restore(ctx context.Context, id string, destination string) (*model.ArchiveItem, []byte, error) {
	item, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching archive item: %w", err)
	}
	if item == nil {
		return nil, nil, &NotFoundError{ID: id}
	}

	data, err := item.Content.Decode()
	if err != nil {
		return nil, nil, fmt.Errorf("decoding archived content: %w", err)
	}

	if destination != "" {
		if err := s.fsmgr.WriteFile(destination, data); err != nil {
			return nil, nil, fmt.Errorf("writing restored content: %w", err)
		}
		s.logger.Info("content restored", "id", id, "destination", destination)
	}

	return item, data, nil
}

// RestoreBackup streams a pre-delete backup copy out of the backup vault.
// decrypt must be non-nil for copies stored with backup encryption (their
// vault key carries an ".age" suffix); pass nil for plaintext copies.
func (s *ScanService) RestoreBackup(key string, w io.Writer, decrypt DecryptionContext) error {
	if s.vault == nil {
		return errNoVault
	}

	if decrypt == nil {
		return s.vault.Get(key, w)
	}

	// Pipe vault output directly to the decryptor — no intermediate buffer.
	pr, pw := io.Pipe()
	vaultErrCh := make(chan error, 1)
	go func() {
		err := s.vault.Get(key, pw)
		pw.CloseWithError(err)
		vaultErrCh <- err
	}()

	decryptErr := decrypt.Decrypt(pr, w)
	pr.CloseWithError(decryptErr) // unblock goroutine if Decrypt failed early
	vaultErr := <-vaultErrCh      // wait for goroutine to finish (no leak)

	if decryptErr != nil {
		return fmt.Errorf("decrypting backup: %w", decryptErr)
	}
	if vaultErr != nil {
		return fmt.Errorf("reading backup from vault: %w", vaultErr)
	}
	return nil
}
