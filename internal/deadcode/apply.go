package deadcode

import (
	"bytes"
	"path/filepath"
	"strings"
)

// applyFileDeletion removes an unreachable file from disk after its content
// has been archived. Deletion is best-effort: a missing file counts as
// already satisfied and filesystem errors are logged, not fatal. With
// backupBeforeDelete a safety copy goes to the backup vault first; with
// safeDelete a failed backup aborts this file's deletion.
func (s *ScanService) applyFileDeletion(f Finding, req ScanRequest) bool {
	rel := f.Unit.RelativePath

	if req.BackupBeforeDelete {
		if err := s.backupBeforeDelete(f, req); err != nil {
			if req.SafeDelete {
				s.logger.Warn("backup failed, keeping file on disk", "path", rel, "error", err)
				return false
			}
			s.logger.Warn("backup failed, deleting anyway", "path", rel, "error", err)
		}
	}

	absPath := filepath.Join(req.ProjectRoot, filepath.FromSlash(rel))
	if err := s.fsmgr.Remove(absPath); err != nil {
		s.logger.Warn("could not delete file", "path", rel, "error", err)
		return false
	}

	s.logger.Info("file deleted", "path", rel)
	return true
}

// backupBeforeDelete writes a copy of the file into the backup vault, keyed
// by project-relative path. When backup encryption is enabled the copy is
// age-encrypted and stored under the key with an ".age" suffix.
func (s *ScanService) backupBeforeDelete(f Finding, req ScanRequest) error {
	if s.vault == nil {
		return errNoVault
	}

	key := f.Unit.RelativePath
	data := []byte(f.Unit.Text)

	if req.EncryptBackups {
		if s.encryptor == nil || !s.encryptor.IsConfigured() {
			return errNoEncryptor
		}
		var buf bytes.Buffer
		if err := s.encryptor.Encrypt(strings.NewReader(f.Unit.Text), &buf); err != nil {
			return err
		}
		key += ".age"
		data = buf.Bytes()
	}

	return s.vault.Put(key, bytes.NewReader(data), int64(len(data)))
}
