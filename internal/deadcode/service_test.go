package deadcode_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"deadwood/internal/deadcode"
	"deadwood/internal/model"
	"deadwood/internal/testutil"
)

type serviceDeps struct {
	store deadcode.ArchiveStore
	fsmgr *testutil.MockFileManager
	vault deadcode.BackupVault
	sink  *testutil.RecordingSink
	clock *testutil.StubClock
}

func setupService(t *testing.T, parser deadcode.SourceParser) (*deadcode.ScanService, *serviceDeps) {
	t.Helper()
	deps := &serviceDeps{
		fsmgr: testutil.NewMockFileManager(),
		vault: testutil.NewTestVault(),
		sink:  testutil.NewRecordingSink(),
		clock: testutil.FixedClock(),
	}
	deps.store = testutil.NewMemoryStore(deps.clock)
	svc := deadcode.NewScanService(deps.store, parser, deps.fsmgr, deps.vault,
		testutil.NewTestEncryptor(), deps.sink, deadcode.NewNopLogger(), deps.clock)
	return svc, deps
}

// deadProject builds a small project: index imports used, used declares one
// unused exported function and one unused method, dead.ts is unreachable.
func deadProject(parser *fakeParser) []*model.SourceUnit {
	index := unit("src/index.ts", "./used")
	used := unit("src/used.ts")
	dead := unit("src/dead.ts")
	dead.Text = "export function gone() {\n  return 1;\n}\n"

	parser.addDecl(used, model.DeclFunction, "unusedFunction", true, 1)
	parser.addDecl(used, model.DeclMethod, "unusedMethod", false, 1)
	return []*model.SourceUnit{index, used, dead}
}

func baseRequest(units []*model.SourceUnit) deadcode.ScanRequest {
	return deadcode.ScanRequest{
		ProjectRoot: "/project",
		SrcDir:      "src",
		Units:       units,
		Entrypoints: []string{"src/index.ts"},
		Threshold:   0.9,
		TTLDays:     90,
		Repo:        "git@example.com:acme/web.git",
		Commit:      "abc123",
	}
}

func TestScanService_Scan(t *testing.T) {
	t.Run("archives unreachable files and unused symbols", func(t *testing.T) {
		parser := newFakeParser()
		units := deadProject(parser)
		svc, deps := setupService(t, parser)

		result, err := svc.Scan(context.Background(), baseRequest(units))
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}

		if result.UnreachableFiles != 1 || result.UnusedSymbols != 2 || result.Archived != 3 {
			t.Fatalf("result = %+v, want 1 unreachable / 2 unused / 3 archived", result)
		}
		if result.Deleted != 0 {
			t.Errorf("deleted %d files without apply mode", result.Deleted)
		}

		items, err := deps.store.List(context.Background(), deadcode.ListFilter{}, 50)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("store holds %d items, want 3", len(items))
		}

		var fileItem, methodItem *model.ArchiveItem
		for _, item := range items {
			switch item.Type {
			case model.ItemFile:
				fileItem = item
			case model.ItemMethod:
				methodItem = item
			}
		}
		if fileItem == nil || methodItem == nil {
			t.Fatal("missing file or method item in store")
		}

		if fileItem.Path != "src/dead.ts" || fileItem.Name != nil || fileItem.Range != nil {
			t.Errorf("file item = %+v, want path src/dead.ts, nil name, nil range", fileItem)
		}
		if fileItem.Reason != model.ReasonUnreachableFile || fileItem.Confidence != 0.98 {
			t.Errorf("file item reason/confidence = %s/%.2f", fileItem.Reason, fileItem.Confidence)
		}
		data, err := fileItem.Content.Decode()
		if err != nil {
			t.Fatalf("decoding content: %v", err)
		}
		if string(data) != units[2].Text {
			t.Errorf("archived content differs from original")
		}

		wantExpiry := deps.clock.Now().UTC().AddDate(0, 0, 90)
		if !fileItem.ExpiresAt.Equal(wantExpiry) {
			t.Errorf("expiresAt = %v, want %v", fileItem.ExpiresAt, wantExpiry)
		}

		if methodItem.Name == nil || *methodItem.Name != "unusedMethod" {
			t.Errorf("method item name = %v, want unusedMethod", methodItem.Name)
		}
		if methodItem.Range == nil {
			t.Error("method item has no range")
		}
		if methodItem.Confidence != 0.90 || methodItem.Reason != model.ReasonNoRefs {
			t.Errorf("method item confidence/reason = %.2f/%s", methodItem.Confidence, methodItem.Reason)
		}
		if len(methodItem.References) != 1 {
			t.Errorf("method item has %d references, want 1", len(methodItem.References))
		}

		if len(deps.sink.FilesArchived) != 1 || len(deps.sink.SymbolsArchived) != 2 {
			t.Errorf("sink saw %d/%d archive events, want 1/2",
				len(deps.sink.FilesArchived), len(deps.sink.SymbolsArchived))
		}
	})

	t.Run("threshold filters low-confidence findings", func(t *testing.T) {
		parser := newFakeParser()
		units := deadProject(parser)
		svc, deps := setupService(t, parser)

		req := baseRequest(units)
		req.Threshold = 0.95

		result, err := svc.Scan(context.Background(), req)
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}

		// The 0.90 method finding is below threshold; file and exported
		// function clear it.
		if result.Archived != 2 {
			t.Fatalf("archived %d findings, want 2", result.Archived)
		}
		items, _ := deps.store.List(context.Background(), deadcode.ListFilter{Type: "method"}, 50)
		if len(items) != 0 {
			t.Errorf("method finding archived despite threshold")
		}
	})

	t.Run("apply deletes files and retains symbols", func(t *testing.T) {
		parser := newFakeParser()
		units := deadProject(parser)
		svc, deps := setupService(t, parser)

		req := baseRequest(units)
		req.Apply = true
		req.SafeDelete = true
		req.BackupBeforeDelete = true

		result, err := svc.Scan(context.Background(), req)
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}

		if result.Deleted != 1 {
			t.Fatalf("deleted %d files, want 1", result.Deleted)
		}
		if result.Retained != 2 {
			t.Fatalf("retained %d symbols, want 2", result.Retained)
		}

		wantPath := filepath.Join("/project", "src", "dead.ts")
		removed := deps.fsmgr.Removed()
		if len(removed) != 1 || removed[0] != wantPath {
			t.Errorf("removed = %v, want [%s]", removed, wantPath)
		}
		if len(deps.sink.FilesDeleted) != 1 || len(deps.sink.SymbolsRetained) != 2 {
			t.Errorf("sink saw %d deletions and %d retentions, want 1 and 2",
				len(deps.sink.FilesDeleted), len(deps.sink.SymbolsRetained))
		}

		// The pre-delete copy is in the vault, keyed by relative path.
		var buf bytes.Buffer
		if err := deps.vault.Get("src/dead.ts", &buf); err != nil {
			t.Fatalf("backup copy missing from vault: %v", err)
		}
		if buf.String() != units[2].Text {
			t.Errorf("backup content differs from original")
		}
	})

	t.Run("safe delete keeps file when backup is impossible", func(t *testing.T) {
		parser := newFakeParser()
		units := deadProject(parser)

		deps := &serviceDeps{
			fsmgr: testutil.NewMockFileManager(),
			sink:  testutil.NewRecordingSink(),
			clock: testutil.FixedClock(),
		}
		deps.store = testutil.NewMemoryStore(deps.clock)
		// No vault wired: every backup attempt fails.
		svc := deadcode.NewScanService(deps.store, parser, deps.fsmgr, nil, nil,
			deps.sink, deadcode.NewNopLogger(), deps.clock)

		req := baseRequest(units)
		req.Apply = true
		req.SafeDelete = true
		req.BackupBeforeDelete = true

		result, err := svc.Scan(context.Background(), req)
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}

		if result.Deleted != 0 {
			t.Errorf("deleted %d files, want 0 when backup fails under safe delete", result.Deleted)
		}
		if result.Archived != 3 {
			t.Errorf("archived %d findings, want 3 (archival is independent of deletion)", result.Archived)
		}
		if len(deps.fsmgr.Removed()) != 0 {
			t.Errorf("files removed despite failed backup: %v", deps.fsmgr.Removed())
		}
	})

	t.Run("encrypted backups are stored under the .age key", func(t *testing.T) {
		parser := newFakeParser()
		units := deadProject(parser)
		svc, deps := setupService(t, parser)

		req := baseRequest(units)
		req.Apply = true
		req.BackupBeforeDelete = true
		req.EncryptBackups = true

		if _, err := svc.Scan(context.Background(), req); err != nil {
			t.Fatalf("Scan() error = %v", err)
		}

		var raw bytes.Buffer
		if err := deps.vault.Get("src/dead.ts.age", &raw); err != nil {
			t.Fatalf("encrypted backup missing from vault: %v", err)
		}
		if raw.String() == units[2].Text {
			t.Error("backup stored unencrypted despite encryption being enabled")
		}

		enc := testutil.NewTestEncryptor()
		dc, err := enc.Unlock("")
		if err != nil {
			t.Fatalf("Unlock() error = %v", err)
		}
		var plain bytes.Buffer
		if err := svc.RestoreBackup("src/dead.ts.age", &plain, dc); err != nil {
			t.Fatalf("RestoreBackup() error = %v", err)
		}
		if plain.String() != units[2].Text {
			t.Errorf("restored backup differs from original")
		}
	})
}

func TestScanService_Restore(t *testing.T) {
	t.Run("restores archived content byte for byte", func(t *testing.T) {
		parser := newFakeParser()
		units := deadProject(parser)
		svc, deps := setupService(t, parser)

		if _, err := svc.Scan(context.Background(), baseRequest(units)); err != nil {
			t.Fatalf("Scan() error = %v", err)
		}

		items, _ := deps.store.List(context.Background(), deadcode.ListFilter{Type: "file"}, 1)
		if len(items) != 1 {
			t.Fatalf("store holds %d file items, want 1", len(items))
		}

		item, data, err := svc.Restore(context.Background(), items[0].ID, "/restore/dead.ts")
		if err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if string(data) != units[2].Text {
			t.Errorf("restored bytes differ from original")
		}
		if item.Path != "src/dead.ts" {
			t.Errorf("item path = %s, want src/dead.ts", item.Path)
		}

		written, err := deps.fsmgr.Content("/restore/dead.ts")
		if err != nil {
			t.Fatalf("destination not written: %v", err)
		}
		if string(written) != units[2].Text {
			t.Errorf("written bytes differ from original")
		}
	})

	t.Run("empty destination returns content without writing", func(t *testing.T) {
		parser := newFakeParser()
		units := deadProject(parser)
		svc, deps := setupService(t, parser)

		if _, err := svc.Scan(context.Background(), baseRequest(units)); err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		items, _ := deps.store.List(context.Background(), deadcode.ListFilter{Type: "file"}, 1)

		_, data, err := svc.Restore(context.Background(), items[0].ID, "")
		if err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if len(data) == 0 {
			t.Error("no content returned")
		}
	})

	t.Run("unknown id yields NotFoundError", func(t *testing.T) {
		svc, _ := setupService(t, newFakeParser())

		_, _, err := svc.Restore(context.Background(), "no-such-id", "")
		var nf *deadcode.NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("Restore() error = %v, want NotFoundError", err)
		}
		if nf.ID != "no-such-id" {
			t.Errorf("NotFoundError.ID = %s, want no-such-id", nf.ID)
		}
	})

	t.Run("expired items behave as missing", func(t *testing.T) {
		parser := newFakeParser()
		units := deadProject(parser)
		svc, deps := setupService(t, parser)

		if _, err := svc.Scan(context.Background(), baseRequest(units)); err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		items, _ := deps.store.List(context.Background(), deadcode.ListFilter{}, 50)
		id := items[0].ID

		deps.clock.Advance(91 * 24 * time.Hour)

		_, _, err := svc.Restore(context.Background(), id, "")
		var nf *deadcode.NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("Restore() after expiry error = %v, want NotFoundError", err)
		}
	})
}

func TestScanService_List(t *testing.T) {
	t.Run("rejects non-positive limit", func(t *testing.T) {
		svc, _ := setupService(t, newFakeParser())
		if _, err := svc.List(context.Background(), deadcode.ListFilter{}, 0); err == nil {
			t.Fatal("List() with limit 0 succeeded, want error")
		}
	})

	t.Run("filters by repo and type", func(t *testing.T) {
		parser := newFakeParser()
		units := deadProject(parser)
		svc, _ := setupService(t, parser)

		if _, err := svc.Scan(context.Background(), baseRequest(units)); err != nil {
			t.Fatalf("Scan() error = %v", err)
		}

		byRepo, err := svc.List(context.Background(), deadcode.ListFilter{Repo: "git@example.com:acme/web.git"}, 50)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(byRepo) != 3 {
			t.Errorf("repo filter returned %d items, want 3", len(byRepo))
		}

		other, err := svc.List(context.Background(), deadcode.ListFilter{Repo: "git@example.com:acme/other.git"}, 50)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(other) != 0 {
			t.Errorf("unrelated repo returned %d items, want 0", len(other))
		}

		files, err := svc.List(context.Background(), deadcode.ListFilter{Type: "file"}, 50)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(files) != 1 {
			t.Errorf("type filter returned %d items, want 1", len(files))
		}
	})
}
