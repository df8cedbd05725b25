package deadcode

import (
	"context"
	"fmt"
	"strings"

	"deadwood/internal/model"
)

// ScanService is the orchestration layer that coordinates the analyzers, the
// archive store, and the apply stage to perform the operations the CLI needs.
type ScanService struct {
	store     ArchiveStore
	parser    SourceParser
	fsmgr     FileManager
	vault     BackupVault
	encryptor Encryptor
	events    EventSink
	logger    Logger
	clock     Clock
}

// NewScanService creates a ScanService with the provided dependencies.
// vault and encryptor may be nil when the apply stage's backup features are
// disabled; events and logger must be non-nil (use NopSink / NopLogger).
func NewScanService(store ArchiveStore, parser SourceParser, fsmgr FileManager, vault BackupVault, encryptor Encryptor, events EventSink, logger Logger, clock Clock) *ScanService {
	return &ScanService{
		store:     store,
		parser:    parser,
		fsmgr:     fsmgr,
		vault:     vault,
		encryptor: encryptor,
		events:    events,
		logger:    logger,
		clock:     clock,
	}
}

// ScanRequest carries one scan invocation's inputs. Units must already be
// loaded; the service itself performs no project loading.
type ScanRequest struct {
	ProjectRoot string
	SrcDir      string
	Units       []*model.SourceUnit
	Entrypoints []string
	Exempt      *ExemptMatcher
	Threshold   float64
	TTLDays     int
	Repo        string
	Commit      string
	Note        string

	Apply              bool
	SafeDelete         bool
	BackupBeforeDelete bool
	EncryptBackups     bool
}

// ScanResult summarizes a completed scan.
type ScanResult struct {
	UnreachableFiles int
	UnusedSymbols    int
	Archived         int
	Deleted          int
	Retained         int // symbols archived in apply mode but left in source
	Entrypoints      []string
}

// Scan runs the full detection-and-archival pipeline: reachability over the
// import graph, unused-symbol detection on the reachable set, confidence
// filtering, archival of every finding above threshold, and — in apply mode —
// deletion of unreachable files. Store failures abort the scan.
func (s *ScanService) Scan(ctx context.Context, req ScanRequest) (*ScanResult, error) {
	reach := ComputeReachability(req.Units, req.Entrypoints, req.SrcDir, req.Exempt, s.logger)
	if len(reach.Entrypoints) == 0 {
		s.logger.Warn("no entrypoints resolved; every non-exempt file is an unreachable candidate")
	} else {
		s.logger.Info("reachability computed",
			"entrypoints", strings.Join(reach.Entrypoints, ","),
			"reachable", len(reach.Reachable),
			"unreachable", len(reach.Unreachable))
	}

	findings := make([]Finding, 0, len(reach.Unreachable))
	for _, unit := range reach.Unreachable {
		findings = append(findings, NewFileFinding(unit))
	}

	symbolFindings, err := DetectUnused(reach.Reachable, s.parser)
	if err != nil {
		return nil, fmt.Errorf("detecting unused symbols: %w", err)
	}
	findings = append(findings, symbolFindings...)

	kept := FilterByConfidence(findings, req.Threshold)
	s.logger.Info("confidence filter applied",
		"threshold", req.Threshold,
		"candidates", len(findings),
		"kept", len(kept))

	result := &ScanResult{
		UnreachableFiles: len(reach.Unreachable),
		UnusedSymbols:    len(symbolFindings),
		Entrypoints:      reach.Entrypoints,
	}

	for _, f := range kept {
		item := s.buildItem(f, req)
		id, err := s.store.Insert(ctx, item)
		if err != nil {
			return result, fmt.Errorf("archiving %s: %w", item.Path, err)
		}
		item.ID = id
		result.Archived++

		switch f.Kind {
		case FindingFile:
			s.events.FileArchived(item)
			if req.Apply {
				deleted := s.applyFileDeletion(f, req)
				if deleted {
					result.Deleted++
					s.events.FileDeleted(item.Path)
				}
			}
		case FindingSymbol:
			s.events.SymbolArchived(item)
			if req.Apply {
				// Symbol text excision is not wired up: the finding is
				// archived, the source file stays unmodified, and the
				// caller is told so. Files are deleted, symbols are not.
				result.Retained++
				s.events.SymbolRetained(item)
				s.logger.Warn("symbol archived but not removed from source",
					"path", item.Path, "name", f.Decl.Name)
			}
		}
	}

	return result, nil
}

// buildItem translates a threshold-clearing finding into the persisted record.
func (s *ScanService) buildItem(f Finding, req ScanRequest) *model.ArchiveItem {
	now := s.clock.Now().UTC()
	item := &model.ArchiveItem{
		CreatedAt:  now,
		ExpiresAt:  now.AddDate(0, 0, req.TTLDays),
		Repo:       req.Repo,
		Commit:     req.Commit,
		Reason:     f.Reason,
		Confidence: f.Confidence,
		References: []model.Reference{},
		Note:       req.Note,
	}

	switch f.Kind {
	case FindingFile:
		item.Language = f.Unit.Language
		item.Type = model.ItemFile
		item.Path = f.Unit.RelativePath
		item.Content = model.NewTextContent(f.Unit.Text)
	case FindingSymbol:
		decl := f.Decl
		item.Language = decl.Unit.Language
		item.Type = model.ItemType(decl.Kind)
		name := decl.Name
		item.Name = &name
		item.Path = decl.Unit.RelativePath
		item.Range = declRange(decl)
		item.Content = model.NewTextContent(decl.Text)
		if len(f.References) > 0 {
			item.References = append(item.References, f.References...)
		}
	}

	return item
}

// declRange converts a declaration's line span into the archived range.
// Columns are derived from the declaration text: symbols start at column 1
// (top-level or method indentation is part of the text) and end after the
// last character of their final line.
func declRange(decl *model.Declaration) *model.Range {
	endCol := 1
	if idx := strings.LastIndex(decl.Text, "\n"); idx >= 0 {
		endCol = len(decl.Text) - idx
	} else {
		endCol = len(decl.Text) + 1
	}
	return &model.Range{
		Start: model.Position{Line: decl.StartLine, Col: 1},
		End:   model.Position{Line: decl.EndLine, Col: endCol},
	}
}

// List returns archived items, newest first. limit must be positive.
func (s *ScanService) List(ctx context.Context, filter ListFilter, limit int) ([]*model.ArchiveItem, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	items, err := s.store.List(ctx, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("listing archive items: %w", err)
	}
	return items, nil
}
