package deadcode

import "deadwood/internal/model"

// EventSink receives structured scan events so presentation (console, JSON,
// silent) is pluggable rather than hardwired into the algorithms.
type EventSink interface {
	// FileArchived fires when an unreachable file's content has been persisted.
	FileArchived(item *model.ArchiveItem)

	// SymbolArchived fires when an unused symbol has been persisted.
	SymbolArchived(item *model.ArchiveItem)

	// FileDeleted fires when apply mode removed a file from disk.
	FileDeleted(path string)

	// SymbolRetained fires when apply mode archived a symbol but left its
	// source text in place. Files are deleted, symbols are not; this event
	// keeps that asymmetry observable.
	SymbolRetained(item *model.ArchiveItem)
}

// NopSink is an EventSink that ignores all events. Use in tests.
type NopSink struct{}

func (NopSink) FileArchived(*model.ArchiveItem)   {}
func (NopSink) SymbolArchived(*model.ArchiveItem) {}
func (NopSink) FileDeleted(string)                {}
func (NopSink) SymbolRetained(*model.ArchiveItem) {}
