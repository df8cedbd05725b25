package deadcode

import "deadwood/internal/model"

// SourceParser is the injected parsing and symbol-reference capability.
// The core's algorithms depend only on this interface, never on how parsing
// is actually performed, so they can run against a fake in tests.
type SourceParser interface {
	// ImportsOf returns the raw import specifiers of a unit, in source order.
	ImportsOf(unit *model.SourceUnit) []string

	// DeclarationsOf returns every analyzable declaration of a unit:
	// exported function/class/variable declarations, non-exported top-level
	// function/class/variable declarations, and all method declarations.
	DeclarationsOf(unit *model.SourceUnit) []*model.Declaration

	// ReferencesTo returns all syntactic references to a declaration's
	// identifier across the loaded project, including the declaration site.
	ReferencesTo(decl *model.Declaration) ([]model.Reference, error)
}
