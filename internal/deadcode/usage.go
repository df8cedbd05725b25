package deadcode

import (
	"fmt"
	"sort"

	"deadwood/internal/model"
)

// Fixed per-rule confidence constants. These are policy, not computed from
// reference proximity or codebase size.
const (
	ConfidenceUnreachableFile = 0.98
	ConfidenceExportedSymbol  = 0.95
	ConfidenceLocalSymbol     = 0.90
)

// DetectUnused scans reachable units for declarations whose reference count,
// the declaration site included, is at most one. This is a conservative
// reference-counting heuristic: no type-flow or dynamic-usage analysis, so it
// can misreport in the presence of reflection-like or dynamic property access.
//
// Scope: exported function/class/variable declarations, non-exported
// top-level function/class/variable declarations, and every method
// declaration — exporting a class does not make its methods independently
// reachable.
func DetectUnused(reachable map[string]*model.SourceUnit, parser SourceParser) ([]Finding, error) {
	paths := make([]string, 0, len(reachable))
	for p := range reachable {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var findings []Finding
	for _, p := range paths {
		unit := reachable[p]
		for _, decl := range parser.DeclarationsOf(unit) {
			refs, err := parser.ReferencesTo(decl)
			if err != nil {
				return nil, fmt.Errorf("resolving references to %s in %s: %w", decl.Name, unit.RelativePath, err)
			}
			if len(refs) > 1 {
				continue
			}
			findings = append(findings, NewSymbolFinding(decl, refs))
		}
	}
	return findings, nil
}
