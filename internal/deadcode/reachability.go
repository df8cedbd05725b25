package deadcode

import (
	"path"
	"sort"
	"strings"

	"deadwood/internal/model"
)

// resolutionCandidates are the suffixes tried, in order, when resolving a
// relative import specifier to a loaded unit.
var resolutionCandidates = []string{
	"", ".ts", ".tsx", ".js", ".jsx", "/index.ts", "/index.tsx",
}

// defaultEntryNames are probed against the source set when no entrypoints are
// configured. Only names that resolve to a loaded unit are used.
var defaultEntryNames = []string{"index", "main", "app"}

// Reachability is the result of the import-graph traversal.
type Reachability struct {
	// Reachable maps project-relative path to unit for every unit reachable
	// from the resolved entrypoints, entrypoints included.
	Reachable map[string]*model.SourceUnit

	// Unreachable holds all non-exempt units outside the reachable set,
	// ordered by relative path.
	Unreachable []*model.SourceUnit

	// Entrypoints lists the relative paths of the entrypoint units that
	// actually resolved. Empty means every non-exempt file became a
	// candidate — callers should surface that loudly.
	Entrypoints []string
}

// ComputeReachability partitions units into reachable and unreachable by
// following import edges from the entrypoints, transitively. Entrypoint paths
// that do not resolve to a loaded unit are logged and dropped, not fatal.
// Unresolved import specifiers (external packages, aliases) are ignored.
func ComputeReachability(units []*model.SourceUnit, entrypoints []string, srcDir string, exempt *ExemptMatcher, logger Logger) Reachability {
	byPath := make(map[string]*model.SourceUnit, len(units))
	for _, u := range units {
		byPath[u.RelativePath] = u
	}

	roots := resolveEntrypoints(byPath, entrypoints, srcDir, logger)

	reachable := make(map[string]*model.SourceUnit)
	queue := make([]*model.SourceUnit, 0, len(roots))
	for _, r := range roots {
		// Mark visited before enqueueing so cycles terminate.
		if _, seen := reachable[r.RelativePath]; seen {
			continue
		}
		reachable[r.RelativePath] = r
		queue = append(queue, r)
	}

	for len(queue) > 0 {
		unit := queue[0]
		queue = queue[1:]

		for _, spec := range unit.Imports {
			target := resolveImport(byPath, unit.RelativePath, spec)
			if target == nil {
				continue
			}
			if _, seen := reachable[target.RelativePath]; seen {
				continue
			}
			reachable[target.RelativePath] = target
			queue = append(queue, target)
		}
	}

	var unreachable []*model.SourceUnit
	for _, u := range units {
		if _, ok := reachable[u.RelativePath]; ok {
			continue
		}
		if exempt != nil && exempt.Match(u.RelativePath) {
			continue
		}
		unreachable = append(unreachable, u)
	}
	sort.Slice(unreachable, func(i, j int) bool {
		return unreachable[i].RelativePath < unreachable[j].RelativePath
	})

	resolved := make([]string, 0, len(roots))
	for _, r := range roots {
		resolved = append(resolved, r.RelativePath)
	}

	return Reachability{
		Reachable:   reachable,
		Unreachable: unreachable,
		Entrypoints: resolved,
	}
}

// resolveEntrypoints maps configured entrypoint paths to loaded units.
// With no configured entrypoints, conventional entry file names are probed
// under srcDir and the project root.
func resolveEntrypoints(byPath map[string]*model.SourceUnit, entrypoints []string, srcDir string, logger Logger) []*model.SourceUnit {
	var roots []*model.SourceUnit

	if len(entrypoints) == 0 {
		for _, name := range defaultEntryNames {
			for _, dir := range []string{srcDir, ""} {
				if u := lookupWithCandidates(byPath, path.Join(dir, name)); u != nil {
					roots = append(roots, u)
					break
				}
			}
		}
		return roots
	}

	for _, ep := range entrypoints {
		ep = path.Clean(strings.TrimPrefix(filepathToSlash(ep), "./"))
		u := lookupWithCandidates(byPath, ep)
		if u == nil {
			logger.Warn("entrypoint not found in project, skipping", "path", ep)
			continue
		}
		roots = append(roots, u)
	}
	return roots
}

// resolveImport resolves a relative import specifier against the importing
// unit's directory. Non-relative specifiers are external and return nil.
func resolveImport(byPath map[string]*model.SourceUnit, fromPath string, spec string) *model.SourceUnit {
	if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") {
		return nil
	}
	target := path.Join(path.Dir(fromPath), spec)
	return lookupWithCandidates(byPath, target)
}

// lookupWithCandidates tries the fixed list of suffix/index candidates
// against the loaded unit set and returns the first hit.
func lookupWithCandidates(byPath map[string]*model.SourceUnit, base string) *model.SourceUnit {
	for _, suffix := range resolutionCandidates {
		if u, ok := byPath[base+suffix]; ok {
			return u
		}
	}
	return nil
}

// filepathToSlash normalizes a possibly OS-separated path to forward slashes.
func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
