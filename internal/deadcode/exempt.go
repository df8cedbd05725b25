package deadcode

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultExemptPatterns cover files that are conventionally unreferenced by
// the import graph but still alive: tests, type declarations, stories, mocks,
// and tool config files. Units matching these are never reported unreachable.
var defaultExemptPatterns = []string{
	"*.test.*",
	"*.spec.*",
	"*.d.ts",
	"*.stories.*",
	"**/__tests__/**",
	"**/__mocks__/**",
	"*.config.*",
}

// exemptPattern is a parsed pattern with its matching strategy.
type exemptPattern struct {
	pattern   string
	matchPath bool // true = match against relative path; false = match against basename only
}

// ExemptMatcher checks project-relative paths against a set of glob patterns.
// Patterns without '/' match against the file's basename only.
// Patterns with '/' match against the full relative path from the project root
// and support doublestar ('**') segments.
type ExemptMatcher struct {
	patterns []exemptPattern
}

// NewExemptMatcher creates an ExemptMatcher from the default patterns plus
// any user-supplied ones. Blank lines and lines starting with '#' are skipped.
func NewExemptMatcher(extra []string) *ExemptMatcher {
	var patterns []exemptPattern
	for _, raw := range append(append([]string{}, defaultExemptPatterns...), extra...) {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		patterns = append(patterns, exemptPattern{
			pattern:   raw,
			matchPath: strings.Contains(raw, "/"),
		})
	}
	return &ExemptMatcher{patterns: patterns}
}

// Match reports whether the given project-relative path is exempt.
// relativePath must use forward slashes.
func (m *ExemptMatcher) Match(relativePath string) bool {
	basename := path.Base(relativePath)

	for _, p := range m.patterns {
		var matched bool
		var err error
		if p.matchPath {
			matched, err = doublestar.Match(p.pattern, relativePath)
		} else {
			matched, err = doublestar.Match(p.pattern, basename)
		}
		if err != nil {
			// Bad pattern — skip rather than crash.
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
