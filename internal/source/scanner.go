package source

import (
	"regexp"
	"sort"
	"strings"

	"deadwood/internal/deadcode"
	"deadwood/internal/model"
)

// Scanner is the heuristic TS/JS parsing implementation of
// deadcode.SourceParser. It works on lines and regular expressions rather
// than a real syntax tree, which is deliberately conservative: it only has to
// enumerate import specifiers, top-level declarations, methods, and
// identifier occurrences.
type Scanner struct {
	units     []*model.SourceUnit // sorted by relative path, for ReferencesTo
	sanitized map[string][]string // relative path -> comment/string-stripped lines
}

// NewScanner creates a Scanner over the loaded project units.
func NewScanner(units []*model.SourceUnit) *Scanner {
	sorted := append([]*model.SourceUnit{}, units...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RelativePath < sorted[j].RelativePath
	})
	return &Scanner{
		units:     sorted,
		sanitized: make(map[string][]string, len(sorted)),
	}
}

// sanitizedLines returns the unit's comment/string-stripped lines, cached.
// Units are immutable for the duration of a scan, so caching is safe.
func (s *Scanner) sanitizedLines(unit *model.SourceUnit) []string {
	if lines, ok := s.sanitized[unit.RelativePath]; ok {
		return lines
	}
	lines := sanitizeLines(strings.Split(unit.Text, "\n"))
	s.sanitized[unit.RelativePath] = lines
	return lines
}

var _ deadcode.SourceParser = (*Scanner)(nil)

var importPatterns = []*regexp.Regexp{
	// import x from '...' / import {a, b} from '...' / import * as ns from '...'
	regexp.MustCompile(`import\s+[^'"]+?from\s+['"]([^'"]+)['"]`),
	// import '...' (side effect only)
	regexp.MustCompile(`import\s+['"]([^'"]+)['"]`),
	// export ... from '...' (re-export)
	regexp.MustCompile(`export\s+(?:\*(?:\s+as\s+[\w$]+)?|\{[^}]*\})\s*from\s+['"]([^'"]+)['"]`),
	// require('...') and dynamic import('...')
	regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`),
	regexp.MustCompile(`import\(\s*['"]([^'"]+)['"]\s*\)`),
}

// ImportsOf returns the unit's import specifiers in source order, deduplicated.
func (s *Scanner) ImportsOf(unit *model.SourceUnit) []string {
	type hit struct {
		pos  int
		spec string
	}
	var hits []hit
	for _, re := range importPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(unit.Text, -1) {
			hits = append(hits, hit{pos: m[0], spec: unit.Text[m[2]:m[3]]})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	seen := make(map[string]bool)
	var specs []string
	for _, h := range hits {
		if seen[h.spec] {
			continue
		}
		seen[h.spec] = true
		specs = append(specs, h.spec)
	}
	return specs
}

var (
	exportedFuncRe = regexp.MustCompile(`^export\s+(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)`)
	localFuncRe    = regexp.MustCompile(`^(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)`)
	classRe        = regexp.MustCompile(`^(export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)`)
	variableRe     = regexp.MustCompile(`^(export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)`)
	methodRe       = regexp.MustCompile(`^\s+(?:(?:public|private|protected|static|readonly|override|get|set|async)\s+)*\*?\s*([A-Za-z_$][\w$]*)\s*(?:<[^>]*>)?\(`)
)

// methodNameBlocklist holds identifiers that look like methods in a class
// body but are not independently analyzable declarations.
var methodNameBlocklist = map[string]bool{
	"constructor": true,
	"if":          true,
	"for":         true,
	"while":       true,
	"switch":      true,
	"catch":       true,
	"return":      true,
	"super":       true,
}

// DeclarationsOf returns the unit's analyzable declarations: every top-level
// function, class, and variable declaration (exported or not) plus every
// method declaration of every class.
func (s *Scanner) DeclarationsOf(unit *model.SourceUnit) []*model.Declaration {
	lines := strings.Split(unit.Text, "\n")
	sanitized := sanitizeLines(lines)

	var decls []*model.Declaration
	depth := 0
	for i := 0; i < len(lines); i++ {
		if depth == 0 {
			if d := s.topLevelDeclAt(unit, lines, sanitized, i); d != nil {
				decls = append(decls, d)
				if d.Kind == model.DeclClass {
					decls = append(decls, s.methodsOf(unit, lines, sanitized, d)...)
				}
				// Skip past the declaration body so nested functions and
				// variables are not reported as top-level.
				i = d.EndLine - 1
				continue
			}
		}
		depth += braceDelta(sanitized[i])
	}
	return decls
}

// topLevelDeclAt matches a top-level declaration starting at line i, or nil.
func (s *Scanner) topLevelDeclAt(unit *model.SourceUnit, lines, sanitized []string, i int) *model.Declaration {
	line := lines[i]

	var kind model.DeclKind
	var name string
	exported := false

	switch {
	case exportedFuncRe.MatchString(line):
		kind, name, exported = model.DeclFunction, exportedFuncRe.FindStringSubmatch(line)[1], true
	case localFuncRe.MatchString(line):
		kind, name = model.DeclFunction, localFuncRe.FindStringSubmatch(line)[1]
	case classRe.MatchString(line):
		m := classRe.FindStringSubmatch(line)
		kind, name, exported = model.DeclClass, m[2], m[1] != ""
	case variableRe.MatchString(line):
		m := variableRe.FindStringSubmatch(line)
		kind, name, exported = model.DeclVariable, m[2], m[1] != ""
	default:
		return nil
	}

	var end int
	if kind == model.DeclVariable {
		end = statementEnd(sanitized, i)
	} else {
		end = blockEnd(sanitized, i)
	}

	return &model.Declaration{
		Kind:      kind,
		Name:      name,
		Exported:  exported,
		Unit:      unit,
		Text:      strings.Join(lines[i:end+1], "\n"),
		StartLine: i + 1,
		EndLine:   end + 1,
	}
}

// methodsOf finds method declarations directly inside a class body.
// Methods are always scanned regardless of the class's export status —
// exporting a class does not make its methods independently reachable.
func (s *Scanner) methodsOf(unit *model.SourceUnit, lines, sanitized []string, class *model.Declaration) []*model.Declaration {
	var methods []*model.Declaration

	depth := 0
	for i := class.StartLine - 1; i < class.EndLine && i < len(lines); i++ {
		// depth is relative to the class declaration line; 1 means we are
		// directly inside the class body.
		if depth == 1 {
			if m := methodRe.FindStringSubmatch(lines[i]); m != nil && !methodNameBlocklist[m[1]] {
				end := blockEnd(sanitized, i)
				methods = append(methods, &model.Declaration{
					Kind:      model.DeclMethod,
					Name:      m[1],
					Unit:      unit,
					Text:      strings.Join(lines[i:end+1], "\n"),
					StartLine: i + 1,
					EndLine:   end + 1,
				})
				i = end
				// The method body closed at `end`; we are back in the class body.
				depth = 1
				continue
			}
		}
		depth += braceDelta(sanitized[i])
	}
	return methods
}

// ReferencesTo returns every occurrence of the declaration's identifier
// across the project, the declaration site included. Occurrences inside
// comments and string literals are not counted.
func (s *Scanner) ReferencesTo(decl *model.Declaration) ([]model.Reference, error) {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(decl.Name) + `\b`)
	if err != nil {
		return nil, err
	}

	var refs []model.Reference
	for _, unit := range s.units {
		for n, line := range s.sanitizedLines(unit) {
			for range re.FindAllStringIndex(line, -1) {
				refs = append(refs, model.Reference{Path: unit.RelativePath, Line: n + 1})
			}
		}
	}
	return refs, nil
}

// blockEnd returns the index of the line on which the brace-delimited body
// starting at line i closes. Declarations without a body (TS overloads,
// `declare` statements) end on their own line.
func blockEnd(sanitized []string, i int) int {
	depth := 0
	opened := false
	for j := i; j < len(sanitized); j++ {
		for _, r := range sanitized[j] {
			switch r {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
			}
		}
		if opened && depth <= 0 {
			return j
		}
		if !opened && j == i && strings.HasSuffix(strings.TrimSpace(sanitized[j]), ";") {
			return i
		}
	}
	if !opened {
		return i
	}
	return len(sanitized) - 1
}

// statementEnd returns the index of the line where a variable statement ends:
// the first line at which parens, brackets, and braces are all balanced.
func statementEnd(sanitized []string, i int) int {
	depth := 0
	for j := i; j < len(sanitized); j++ {
		for _, r := range sanitized[j] {
			switch r {
			case '{', '[', '(':
				depth++
			case '}', ']', ')':
				depth--
			}
		}
		if depth <= 0 {
			return j
		}
	}
	return len(sanitized) - 1
}

// braceDelta returns the net curly-brace depth change of a sanitized line.
func braceDelta(line string) int {
	delta := 0
	for _, r := range line {
		switch r {
		case '{':
			delta++
		case '}':
			delta--
		}
	}
	return delta
}

// sanitizeLines blanks out string literals and comments so brace counting and
// identifier matching never trip over them. Template literals spanning lines
// are treated like block comments.
func sanitizeLines(lines []string) []string {
	out := make([]string, len(lines))
	inBlock := false // inside /* */ or a multi-line template literal
	for i, line := range lines {
		out[i] = sanitizeLine(line, &inBlock)
	}
	return out
}

func sanitizeLine(line string, inBlock *bool) string {
	var b strings.Builder
	runes := []rune(line)
	i := 0
	for i < len(runes) {
		if *inBlock {
			// Look for the end of a block comment or template literal.
			if runes[i] == '*' && i+1 < len(runes) && runes[i+1] == '/' {
				*inBlock = false
				i += 2
				continue
			}
			if runes[i] == '`' {
				*inBlock = false
				i++
				continue
			}
			i++
			continue
		}

		c := runes[i]
		switch c {
		case '/':
			if i+1 < len(runes) && runes[i+1] == '/' {
				return b.String() // rest of line is a comment
			}
			if i+1 < len(runes) && runes[i+1] == '*' {
				*inBlock = true
				i += 2
				continue
			}
			b.WriteRune(c)
			i++
		case '\'', '"':
			// Skip to the closing quote on this line.
			j := i + 1
			for j < len(runes) {
				if runes[j] == '\\' {
					j += 2
					continue
				}
				if runes[j] == c {
					break
				}
				j++
			}
			b.WriteString(`""`)
			i = j + 1
		case '`':
			// Template literal: may span lines.
			j := i + 1
			closed := false
			for j < len(runes) {
				if runes[j] == '\\' {
					j += 2
					continue
				}
				if runes[j] == '`' {
					closed = true
					break
				}
				j++
			}
			b.WriteString(`""`)
			if !closed {
				*inBlock = true
				return b.String()
			}
			i = j + 1
		default:
			b.WriteRune(c)
			i++
		}
	}
	return b.String()
}
