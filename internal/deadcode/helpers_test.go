package deadcode_test

import (
	"deadwood/internal/model"
)

// fakeParser is a canned SourceParser: declarations and references are
// configured per unit and per symbol name up front.
type fakeParser struct {
	decls map[string][]*model.Declaration // relative path -> declarations
	refs  map[string][]model.Reference    // symbol name -> references
}

func newFakeParser() *fakeParser {
	return &fakeParser{
		decls: make(map[string][]*model.Declaration),
		refs:  make(map[string][]model.Reference),
	}
}

// addDecl registers a declaration on the unit and its observed references.
// The declaration site itself counts as one reference.
func (p *fakeParser) addDecl(u *model.SourceUnit, kind model.DeclKind, name string, exported bool, refCount int) *model.Declaration {
	d := &model.Declaration{
		Kind:      kind,
		Name:      name,
		Exported:  exported,
		Unit:      u,
		Text:      "declaration of " + name,
		StartLine: 1,
		EndLine:   1,
	}
	p.decls[u.RelativePath] = append(p.decls[u.RelativePath], d)
	for i := 0; i < refCount; i++ {
		p.refs[name] = append(p.refs[name], model.Reference{Path: u.RelativePath, Line: i + 1})
	}
	return d
}

func (p *fakeParser) ImportsOf(unit *model.SourceUnit) []string {
	return unit.Imports
}

func (p *fakeParser) DeclarationsOf(unit *model.SourceUnit) []*model.Declaration {
	return p.decls[unit.RelativePath]
}

func (p *fakeParser) ReferencesTo(decl *model.Declaration) ([]model.Reference, error) {
	return p.refs[decl.Name], nil
}
