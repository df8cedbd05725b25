package deadcode_test

import (
	"testing"

	"deadwood/internal/deadcode"
	"deadwood/internal/model"
)

func TestDetectUnused(t *testing.T) {
	t.Run("declaration site alone counts as unused", func(t *testing.T) {
		u := unit("src/util.ts")
		parser := newFakeParser()
		parser.addDecl(u, model.DeclFunction, "unusedFunction", true, 1)
		parser.addDecl(u, model.DeclFunction, "usedFunction", true, 3)

		findings, err := deadcode.DetectUnused(map[string]*model.SourceUnit{u.RelativePath: u}, parser)
		if err != nil {
			t.Fatalf("DetectUnused() error = %v", err)
		}

		if len(findings) != 1 {
			t.Fatalf("got %d findings, want 1", len(findings))
		}
		f := findings[0]
		if f.Decl.Name != "unusedFunction" {
			t.Errorf("finding = %s, want unusedFunction", f.Decl.Name)
		}
		if f.Reason != model.ReasonNoRefs {
			t.Errorf("reason = %s, want %s", f.Reason, model.ReasonNoRefs)
		}
		if f.Confidence != deadcode.ConfidenceExportedSymbol {
			t.Errorf("confidence = %.2f, want %.2f", f.Confidence, deadcode.ConfidenceExportedSymbol)
		}
		if len(f.References) != 1 {
			t.Errorf("got %d references, want 1 (the declaration site)", len(f.References))
		}
	})

	t.Run("non-exported symbols and methods get lower confidence", func(t *testing.T) {
		u := unit("src/service.ts")
		parser := newFakeParser()
		parser.addDecl(u, model.DeclFunction, "localHelper", false, 1)
		parser.addDecl(u, model.DeclMethod, "formatOutput", false, 1)

		findings, err := deadcode.DetectUnused(map[string]*model.SourceUnit{u.RelativePath: u}, parser)
		if err != nil {
			t.Fatalf("DetectUnused() error = %v", err)
		}

		if len(findings) != 2 {
			t.Fatalf("got %d findings, want 2", len(findings))
		}
		for _, f := range findings {
			if f.Confidence != deadcode.ConfidenceLocalSymbol {
				t.Errorf("%s confidence = %.2f, want %.2f", f.Decl.Name, f.Confidence, deadcode.ConfidenceLocalSymbol)
			}
		}
	})

	t.Run("zero references still reported", func(t *testing.T) {
		u := unit("src/weird.ts")
		parser := newFakeParser()
		parser.addDecl(u, model.DeclVariable, "phantom", false, 0)

		findings, err := deadcode.DetectUnused(map[string]*model.SourceUnit{u.RelativePath: u}, parser)
		if err != nil {
			t.Fatalf("DetectUnused() error = %v", err)
		}
		if len(findings) != 1 {
			t.Fatalf("got %d findings, want 1", len(findings))
		}
	})

	t.Run("findings ordered by unit path", func(t *testing.T) {
		a := unit("src/a.ts")
		b := unit("src/b.ts")
		parser := newFakeParser()
		parser.addDecl(b, model.DeclFunction, "fromB", true, 1)
		parser.addDecl(a, model.DeclFunction, "fromA", true, 1)

		findings, err := deadcode.DetectUnused(map[string]*model.SourceUnit{
			a.RelativePath: a,
			b.RelativePath: b,
		}, parser)
		if err != nil {
			t.Fatalf("DetectUnused() error = %v", err)
		}
		if len(findings) != 2 || findings[0].Decl.Name != "fromA" || findings[1].Decl.Name != "fromB" {
			t.Errorf("findings out of order: %v, %v", findings[0].Decl.Name, findings[1].Decl.Name)
		}
	})
}
