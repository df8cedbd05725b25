package source_test

import (
	"testing"

	"deadwood/internal/model"
	"deadwood/internal/source"
)

func makeUnit(rel, text string) *model.SourceUnit {
	return &model.SourceUnit{
		Path:         "/project/" + rel,
		RelativePath: rel,
		Language:     model.LanguageForPath(rel),
		Text:         text,
	}
}

func TestScanner_ImportsOf(t *testing.T) {
	t.Run("all import forms", func(t *testing.T) {
		u := makeUnit("src/index.ts", `
import React from 'react';
import { render } from './render';
import * as utils from "../utils";
import './styles.css';
export { helper } from './helper';
export * from './barrel';
const legacy = require('./legacy');
const lazy = () => import('./lazy');
`)
		s := source.NewScanner([]*model.SourceUnit{u})

		got := s.ImportsOf(u)
		want := []string{"react", "./render", "../utils", "./styles.css", "./helper", "./barrel", "./legacy", "./lazy"}
		if len(got) != len(want) {
			t.Fatalf("ImportsOf() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("import[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("duplicates collapse to first occurrence", func(t *testing.T) {
		u := makeUnit("src/a.ts", `
import { a } from './shared';
import { b } from './shared';
`)
		s := source.NewScanner([]*model.SourceUnit{u})

		got := s.ImportsOf(u)
		if len(got) != 1 || got[0] != "./shared" {
			t.Errorf("ImportsOf() = %v, want [./shared]", got)
		}
	})
}

func TestScanner_DeclarationsOf(t *testing.T) {
	t.Run("top-level declarations", func(t *testing.T) {
		u := makeUnit("src/lib.ts", `export function visible() {
  return 1;
}

function hidden() {
  return 2;
}

export const config = {
  retries: 3,
};

let counter = 0;

export default class Widget {
  render() {
    return null;
  }
}
`)
		s := source.NewScanner([]*model.SourceUnit{u})

		decls := s.DeclarationsOf(u)
		byName := map[string]*model.Declaration{}
		for _, d := range decls {
			byName[d.Name] = d
		}

		cases := []struct {
			name     string
			kind     model.DeclKind
			exported bool
		}{
			{"visible", model.DeclFunction, true},
			{"hidden", model.DeclFunction, false},
			{"config", model.DeclVariable, true},
			{"counter", model.DeclVariable, false},
			{"Widget", model.DeclClass, true},
			{"render", model.DeclMethod, false},
		}
		for _, c := range cases {
			d, ok := byName[c.name]
			if !ok {
				t.Errorf("declaration %q not found", c.name)
				continue
			}
			if d.Kind != c.kind {
				t.Errorf("%s kind = %s, want %s", c.name, d.Kind, c.kind)
			}
			if d.Exported != c.exported {
				t.Errorf("%s exported = %v, want %v", c.name, d.Exported, c.exported)
			}
		}
	})

	t.Run("export markers", func(t *testing.T) {
		u := makeUnit("src/exports.ts", `export function pub() {}
function priv() {}
export class Pub {}
class Priv {}
export const a = 1;
const b = 2;
`)
		s := source.NewScanner([]*model.SourceUnit{u})

		for _, d := range s.DeclarationsOf(u) {
			wantExported := d.Name == "pub" || d.Name == "Pub" || d.Name == "a"
			if d.Exported != wantExported {
				t.Errorf("%s exported = %v, want %v", d.Name, d.Exported, wantExported)
			}
		}
	})

	t.Run("nested functions are not top-level", func(t *testing.T) {
		u := makeUnit("src/nested.ts", `export function outer() {
  function inner() {
    return 1;
  }
  return inner();
}
`)
		s := source.NewScanner([]*model.SourceUnit{u})

		decls := s.DeclarationsOf(u)
		if len(decls) != 1 || decls[0].Name != "outer" {
			names := make([]string, len(decls))
			for i, d := range decls {
				names[i] = d.Name
			}
			t.Errorf("declarations = %v, want [outer]", names)
		}
	})

	t.Run("class methods found, constructor excluded", func(t *testing.T) {
		u := makeUnit("src/service.ts", `export class UserService {
  constructor(private db: Database) {}

  async findUser(id: string) {
    if (id === '') {
      return null;
    }
    return this.db.find(id);
  }

  private formatName(user: User) {
    return user.name.trim();
  }
}
`)
		s := source.NewScanner([]*model.SourceUnit{u})

		var methods []string
		for _, d := range s.DeclarationsOf(u) {
			if d.Kind == model.DeclMethod {
				methods = append(methods, d.Name)
			}
		}
		if len(methods) != 2 || methods[0] != "findUser" || methods[1] != "formatName" {
			t.Errorf("methods = %v, want [findUser formatName]", methods)
		}
	})

	t.Run("declaration spans its full body", func(t *testing.T) {
		u := makeUnit("src/span.ts", `export function spanning() {
  const x = {
    a: 1,
  };
  return x;
}
const after = 1;
`)
		s := source.NewScanner([]*model.SourceUnit{u})

		decls := s.DeclarationsOf(u)
		if len(decls) != 2 {
			t.Fatalf("got %d declarations, want 2", len(decls))
		}
		fn := decls[0]
		if fn.StartLine != 1 || fn.EndLine != 6 {
			t.Errorf("spanning lines = %d-%d, want 1-6", fn.StartLine, fn.EndLine)
		}
		if decls[1].Name != "after" || decls[1].StartLine != 7 {
			t.Errorf("after = %s at line %d, want after at 7", decls[1].Name, decls[1].StartLine)
		}
	})
}

func TestScanner_ReferencesTo(t *testing.T) {
	t.Run("counts occurrences across units", func(t *testing.T) {
		lib := makeUnit("src/lib.ts", `export function shared() {
  return 1;
}
export function lonely() {
  return 2;
}
`)
		app := makeUnit("src/app.ts", `import { shared } from './lib';
shared();
`)
		s := source.NewScanner([]*model.SourceUnit{lib, app})

		decls := s.DeclarationsOf(lib)
		refs := map[string]int{}
		for _, d := range decls {
			r, err := s.ReferencesTo(d)
			if err != nil {
				t.Fatalf("ReferencesTo(%s) error = %v", d.Name, err)
			}
			refs[d.Name] = len(r)
		}

		// shared: declaration + import + call site.
		if refs["shared"] != 3 {
			t.Errorf("shared refs = %d, want 3", refs["shared"])
		}
		// lonely: declaration only.
		if refs["lonely"] != 1 {
			t.Errorf("lonely refs = %d, want 1", refs["lonely"])
		}
	})

	t.Run("comments and strings do not count", func(t *testing.T) {
		u := makeUnit("src/doc.ts", `export function target() {}
// target is great
/* target appears here too */
const s = "call target()";
const tpl = ` + "`target in template`" + `;
`)
		s := source.NewScanner([]*model.SourceUnit{u})

		decls := s.DeclarationsOf(u)
		var target *model.Declaration
		for _, d := range decls {
			if d.Name == "target" {
				target = d
			}
		}
		if target == nil {
			t.Fatal("target declaration not found")
		}

		refs, err := s.ReferencesTo(target)
		if err != nil {
			t.Fatalf("ReferencesTo() error = %v", err)
		}
		if len(refs) != 1 {
			t.Errorf("refs = %d, want 1 (declaration site only)", len(refs))
		}
	})

	t.Run("word boundaries prevent substring hits", func(t *testing.T) {
		u := makeUnit("src/sub.ts", `export function run() {}
const runner = 1;
const dryRun = 2;
`)
		s := source.NewScanner([]*model.SourceUnit{u})

		var run *model.Declaration
		for _, d := range s.DeclarationsOf(u) {
			if d.Name == "run" {
				run = d
			}
		}
		refs, err := s.ReferencesTo(run)
		if err != nil {
			t.Fatalf("ReferencesTo() error = %v", err)
		}
		if len(refs) != 1 {
			t.Errorf("refs = %d, want 1", len(refs))
		}
	})
}
