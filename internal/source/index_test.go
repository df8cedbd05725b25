package source_test

import (
	"os"
	"path/filepath"
	"testing"

	"deadwood/internal/source"
)

// writeTree materializes the given relative-path -> content map under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func TestLoadProject(t *testing.T) {
	t.Run("loads source files with imports and declarations", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"src/index.ts":      "import { greet } from './lib';\ngreet();\n",
			"src/lib.ts":        "export function greet() {\n  return 'hi';\n}\n",
			"src/styles.css":    "body {}\n",
			"src/notes.md":      "# notes\n",
			"src/sub/helper.js": "module.exports = {};\n",
		})

		units, scanner, err := source.LoadProject(root, "src")
		if err != nil {
			t.Fatalf("LoadProject() error = %v", err)
		}
		if scanner == nil {
			t.Fatal("LoadProject() returned nil scanner")
		}

		if len(units) != 3 {
			paths := make([]string, len(units))
			for i, u := range units {
				paths[i] = u.RelativePath
			}
			t.Fatalf("loaded %v, want 3 source units", paths)
		}

		// Sorted by relative path.
		if units[0].RelativePath != "src/index.ts" ||
			units[1].RelativePath != "src/lib.ts" ||
			units[2].RelativePath != "src/sub/helper.js" {
			t.Errorf("unexpected order: %s, %s, %s",
				units[0].RelativePath, units[1].RelativePath, units[2].RelativePath)
		}

		index := units[0]
		if len(index.Imports) != 1 || index.Imports[0] != "./lib" {
			t.Errorf("index imports = %v, want [./lib]", index.Imports)
		}

		lib := units[1]
		if len(lib.Declarations) != 1 || lib.Declarations[0].Name != "greet" {
			t.Errorf("lib declarations = %v, want [greet]", lib.Declarations)
		}
	})

	t.Run("skips node_modules and hidden directories", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"src/index.ts":                "export {};\n",
			"src/node_modules/pkg/x.js":   "bad\n",
			"src/.cache/generated.ts":     "bad\n",
			"src/components/Button.tsx":   "export const Button = 1;\n",
		})

		units, _, err := source.LoadProject(root, "src")
		if err != nil {
			t.Fatalf("LoadProject() error = %v", err)
		}

		for _, u := range units {
			if u.RelativePath == "src/node_modules/pkg/x.js" || u.RelativePath == "src/.cache/generated.ts" {
				t.Errorf("loaded excluded file %s", u.RelativePath)
			}
		}
		if len(units) != 2 {
			t.Errorf("loaded %d units, want 2", len(units))
		}
	})

	t.Run("missing source directory is an error", func(t *testing.T) {
		root := t.TempDir()
		if _, _, err := source.LoadProject(root, "src"); err == nil {
			t.Fatal("LoadProject() succeeded with missing src dir")
		}
	})

	t.Run("language derived from extension", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"src/a.ts":  "export {};\n",
			"src/b.jsx": "export default 1;\n",
		})

		units, _, err := source.LoadProject(root, "src")
		if err != nil {
			t.Fatalf("LoadProject() error = %v", err)
		}
		if units[0].Language != "ts" {
			t.Errorf("a.ts language = %s, want ts", units[0].Language)
		}
		if units[1].Language != "js" {
			t.Errorf("b.jsx language = %s, want js", units[1].Language)
		}
	})
}
