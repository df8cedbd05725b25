package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"deadwood/internal/model"
)

// sourceExtensions are the file extensions the index loads.
var sourceExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
	".js":  true,
	".jsx": true,
}

// LoadProject loads every source unit under projectRoot/srcDir and returns
// them together with a Scanner over the loaded set. Units carry their raw
// text, language, import specifiers, and declarations; they stay immutable
// for the duration of the scan. node_modules and hidden directories are
// skipped.
func LoadProject(projectRoot, srcDir string) ([]*model.SourceUnit, *Scanner, error) {
	root := filepath.Join(projectRoot, srcDir)
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("source directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("source directory is not a directory: %s", root)
	}

	var units []*model.SourceUnit
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name == "node_modules" || (strings.HasPrefix(name, ".") && p != root) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !sourceExtensions[filepath.Ext(p)] {
			return nil
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}

		rel, err := filepath.Rel(projectRoot, p)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", p, err)
		}

		units = append(units, &model.SourceUnit{
			Path:         p,
			RelativePath: filepath.ToSlash(rel),
			Language:     model.LanguageForPath(p),
			Text:         string(data),
		})
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("loading project: %w", err)
	}

	sort.Slice(units, func(i, j int) bool {
		return units[i].RelativePath < units[j].RelativePath
	})

	scanner := NewScanner(units)
	for _, u := range units {
		u.Imports = scanner.ImportsOf(u)
		u.Declarations = scanner.DeclarationsOf(u)
	}

	return units, scanner, nil
}
