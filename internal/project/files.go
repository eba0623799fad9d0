package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skipDirs are directory names never worth descending into.
var skipDirs = map[string]bool{
	"__pycache__":   true,
	".git":          true,
	".hg":           true,
	".tox":          true,
	".venv":         true,
	"venv":          true,
	".mypy_cache":   true,
	".pytest_cache": true,
	".ruff_cache":   true,
	"node_modules":  true,
	"site-packages": true,
}

// ListPythonFiles collects the .py files under each path. Files are
// accepted as-is; directories are walked recursively, skipping caches,
// virtual environments, and anything matching an exclude pattern.
// The result is sorted and deduplicated.
func ListPythonFiles(paths []string, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", root, err)
		}

		if !info.IsDir() {
			if strings.HasSuffix(root, ".py") {
				add(root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if path != root && (skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
					return filepath.SkipDir
				}
				if matchesAny(exclude, rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(d.Name(), ".py") {
				return nil
			}
			if matchesAny(exclude, rel) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %q: %w", root, err)
		}
	}

	sort.Strings(out)
	return out, nil
}

func matchesAny(patterns []string, rel string) bool {
	if rel == "." {
		return false
	}
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
