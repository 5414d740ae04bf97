// Package sources discovers ticket definition sources and routes them to
// the extractor that understands their format.
package sources

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/runoshun/ticketsync/internal/domain"
)

// Ensure Finder implements domain.SourceFinder interface.
var _ domain.SourceFinder = (*Finder)(nil)

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	".ticketsync":  true,
	"node_modules": true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
}

// Finder implements domain.SourceFinder on the local filesystem.
type Finder struct{}

// NewFinder creates a new Finder.
func NewFinder() *Finder {
	return &Finder{}
}

// Find walks dir and returns files whose base name matches any pattern.
// Files are returned in pattern order, then lexical order within a pattern.
// A file matched by several patterns is returned once, for its first pattern.
func (f *Finder) Find(dir string, patterns []string) ([]string, error) {
	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)

	seen := make(map[string]bool, len(files))
	var out []string
	for _, p := range patterns {
		for _, path := range files {
			if seen[path] {
				continue
			}
			if ok, _ := filepath.Match(p, filepath.Base(path)); ok {
				seen[path] = true
				out = append(out, path)
			}
		}
	}
	return out, nil
}

// Read returns the content of path.
func (f *Finder) Read(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return content, nil
}
