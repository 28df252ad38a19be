// Package workspace answers which workspace root encloses a document and
// probes the file system on behalf of the sync resolver.
package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNoRoot is returned when no workspace root encloses a path.
var ErrNoRoot = errors.New("workspace folder not found")

// Locator finds the workspace root that encloses a path.
type Locator interface {
	// Root returns the absolute root directory enclosing path.
	Root(path string) (string, error)
}

// Folders is a fixed list of workspace folders. The deepest folder that
// contains the path wins.
type Folders []string

// NewFolders makes every folder absolute and cleaned.
func NewFolders(folders ...string) (Folders, error) {
	out := make(Folders, 0, len(folders))
	for _, f := range folders {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolving workspace folder %s: %w", f, err)
		}
		out = append(out, filepath.Clean(abs))
	}
	return out, nil
}

// Root returns the deepest folder containing path.
func (f Folders) Root(path string) (string, error) {
	best := ""
	for _, folder := range f {
		if !Contains(folder, path) {
			continue
		}
		if len(folder) > len(best) {
			best = folder
		}
	}
	if best == "" {
		return "", ErrNoRoot
	}
	return best, nil
}

// Chain tries each locator in order and returns the first root found.
type Chain []Locator

// Root returns the first root any locator reports. A failing locator does
// not stop the chain; when nothing matches, the first failure is wrapped
// alongside ErrNoRoot.
func (c Chain) Root(path string) (string, error) {
	var firstErr error
	for _, l := range c {
		root, err := l.Root(path)
		if err == nil {
			return root, nil
		}
		if !errors.Is(err, ErrNoRoot) && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return "", fmt.Errorf("%w: %w", ErrNoRoot, firstErr)
	}
	return "", ErrNoRoot
}

// Contains reports whether path lies at or below root.
func Contains(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
