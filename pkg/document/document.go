// Package document provides line-addressable access to source text.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/praetorian-inc/aitags/pkg/types"
)

// Document is the read-only view of a source file the scanner consumes.
type Document interface {
	// Path is the absolute file path of the document.
	Path() string
	// LanguageID is an editor-style language identifier ("markdown", "go", ...).
	// It may be empty.
	LanguageID() string
	// LineCount returns the number of lines.
	LineCount() int
	// Line returns the text of line n (0-indexed) without its terminator.
	Line(n int) string
}

// TextDocument is an in-memory Document.
type TextDocument struct {
	path       string
	languageID string
	lines      []string
}

// New creates a document from content. The language id is derived from the
// file extension.
func New(path string, content []byte) *TextDocument {
	return &TextDocument{
		path:       path,
		languageID: LanguageForPath(path),
		lines:      types.SplitLines(content),
	}
}

// NewWithLanguage creates a document with an explicit language id.
func NewWithLanguage(path, languageID string, content []byte) *TextDocument {
	return &TextDocument{
		path:       path,
		languageID: languageID,
		lines:      types.SplitLines(content),
	}
}

// Open reads a file from disk into a document. The path is made absolute.
func Open(path string) (*TextDocument, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path %s: %w", path, err)
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", abs, err)
	}
	return New(abs, content), nil
}

// Path returns the document path.
func (d *TextDocument) Path() string { return d.path }

// LanguageID returns the language identifier.
func (d *TextDocument) LanguageID() string { return d.languageID }

// LineCount returns the number of lines.
func (d *TextDocument) LineCount() int { return len(d.lines) }

// Line returns the text of line n. Out-of-range lines are empty.
func (d *TextDocument) Line(n int) string {
	if n < 0 || n >= len(d.lines) {
		return ""
	}
	return d.lines[n]
}

// IsMarkdown reports whether fence masking applies to the document.
func IsMarkdown(doc Document) bool {
	return doc.LanguageID() == "markdown" || strings.HasSuffix(strings.ToLower(doc.Path()), ".md")
}

var extensionLanguages = map[string]string{
	".md":       "markdown",
	".markdown": "markdown",
	".go":       "go",
	".py":       "python",
	".pyi":      "python",
	".js":       "javascript",
	".jsx":      "javascriptreact",
	".mjs":      "javascript",
	".cjs":      "javascript",
	".ts":       "typescript",
	".tsx":      "typescriptreact",
	".mts":      "typescript",
	".cts":      "typescript",
	".html":     "html",
	".htm":      "html",
	".sh":       "shellscript",
	".yaml":     "yaml",
	".yml":      "yaml",
}

// LanguageForPath guesses a language id from a file extension.
func LanguageForPath(path string) string {
	return extensionLanguages[strings.ToLower(filepath.Ext(path))]
}
