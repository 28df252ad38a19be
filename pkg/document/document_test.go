package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextDocument_Lines(t *testing.T) {
	doc := New("/ws/main.go", []byte("package main\r\n\n// @AI:SYNC a.go\n"))

	assert.Equal(t, "/ws/main.go", doc.Path())
	assert.Equal(t, "go", doc.LanguageID())
	assert.Equal(t, 4, doc.LineCount())
	assert.Equal(t, "package main", doc.Line(0))
	assert.Equal(t, "// @AI:SYNC a.go", doc.Line(2))
	assert.Equal(t, "", doc.Line(-1))
	assert.Equal(t, "", doc.Line(99))
}

func TestOpen(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "README.md")
	require.NoError(t, os.WriteFile(path, []byte("# title\n"), 0644))

	doc, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, path, doc.Path())
	assert.Equal(t, "markdown", doc.LanguageID())
	assert.True(t, IsMarkdown(doc))
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestIsMarkdown(t *testing.T) {
	assert.True(t, IsMarkdown(New("/ws/NOTES.MD", nil)))
	assert.True(t, IsMarkdown(NewWithLanguage("/ws/notes.txt", "markdown", nil)))
	assert.False(t, IsMarkdown(New("/ws/main.go", nil)))
}
