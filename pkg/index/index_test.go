package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/aitags/pkg/document"
	"github.com/praetorian-inc/aitags/pkg/enum"
)

func TestEntries(t *testing.T) {
	// Arrange
	idx := New()
	doc := document.New("/ws/a.ts", []byte("const x = 1\n  // @AI:EXPIRY   2026-01-01 KST  \n// @AI:SYNC b.ts\n"))

	// Act
	entries := idx.Entries(doc)

	// Assert
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{
		Key:       "@AI:EXPIRY",
		Payload:   "2026-01-01 KST",
		Path:      "/ws/a.ts",
		Line:      1,
		StartChar: 5,
		EndChar:   15,
	}, entries[0])
}

func TestEntries_CustomKeys(t *testing.T) {
	idx := New(WithKeys("@AI:SYNC", "@AI:TODO"))
	doc := document.New("/ws/a.py", []byte("# @AI:EXPIRY 2026-01-01\n# @AI:SYNC b.py\n# @AI:TODO tidy up\n"))

	entries := idx.Entries(doc)

	require.Len(t, entries, 2)
	assert.Equal(t, "@AI:SYNC", entries[0].Key)
	assert.Equal(t, "@AI:TODO", entries[1].Key)
	assert.Equal(t, "tidy up", entries[1].Payload)
}

func TestEntries_MarkdownFence(t *testing.T) {
	idx := New()
	doc := document.New("/ws/README.md", []byte("```ts\n// @AI:EXPIRY 2020-01-01\n```\n<!-- @AI:EXPIRY 2021-01-01 -->\n"))

	entries := idx.Entries(doc)

	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Line)
	assert.Equal(t, "2021-01-01 -->", entries[0].Payload)
}

func TestUpsert_ReplacesAndRemoves(t *testing.T) {
	idx := New()

	idx.Upsert(document.New("/ws/a.ts", []byte("// @AI:EXPIRY 2020-01-01\n// @AI:EXPIRY 2021-01-01")))
	require.Len(t, idx.Groups()[0].Entries, 2)

	idx.Upsert(document.New("/ws/a.ts", []byte("// @AI:EXPIRY 2022-01-01")))
	groups := idx.Groups()
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Entries, 1)
	assert.Equal(t, "2022-01-01", groups[0].Entries[0].Payload)

	// No entries left means the document is dropped
	idx.Upsert(document.New("/ws/a.ts", []byte("// nothing")))
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Groups())
}

func TestGroups_Order(t *testing.T) {
	idx := New(WithKeys("@AI:SYNC", "@AI:EXPIRY"))
	idx.Upsert(document.New("/ws/z.ts", []byte("// @AI:SYNC a.ts\n// @AI:EXPIRY 2020-01-01")))
	idx.Upsert(document.New("/ws/a.ts", []byte("\n\n// @AI:EXPIRY 2020-01-03\n// @AI:EXPIRY 2020-01-04")))

	groups := idx.Groups()

	require.Len(t, groups, 2)
	assert.Equal(t, "@AI:EXPIRY", groups[0].Key)
	assert.Equal(t, "@AI:SYNC", groups[1].Key)

	var order []string
	for _, e := range groups[0].Entries {
		order = append(order, e.Payload)
	}
	assert.Equal(t, []string{"2020-01-03", "2020-01-04", "2020-01-01"}, order)
}

func TestRemove_Notifies(t *testing.T) {
	idx := New()
	idx.Upsert(document.New("/ws/a.ts", []byte("// @AI:EXPIRY 2020-01-01")))
	<-idx.Changes()

	idx.Remove("/ws/a.ts")

	select {
	case <-idx.Changes():
	default:
		t.Fatal("expected change notification")
	}
	assert.Equal(t, 0, idx.Len())
}

func TestScanWorkspace(t *testing.T) {
	ws := t.TempDir()
	files := map[string]string{
		"src/a.ts":          "// @AI:EXPIRY 2026-01-01\n",
		"src/b.ts":          "// @AI:SYNC a.ts\n",
		"node_modules/x.js": "// @AI:EXPIRY 2026-01-01\n",
	}
	for name, content := range files {
		path := filepath.Join(ws, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	idx := New()
	idx.Upsert(document.New("/stale/file.ts", []byte("// @AI:EXPIRY 2020-01-01")))

	err := idx.ScanWorkspace(context.Background(), enum.Config{Exclude: enum.DefaultExclude}, ws)

	require.NoError(t, err)
	groups := idx.Groups()
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Entries, 1)
	assert.Equal(t, filepath.Join(ws, "src", "a.ts"), groups[0].Entries[0].Path)
}
