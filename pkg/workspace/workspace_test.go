package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolders_Root(t *testing.T) {
	folders := Folders{"/ws", "/ws/nested", "/other"}

	root, err := folders.Root("/ws/nested/pkg/a.go")
	require.NoError(t, err)
	assert.Equal(t, "/ws/nested", root)

	root, err = folders.Root("/ws/b.go")
	require.NoError(t, err)
	assert.Equal(t, "/ws", root)

	_, err = folders.Root("/elsewhere/c.go")
	assert.ErrorIs(t, err, ErrNoRoot)

	// Sibling with a shared prefix is not contained
	_, err = Folders{"/ws"}.Root("/ws2/a.go")
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestNewFolders(t *testing.T) {
	folders, err := NewFolders("/ws/../ws/sub/")
	require.NoError(t, err)
	assert.Equal(t, Folders{"/ws/sub"}, folders)
}

func TestChain_Root(t *testing.T) {
	chain := Chain{Folders{"/nope"}, Folders{"/ws"}}

	root, err := chain.Root("/ws/a.go")
	require.NoError(t, err)
	assert.Equal(t, "/ws", root)

	_, err = chain.Root("/x/a.go")
	assert.ErrorIs(t, err, ErrNoRoot)
}

type failingLocator struct{ err error }

func (f failingLocator) Root(string) (string, error) { return "", f.err }

func TestChain_RootSkipsFailingLocator(t *testing.T) {
	// Arrange
	broken := errors.New("opening repository: permission denied")
	chain := Chain{failingLocator{err: broken}, Folders{"/ws"}}

	// Act
	root, err := chain.Root("/ws/a.go")
	_, missErr := chain.Root("/x/a.go")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/ws", root)
	assert.ErrorIs(t, missErr, ErrNoRoot)
	assert.ErrorIs(t, missErr, broken)
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("/ws", "/ws"))
	assert.True(t, Contains("/ws", "/ws/a/b"))
	assert.True(t, Contains("/ws", "/ws/..hidden"))
	assert.False(t, Contains("/ws", "/"))
	assert.False(t, Contains("/ws", "/ws2"))
}

func TestOSFileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "b.txt"), []byte("hello"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "a.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "dir"), 0755))

	fsys := OSFileSystem{}
	ctx := context.Background()

	info, err := fsys.Stat(ctx, filepath.Join(tmpDir, "b.txt"))
	require.NoError(t, err)
	assert.False(t, info.IsDir)
	assert.Equal(t, int64(5), info.Size)

	info, err = fsys.Stat(ctx, filepath.Join(tmpDir, "dir"))
	require.NoError(t, err)
	assert.True(t, info.IsDir)

	_, err = fsys.Stat(ctx, filepath.Join(tmpDir, "missing"))
	assert.Error(t, err)

	entries, err := fsys.ReadDir(ctx, tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []DirEntry{
		{Name: "a.txt", IsFile: true},
		{Name: "b.txt", IsFile: true},
		{Name: "dir", IsFile: false},
	}, entries)
}
