//go:build cgo

package symbol

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/aitags/pkg/types"
)

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTreeSitterProvider_Go(t *testing.T) {
	// Arrange
	path := writeSource(t, "store.go", `package store

type Store struct {
	path string
}

func (s *Store) Get(key string) string {
	return key
}

func New() *Store {
	return &Store{}
}
`)
	l := NewLocator(NewTreeSitterProvider(0))
	ctx := context.Background()

	// Act
	method := l.Locate(ctx, path, "Store.Get")
	field := l.Locate(ctx, path, "Store.path")
	fn := l.Locate(ctx, path, "New")

	// Assert
	assert.Equal(t, types.SymbolLocation{Status: types.SymbolFound, Line: 6, Column: 16}, method)
	assert.Equal(t, types.SymbolLocation{Status: types.SymbolFound, Line: 3, Column: 1}, field)
	assert.Equal(t, types.SymbolLocation{Status: types.SymbolFound, Line: 10, Column: 5}, fn)
}

func TestTreeSitterProvider_Python(t *testing.T) {
	path := writeSource(t, "svc.py", `class Service:
    @staticmethod
    def build():
        pass

    def run(self):
        pass
`)
	l := NewLocator(NewTreeSitterProvider(0))

	run := l.Locate(context.Background(), path, "Service.run")
	build := l.Locate(context.Background(), path, "Service.build")

	assert.Equal(t, types.SymbolLocation{Status: types.SymbolFound, Line: 5, Column: 8}, run)
	assert.Equal(t, types.SymbolLocation{Status: types.SymbolFound, Line: 2, Column: 8}, build)
}

func TestTreeSitterProvider_TypeScript(t *testing.T) {
	path := writeSource(t, "auth.ts", `export class AuthService {
  login(user: string): boolean {
    return true;
  }
}

export function helper() {}

const limit = 10;
`)
	l := NewLocator(NewTreeSitterProvider(0))
	ctx := context.Background()

	assert.Equal(t, types.SymbolLocation{Status: types.SymbolFound, Line: 1, Column: 2},
		l.Locate(ctx, path, "AuthService.login"))
	assert.Equal(t, types.SymbolLocation{Status: types.SymbolFound, Line: 6, Column: 16},
		l.Locate(ctx, path, "helper"))
	assert.Equal(t, types.SymbolLocation{Status: types.SymbolFound, Line: 8, Column: 6},
		l.Locate(ctx, path, "limit"))
}

func TestTreeSitterProvider_UnsupportedExtension(t *testing.T) {
	path := writeSource(t, "notes.txt", "hello")

	loc := NewLocator(NewTreeSitterProvider(0)).Locate(context.Background(), path, "hello")

	assert.Equal(t, types.SymbolNotFound, loc.Status)
	assert.Equal(t, ReasonProviderFailed, loc.Reason)
}

func TestTreeSitterProvider_FileTooLarge(t *testing.T) {
	path := writeSource(t, "big.go", "package big\n\nfunc F() {}\n")

	_, err := NewTreeSitterProvider(4).DocumentSymbols(context.Background(), path)

	assert.Error(t, err)
}
