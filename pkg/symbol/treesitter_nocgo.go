//go:build !cgo

package symbol

import (
	"context"
	"errors"
)

// TreeSitterProvider is unavailable without cgo; every lookup fails and the
// locator reports the symbol as not found.
type TreeSitterProvider struct{}

// NewTreeSitterProvider creates the stub provider.
func NewTreeSitterProvider(maxFileSize int64) *TreeSitterProvider {
	return &TreeSitterProvider{}
}

// DocumentSymbols always fails.
func (p *TreeSitterProvider) DocumentSymbols(ctx context.Context, path string) ([]DocumentSymbol, error) {
	return nil, errors.New("symbol parsing requires cgo (build with CGO_ENABLED=1)")
}
