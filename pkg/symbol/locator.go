// Package symbol locates dotted symbol paths ("Outer.inner") in files using
// an external document symbol provider.
package symbol

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/praetorian-inc/aitags/pkg/types"
)

// Reasons reported for failed lookups.
const (
	ReasonNoSymbols      = "no symbols found in file"
	ReasonProviderFailed = "failed to execute symbol provider"
	reasonNotFoundFmt    = "symbol not found: %s"
)

// Position is a 0-indexed line/column position.
type Position struct {
	Line   int
	Column int
}

// DocumentSymbol is one node of a file's symbol tree.
type DocumentSymbol struct {
	Name string
	Kind string
	// Selection is the start of the symbol's name.
	Selection Position
	Children  []DocumentSymbol
}

// Provider supplies the symbol tree of a file.
type Provider interface {
	DocumentSymbols(ctx context.Context, path string) ([]DocumentSymbol, error)
}

// Locator resolves dotted symbol paths against a Provider.
// Concurrent lookups in the same file share one provider call.
type Locator struct {
	provider Provider
	group    singleflight.Group
	logger   *zap.Logger
}

// Option configures a Locator.
type Option func(*Locator)

// WithLogger sets the logger used for provider failures.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Locator) {
		l.logger = logger
	}
}

// NewLocator creates a locator over provider.
func NewLocator(provider Provider, opts ...Option) *Locator {
	l := &Locator{
		provider: provider,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate finds symbolName (e.g. "Foo.bar") in the file at path.
// Provider failures are reported as not found, never as errors.
func (l *Locator) Locate(ctx context.Context, path, symbolName string) types.SymbolLocation {
	symbols, err := l.fetch(ctx, path)
	if err != nil {
		l.logger.Debug("symbol provider failed", zap.String("path", path), zap.Error(err))
		return notFound(ReasonProviderFailed)
	}

	if len(symbols) == 0 {
		return notFound(ReasonNoSymbols)
	}

	found, ok := FindNested(symbols, strings.Split(symbolName, "."))
	if !ok {
		return notFound(fmt.Sprintf(reasonNotFoundFmt, symbolName))
	}

	return types.SymbolLocation{
		Status: types.SymbolFound,
		Line:   found.Selection.Line,
		Column: found.Selection.Column,
	}
}

func (l *Locator) fetch(ctx context.Context, path string) (symbols []DocumentSymbol, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("symbol provider panicked: %v", r)
		}
	}()

	// The call is shared with other waiters, so one caller's cancellation
	// must not fail it for the rest.
	shared := context.WithoutCancel(ctx)
	v, err, _ := l.group.Do(path, func() (interface{}, error) {
		return l.provider.DocumentSymbols(shared, path)
	})
	if err != nil {
		return nil, err
	}
	return v.([]DocumentSymbol), nil
}

func notFound(reason string) types.SymbolLocation {
	return types.SymbolLocation{Status: types.SymbolNotFound, Reason: reason}
}

// FindNested walks path through the tree by exact name, descending into
// children for each further segment. The first sibling with a matching name wins.
func FindNested(symbols []DocumentSymbol, path []string) (DocumentSymbol, bool) {
	if len(path) == 0 || len(symbols) == 0 {
		return DocumentSymbol{}, false
	}

	for _, s := range symbols {
		if s.Name != path[0] {
			continue
		}
		if len(path) == 1 {
			return s, true
		}
		return FindNested(s.Children, path[1:])
	}
	return DocumentSymbol{}, false
}
