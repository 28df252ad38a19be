// Package scanner turns documents into findings and keeps them in a store.
package scanner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/praetorian-inc/aitags/pkg/document"
	"github.com/praetorian-inc/aitags/pkg/expiry"
	"github.com/praetorian-inc/aitags/pkg/symbol"
	"github.com/praetorian-inc/aitags/pkg/synclink"
	"github.com/praetorian-inc/aitags/pkg/tag"
	"github.com/praetorian-inc/aitags/pkg/types"
)

// Core builds the findings of a single document.
type Core struct {
	config   Config
	resolver *synclink.Resolver
	locator  *symbol.Locator
	now      func() time.Time
	logger   *zap.Logger
}

// CoreOption configures a Core.
type CoreOption func(*Core)

// WithSymbolLocator enables symbol checks on sync targets when
// Config.Sync.CheckSymbols is set.
func WithSymbolLocator(locator *symbol.Locator) CoreOption {
	return func(c *Core) {
		c.locator = locator
	}
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) CoreOption {
	return func(c *Core) {
		c.now = now
	}
}

// WithCoreLogger sets the logger.
func WithCoreLogger(logger *zap.Logger) CoreOption {
	return func(c *Core) {
		c.logger = logger
	}
}

// NewCore creates a Core. resolver is required for sync diagnostics.
func NewCore(config Config, resolver *synclink.Resolver, opts ...CoreOption) *Core {
	c := &Core{
		config:   config,
		resolver: resolver,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the diagnostic settings in use.
func (c *Core) Config() Config {
	return c.config
}

// BuildFindings scans doc and returns expiry findings followed by sync
// findings, each in line order.
func (c *Core) BuildFindings(ctx context.Context, doc document.Document) []*types.Finding {
	tags := tag.ScanDocument(doc)
	if len(tags) == 0 {
		return nil
	}

	findings := expiry.Evaluate(tags, c.config.Expiry, c.now(), doc.Path())
	findings = append(findings, c.SyncFindings(ctx, doc, tags)...)

	c.logger.Debug("built findings",
		zap.String("path", doc.Path()),
		zap.Int("tags", len(tags)),
		zap.Int("findings", len(findings)))
	return findings
}

// SyncFindings reports unresolvable targets of the sync tags in tags.
// Targets are resolved without directory expansion.
func (c *Core) SyncFindings(ctx context.Context, doc document.Document, tags []types.TagEntry) []*types.Finding {
	if !c.config.Sync.Enabled || c.resolver == nil {
		return nil
	}

	var findings []*types.Finding
	for _, t := range tags {
		switch t.Kind {
		case types.KindSync:
		case types.KindExpiry:
			continue
		default:
			panic(fmt.Sprintf("scanner: unknown tag kind %q", string(t.Kind)))
		}

		for _, target := range c.resolver.ResolveTargets(ctx, doc, t.Payload, synclink.Options{}) {
			if target.IsMissing() {
				if c.config.Sync.WarnOnMissing {
					findings = append(findings, syncFinding(t, doc.Path(), target.Reason))
				}
				continue
			}

			if f := c.checkSymbol(ctx, doc, t, target); f != nil {
				findings = append(findings, f)
			}
		}
	}
	return findings
}

func (c *Core) checkSymbol(ctx context.Context, doc document.Document, t types.TagEntry, target types.ResolvedTarget) *types.Finding {
	if !c.config.Sync.CheckSymbols || c.locator == nil {
		return nil
	}
	if target.Symbol == "" || target.IsDirectory {
		return nil
	}

	loc := c.locator.Locate(ctx, target.Location, target.Symbol)
	if loc.Status == types.SymbolFound {
		return nil
	}
	return syncFinding(t, doc.Path(), loc.Reason)
}

func syncFinding(t types.TagEntry, path, reason string) *types.Finding {
	return types.NewFinding(t, path, fmt.Sprintf("%s %s", types.KindSync.Key(), reason))
}
