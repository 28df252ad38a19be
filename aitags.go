// Package aitags finds "@AI:" annotation tags in source comments and
// checks them.
//
// Two tag kinds are understood. "@AI:EXPIRY 2026-03-01 [KST]" marks code
// that should be revisited after a date. "@AI:SYNC path/to/file.ts:L10-L20,
// other.ts#Type.method" links code that must change together; targets are
// resolved inside the document's workspace and never outside it.
//
// # Basic Usage
//
// Scan a document for tags and evaluate expiry dates:
//
//	doc := aitags.NewDocument("main.ts", content)
//	tags := aitags.Scan(doc)
//	for _, f := range aitags.EvaluateExpiry(tags, aitags.DefaultExpiryConfig(), time.Now()) {
//	    fmt.Printf("line %d: %s\n", f.Span.Line+1, f.Message)
//	}
//
// # Resolving Sync Targets
//
// Sync targets need a workspace to resolve against:
//
//	scanner, err := aitags.NewScanner(aitags.WithWorkspaceFolders("/repo"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, target := range scanner.ResolveSyncTargets(ctx, doc, tag.Payload, aitags.ResolveOptions{}) {
//	    if target.IsMissing() {
//	        fmt.Println(target.Token, target.Reason)
//	    }
//	}
package aitags

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/praetorian-inc/aitags/pkg/document"
	"github.com/praetorian-inc/aitags/pkg/enum"
	"github.com/praetorian-inc/aitags/pkg/expiry"
	"github.com/praetorian-inc/aitags/pkg/fence"
	"github.com/praetorian-inc/aitags/pkg/symbol"
	"github.com/praetorian-inc/aitags/pkg/synclink"
	"github.com/praetorian-inc/aitags/pkg/tag"
	"github.com/praetorian-inc/aitags/pkg/types"
	"github.com/praetorian-inc/aitags/pkg/workspace"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/praetorian-inc/aitags" without subpackages.
type (
	// Document is a line-addressable text document.
	Document = document.Document

	// TagEntry is one recognized tag on a line.
	TagEntry = types.TagEntry

	// TagKind identifies the tag name.
	TagKind = types.TagKind

	// Finding is a warning reported against a tag.
	Finding = types.Finding

	// LineRange is a 1-indexed inclusive line reference.
	LineRange = types.LineRange

	// ParsedSyncToken is a sync target split into path and suffix.
	ParsedSyncToken = types.ParsedSyncToken

	// ResolvedTarget is the outcome of resolving one sync token.
	ResolvedTarget = types.ResolvedTarget

	// ExpiryResult is a parsed expiry payload.
	ExpiryResult = types.ExpiryResult

	// SymbolLocation is the outcome of a symbol lookup.
	SymbolLocation = types.SymbolLocation

	// ExpiryConfig controls expiry evaluation.
	ExpiryConfig = expiry.Config

	// ResolveOptions control sync target resolution.
	ResolveOptions = synclink.Options

	// SymbolProvider supplies document symbol trees.
	SymbolProvider = symbol.Provider
)

// Re-export tag kinds and statuses.
const (
	KindExpiry = types.KindExpiry
	KindSync   = types.KindSync

	TargetOK      = types.TargetOK
	TargetMissing = types.TargetMissing

	SymbolFound    = types.SymbolFound
	SymbolNotFound = types.SymbolNotFound
)

// NewDocument creates a document from content. The language is taken
// from the path's extension.
func NewDocument(path string, content []byte) Document {
	return document.New(path, content)
}

// OpenDocument reads a document from disk.
func OpenDocument(path string) (Document, error) {
	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Scan returns the tags of doc in line order. Lines inside fenced code
// blocks of markdown documents are skipped.
func Scan(doc Document) []TagEntry {
	return tag.ScanDocument(doc)
}

// BuildFenceMask marks the lines of doc that lie strictly inside a fenced
// code block.
func BuildFenceMask(doc Document) []bool {
	return fence.BuildMask(doc)
}

// DefaultExpiryConfig returns the default expiry settings.
func DefaultExpiryConfig() ExpiryConfig {
	return expiry.DefaultConfig()
}

// EvaluateExpiry returns findings for malformed or expired expiry tags.
func EvaluateExpiry(tags []TagEntry, cfg ExpiryConfig, now time.Time) []*Finding {
	return expiry.Evaluate(tags, cfg, now, "")
}

// Scanner resolves sync targets and symbols against a workspace.
type Scanner struct {
	resolver *synclink.Resolver
	locator  *symbol.Locator
}

// scannerConfig holds scanner configuration.
type scannerConfig struct {
	folders  []string
	fs       workspace.FileSystem
	provider symbol.Provider
	logger   *zap.Logger
}

// Option configures a Scanner.
type Option func(*scannerConfig)

// WithWorkspaceFolders sandboxes resolution to the given folders. Without
// folders, the enclosing git repository of each document is used.
func WithWorkspaceFolders(folders ...string) Option {
	return func(c *scannerConfig) {
		c.folders = append(c.folders, folders...)
	}
}

// WithFileSystem replaces the local disk used to probe targets.
func WithFileSystem(fsys workspace.FileSystem) Option {
	return func(c *scannerConfig) {
		c.fs = fsys
	}
}

// WithSymbolProvider replaces the tree-sitter symbol provider.
func WithSymbolProvider(p SymbolProvider) Option {
	return func(c *scannerConfig) {
		c.provider = p
	}
}

// WithLogger sets the logger for downgraded environment errors.
func WithLogger(logger *zap.Logger) Option {
	return func(c *scannerConfig) {
		c.logger = logger
	}
}

// NewScanner creates a Scanner with the given options.
//
// By default, the scanner:
//   - Sandboxes each document to its enclosing git repository
//   - Probes the local disk
//   - Parses symbols with tree-sitter (files up to 1 MiB)
func NewScanner(opts ...Option) (*Scanner, error) {
	config := &scannerConfig{
		fs:     workspace.OSFileSystem{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(config)
	}

	var locator workspace.Locator = workspace.GitLocator{}
	if len(config.folders) > 0 {
		folders, err := workspace.NewFolders(config.folders...)
		if err != nil {
			return nil, fmt.Errorf("configuring workspace folders: %w", err)
		}
		locator = folders
	}

	provider := config.provider
	if provider == nil {
		provider = symbol.NewTreeSitterProvider(enum.DefaultMaxFileSize)
	}

	return &Scanner{
		resolver: synclink.NewResolver(locator,
			synclink.WithFileSystem(config.fs),
			synclink.WithLogger(config.logger)),
		locator: symbol.NewLocator(provider, symbol.WithLogger(config.logger)),
	}, nil
}

// ResolveSyncTargets resolves every token of a sync payload written in doc.
func (s *Scanner) ResolveSyncTargets(ctx context.Context, doc Document, payload string, opts ResolveOptions) []ResolvedTarget {
	return s.resolver.ResolveTargets(ctx, doc, payload, opts)
}

// LocateSymbol finds a dotted symbol path such as "Service.run" in the
// file at path. Line and column are 0-indexed.
func (s *Scanner) LocateSymbol(ctx context.Context, path, dotted string) SymbolLocation {
	return s.locator.Locate(ctx, path, dotted)
}

// Resolver returns the underlying sync resolver.
func (s *Scanner) Resolver() *synclink.Resolver {
	return s.resolver
}

// SymbolLocator returns the underlying symbol locator.
func (s *Scanner) SymbolLocator() *symbol.Locator {
	return s.locator
}
