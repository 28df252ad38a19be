package synclink

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/praetorian-inc/aitags/pkg/document"
	"github.com/praetorian-inc/aitags/pkg/types"
	"github.com/praetorian-inc/aitags/pkg/workspace"
)

// Reasons reported on missing targets.
const (
	ReasonMissingPath  = "missing file path"
	ReasonAbsolutePath = "use a workspace-relative path"
	ReasonNoWorkspace  = "workspace folder not found"
	ReasonOutsideRoot  = "path is outside workspace root"
	reasonNotFoundFmt  = "target not found: %s"
	reasonEmptyDirFmt  = "no files found in folder: %s"
)

// Options control a single resolution call.
type Options struct {
	// ExpandDirectories replaces a directory target with one result per
	// regular file directly inside it.
	ExpandDirectories bool
}

// Resolver resolves sync tokens to files inside the document's workspace.
type Resolver struct {
	fs      workspace.FileSystem
	locator workspace.Locator
	logger  *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFileSystem replaces the local disk with fsys.
func WithFileSystem(fsys workspace.FileSystem) Option {
	return func(r *Resolver) {
		r.fs = fsys
	}
}

// WithLogger sets the logger used for downgraded environment errors.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a resolver that sandboxes paths to the roots locator reports.
func NewResolver(locator workspace.Locator, opts ...Option) *Resolver {
	r := &Resolver{
		fs:      workspace.OSFileSystem{},
		locator: locator,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// resolvedPath is the outcome of resolving one file path.
type resolvedPath struct {
	missing     bool
	location    string
	isDirectory bool
	reason      string
	candidate   string
	allowCreate bool
}

// ResolveTargets resolves every token of a sync payload, in order.
// Business failures come back as TargetMissing results, never as errors.
func (r *Resolver) ResolveTargets(ctx context.Context, doc document.Document, payload string, opts Options) []types.ResolvedTarget {
	tokens := SplitPayload(payload)
	if len(tokens) == 0 {
		return []types.ResolvedTarget{types.NewMissingTarget("", ReasonMissingPath, "", false)}
	}

	var results []types.ResolvedTarget
	for _, token := range tokens {
		parsed := ParseToken(token)

		resolved := r.resolvePath(ctx, doc, parsed.FilePath)
		if resolved.missing {
			results = append(results, types.NewMissingTarget(token, resolved.reason, resolved.candidate, resolved.allowCreate))
			continue
		}

		if resolved.isDirectory && opts.ExpandDirectories {
			results = append(results, r.expandDirectory(ctx, token, resolved.location, parsed)...)
			continue
		}

		results = append(results, types.NewOKTarget(token, resolved.location, resolved.isDirectory, false, parsed))
	}
	return results
}

func (r *Resolver) resolvePath(ctx context.Context, doc document.Document, filePath string) resolvedPath {
	if filePath == "" {
		return resolvedPath{missing: true, reason: ReasonMissingPath}
	}

	if filepath.IsAbs(filePath) {
		return resolvedPath{missing: true, reason: ReasonAbsolutePath}
	}

	root, err := r.locator.Root(doc.Path())
	if err != nil {
		// A bare ErrNoRoot is the ordinary miss; anything else carries a
		// locator failure worth logging.
		if err != workspace.ErrNoRoot { //nolint:errorlint
			r.logger.Debug("workspace lookup failed", zap.String("document", doc.Path()), zap.Error(err))
		}
		return resolvedPath{missing: true, reason: ReasonNoWorkspace}
	}

	base := root
	if isDocumentRelative(filePath) {
		base = filepath.Dir(doc.Path())
	}
	target := filepath.Clean(filepath.Join(base, filePath))

	if !isWithinRoot(root, target) {
		return resolvedPath{missing: true, reason: ReasonOutsideRoot}
	}

	info, err := r.fs.Stat(ctx, target)
	if err != nil {
		r.logger.Debug("sync target stat failed", zap.String("target", target), zap.Error(err))
		return resolvedPath{
			missing:     true,
			reason:      fmt.Sprintf(reasonNotFoundFmt, filePath),
			candidate:   target,
			allowCreate: allowCreate(filePath),
		}
	}

	return resolvedPath{location: target, isDirectory: info.IsDir}
}

func (r *Resolver) expandDirectory(ctx context.Context, token, dir string, parsed types.ParsedSyncToken) []types.ResolvedTarget {
	entries, err := r.fs.ReadDir(ctx, dir)
	if err != nil {
		r.logger.Debug("sync directory listing failed", zap.String("directory", dir), zap.Error(err))
	}

	var results []types.ResolvedTarget
	for _, e := range entries {
		if !e.IsFile {
			continue
		}
		results = append(results, types.NewOKTarget(token, filepath.Join(dir, e.Name), false, true, parsed))
	}

	if len(results) == 0 {
		return []types.ResolvedTarget{types.NewMissingTarget(token, fmt.Sprintf(reasonEmptyDirFmt, token), "", false)}
	}
	return results
}

// isDocumentRelative reports whether the path is anchored at the document's
// own directory rather than the workspace root.
func isDocumentRelative(p string) bool {
	return strings.HasPrefix(p, "./") ||
		strings.HasPrefix(p, "../") ||
		strings.HasPrefix(p, `.\`) ||
		strings.HasPrefix(p, `..\`)
}

// isWithinRoot requires target strictly below root. The root itself is outside.
func isWithinRoot(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	if rel == "" || rel == "." || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// allowCreate is false for paths naming a directory (trailing separator).
func allowCreate(p string) bool {
	return p != "" && !strings.HasSuffix(p, "/") && !strings.HasSuffix(p, `\`)
}
