package scanner

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/praetorian-inc/aitags/pkg/document"
	"github.com/praetorian-inc/aitags/pkg/enum"
	"github.com/praetorian-inc/aitags/pkg/prefilter"
	"github.com/praetorian-inc/aitags/pkg/store"
	"github.com/praetorian-inc/aitags/pkg/types"
	"github.com/praetorian-inc/aitags/pkg/workspace"
)

// WalkConfig controls which workspace files a scan reads.
type WalkConfig struct {
	MaxFileSize   int64    `json:"maxFileSize" yaml:"maxFileSize" mapstructure:"maxFileSize"`
	Exclude       []string `json:"exclude" yaml:"exclude" mapstructure:"exclude"`
	IncludeHidden bool     `json:"includeHidden" yaml:"includeHidden" mapstructure:"includeHidden"`
}

// DefaultWalkConfig returns the default walk settings.
func DefaultWalkConfig() WalkConfig {
	return WalkConfig{
		MaxFileSize: enum.DefaultMaxFileSize,
		Exclude:     append([]string(nil), enum.DefaultExclude...),
	}
}

// Service owns the finding store and keeps it current as documents are
// scanned, rescanned or removed.
type Service struct {
	core      *Core
	store     store.Store
	prefilter *prefilter.Prefilter
	walk      WalkConfig
	logger    *zap.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithWalkConfig overrides the workspace walk settings.
func WithWalkConfig(walk WalkConfig) ServiceOption {
	return func(s *Service) {
		s.walk = walk
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a Service writing to st.
func NewService(core *Core, st store.Store, opts ...ServiceOption) *Service {
	s := &Service{
		core:      core,
		store:     st,
		prefilter: prefilter.New(),
		walk:      DefaultWalkConfig(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying store.
func (s *Service) Store() store.Store {
	return s.store
}

// ScanDocument rebuilds the findings of doc and replaces its store entry.
func (s *Service) ScanDocument(ctx context.Context, doc document.Document) ([]*types.Finding, error) {
	findings := s.core.BuildFindings(ctx, doc)
	if err := s.store.ReplaceFindings(doc.Path(), findings); err != nil {
		return nil, fmt.Errorf("storing findings for %s: %w", doc.Path(), err)
	}
	return findings, nil
}

// ScanFile scans content read from path. Content without any tag key
// skips line parsing and clears the path.
func (s *Service) ScanFile(ctx context.Context, path string, content []byte) ([]*types.Finding, error) {
	if !s.prefilter.MayContain(content) {
		if err := s.store.ReplaceFindings(path, nil); err != nil {
			return nil, fmt.Errorf("clearing findings for %s: %w", path, err)
		}
		return nil, nil
	}
	return s.ScanDocument(ctx, document.New(path, content))
}

// ScanWorkspace scans every eligible file under roots. Roots nested inside
// another root are walked once. Unreadable files are skipped.
func (s *Service) ScanWorkspace(ctx context.Context, roots []string) (*store.ScanRun, error) {
	run := &store.ScanRun{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}

	normalized, err := workspace.NewFolders(roots...)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace roots: %w", err)
	}
	walkRoots := outermost(normalized)
	if len(walkRoots) > 0 {
		run.Root = walkRoots[0]
	}

	var files, findings atomic.Int64
	for _, root := range walkRoots {
		enumerator := enum.NewFilesystemEnumerator(enum.Config{
			Root:           root,
			IncludeHidden:  s.walk.IncludeHidden,
			MaxFileSize:    s.walk.MaxFileSize,
			Exclude:        s.walk.Exclude,
			SkipUnreadable: true,
		})

		err := enumerator.Enumerate(ctx, func(content []byte, path string) error {
			found, err := s.ScanFile(ctx, path, content)
			if err != nil {
				return err
			}
			files.Add(1)
			findings.Add(int64(len(found)))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
	}

	run.FinishedAt = time.Now()
	run.Files = int(files.Load())
	run.Findings = int(findings.Load())

	if err := s.store.AddScan(*run); err != nil {
		return nil, fmt.Errorf("recording scan: %w", err)
	}

	s.logger.Info("workspace scan complete",
		zap.String("scan_id", run.ID),
		zap.Int("roots", len(walkRoots)),
		zap.Int("files", run.Files),
		zap.Int("findings", run.Findings),
		zap.Duration("duration", run.FinishedAt.Sub(run.StartedAt)))
	return run, nil
}

// ClearDocument drops the findings of a removed or closed document.
func (s *Service) ClearDocument(path string) error {
	if err := s.store.DeleteFindings(path); err != nil {
		return fmt.Errorf("clearing findings for %s: %w", path, err)
	}
	return nil
}

// ClearAll drops every stored finding.
func (s *Service) ClearAll() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clearing findings: %w", err)
	}
	return nil
}

// Findings returns every stored finding ordered by path and position.
func (s *Service) Findings() ([]*types.Finding, error) {
	return s.store.GetAllFindings()
}

// outermost drops roots contained in another root, keeping input order.
func outermost(roots []string) []string {
	var out []string
	for i, root := range roots {
		nested := false
		for j, other := range roots {
			if i == j {
				continue
			}
			if other == root && j < i {
				nested = true
				break
			}
			if other != root && workspace.Contains(other, root) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, filepath.Clean(root))
		}
	}
	return out
}
