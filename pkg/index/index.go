// Package index keeps a workspace-wide index of selected tags grouped by key.
package index

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/praetorian-inc/aitags/pkg/document"
	"github.com/praetorian-inc/aitags/pkg/enum"
	"github.com/praetorian-inc/aitags/pkg/fence"
	"github.com/praetorian-inc/aitags/pkg/prefilter"
	"github.com/praetorian-inc/aitags/pkg/tag"
	"github.com/praetorian-inc/aitags/pkg/types"
)

// DefaultKeys are the tag keys indexed when none are given.
var DefaultKeys = []string{types.KindExpiry.Key()}

// Entry is one indexed tag occurrence.
type Entry struct {
	Key       string `json:"key" yaml:"key"`
	Payload   string `json:"payload" yaml:"payload"`
	Path      string `json:"path" yaml:"path"`
	Line      int    `json:"line" yaml:"line"`
	StartChar int    `json:"start_char" yaml:"start_char"`
	EndChar   int    `json:"end_char" yaml:"end_char"`
}

// Group holds every entry sharing a key.
type Group struct {
	Key     string  `json:"key" yaml:"key"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Index maps document paths to their indexed entries.
type Index struct {
	mu        sync.RWMutex
	entries   map[string][]Entry
	allow     map[string]bool
	prefilter *prefilter.Prefilter
	changes   chan struct{}
	logger    *zap.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithKeys replaces the allowlisted tag keys, e.g. "@AI:SYNC".
func WithKeys(keys ...string) Option {
	return func(idx *Index) {
		idx.allow = make(map[string]bool, len(keys))
		for _, k := range keys {
			idx.allow[k] = true
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(idx *Index) {
		idx.logger = logger
	}
}

// New creates an empty index.
func New(opts ...Option) *Index {
	idx := &Index{
		entries: make(map[string][]Entry),
		changes: make(chan struct{}, 1),
		logger:  zap.NewNop(),
	}
	WithKeys(DefaultKeys...)(idx)
	for _, opt := range opts {
		opt(idx)
	}

	var kinds []types.TagKind
	for _, kind := range types.AllTagKinds {
		if idx.allow[kind.Key()] {
			kinds = append(kinds, kind)
		}
	}
	if len(kinds) > 0 {
		idx.prefilter = prefilter.New(kinds...)
	}
	return idx
}

// Changes delivers a signal after the index content changes. Signals
// coalesce while nobody is receiving.
func (idx *Index) Changes() <-chan struct{} {
	return idx.changes
}

func (idx *Index) notify() {
	select {
	case idx.changes <- struct{}{}:
	default:
	}
}

// Entries extracts the allowlisted entries of doc without touching the index.
func (idx *Index) Entries(doc document.Document) []Entry {
	var mask []bool
	if document.IsMarkdown(doc) {
		mask = fence.BuildMask(doc)
	}

	var entries []Entry
	for line := 0; line < doc.LineCount(); line++ {
		if mask != nil && mask[line] {
			continue
		}
		text := doc.Line(line)
		key, ok := tag.ParseKey(text, line)
		if !ok || !idx.allow[key.TagKey] {
			continue
		}
		entries = append(entries, Entry{
			Key:       key.TagKey,
			Payload:   strings.TrimSpace(text[key.EndChar:]),
			Path:      doc.Path(),
			Line:      line,
			StartChar: key.StartChar,
			EndChar:   key.EndChar,
		})
	}
	return entries
}

// Upsert replaces the entries of doc. A document without entries is removed.
func (idx *Index) Upsert(doc document.Document) {
	entries := idx.Entries(doc)

	idx.mu.Lock()
	if len(entries) == 0 {
		delete(idx.entries, doc.Path())
	} else {
		idx.entries[doc.Path()] = entries
	}
	idx.mu.Unlock()
	idx.notify()
}

// Remove drops a document from the index.
func (idx *Index) Remove(path string) {
	idx.mu.Lock()
	delete(idx.entries, path)
	idx.mu.Unlock()
	idx.notify()
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Groups returns entries grouped by key. Groups are sorted by key and
// entries by path, then line.
func (idx *Index) Groups() []Group {
	idx.mu.RLock()
	grouped := make(map[string][]Entry)
	for _, entries := range idx.entries {
		for _, e := range entries {
			grouped[e.Key] = append(grouped[e.Key], e)
		}
	}
	idx.mu.RUnlock()

	groups := make([]Group, 0, len(grouped))
	for key, entries := range grouped {
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Path != entries[j].Path {
				return entries[i].Path < entries[j].Path
			}
			return entries[i].Line < entries[j].Line
		})
		groups = append(groups, Group{Key: key, Entries: entries})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// ScanWorkspace rebuilds the index from every eligible file under roots.
// cfg supplies the walk settings; its Root is replaced per root.
func (idx *Index) ScanWorkspace(ctx context.Context, cfg enum.Config, roots ...string) error {
	idx.mu.Lock()
	idx.entries = make(map[string][]Entry)
	idx.mu.Unlock()

	for _, root := range roots {
		cfg.Root = root
		cfg.SkipUnreadable = true
		err := enum.NewFilesystemEnumerator(cfg).Enumerate(ctx, func(content []byte, path string) error {
			if idx.prefilter == nil || !idx.prefilter.MayContain(content) {
				return nil
			}
			idx.Upsert(document.New(path, content))
			return nil
		})
		if err != nil {
			return fmt.Errorf("indexing %s: %w", root, err)
		}
	}

	idx.logger.Debug("tag index rebuilt", zap.Int("documents", idx.Len()))
	idx.notify()
	return nil
}
