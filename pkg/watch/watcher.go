// Package watch turns file system events under workspace roots into
// debounced batches of changed and removed files.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/praetorian-inc/aitags/pkg/enum"
)

// DefaultDebounce is the quiet period before a batch is delivered.
const DefaultDebounce = 150 * time.Millisecond

// Batch is the set of files touched during one debounce window.
// A path appears in at most one of the two lists, decided by its last event.
type Batch struct {
	Changed []string
	Removed []string
}

// Handler receives debounced batches. It is called from a single goroutine.
type Handler func(ctx context.Context, batch Batch)

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period before a batch is delivered.
	Debounce time.Duration
	// Exclude lists directory names that are not watched.
	Exclude []string
	// IncludeHidden watches hidden directories and reports hidden files.
	IncludeHidden bool
	// Logger receives watcher errors. Nil means no logging.
	Logger *zap.Logger
}

// DefaultOptions returns the default watcher settings.
func DefaultOptions() Options {
	return Options{
		Debounce: DefaultDebounce,
		Exclude:  append([]string(nil), enum.DefaultExclude...),
	}
}

// Watcher watches workspace roots recursively.
type Watcher struct {
	roots   []string
	handler Handler
	opts    Options
	exclude map[string]bool
	logger  *zap.Logger

	watcher *fsnotify.Watcher
	events  chan event
	done    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool
}

type event struct {
	path    string
	removed bool
}

// New creates a watcher for roots. Call Start to begin watching.
func New(roots []string, handler Handler, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	exclude := make(map[string]bool, len(opts.Exclude))
	for _, name := range opts.Exclude {
		exclude[name] = true
	}

	return &Watcher{
		roots:   roots,
		handler: handler,
		opts:    opts,
		exclude: exclude,
		logger:  logger,
		watcher: fw,
		events:  make(chan event, 1024),
		done:    make(chan struct{}),
	}, nil
}

// Start registers every root recursively and starts delivering batches.
// Watching stops when ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	for _, root := range w.roots {
		if err := w.addRecursive(root); err != nil {
			return fmt.Errorf("watching %s: %w", root, err)
		}
	}

	w.wg.Add(2)
	go w.processEvents(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop stops watching and waits for the handler goroutine to exit. A
// pending batch is delivered before Stop returns.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	w.mu.Unlock()

	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

// addRecursive adds a directory and all eligible subdirectories.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignoredDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) ignoredDir(name string) bool {
	if w.exclude[name] {
		return true
	}
	return !w.opts.IncludeHidden && isHidden(name)
}

// ignored reports whether path lies inside an ignored directory or is a
// hidden file.
func (w *Watcher) ignored(path string) bool {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." || rel == ".." || filepath.IsAbs(rel) {
			continue
		}
		for _, part := range splitPath(rel) {
			if w.ignoredDir(part) {
				return true
			}
		}
		return false
	}
	return !w.opts.IncludeHidden && isHidden(filepath.Base(path))
}

// processEvents converts fsnotify events and forwards them to the debouncer.
func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.ignored(ev.Name) {
				continue
			}

			removed := ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					// New directories are watched but not reported.
					if err := w.addRecursive(ev.Name); err != nil {
						w.logger.Debug("watching new directory failed", zap.String("path", ev.Name), zap.Error(err))
					}
					continue
				}
			}
			if !removed && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}

			select {
			case w.events <- event{path: ev.Name, removed: removed}:
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

// debounceLoop collects events until the debounce window passes quietly.
func (w *Watcher) debounceLoop(ctx context.Context) {
	defer w.wg.Done()

	pending := make(map[string]bool) // path -> removed
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if timer != nil {
			timer.Stop()
			timer, timerC = nil, nil
		}
		if len(pending) == 0 {
			return
		}
		batch := toBatch(pending)
		pending = make(map[string]bool)
		if w.handler != nil {
			w.handler(ctx, batch)
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-w.done:
			flush()
			return
		case ev := <-w.events:
			pending[ev.path] = ev.removed
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.opts.Debounce)
			}
		case <-timerC:
			timer, timerC = nil, nil
			flush()
		}
	}
}

func toBatch(pending map[string]bool) Batch {
	var b Batch
	for path, removed := range pending {
		if removed {
			b.Removed = append(b.Removed, path)
		} else {
			b.Changed = append(b.Changed, path)
		}
	}
	sort.Strings(b.Changed)
	sort.Strings(b.Removed)
	return b
}

func splitPath(rel string) []string {
	return strings.Split(filepath.ToSlash(rel), "/")
}

func isHidden(name string) bool {
	return name != "." && name != ".." && strings.HasPrefix(name, ".")
}
