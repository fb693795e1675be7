// Package watcher follows filesystem changes under a directory root and
// reports them in debounced batches. Events are filtered through the same
// skip rules the walker applies, so a watched tree and a walked tree agree
// on which files matter.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stereosearch/stereo/internal/logger"
	"github.com/stereosearch/stereo/internal/walker"
)

// DefaultDebounce is how long events collect before a batch is reported.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports batched file changes under a root directory.
type Watcher struct {
	root     string
	walk     *walker.Walker
	fsw      *fsnotify.Watcher
	debounce time.Duration

	onChange func(paths []string)
	onRemove func(paths []string)

	mu      sync.Mutex
	pending map[string]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounce overrides the debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for the tree rooted at root. The walker supplies
// the ignore and file type rules; its root should be the same directory.
func New(root string, walk *walker.Walker, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &Watcher{
		root:     root,
		walk:     walk,
		fsw:      fsw,
		debounce: DefaultDebounce,
		pending:  make(map[string]struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// OnChange sets the callback for files that were created or modified. Paths
// are the root joined with the file's relative path, matching what
// walker.Walk yields.
func (w *Watcher) OnChange(fn func(paths []string)) {
	w.onChange = fn
}

// OnRemove sets the callback for files that no longer exist.
func (w *Watcher) OnRemove(fn func(paths []string)) {
	w.onRemove = fn
}

// Start registers every non-ignored directory under the root and begins
// processing events.
func (w *Watcher) Start() error {
	err := filepath.WalkDir(w.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return nil
		}
		if rel != "." && w.walk.IgnoredDir(rel) {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(path); err != nil {
			logger.Warn("watch %s: %v", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("register watches: %w", err)
	}

	w.wg.Add(2)
	go w.eventLoop()
	go w.debounceLoop()

	return nil
}

// Stop halts event processing and releases the underlying watches. Pending
// events that have not been flushed are dropped.
func (w *Watcher) Stop() error {
	w.cancel()
	w.wg.Wait()
	return w.fsw.Close()
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}

	// A created directory needs its own watch before anything inside it
	// can be seen.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.walk.IgnoredDir(rel) {
				return
			}
			if err := w.fsw.Add(event.Name); err != nil {
				logger.Warn("watch new directory %s: %v", event.Name, err)
			}
			return
		}
	}

	if !w.walk.Wants(rel) {
		return
	}

	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.mu.Lock()
		w.pending[event.Name] = struct{}{}
		w.mu.Unlock()
	}
}

func (w *Watcher) debounceLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			w.flush()
		}
	}
}

// flush classifies the pending paths by what exists on disk now and hands
// them to the callbacks. A path seen as both written and renamed within one
// window resolves to whichever state the filesystem is in at flush time.
func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	var changed, removed []string
	for _, path := range paths {
		info, err := os.Stat(path)
		switch {
		case err == nil && info.Mode().IsRegular():
			if info.Size() > w.walk.MaxFileSize() {
				continue
			}
			changed = append(changed, path)
		case os.IsNotExist(err):
			removed = append(removed, path)
		}
	}
	sort.Strings(changed)
	sort.Strings(removed)

	if len(changed) > 0 && w.onChange != nil {
		logger.Debug("watcher: %d changed", len(changed))
		w.onChange(changed)
	}
	if len(removed) > 0 && w.onRemove != nil {
		logger.Debug("watcher: %d removed", len(removed))
		w.onRemove(removed)
	}
}
