// Package watcher watches the corpus path and triggers a full index
// rebuild when its contents change. Rebuilds are whole-pipeline batch
// runs, not incremental updates; the debounce collapses bursts of file
// events into one rebuild.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 2 * time.Second

// Watcher watches a corpus root and invokes a rebuild callback on changes.
type Watcher struct {
	root       string
	onRebuild  func()
	debounce   time.Duration
	extensions []string
	watcher    *fsnotify.Watcher
	mu         sync.Mutex
	timer      *time.Timer
	stopOnce   sync.Once
	logger     *zap.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce overrides the rebuild debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithExtensions restricts rebuild triggers to files with the given
// extensions. Events on paths without an extension (directories) still
// trigger. Empty means every file triggers.
func WithExtensions(exts []string) Option {
	return func(w *Watcher) { w.extensions = exts }
}

// NewWatcher creates a watcher over root. onRebuild is called after the
// debounce interval whenever files under root change.
func NewWatcher(root string, onRebuild func(), opts ...Option) *Watcher {
	w := &Watcher{
		root:      root,
		onRebuild: onRebuild,
		debounce:  defaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. Watching stops when ctx is cancelled or Stop is
// called. Subdirectories are watched recursively; directories created
// later are added as they appear.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = fsw

	if err := w.addRecursive(w.root); err != nil {
		_ = fsw.Close()
		return err
	}

	go func() {
		defer w.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				w.handleEvent(event)
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				if w.logger != nil {
					w.logger.Warn("watch error", zap.Error(err))
				}
			}
		}
	}()
	return nil
}

// Stop stops watching and releases resources.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		if w.watcher != nil {
			_ = w.watcher.Close()
		}
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if w.logger != nil {
		w.logger.Debug("corpus event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
	}
	// New directories need their own watch before their files produce events.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
		}
	}
	if !w.wantsPath(event.Name) {
		return
	}
	w.scheduleRebuild()
}

// wantsPath reports whether a change at name is a corpus change. Paths
// with an extension outside the configured set (editor temp files, a
// colocated database) are ignored; extension-less paths pass because
// directory events carry no extension.
func (w *Watcher) wantsPath(name string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return true
	}
	for _, want := range w.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// scheduleRebuild resets the debounce timer so a burst of events yields
// one rebuild after things settle.
func (w *Watcher) scheduleRebuild() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onRebuild)
}

func (w *Watcher) addRecursive(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.watcher.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}
