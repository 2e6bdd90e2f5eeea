// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const clearScreen = "\033[2J\033[H"

var (
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("watcher already running")
	// ErrWatcherClosed is returned when fsnotify closes its channels under us.
	ErrWatcherClosed = errors.New("fsnotify watcher closed")
)

// Watcher dispatches debounced change batches to Config.OnChange.
type Watcher struct {
	root     string
	match    matcher
	debounce time.Duration
	clear    bool
	onChange ChangeFunc
	stdout   io.Writer
	logger   *log.Logger
	fsw      *fsnotify.Watcher
	started  atomic.Bool

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	busy    atomic.Bool
}

// New validates cfg and registers every non-ignored directory under the root.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	root := cfg.Root
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve watch root: %w", err)
	}

	w := &Watcher{
		root:     root,
		match:    newMatcher(cfg.Patterns, cfg.Ignore),
		debounce: cfg.Debounce,
		clear:    cfg.ClearScreen,
		onChange: cfg.OnChange,
		stdout:   cfg.Stdout,
		logger:   cfg.Logger,
		pending:  make(map[string]struct{}),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.stdout == nil {
		w.stdout = os.Stdout
	}
	if w.logger == nil {
		w.logger = log.NewWithOptions(io.Discard, log.Options{Prefix: "watch"})
	}

	w.fsw, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := w.addTree(root); err != nil {
		_ = w.fsw.Close()
		return nil, err
	}
	return w, nil
}

// Root returns the absolute directory being watched.
func (w *Watcher) Root() string { return w.root }

// Run processes events until ctx is done. It returns nil on cancellation and
// an error when the underlying watcher fails for good.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer w.shutdown()

	w.logger.Info("watching for changes", "root", w.root)
	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return ErrWatcherClosed
			}
			w.handle(ctx, evt)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("fsnotify: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, evt fsnotify.Event) {
	rel, err := filepath.Rel(w.root, evt.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	if evt.Has(fsnotify.Create) {
		w.addIfDir(evt.Name, rel)
	}
	if !w.match.selected(rel) {
		return
	}
	w.logger.Debug("change", "path", rel, "op", evt.Op.String())

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[rel] = struct{}{}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, func() { w.fire(ctx) })
		return
	}
	w.timer.Reset(w.debounce)
}

// fire hands the pending batch to OnChange. Only one batch runs at a time; a
// batch that arrives while busy is rescheduled rather than dropped.
func (w *Watcher) fire(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !w.busy.CompareAndSwap(false, true) {
		w.logger.Debug("previous run still in progress, deferring")
		w.mu.Lock()
		w.timer.Reset(w.debounce)
		w.mu.Unlock()
		return
	}
	defer w.busy.Store(false)

	w.mu.Lock()
	changed := slices.Sorted(maps.Keys(w.pending))
	clear(w.pending)
	w.mu.Unlock()
	if len(changed) == 0 {
		return
	}

	if w.clear {
		fmt.Fprint(w.stdout, clearScreen)
	}
	if w.onChange == nil {
		return
	}
	if err := w.onChange(ctx, changed); err != nil {
		w.logger.Error("change handler failed", "err", err)
	}
}

func (w *Watcher) shutdown() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	if err := w.fsw.Close(); err != nil {
		w.logger.Warn("close fsnotify watcher", "err", err)
	}
}

// addTree registers dir and every non-ignored directory below it.
// Unreadable directories are skipped with a warning.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("skipping unreadable path", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil
		}
		if rel != "." && w.match.ignored(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch %s: %w", path, addErr)
		}
		return nil
	})
}

func (w *Watcher) addIfDir(path, rel string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.match.ignored(rel) {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn("cannot watch new directory", "path", rel, "err", err)
	}
}
