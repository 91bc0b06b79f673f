package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shibukawa/parsec/casefile"
)

// ErrWatcherRunning is returned when Watch is called twice concurrently.
var ErrWatcherRunning = errors.New("watcher already running")

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to case files. Files are watched through their
// parent directory so editors that replace files on save keep working.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce *debouncer

	// files holds explicitly named files; directories match any case file.
	files map[string]bool
	dirs  []string

	mu      sync.Mutex
	running bool
}

// NewWatcher starts watching paths, which may be case files or directories.
func NewWatcher(paths []string, interval time.Duration, logger *slog.Logger) (*Watcher, error) {
	if interval <= 0 {
		interval = DefaultDebounce
	}

	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fsw,
		logger:   logger,
		debounce: newDebouncer(interval),
		files:    make(map[string]bool),
	}

	for _, p := range paths {
		if err := w.addPath(p); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	return w, nil
}

// Watch blocks until ctx is cancelled, calling onChange once per burst of
// relevant file events. Errors from onChange are logged and watching goes on.
func (w *Watcher) Watch(ctx context.Context, onChange func() error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return ErrWatcherRunning
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	w.logger.Info("watching case files", "files", len(w.files), "dirs", len(w.dirs))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("case file watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}

			if !w.relevant(event) {
				continue
			}

			w.logger.Debug("case file event", "path", event.Name, "op", event.Op.String())

			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && w.underWatchedDir(event.Name) {
					if err := w.addDirectory(event.Name); err != nil {
						w.logger.Error("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}

			w.debounce.trigger(func() {
				w.logger.Info("case files changed", "path", event.Name)

				if err := onChange(); err != nil {
					w.logger.Error("case run failed", "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}

			w.logger.Error("case file watcher error", "error", err)
		}
	}
}

// Close drops pending callbacks, waits for a running one and releases the
// fsnotify watcher.
func (w *Watcher) Close() error {
	w.debounce.stop()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	return nil
}

func (w *Watcher) addPath(path string) error {
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		w.dirs = append(w.dirs, path)
		return w.addDirectory(path)
	}

	w.files[path] = true

	return w.watcher.Add(filepath.Dir(path))
}

func (w *Watcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}

		w.logger.Debug("watching directory", "path", path)

		return nil
	})
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	name := filepath.Clean(event.Name)
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}

	if w.files[name] {
		return true
	}

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			return w.underWatchedDir(name)
		}
	}

	return casefile.IsCaseFile(name) && w.underWatchedDir(name)
}

func (w *Watcher) underWatchedDir(path string) bool {
	for _, dir := range w.dirs {
		rel, err := filepath.Rel(dir, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

// debouncer runs the most recent callback once events stop arriving for
// interval. Callbacks run one at a time: a callback triggered while another
// is running waits for it to finish.
type debouncer struct {
	interval time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopped  bool

	run      sync.Mutex
	inflight sync.WaitGroup
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *debouncer) fire() {
	d.mu.Lock()

	cb := d.callback
	if cb == nil || d.stopped {
		d.mu.Unlock()
		return
	}

	d.callback = nil
	d.inflight.Add(1)
	d.mu.Unlock()

	defer d.inflight.Done()

	d.run.Lock()
	defer d.run.Unlock()

	d.mu.Lock()
	stopped := d.stopped
	d.mu.Unlock()

	if !stopped {
		cb()
	}
}

// stop cancels the pending callback and waits for a running one to return.
func (d *debouncer) stop() {
	d.mu.Lock()

	d.stopped = true

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	d.callback = nil
	d.mu.Unlock()

	d.inflight.Wait()
}
