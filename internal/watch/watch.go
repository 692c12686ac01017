// Package watch notifies callers when a fixed set of files changes. Bursts of
// filesystem events are debounced into a single callback.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"resumematch/internal/errors"
)

// DefaultDebounce is used when a zero delay is given.
const DefaultDebounce = time.Second

type fileState struct {
	modTime time.Time
	size    int64
	exists  bool
}

// Watcher watches files and calls onChange with the files whose content
// changed since the previous callback.
type Watcher struct {
	mu sync.Mutex

	files    []string
	state    map[string]fileState
	debounce time.Duration
	onChange func(changed []string)
	logger   *errors.Logger

	fsWatcher *fsnotify.Watcher
	timer     *time.Timer
	pending   chan struct{}
	stop      chan struct{}
	done      chan struct{}
	running   bool
}

// New creates a watcher for files. Empty paths are ignored.
func New(files []string, debounce time.Duration, onChange func(changed []string), logger *errors.Logger) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("watch: onChange callback is required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		state:    make(map[string]fileState),
		debounce: debounce,
		onChange: onChange,
		logger:   errors.OrDiscard(logger),
		pending:  make(chan struct{}, 1),
	}
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %s: %w", f, err)
		}
		w.files = append(w.files, abs)
	}
	if len(w.files) == 0 {
		return nil, fmt.Errorf("watch: no files to watch")
	}
	return w, nil
}

// Files returns the absolute paths being watched.
func (w *Watcher) Files() []string {
	return append([]string(nil), w.files...)
}

// Start begins watching. The containing directories are watched too, so
// atomic replace-by-rename is noticed.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watch: already running")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	dirs := make(map[string]struct{})
	for _, f := range w.files {
		w.state[f] = stat(f)
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return fmt.Errorf("watch: add %s: %w", dir, err)
		}
	}

	w.fsWatcher = fsw
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	w.running = true
	go w.loop()

	w.logger.Info("file watcher started", "files", w.files, "debounce_delay", w.debounce)
	return nil
}

// Stop ends watching and waits for the event loop to exit. It is safe to
// call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.stop)
	if w.timer != nil {
		w.timer.Stop()
	}
	err := w.fsWatcher.Close()
	done := w.done
	w.mu.Unlock()

	<-done
	w.logger.Info("file watcher stopped")
	return err
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.schedule()
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.LogError(err, "file watcher error")
		case <-w.pending:
			if changed := w.collectChanges(); len(changed) > 0 {
				w.logger.Info("watched files changed", "files", changed)
				w.onChange(changed)
			}
		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	for _, f := range w.files {
		if name == f {
			return true
		}
	}
	return false
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.pending <- struct{}{}:
		default:
		}
	})
}

// collectChanges compares each file with its last seen state.
func (w *Watcher) collectChanges() []string {
	var changed []string
	for _, f := range w.files {
		now := stat(f)
		if now != w.state[f] {
			w.state[f] = now
			changed = append(changed, f)
		}
	}
	return changed
}

func stat(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{modTime: info.ModTime(), size: info.Size(), exists: true}
}
