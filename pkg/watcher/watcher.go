// Package watcher reports changes to the dashboard's input files so the
// dataset can be reloaded while the TUI is running.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/sentiboard/pkg/debug"
)

// DefaultPollInterval is the polling interval for fallback mode.
const DefaultPollInterval = 2 * time.Second

// Common errors.
var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
	ErrNoPaths        = errors.New("no files to watch")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) { w.debounceDuration = d }
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithOnChange sets the callback invoked after a debounced change.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) { w.onChange = fn }
}

// WithOnError sets the callback invoked on errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// WithForcePoll forces polling mode even if fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

type fileState struct {
	mtime time.Time
	size  int64
}

// Watcher monitors a set of files using fsnotify with a polling fallback.
// Changes to any file are coalesced into one notification.
type Watcher struct {
	paths            []string
	debounceDuration time.Duration
	pollInterval     time.Duration
	onChange         func()
	onError          func(error)
	forcePoll        bool

	fsWatcher   *fsnotify.Watcher
	debouncer   *Debouncer
	useFallback bool
	states      map[string]fileState

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
}

// New creates a watcher for paths.
func New(paths []string, opts ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		abs = append(abs, a)
	}

	w := &Watcher{
		paths:            abs,
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onChange:         func() {},
		onError:          func(error) {},
		states:           make(map[string]fileState, len(abs)),
		changeCh:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounceDuration)
	return w, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.useFallback = w.forcePoll || envBool("SENTIBOARD_FORCE_POLL")

	for _, p := range w.paths {
		info, err := os.Stat(p)
		switch {
		case err == nil:
			w.states[p] = fileState{mtime: info.ModTime(), size: info.Size()}
		case os.IsPermission(err):
			cancel()
			return ErrPermission
		default:
			w.states[p] = fileState{}
		}
	}

	if !w.useFallback {
		if fsw, err := w.newFSWatcher(); err == nil {
			w.fsWatcher = fsw
			w.wg.Add(1)
			go w.watchFsnotify(ctx, fsw)
		} else {
			debug.Log("fsnotify unavailable, polling: %v", err)
			w.useFallback = true
		}
	}
	if w.useFallback {
		w.wg.Add(1)
		go w.watchPolling(ctx)
	}

	w.started = true
	return nil
}

// newFSWatcher watches the parent directories, which survives the
// write-to-temp-then-rename pattern.
func (w *Watcher) newFSWatcher() (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dirs := make(map[string]bool)
	for _, p := range w.paths {
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return fsw, nil
}

// Stop stops watching and waits for the watch goroutine to exit.
// The change channel stays open; WatchCmd callers are torn down with the
// program.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.cancel()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	w.debouncer.Cancel()
	w.started = false
	w.mu.Unlock()

	w.wg.Wait()
}

// IsPolling returns true if the watcher is using polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.useFallback
}

// IsStarted returns true if the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed returns a channel that receives after each debounced change.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Paths returns the watched file paths.
func (w *Watcher) Paths() []string {
	return append([]string(nil), w.paths...)
}

func (w *Watcher) watched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	for _, p := range w.paths {
		if p == abs {
			return true
		}
	}
	return false
}

func (w *Watcher) watchFsnotify(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.watched(event.Name) {
				continue
			}
			switch {
			case event.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.debouncer.Trigger(w.notifyChange)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) watchPolling(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.poll() {
				w.debouncer.Trigger(w.notifyChange)
			}
		}
	}
}

// poll stats every path and reports whether any changed.
func (w *Watcher) poll() bool {
	changed := false
	for _, p := range w.paths {
		info, err := os.Stat(p)
		if err != nil {
			w.mu.RLock()
			hadFile := !w.states[p].mtime.IsZero()
			w.mu.RUnlock()
			switch {
			case os.IsNotExist(err):
				if hadFile {
					w.onError(ErrFileRemoved)
				}
			case os.IsPermission(err):
				w.onError(ErrPermission)
			default:
				w.onError(err)
			}
			continue
		}

		w.mu.Lock()
		prev := w.states[p]
		if info.ModTime().After(prev.mtime) || info.Size() != prev.size {
			w.states[p] = fileState{mtime: info.ModTime(), size: info.Size()}
			changed = true
		}
		w.mu.Unlock()
	}
	return changed
}

func (w *Watcher) notifyChange() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()
	if !started {
		return
	}

	w.onChange()

	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
