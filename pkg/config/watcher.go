package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval is the time the watcher waits after a change
// before reloading, so editors that write in several steps trigger one
// reload instead of a storm.
const DefaultDebounceInterval = 100 * time.Millisecond

// Watcher watches one serialized configuration file and patches a
// registry's shared instance whenever the file changes. The patch follows
// the same unconditional-overwrite semantics as Registry.GetOrCreate; the
// core resolution pipeline never constructs a Watcher on its own.
type Watcher struct {
	path     string
	registry *Registry
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for the configuration file at path, feeding
// patches into registry.
func NewWatcher(path string, registry *Registry) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("resolve config path %q: %w", path, err)
	}

	return &Watcher{
		path:     abs,
		registry: registry,
		watcher:  fsw,
		debounce: DefaultDebounceInterval,
		logger:   slog.Default().With("component", "config.watcher"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. The parent directory is watched rather than the
// file itself so atomic-rename writes keep being observed.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %q: %w", filepath.Dir(w.path), err)
	}
	w.running = true

	go w.loop()
	w.logger.Info("watching config file", "path", w.path)
	return nil
}

// Stop halts watching and waits for the event loop to exit. Safe to call
// once after a successful Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	w.watcher.Close()
	<-w.doneCh
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(w.debounce)
		case <-pending:
			pending = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "error", err)
		case <-w.stopCh:
			return
		}
	}
}

// reload re-reads the file and patches the shared instance. The file is a
// patch, not a full configuration, so it is only parsed, never re-validated.
// Errors are logged, never fatal: a half-written or malformed file leaves
// the current configuration untouched. An empty registry is skipped rather
// than constructed from the patch file.
func (w *Watcher) reload() {
	if w.registry.Get() == nil {
		w.logger.Warn("no shared configuration to patch, skipping reload", "path", w.path)
		return
	}
	overrides, err := ReadMapping(w.path)
	if err != nil {
		w.logger.Error("config reload failed", "path", w.path, "error", err)
		return
	}
	if _, err := w.registry.GetOrCreate(overrides); err != nil {
		w.logger.Error("config patch failed", "path", w.path, "error", err)
		return
	}
	w.logger.Info("config file reloaded", "path", w.path, "keys", len(overrides))
}
