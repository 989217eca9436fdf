package config

import (
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last write before
// reloading.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a config file when it changes on disk and hands each
// valid result to a callback.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	onChange func(*Config)

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher creates a watcher for path. Nothing is watched until Start.
func NewWatcher(path string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		logger:   logger,
	}
}

// SetDebounce changes the quiet period before a reload.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// OnChange sets the callback invoked with each reloaded config. The callback
// runs on the watcher goroutine; hosts must hop to their UI thread.
func (w *Watcher) OnChange(callback func(*Config)) {
	w.onChange = callback
}

// Start begins watching in a background goroutine. The parent directory is
// watched so editors that replace the file by rename are seen.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return err
	}
	w.watcher = fw
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	go w.watchLoop()
	return nil
}

// Stop ends the watcher goroutine and waits for it.
func (w *Watcher) Stop() {
	if w.watcher == nil {
		return
	}
	w.once.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
	})
	<-w.done
}

func (w *Watcher) watchLoop() {
	defer close(w.done)

	debounce := time.NewTimer(w.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounce.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		case <-debounce.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Error("config reload failed", "path", w.path, "error", err)
		return
	}
	w.logger.Info("config reloaded", "path", w.path)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
