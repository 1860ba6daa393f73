package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watcher monitors the config file for changes and delivers reloaded
// configurations to a callback. Editors commonly replace the file via
// rename, so the parent directory is watched rather than the file itself.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(*Config)
	onError  func(error)

	mu     sync.Mutex
	stopCh chan struct{}
	done   chan struct{}
}

// NewWatcher creates a watcher for the given config file path.
// An empty path watches the default ConfigFile().
func NewWatcher(path string) (*Watcher, error) {
	if path == "" {
		path = ConfigFile()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher: fw,
		path:    path,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

// SetChangeCallback sets the callback invoked with each successfully reloaded config
func (w *Watcher) SetChangeCallback(cb func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = cb
}

// SetErrorCallback sets the callback invoked when a reload fails
func (w *Watcher) SetErrorCallback(cb func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = cb
}

// Start begins watching for config file changes
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop shuts down the watcher and waits for the event loop to exit
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.done
	_ = w.watcher.Close()
}

func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case <-w.stopCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		}
	}
}

func (w *Watcher) reload() {
	viper.SetConfigFile(w.path)
	if err := viper.ReadInConfig(); err != nil {
		w.reportError(err)
		return
	}

	cfg, err := Load()
	if err != nil {
		w.reportError(err)
		return
	}

	w.mu.Lock()
	cb := w.onChange
	w.mu.Unlock()

	if cb != nil {
		cb(cfg)
	}
}

func (w *Watcher) reportError(err error) {
	w.mu.Lock()
	cb := w.onError
	w.mu.Unlock()

	if cb != nil {
		cb(err)
	}
}
