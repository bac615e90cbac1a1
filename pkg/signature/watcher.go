package signature

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/devicelab-dev/screengraph/pkg/logger"
)

// Watcher reloads a signature directory into a store whenever authoring
// files change. Each reload goes through Store.Register, so a half-written
// collection is never observed: the previous collection stays live until
// the replacement parses cleanly.
type Watcher struct {
	store *Store
	dir   string
	fsw   *fsnotify.Watcher
	done  chan struct{}
}

// NewWatcher creates a watcher over a signature directory. The directory
// is loaded once before watching starts.
func NewWatcher(store *Store, dir string) (*Watcher, error) {
	if err := LoadDir(dir, store); err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{store: store, dir: dir, fsw: fsw, done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !isSignatureFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Info("signature change detected: %s, reloading %s", event.Name, w.dir)
			if err := LoadDir(w.dir, w.store); err != nil {
				logger.Error("signature reload failed: %v", err)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("signature watcher error: %v", err)
		}
	}
}

func isSignatureFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// Close stops watching. The store keeps its last loaded collections.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
