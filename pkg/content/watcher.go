package content

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceInterval is how long the watcher waits after the last event
// before notifying, preventing reload storms during editor save bursts.
const debounceInterval = 100 * time.Millisecond

// watcher wraps fsnotify with recursive directory registration and
// debouncing. Hidden directories and node_modules are skipped.
type watcher struct {
	fsw *fsnotify.Watcher
}

func newWatcher(root string) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &watcher{fsw: fsw}
	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTree registers root and every watchable subdirectory.
func (w *watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if skipDir(d.Name()) && path != root {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// run delivers debounced change notifications until done is closed.
// Newly created directories are added to the watch set on the fly.
func (w *watcher) run(done <-chan struct{}, notify func(path string), onError func(error)) error {
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
		pending string
	)

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDir(filepath.Base(event.Name)) {
					_ = w.fsw.Add(event.Name)
				}
			}
			pending = event.Name
			if timer == nil {
				timer = time.NewTimer(debounceInterval)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceInterval)
			}

		case <-timerCh:
			notify(pending)
			timer, timerCh = nil, nil

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			onError(err)

		case <-done:
			return nil
		}
	}
}

func (w *watcher) close() error {
	return w.fsw.Close()
}

func skipDir(name string) bool {
	return name == "node_modules" || strings.HasPrefix(name, ".")
}
