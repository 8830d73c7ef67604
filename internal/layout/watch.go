package layout

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a single file. It watches the parent directory
// so writes done by create-then-rename are seen. Poll never blocks.
type Watcher struct {
	fs   *fsnotify.Watcher
	name string
}

func WatchFile(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &Watcher{fs: fw, name: abs}, nil
}

// Poll drains pending events and reports whether the file was written,
// created or renamed since the last call. The first watcher error stops the
// drain and is returned.
func (w *Watcher) Poll() (bool, error) {
	changed := false
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return changed, nil
			}
			if filepath.Clean(ev.Name) != w.name {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				changed = true
			}
		case err, ok := <-w.fs.Errors:
			if ok && err != nil {
				return changed, fmt.Errorf("watch %s: %w", w.name, err)
			}
		default:
			return changed, nil
		}
	}
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}
