package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports changes another process makes to one file-backed record.
type Watcher struct {
	path string
	fsw  *fsnotify.Watcher
	log  *zap.Logger
}

// NewWatcher starts watching the directory that holds path. Events are
// only delivered once Run is called.
func NewWatcher(path string, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	// Watch the parent: atomic writes replace the file, which drops
	// a watch held on the file itself.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	return &Watcher{path: filepath.Clean(path), fsw: fsw, log: log}, nil
}

// Run calls onChange for every create, write, remove or rename of the
// watched file until ctx is done. It closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer w.fsw.Close()
	const interesting = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&interesting == 0 {
				continue
			}
			w.log.Debug("record changed on disk", zap.String("op", ev.Op.String()))
			onChange()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}
