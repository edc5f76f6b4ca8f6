package registry

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/racegate/internal/domain/model"
	"github.com/okian/racegate/pkg/logger"
)

// Watch reloads the registry whenever its file changes and hands the new
// descriptor list to onChange. A reload that fails keeps the previous
// list in effect. Call the returned stop function to clean up.
//
// The watch covers the file's parent directory, not the path itself:
// editors and atomic saves replace the file by rename, which would
// silently detach a watch held on the old inode.
func Watch(ctx context.Context, path string, onChange func([]model.EventDescriptor)) (stop func(), err error) {
	log := logger.Get().Named("registry")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("registry watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("registry watcher add %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				events, err := Load(ctx, path)
				if err != nil {
					log.Warn(ctx, "registry reload failed, keeping previous list",
						logger.Error(err),
					)
					continue
				}
				log.Info(ctx, "registry reloaded", logger.Int("events", len(events)))
				onChange(events)
			case <-w.Errors:
				// Watcher errors are transient; the next write still fires.
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() { close(done) }, nil
}
