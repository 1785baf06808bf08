package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch loads the profile at path and reloads it whenever the file changes,
// sending each successfully loaded profile on the returned channel. The
// current profile is sent immediately, so receivers always get one value.
// Reload failures are logged and skipped; the last good profile stays in
// effect. The channel is closed when ctx is cancelled.
//
// The watch is on the file's directory rather than the file itself, so
// editors that replace the file on save keep being picked up.
func Watch(ctx context.Context, path string) (<-chan Profile, error) {
	profile, err := Load(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch config dir: %w", err)
	}

	ch := make(chan Profile, 1)
	ch <- profile

	go func() {
		defer close(ch)
		defer watcher.Close()

		baseName := filepath.Base(path)
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != baseName {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}

				reloaded, err := Load(path)
				if err != nil {
					slog.Warn("config reload failed, keeping previous profile",
						slog.String("path", path),
						slog.Any("error", err))
					continue
				}

				select {
				case ch <- reloaded:
				case <-ctx.Done():
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("config watcher error", slog.Any("error", err))
			}
		}
	}()

	return ch, nil
}
