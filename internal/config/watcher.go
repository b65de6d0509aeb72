package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ottworks/streamserve/internal/logger"
)

// FileWatcher reloads configuration when the config file changes on disk.
type FileWatcher struct {
	manager  *ConfigManager
	path     string
	watcher  *fsnotify.Watcher
	cancel   context.CancelFunc
	debounce time.Duration
}

// WatchFile starts watching the given config file for changes. Editors often
// replace files on save, so the parent directory is watched and events are
// filtered by name.
func WatchFile(manager *ConfigManager, path string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	fw := &FileWatcher{
		manager:  manager,
		path:     path,
		watcher:  watcher,
		cancel:   cancel,
		debounce: 500 * time.Millisecond,
	}

	go fw.run(ctx)
	return fw, nil
}

// Stop stops watching and releases the underlying watcher.
func (fw *FileWatcher) Stop() {
	fw.cancel()
	fw.watcher.Close()
}

func (fw *FileWatcher) run(ctx context.Context) {
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(fw.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce rapid successive writes from the same save
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(fw.debounce, func() {
				if err := fw.manager.LoadConfig(fw.path); err != nil {
					logger.Error("config reload failed for %s: %v", fw.path, err)
					return
				}
				logger.Info("configuration reloaded from %s", fw.path)
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher error: %v", err)
		}
	}
}
