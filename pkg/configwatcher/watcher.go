package configwatcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/thisisniagahub/quran-agent/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch blocks watching path and invokes reload after writes settle.
// Used to hot-reload the lesson content catalog without restarting a
// long analysis run.
func Watch(path string, reload func(path string) error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Log.Error("Failed to create catalog watcher", zap.Error(err))
		return
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		logger.Log.Error("Failed to resolve catalog path", zap.Error(err))
		return
	}

	if err := watcher.Add(absPath); err != nil {
		logger.Log.Error("Failed to watch catalog file", zap.String("path", absPath), zap.Error(err))
		return
	}

	var mu sync.Mutex
	timer := time.NewTimer(0)
	<-timer.C

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				// debounce rapid successive writes
				mu.Lock()
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(1 * time.Second)
				mu.Unlock()
			}
		case <-timer.C:
			if err := reload(absPath); err != nil {
				logger.Log.Error("Failed to reload lesson catalog", zap.Error(err))
				continue
			}
			logger.Log.Info("Lesson catalog reloaded", zap.String("path", absPath))
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Error("Catalog watcher error", zap.Error(err))
		}
	}
}
