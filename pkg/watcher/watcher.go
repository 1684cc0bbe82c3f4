// Package watcher re-runs the slicing pipeline when the model or the
// printer profile changes on disk.
package watcher

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches input files and triggers a callback when one of
// them is rewritten. Rapid successive writes, as editors and CAD
// exporters produce them, are debounced into a single trigger.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	watched  map[string]func(string)
	debounce time.Duration
	timers   map[string]*time.Timer
}

// New creates a file watcher with the given debounce interval.
func New(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	return &FileWatcher{
		watcher:  w,
		watched:  make(map[string]func(string)),
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Watch registers files; callback is invoked with the changed path.
func (fw *FileWatcher) Watch(files []string, callback func(string)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", file, err)
		}
		if err := fw.watcher.Add(abs); err != nil {
			return fmt.Errorf("watching %s: %w", abs, err)
		}
		fw.watched[abs] = callback
	}
	return nil
}

// Start consumes change events until the watcher is closed.
func (fw *FileWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					fw.fileChanged(event.Name)
				}
			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				log.Printf("watcher: %v", err)
			}
		}
	}()
}

func (fw *FileWatcher) fileChanged(path string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	callback, ok := fw.watched[path]
	if !ok {
		return
	}
	if timer, ok := fw.timers[path]; ok {
		timer.Stop()
	}
	fw.timers[path] = time.AfterFunc(fw.debounce, func() {
		callback(path)
	})
}

// Close stops the watcher.
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
