// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches a catalog directory, filters events down to catalog files matching an
// include glob, and debounces rapid events (editors often trigger multiple writes per save).
package fsnotify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

const debounceInterval = 50 * time.Millisecond

// Editor and OS droppings that never count as catalog changes.
var ignoreSuffixes = []string{"~", ".swp", ".swx", ".tmp", ".DS_Store"}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	include glob.Glob
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
}

// NewWatcher creates a catalog watcher. include is matched against file base
// names; empty means "*.yaml".
func NewWatcher(include string) (*Watcher, error) {
	if include == "" {
		include = "*.yaml"
	}
	g, err := glob.Compile(include)
	if err != nil {
		return nil, fmt.Errorf("include glob %q: %w", include, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:      fw,
		include: g,
		done:    make(chan struct{}),
	}, nil
}

// Watch starts monitoring dir. Catalogs are flat, so subdirectories are not
// followed. onChange is called with the absolute path of each changed file.
func (w *Watcher) Watch(dir string, onChange func(path string)) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", absPath)
	}
	if err := w.fw.Add(absPath); err != nil {
		return err
	}

	// Debounce state: track last event time per file
	debounce := make(map[string]time.Time)

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := event.Name
				if !w.relevant(path) {
					continue
				}

				now := time.Now()
				if last, seen := debounce[path]; seen && now.Sub(last) < debounceInterval {
					continue
				}
				debounce[path] = now

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					onChange(path)
				}

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// fsnotify recovers on its own; the next event resyncs.

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

// relevant reports whether path names a catalog file.
func (w *Watcher) relevant(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	for _, s := range ignoreSuffixes {
		if strings.HasSuffix(base, s) {
			return false
		}
	}
	return w.include.Match(base)
}
