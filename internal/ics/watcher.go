package ics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the burst of fsnotify events an editor or
// downloader produces while rewriting a feed file.
const debounceWindow = 100 * time.Millisecond

// Watcher reloads feed files when they change on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	onChange func(path string)
	mu       sync.RWMutex
	done     chan struct{}
}

// NewWatcher starts a watcher that invokes onChange with the path of
// each changed feed, debounced.
func NewWatcher(onChange func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		files:    make(map[string]struct{}),
		onChange: onChange,
		done:     make(chan struct{}),
	}

	go w.run()
	return w, nil
}

// AddFeed starts watching a feed file. Adding a feed twice is a no-op.
func (w *Watcher) AddFeed(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.files[absPath]; exists {
		return nil
	}

	if err := w.watcher.Add(absPath); err != nil {
		return err
	}

	w.files[absPath] = struct{}{}
	return nil
}

func (w *Watcher) run() {
	debounce := make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if timer, exists := debounce[event.Name]; exists {
				timer.Stop()
			}
			debounce[event.Name] = time.AfterFunc(debounceWindow, func() {
				w.fire(event.Name)
			})

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Keep watching; a transient error on one file must not
			// stop reloads for the others.

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) fire(path string) {
	w.mu.RLock()
	_, watching := w.files[path]
	w.mu.RUnlock()

	if watching && w.onChange != nil {
		w.onChange(path)
	}
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
