package content

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must be quiet before onChange fires.
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls onChange after markdown files in a directory are created,
// written, renamed or removed. Bursts of events on the same file are
// collapsed into one call.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(path string)

	mu       sync.Mutex
	timers   map[string]*time.Timer
	inflight sync.WaitGroup
	done     chan struct{}
}

// NewWatcher starts watching dir. Call Close to stop.
func NewWatcher(dir string, debounce time.Duration, onChange func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		watcher:  fw,
		debounce: debounce,
		onChange: onChange,
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("content watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !strings.EqualFold(filepath.Ext(event.Name), ".md") {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	path := event.Name
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		// A newer event replaced this timer, or Close already ran.
		if w.timers[path] != timer {
			w.mu.Unlock()
			return
		}
		delete(w.timers, path)
		w.inflight.Add(1)
		w.mu.Unlock()
		defer w.inflight.Done()

		slog.Debug("content changed", "file", path, "op", event.Op.String())
		w.onChange(path)
	})
	w.timers[path] = timer
}

// Close stops the watcher and any pending callbacks. It waits for a
// callback that is already running, so onChange never runs after Close
// returns.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done

	w.mu.Lock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()
	w.inflight.Wait()
	return err
}
