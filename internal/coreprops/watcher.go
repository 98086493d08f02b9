package coreprops

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is the stat interval used when fsnotify is unavailable.
const DefaultPollInterval = 5 * time.Second

// ///////////////////////////////////////////////
// Watcher
// ///////////////////////////////////////////////

// Watcher follows the discovery file and reports address changes. It watches
// the parent directory because the engine replaces the file on restart.
type Watcher struct {
	// path is the coreProps.json being followed.
	path string
	// addresses delivers each new engine address. Buffered to 1; a pending
	// address is replaced by a newer one.
	addresses chan string
	done      chan struct{}
	fsw       *fsnotify.Watcher
	once      sync.Once
	polling   atomic.Bool

	pollInterval time.Duration

	mu   sync.Mutex
	last string
}

// WatcherOption configures a [Watcher].
type WatcherOption func(*Watcher)

// WithPollInterval overrides [DefaultPollInterval].
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithForcePolling skips fsnotify entirely.
func WithForcePolling() WatcherOption {
	return func(w *Watcher) { w.polling.Store(true) }
}

// NewWatcher starts following path. current is the address already in use;
// only addresses different from it are reported.
func NewWatcher(path, current string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		path:         path,
		addresses:    make(chan string, 1),
		done:         make(chan struct{}),
		pollInterval: DefaultPollInterval,
		last:         current,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", w.pollInterval)
	}

	if w.polling.Load() {
		go w.poll(w.modTime())
		return w, nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Info("fsnotify unavailable, falling back to polling", "error", err)
		w.polling.Store(true)
		go w.poll(w.modTime())
		return w, nil
	}

	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		slog.Info("cannot watch engine directory, falling back to polling", "path", dir, "error", err)
		fsw.Close()
		w.polling.Store(true)
		go w.poll(w.modTime())
		return w, nil
	}

	w.fsw = fsw
	go w.watch()
	return w, nil
}

// Addresses returns the channel of new engine addresses.
func (w *Watcher) Addresses() <-chan string {
	return w.addresses
}

// Polling reports whether the watcher is using polling instead of fsnotify.
func (w *Watcher) Polling() bool {
	return w.polling.Load()
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		if w.fsw != nil {
			if closeErr := w.fsw.Close(); closeErr != nil {
				err = fmt.Errorf("closing fsnotify watcher: %w", closeErr)
			}
		}
	})
	return err
}

func (w *Watcher) watch() {
	name := filepath.Base(w.path)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.check()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Info("fsnotify error, switching to polling", "error", err)
			w.polling.Store(true)
			go w.poll(w.modTime())
			return
		}
	}
}

// modTime returns the file's modification time, or zero if it is missing.
func (w *Watcher) modTime() time.Time {
	info, err := os.Stat(w.path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// poll stats the file until Close and checks it whenever the modification
// time moves past lastMod.
func (w *Watcher) poll(lastMod time.Time) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				continue
			}
			if info.ModTime().After(lastMod) {
				lastMod = info.ModTime()
				w.check()
			}
		}
	}
}

// check re-reads the file and reports the address if it changed. A file
// caught mid-write fails to parse and is picked up by the next event.
func (w *Watcher) check() {
	p, err := Read(w.path)
	if err != nil {
		slog.Debug("coreProps not readable yet", "path", w.path, "error", err)
		return
	}

	w.mu.Lock()
	if p.Address == w.last {
		w.mu.Unlock()
		return
	}
	w.last = p.Address
	w.mu.Unlock()

	slog.Info("coreProps reports new address", "address", p.Address)
	w.publish(p.Address)
}

// publish replaces any pending address with addr.
func (w *Watcher) publish(addr string) {
	for {
		select {
		case w.addresses <- addr:
			return
		default:
		}
		select {
		case <-w.addresses:
		default:
		}
	}
}
