// Package watch re-runs lowering when tree documents change on disk.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"lowerer/internal/treedoc"
)

// DefaultDebounce is how long a file must stay quiet before its handler runs.
const DefaultDebounce = 100 * time.Millisecond

// Handler receives the path of a changed document. Calls are serialized.
type Handler func(path string)

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	OnError  func(error)
}

// Watcher monitors documents and directories of documents.
type Watcher struct {
	fs       *fsnotify.Watcher
	handle   Handler
	debounce time.Duration
	onError  func(error)

	mu      sync.Mutex
	files   map[string]struct{} // explicitly watched documents
	roots   []string            // recursively watched directories
	pending map[string]*time.Timer
	closed  bool

	handleMu sync.Mutex
}

// New creates a watcher that calls handle for each settled change.
func New(handle Handler, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.OnError == nil {
		opts.OnError = func(error) {}
	}
	return &Watcher{
		fs:       fsw,
		handle:   handle,
		debounce: opts.Debounce,
		onError:  opts.OnError,
		files:    make(map[string]struct{}),
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Add registers documents and directories. Directories are watched recursively,
// skipping hidden subdirectories; files are watched through their parent directory.
func (w *Watcher) Add(paths ...string) error {
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := w.addDirRecursive(abs); err != nil {
				return err
			}
			w.mu.Lock()
			w.roots = append(w.roots, abs)
			w.mu.Unlock()
			continue
		}
		if _, err := treedoc.FormatFromPath(abs); err != nil {
			return err
		}
		if err := w.fs.Add(filepath.Dir(abs)); err != nil {
			return err
		}
		w.mu.Lock()
		w.files[abs] = struct{}{}
		w.mu.Unlock()
	}
	return nil
}

func (w *Watcher) addDirRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

// Run processes events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.onError(err)
		}
	}
}

// Close stops watching. No handler starts after Close returns.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.stopPending()
	return w.fs.Close()
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Only handle write and create events
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	path := filepath.Clean(event.Name)

	if event.Has(fsnotify.Create) && w.underRoot(path) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addDirRecursive(path); err != nil {
				w.onError(err)
			}
			return
		}
	}
	if !w.interesting(path) {
		return
	}
	w.schedule(path)
}

// schedule (re)starts the quiet period for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	// the callback blocks on w.mu until t is stored
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() { w.fire(path, t) })
	w.pending[path] = t
}

// fire runs the handler for path unless t was replaced by a newer event or cancelled
// by Close while waiting for the lock.
func (w *Watcher) fire(path string, t *time.Timer) {
	w.mu.Lock()
	if w.pending[path] != t {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	w.mu.Unlock()

	w.handleMu.Lock()
	defer w.handleMu.Unlock()
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if !closed {
		w.handle(path)
	}
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) interesting(path string) bool {
	w.mu.Lock()
	_, explicit := w.files[path]
	w.mu.Unlock()
	if explicit {
		return true
	}
	return treedoc.IsDocumentPath(path) && w.underRoot(path)
}

func (w *Watcher) underRoot(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
