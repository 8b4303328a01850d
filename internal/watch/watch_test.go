package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	calls map[string]int
	ch    chan string
}

func newRecorder() *recorder {
	return &recorder{calls: make(map[string]int), ch: make(chan string, 16)}
}

func (r *recorder) handle(path string) {
	r.mu.Lock()
	r.calls[path]++
	r.mu.Unlock()
	r.ch <- path
}

func (r *recorder) wait(t *testing.T) string {
	t.Helper()
	select {
	case path := <-r.ch:
		return path
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for change")
		return ""
	}
}

func startWatcher(t *testing.T, rec *recorder, paths ...string) {
	t.Helper()
	w, err := New(rec.handle, Options{Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := w.Add(paths...); err != nil {
		t.Fatalf("add: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})
}

func TestWatchDirectoryDebounces(t *testing.T) {
	dir, err := filepath.Abs(t.TempDir())
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	rec := newRecorder()
	startWatcher(t, rec, dir)

	doc := filepath.Join(dir, "tree.json")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(doc, []byte(`{"body": []}`), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	// non-documents never fire
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if got := rec.wait(t); got != doc {
		t.Fatalf("changed path = %q, want %q", got, doc)
	}
	time.Sleep(200 * time.Millisecond)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.calls[doc] != 1 {
		t.Fatalf("burst of writes should fire once, fired %d", rec.calls[doc])
	}
	if len(rec.calls) != 1 {
		t.Fatalf("unexpected calls: %v", rec.calls)
	}
}

func TestWatchExplicitFile(t *testing.T) {
	dir, err := filepath.Abs(t.TempDir())
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	doc := filepath.Join(dir, "tree.yaml")
	other := filepath.Join(dir, "other.yaml")
	for _, p := range []string{doc, other} {
		if err := os.WriteFile(p, []byte("body: []\n"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	rec := newRecorder()
	startWatcher(t, rec, doc)

	if err := os.WriteFile(other, []byte("body: []\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(doc, []byte("body: []\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := rec.wait(t); got != doc {
		t.Fatalf("changed path = %q, want %q", got, doc)
	}
}

func TestAddRejectsNonDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := New(func(string) {}, Options{})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()
	if err := w.Add(path); err == nil {
		t.Fatalf("expected error for non-document file")
	}
}

func (r *recorder) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		n += c
	}
	return n
}

func (w *Watcher) pendingTimer(path string) (*time.Timer, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.pending[path]
	return t, ok
}

func TestLateTimerDoesNotDropNewerEvent(t *testing.T) {
	rec := newRecorder()
	w, err := New(rec.handle, Options{Debounce: time.Hour})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	const path = "/docs/a.json"
	w.schedule(path)
	first, _ := w.pendingTimer(path)
	w.schedule(path)

	// the first timer fired just before the second event replaced it
	w.fire(path, first)

	current, ok := w.pendingTimer(path)
	if !ok || current == first {
		t.Fatalf("newer timer lost from pending")
	}
	if n := rec.total(); n != 0 {
		t.Fatalf("superseded timer ran the handler %d times", n)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, ok := w.pendingTimer(path); ok {
		t.Fatalf("Close left a pending timer")
	}
	w.fire(path, current)
	if n := rec.total(); n != 0 {
		t.Fatalf("handler ran after Close")
	}
}

func TestScheduleAfterCloseIsIgnored(t *testing.T) {
	rec := newRecorder()
	w, err := New(rec.handle, Options{Debounce: time.Millisecond})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	w.schedule("/docs/a.json")
	if _, ok := w.pendingTimer("/docs/a.json"); ok {
		t.Fatalf("closed watcher armed a timer")
	}
	time.Sleep(20 * time.Millisecond)
	if n := rec.total(); n != 0 {
		t.Fatalf("handler ran after Close")
	}
}
