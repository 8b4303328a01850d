package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"lowerer/internal/diag"
	"lowerer/internal/lower"
	"lowerer/internal/observ"
	"lowerer/internal/treedoc"
)

func writeDoc(t *testing.T, path string, body ...*treedoc.Node) {
	t.Helper()
	format, err := treedoc.FormatFromPath(path)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	data, err := treedoc.Marshal(&treedoc.File{Body: body}, format)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func sum(a, b string) *treedoc.Node {
	return treedoc.Op("binaryAdd", treedoc.Leaf(a), treedoc.Leaf(b))
}

func TestLowerPathsBothModes(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, filepath.Join(dir, "b.yaml"), treedoc.Decl("x", sum("a", "b")))
	writeDoc(t, filepath.Join(dir, "a.json"), treedoc.Return(treedoc.Op("prefixNot", treedoc.Leaf("ok"))))
	writeDoc(t, filepath.Join(dir, "sub", "c.msgpack"), treedoc.Expr(treedoc.Call(treedoc.Leaf("f"), treedoc.Leaf("1"))))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	timer := observ.NewTimer()
	results, err := LowerPaths(context.Background(), []string{dir, filepath.Join(dir, "a.json")}, LowerOptions{
		Modes: []lower.Mode{lower.Concise, lower.Accurate},
		Jobs:  2,
		Timer: timer,
	})
	if err != nil {
		t.Fatalf("lower paths: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("want 3 results (deduplicated), got %d", len(results))
	}

	want := []struct {
		name     string
		concise  string
		accurate string
	}{
		{"a.json", "return (!ok)", "return (!(ok))"},
		{"b.yaml", "var x = (a + b)", "var x = (((a) + (b)))"},
		{filepath.Join("sub", "c.msgpack"), "f(1)", "f(1)"},
	}
	for i, w := range want {
		r := results[i]
		if r.Path != filepath.Join(dir, w.name) {
			t.Fatalf("result %d path = %q, want %q", i, r.Path, filepath.Join(dir, w.name))
		}
		if r.Err != nil {
			t.Fatalf("%s: %v", w.name, r.Err)
		}
		if got, _ := r.Text(lower.Concise); got != w.concise {
			t.Fatalf("%s concise: want %q, got %q", w.name, w.concise, got)
		}
		if got, _ := r.Text(lower.Accurate); got != w.accurate {
			t.Fatalf("%s accurate: want %q, got %q", w.name, w.accurate, got)
		}
	}
	if len(timer.Report().Phases) == 0 {
		t.Fatalf("timer received no phases")
	}
}

func TestLowerPathsPerFileErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	badTag := filepath.Join(dir, "tag.json")
	badDoc := filepath.Join(dir, "doc.json")
	writeDoc(t, good, treedoc.Expr(sum("a", "b")))
	writeDoc(t, badTag, treedoc.Expr(treedoc.Op("arrayAccess", treedoc.Leaf("xs"), treedoc.Leaf("0"))))
	if err := os.WriteFile(badDoc, []byte(`{"body": [{"kind": "loop"}]}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	results, err := LowerPaths(context.Background(), []string{dir}, LowerOptions{})
	if err != nil {
		t.Fatalf("lower paths: %v", err)
	}
	byPath := make(map[string]LowerResult, len(results))
	for _, r := range results {
		byPath[r.Path] = r
	}

	if r := byPath[good]; r.Err != nil || r.Texts[0] != "a + b" {
		t.Fatalf("good: %+v", r)
	}

	r := byPath[badTag]
	if !errors.Is(r.Err, lower.ErrUnknownOperation) {
		t.Fatalf("concise arrayAccess: want ErrUnknownOperation, got %v", r.Err)
	}
	if r.Texts != nil {
		t.Fatalf("failed result must not carry text")
	}
	if !r.Bag.HasErrors() || r.Bag.Items()[0].Code != diag.LowUnknownOperation {
		t.Fatalf("diagnostic missing: %+v", r.Bag.Items())
	}

	r = byPath[badDoc]
	if r.Err == nil || r.Bag.Items()[0].Code != diag.DocUnknownKind {
		t.Fatalf("bad doc: %+v", r.Bag.Items())
	}
}

func TestLowerPathsCache(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "x.json")
	writeDoc(t, doc, treedoc.Expr(sum("a", "b")))

	cache, err := OpenDiskCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer cache.Close()

	opts := LowerOptions{Modes: []lower.Mode{lower.Accurate}, Cache: cache}
	first, err := LowerPaths(context.Background(), []string{doc}, opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first[0].Cached {
		t.Fatalf("first run should miss")
	}
	second, err := LowerPaths(context.Background(), []string{doc}, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second[0].Cached {
		t.Fatalf("second run should hit")
	}
	if second[0].Texts[0] != first[0].Texts[0] {
		t.Fatalf("cached text %q differs from %q", second[0].Texts[0], first[0].Texts[0])
	}

	// another mode set is a different key
	third, err := LowerPaths(context.Background(), []string{doc}, LowerOptions{Cache: cache})
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if third[0].Cached || third[0].Texts[0] != "a + b" {
		t.Fatalf("concise run: %+v", third[0])
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	fourth, err := LowerPaths(context.Background(), []string{doc}, opts)
	if err != nil {
		t.Fatalf("fourth run: %v", err)
	}
	if fourth[0].Cached {
		t.Fatalf("run after DropAll should miss")
	}
}

func TestLowerPathsProgress(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.json", "b.json", "c.json"} {
		writeDoc(t, filepath.Join(dir, name), treedoc.Expr(treedoc.Leaf(name)))
	}

	var mu sync.Mutex
	final := make(map[string]Status)
	queued := 0
	sink := SinkFunc(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		if ev.Status == StatusQueued {
			queued++
		}
		final[ev.File] = ev.Status
	})

	if _, err := LowerPaths(context.Background(), []string{dir}, LowerOptions{Progress: sink, Jobs: 3}); err != nil {
		t.Fatalf("lower paths: %v", err)
	}
	if queued != 3 {
		t.Fatalf("want 3 queued events, got %d", queued)
	}
	for file, status := range final {
		if status != StatusDone {
			t.Fatalf("%s finished with %s", file, status)
		}
	}
}

func TestLowerPathsNoDocuments(t *testing.T) {
	_, err := LowerPaths(context.Background(), []string{t.TempDir()}, LowerOptions{})
	if !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("want ErrNoDocuments, got %v", err)
	}
}

func TestLowerPathsRejectsNonDocumentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.txt")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LowerPaths(context.Background(), []string{path}, LowerOptions{}); err == nil {
		t.Fatalf("expected error for non-document file")
	}
}

func TestLowerPathsCancelled(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, filepath.Join(dir, "a.json"), treedoc.Expr(treedoc.Leaf("a")))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LowerPaths(ctx, []string{dir}, LowerOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestLowerFileMissing(t *testing.T) {
	r := LowerFile(context.Background(), filepath.Join(t.TempDir(), "gone.json"), LowerOptions{})
	if r.Err == nil {
		t.Fatalf("expected error")
	}
	if d := r.Bag.Items()[0]; d.Code != diag.IOReadFailed {
		t.Fatalf("code = %v, want %v", d.Code, diag.IOReadFailed)
	}
}
