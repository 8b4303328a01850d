package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"lowerer/internal/diag"
	"lowerer/internal/lower"
	"lowerer/internal/observ"
	"lowerer/internal/trace"
	"lowerer/internal/treedoc"
)

// ErrNoDocuments is returned when the given paths contain no tree documents.
var ErrNoDocuments = errors.New("lower: no tree documents found")

// LowerOptions configures batch lowering.
type LowerOptions struct {
	Modes          []lower.Mode // rendered in this order; empty means concise only
	Jobs           int          // 0 means GOMAXPROCS
	MaxDiagnostics int
	Cache          *DiskCache
	Progress       ProgressSink
	Timer          *observ.Timer // receives per-stage totals when set
}

// LowerResult captures the outcome for one document.
type LowerResult struct {
	Path   string
	Modes  []lower.Mode
	Texts  []string // parallel to Modes; nil on error
	Cached bool
	Err    error
	Bag    *diag.Bag
}

// Text returns the rendering in mode.
func (r LowerResult) Text(mode lower.Mode) (string, bool) {
	for i, m := range r.Modes {
		if m == mode && i < len(r.Texts) {
			return r.Texts[i], true
		}
	}
	return "", false
}

// LowerPaths lowers every tree document under paths in parallel. Failures of single
// documents are reported in their result; the returned error is reserved for collection
// failures and cancellation.
func LowerPaths(ctx context.Context, paths []string, opts LowerOptions) ([]LowerResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := CollectDocuments(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoDocuments
	}

	modes := opts.Modes
	if len(modes) == 0 {
		modes = []lower.Mode{lower.Concise}
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 100
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "lower_paths", trace.CurrentSpan(ctx)).
		WithExtra("files", strconv.Itoa(len(files))).
		WithExtra("jobs", strconv.Itoa(jobs))
	defer span.End("")

	emitQueued(opts.Progress, files)

	// Индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]LowerResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			w := worker{
				opts:    opts,
				modes:   modes,
				tracer:  tracer,
				maxDiag: maxDiag,
			}
			results[i] = w.run(path, span.ID())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// LowerFile lowers a single document synchronously, bypassing collection. Watch mode uses
// it to re-render one changed file.
func LowerFile(ctx context.Context, path string, opts LowerOptions) LowerResult {
	modes := opts.Modes
	if len(modes) == 0 {
		modes = []lower.Mode{lower.Concise}
	}
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 100
	}
	w := worker{opts: opts, modes: modes, tracer: trace.FromContext(ctx), maxDiag: maxDiag}
	return w.run(path, trace.CurrentSpan(ctx))
}

// worker lowers one document.
type worker struct {
	opts    LowerOptions
	modes   []lower.Mode
	tracer  trace.Tracer
	maxDiag int
}

func (w *worker) run(path string, parent uint64) LowerResult {
	res := LowerResult{Path: path, Modes: w.modes, Bag: diag.NewBag(w.maxDiag)}
	span := trace.Begin(w.tracer, trace.ScopeFile, path, parent)
	started := time.Now()

	fail := func(stage Stage, err error) LowerResult {
		res.Err = err
		res.Texts = nil
		res.Bag.Add(diag.FromError(path, err))
		span.End("error")
		emit(w.opts.Progress, Event{File: path, Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		return res
	}

	emit(w.opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
	stageStart := time.Now()
	data, err := os.ReadFile(path)
	w.timed(StageLoad, stageStart)
	if err != nil {
		return fail(StageLoad, &ioError{code: diag.IOReadFailed, err: err})
	}

	key := cacheKey(data, w.modes)
	if texts, ok := w.cached(key, &res); ok {
		res.Texts = texts
		res.Cached = true
		span.WithExtra("cache", "hit").End("")
		emit(w.opts.Progress, Event{File: path, Stage: StageLower, Status: StatusDone, Elapsed: time.Since(started)})
		return res
	}

	emit(w.opts.Progress, Event{File: path, Stage: StageDecode, Status: StatusWorking})
	stageStart = time.Now()
	format, err := treedoc.FormatFromPath(path)
	if err != nil {
		return fail(StageDecode, err)
	}
	tree, err := treedoc.Decode(data, format)
	w.timed(StageDecode, stageStart)
	if err != nil {
		return fail(StageDecode, fmt.Errorf("decode: %w", err))
	}

	emit(w.opts.Progress, Event{File: path, Stage: StageLower, Status: StatusWorking})
	stageStart = time.Now()
	texts := make([]string, 0, len(w.modes))
	for _, mode := range w.modes {
		text, err := lower.New(tree.Builder, mode).WithTracer(w.tracer, span.ID()).Stmts(tree.Body)
		if err != nil {
			w.timed(StageLower, stageStart)
			return fail(StageLower, fmt.Errorf("lower %s: %w", mode, err))
		}
		texts = append(texts, text)
	}
	w.timed(StageLower, stageStart)
	res.Texts = texts

	if w.opts.Cache != nil {
		payload := &DiskPayload{Path: path, Modes: modeNames(w.modes), Texts: texts}
		if err := w.opts.Cache.Put(key, payload); err != nil {
			res.Bag.Add(diag.Diagnostic{
				Severity: diag.SevWarning,
				Code:     diag.IOWriteFailed,
				Message:  "failed to write cache entry: " + err.Error(),
				File:     path,
			})
		}
	}

	span.End("")
	emit(w.opts.Progress, Event{File: path, Stage: StageLower, Status: StatusDone, Elapsed: time.Since(started)})
	return res
}

// cached returns the stored texts for key when the cache has a matching entry.
func (w *worker) cached(key Digest, res *LowerResult) ([]string, bool) {
	if w.opts.Cache == nil {
		return nil, false
	}
	var payload DiskPayload
	ok, err := w.opts.Cache.Get(key, &payload)
	if err != nil {
		res.Bag.Add(diag.Diagnostic{
			Severity: diag.SevWarning,
			Code:     diag.IOReadFailed,
			Message:  "ignoring unreadable cache entry: " + err.Error(),
			File:     res.Path,
		})
		return nil, false
	}
	if !ok || len(payload.Texts) != len(w.modes) {
		return nil, false
	}
	names := modeNames(w.modes)
	for i := range names {
		if i >= len(payload.Modes) || payload.Modes[i] != names[i] {
			return nil, false
		}
	}
	return payload.Texts, true
}

func (w *worker) timed(stage Stage, start time.Time) {
	if w.opts.Timer != nil {
		w.opts.Timer.Add(string(stage), time.Since(start))
	}
}

func modeNames(modes []lower.Mode) []string {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return names
}

// ioError tags filesystem failures with a diagnostic code.
type ioError struct {
	code diag.Code
	err  error
}

func (e *ioError) Error() string       { return e.err.Error() }
func (e *ioError) Unwrap() error       { return e.err }
func (e *ioError) DiagCode() diag.Code { return e.code }
