// Package trace records what the lowerer and its driver are doing.
//
// Tracing is enabled from the command line:
//
//	lowerer lower --trace=- --trace-level=detail tree.json
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event as it happens (text or NDJSON)
//   - RingTracer: keeps the last N events in memory, dumped when a batch fails
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// A level selects which scopes are emitted:
//
//   - LevelPhase: ScopeDriver and ScopePass (batch and lowering passes)
//   - LevelDetail: adds ScopeFile (one span per input document)
//   - LevelDebug: adds ScopeNode (one point per operation node)
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "lower", 0)
//	defer span.End("")
package trace
