// Package trace records what layerspeed commands do, for diagnosing edits
// that went somewhere unexpected.
//
// # Usage
//
//	layerspeed edit-layer --file part.gcode --layer 12 --speed 80 --trace=- --trace-level=debug
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes each event immediately (file or stderr)
//   - RingTracer: keeps the last N events in memory
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Events carry a Scope. LevelCommand emits only ScopeCommand events,
// LevelDetail adds ScopeEdit, LevelDebug adds ScopeIO.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeEdit, "edit", 0)
//	defer span.End("")
package trace
