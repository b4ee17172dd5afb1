// Package trace records what the generator is doing, span by span.
//
//	gsp gen --trace=- --trace-level=phase views/page.go.gsp
//
// Spans nest through context.Context. The driver opens one span for the
// command, StartTemplate opens one per template, and every stage below it
// (load, tokenize, translate, write) carries the template name, so the
// output of parallel generation can be told apart.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.StartTemplate(ctx, "views/page.go.gsp")
//	defer span.End("")
//
// Tracers: Nop (disabled), StreamTracer (writes each event at once),
// RingTracer (keeps the last events for a dump after a failure) and
// MultiTracer (both). Stream and ring tracers follow the templates still in
// flight; the heartbeat and the failure dump name them.
//
// LevelPhase shows the command and its stages, LevelDetail adds template
// spans, LevelDebug adds one point per fragment.
package trace
