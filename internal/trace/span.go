package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next global sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

type tracerKey struct{}

type spanKey struct{}

// position is what a context knows about the span it runs under.
type position struct {
	span     uint64
	template string
}

// WithTracer attaches t to ctx; nil means Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

func positionOf(ctx context.Context) position {
	if ctx == nil {
		return position{}
	}
	p, _ := ctx.Value(spanKey{}).(position)
	return p
}

// Span is an open span. A span whose scope is filtered out is inert: End
// and WithExtra do nothing.
type Span struct {
	tracer Tracer
	begin  Event
	extra  map[string]string
}

// StartSpan begins a span under the one carried by ctx and returns a
// context carrying the new span. Filtered spans leave ctx unchanged.
func StartSpan(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	at := positionOf(ctx)
	s := open(FromContext(ctx), scope, name, at)
	if s.tracer == nil {
		return s, ctx
	}
	return s, context.WithValue(ctx, spanKey{}, position{span: s.begin.SpanID, template: at.template})
}

// StartTemplate begins the span of one template. Every event started under
// the returned context names the template, even when the template span
// itself is below the tracing level.
func StartTemplate(ctx context.Context, template string) (*Span, context.Context) {
	at := positionOf(ctx)
	at.template = template
	s := open(FromContext(ctx), ScopeFile, "file:"+template, at)
	if s.tracer != nil {
		at.span = s.begin.SpanID
	}
	return s, context.WithValue(ctx, spanKey{}, at)
}

func open(t Tracer, scope Scope, name string, at position) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{}
	}
	s := &Span{tracer: t, begin: Event{
		Time:     time.Now(),
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   spanCounter.Add(1),
		ParentID: at.span,
		Template: at.template,
		Name:     name,
	}}
	ev := s.begin
	t.Emit(&ev)
	return s
}

// End emits the end event with detail and returns how long the span was open.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	ev := s.begin
	ev.Time = time.Now()
	ev.Kind = KindSpanEnd
	ev.Detail = detail
	ev.Extra = s.extra
	s.tracer.Emit(&ev)
	return ev.Time.Sub(s.begin.Time)
}

// WithExtra attaches a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.begin.SpanID
}

// PointFromContext emits an instant event under the span carried by ctx.
func PointFromContext(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	at := positionOf(ctx)
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: at.span,
		Template: at.template,
		Name:     name,
		Detail:   detail,
	})
}
