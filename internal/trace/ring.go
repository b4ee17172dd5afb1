package trace

import (
	"io"
	"sync"
	"time"
)

// RingTracer keeps the last events in memory together with the templates
// that are still in flight, so a failed run can show where it stopped.
type RingTracer struct {
	mu     sync.Mutex
	buf    []Event
	next   int
	filled bool
	level  Level
	work   workTable
}

// NewRingTracer creates a ring holding up to size events (4096 when size
// is not positive).
func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = 4096
	}
	return &RingTracer{buf: make([]Event, size), level: level}
}

// Emit stores ev, overwriting the oldest event once the ring is full.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	t.work.observe(ev)

	t.mu.Lock()
	defer t.mu.Unlock()
	stored := *ev
	stored.Seq = NextSeq()
	t.buf[t.next] = stored
	t.next++
	if t.next == len(t.buf) {
		t.next, t.filled = 0, true
	}
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.filled {
		return append([]Event(nil), t.buf[:t.next]...)
	}
	out := make([]Event, 0, len(t.buf))
	out = append(out, t.buf[t.next:]...)
	return append(out, t.buf[:t.next]...)
}

// InFlight lists the templates and stages begun but not yet finished.
func (t *RingTracer) InFlight() []Work {
	return t.work.snapshot()
}

// Dump writes the stored events followed by one "in-flight" point per
// unfinished template.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	now := time.Now()
	for _, work := range t.InFlight() {
		ev := Event{
			Time:   now,
			Seq:    NextSeq(),
			Kind:   KindPoint,
			Scope:  ScopeFile,
			Name:   "in-flight",
			Detail: work.String(),
		}
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

// Flush does nothing; events stay in memory.
func (t *RingTracer) Flush() error { return nil }

// Close does nothing.
func (t *RingTracer) Close() error { return nil }

// Level returns the tracing level.
func (t *RingTracer) Level() Level { return t.level }

// Enabled reports whether the level is above LevelOff.
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
