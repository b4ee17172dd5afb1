package trace

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Work is one unit the generator has started and not yet finished: a
// template, the stage it is in, or both.
type Work struct {
	Template string
	Stage    string
}

func (w Work) String() string {
	switch {
	case w.Template == "":
		return w.Stage
	case w.Stage == "":
		return w.Template
	default:
		return w.Template + " (" + w.Stage + ")"
	}
}

// workTable follows template and stage spans as their events pass by.
type workTable struct {
	mu   sync.Mutex
	open map[uint64]Event
}

func (wt *workTable) observe(ev *Event) {
	if ev.Scope != ScopeFile && ev.Scope != ScopePass {
		return
	}
	wt.mu.Lock()
	defer wt.mu.Unlock()
	switch ev.Kind {
	case KindSpanBegin:
		if wt.open == nil {
			wt.open = make(map[uint64]Event)
		}
		wt.open[ev.SpanID] = *ev
	case KindSpanEnd:
		delete(wt.open, ev.SpanID)
	}
}

// snapshot lists one Work per open template, with the stage it is in.
// Stages that belong to no template stand alone.
func (wt *workTable) snapshot() []Work {
	wt.mu.Lock()
	defer wt.mu.Unlock()
	byTemplate := make(map[string]*Work)
	var loose []Work
	for _, ev := range wt.open {
		if ev.Template == "" {
			if ev.Scope == ScopePass {
				loose = append(loose, Work{Stage: ev.Name})
			}
			continue
		}
		w := byTemplate[ev.Template]
		if w == nil {
			w = &Work{Template: ev.Template}
			byTemplate[ev.Template] = w
		}
		if ev.Scope == ScopePass {
			w.Stage = ev.Name
		}
	}

	works := loose
	for _, w := range byTemplate {
		works = append(works, *w)
	}
	slices.SortFunc(works, func(a, b Work) int {
		return cmp.Or(cmp.Compare(a.Template, b.Template), cmp.Compare(a.Stage, b.Stage))
	})
	return works
}

// inFlighter is implemented by tracers that follow open work.
type inFlighter interface {
	InFlight() []Work
}

// Heartbeat periodically reports which templates are still being
// generated. A heartbeat naming the same template and stage over and over
// points at the place where generation hangs.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	done     chan struct{}
	stopped  chan struct{}
	once     sync.Once
}

// StartHeartbeat starts emitting heartbeat events every interval. It
// returns nil when tracing is disabled or interval is not positive.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer:   tracer,
		interval: interval,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer close(h.stopped)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for beat := 1; ; beat++ {
		select {
		case <-ticker.C:
			h.tracer.Emit(h.event(beat))
		case <-h.done:
			return
		}
	}
}

// event describes the beat and, when the tracer follows open work, the
// templates still in flight.
func (h *Heartbeat) event(beat int) *Event {
	ev := &Event{
		Time:   time.Now(),
		Seq:    NextSeq(),
		Kind:   KindHeartbeat,
		Scope:  ScopeDriver,
		Name:   "heartbeat",
		Detail: fmt.Sprintf("#%d", beat),
	}
	f, ok := h.tracer.(inFlighter)
	if !ok {
		return ev
	}
	works := f.InFlight()
	ev.Extra = map[string]string{"inflight": strconv.Itoa(len(works))}
	if len(works) > 0 {
		names := make([]string, len(works))
		for i, w := range works {
			names[i] = w.String()
		}
		ev.Detail += " " + strings.Join(names, ", ")
	}
	return ev
}

// Stop ends the heartbeat and waits for the goroutine to exit. It is safe
// to call on a nil Heartbeat and more than once.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.done) })
	<-h.stopped
}
