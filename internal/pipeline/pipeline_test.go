package pipeline

import (
	"path/filepath"
	"testing"
	"time"
)

func TestTimingsAccumulate(t *testing.T) {
	var tm Timings
	if tm.Has(StageLoad) || tm.Duration(StageLoad) != 0 {
		t.Fatal("zero Timings must be empty")
	}
	tm.Add(StageLoad, time.Millisecond)
	tm.Add(StageLoad, 2*time.Millisecond)
	tm.Add(StageWrite, time.Millisecond)
	if got := tm.Duration(StageLoad); got != 3*time.Millisecond {
		t.Fatalf("load = %v", got)
	}
	if got := tm.Sum(Stages...); got != 4*time.Millisecond {
		t.Fatalf("sum = %v", got)
	}
	var nilTimings *Timings
	nilTimings.Add(StageLoad, time.Second)
}

func TestSinks(t *testing.T) {
	ch := make(chan Event, 4)
	EmitQueued(ChannelSink{Ch: ch}, []string{"a", "b"})
	close(ch)
	var got []string
	for evt := range ch {
		if evt.Status != StatusQueued {
			t.Fatalf("status = %s", evt.Status)
		}
		got = append(got, evt.File)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("events = %v", got)
	}

	var rec Recorder
	Emit(&rec, Event{File: "a", Stage: StageWrite, Status: StatusDone})
	Emit(nil, Event{File: "ignored"})
	if evs := rec.Events(); len(evs) != 1 || !evs[0].Status.Finished() {
		t.Fatalf("recorder = %+v", evs)
	}
	ChannelSink{}.OnEvent(Event{})
}

func TestDisplayNames(t *testing.T) {
	base := t.TempDir()
	files := []string{
		filepath.Join(base, "views", "a.go.gsp"),
		"",
		filepath.Join(base, "views", "a.go.gsp"),
		filepath.Join(base, "b.go.gsp"),
	}
	got := DisplayNames(files, base)
	want := []string{"views/a.go.gsp", "b.go.gsp"}
	if len(got) != len(want) {
		t.Fatalf("DisplayNames = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DisplayNames = %v, want %v", got, want)
		}
	}
	if got := DisplayName("x/y.gsp", ""); got != "x/y.gsp" {
		t.Fatalf("DisplayName without base = %q", got)
	}
}
