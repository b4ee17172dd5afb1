package observ

import (
	"strings"
	"sync"
	"testing"
)

func TestTimerTrackConcurrent(t *testing.T) {
	timer := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			done := timer.Track("tokenize")
			done("ok")
		}()
	}
	wg.Wait()

	report := timer.Report()
	if len(report.Phases) != 8 {
		t.Fatalf("phases = %d, want 8", len(report.Phases))
	}
	for _, p := range report.Phases {
		if p.Name != "tokenize" || p.Note != "ok" {
			t.Fatalf("unexpected phase %+v", p)
		}
	}
	summary := timer.Summary()
	if !strings.HasPrefix(summary, "timings:\n") || !strings.Contains(summary, "total") {
		t.Fatalf("unexpected summary:\n%s", summary)
	}
}

func TestTimerEdgeCases(t *testing.T) {
	var nilTimer *Timer
	nilTimer.Track("x")("ignored")

	timer := NewTimer()
	timer.End(5, "out of range")
	if r := timer.Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("empty report = %+v", r)
	}
}
