package diag

import "gsp/internal/source"

type dedupKey struct {
	span source.Span
	code Code
	msg  string
}

// DedupReporter forwards each diagnostic once. A markup span holds at most
// one markup error: later LEX reports on the same span are dropped whatever
// their message. Other codes are deduplicated by code, span and message.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter wraps next.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := dedupKey{span: primary, code: code, msg: msg}
	if code.IsMarkup() {
		key = dedupKey{span: primary, code: LexInfo}
	}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}
