package trace

import "time"

// Kind says what an event marks.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string { return nameOf(kindNames[:], int(k)) }

// Scope is the granularity of an event, coarsest first.
type Scope uint8

const (
	// ScopeDriver covers a whole CLI command.
	ScopeDriver Scope = iota + 1
	// ScopePass covers one stage: load, tokenize, translate, write.
	ScopePass
	// ScopeFile covers everything done for one template.
	ScopeFile
	ScopeFragment // single fragments, debug only
)

var scopeNames = [...]string{
	ScopeDriver:   "driver",
	ScopePass:     "pass",
	ScopeFile:     "file",
	ScopeFragment: "fragment",
}

func (s Scope) String() string { return nameOf(scopeNames[:], int(s)) }

func nameOf(names []string, i int) string {
	if i >= 0 && i < len(names) && names[i] != "" {
		return names[i]
	}
	return "unknown"
}

// Event is one trace record. Template is the display name of the template
// the event belongs to, empty for command-wide events.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the tracer that stores the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for root spans
	Template string
	Name     string // "generate", "tokenize", "file:views/page.go.gsp"
	Detail   string
	Extra    map[string]string
}
