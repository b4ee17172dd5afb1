package trace

import (
	"fmt"
	"slices"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // only heartbeats and ring dumps
	LevelPhase        // driver and stage boundaries
	LevelDetail       // plus one span per template
	LevelDebug        // plus every fragment
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// finest scope let through by each level
var levelScope = [...]Scope{
	LevelPhase:  ScopePass,
	LevelDetail: ScopeFile,
	LevelDebug:  ScopeFragment,
}

func (l Level) String() string { return nameOf(levelNames[:], int(l)) }

// ParseLevel reads a --trace-level value; case and blanks are ignored and
// the empty string means off.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return LevelOff, nil
	}
	if i := slices.Index(levelNames[:], name); i >= 0 {
		return Level(i), nil
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope pass at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(levelScope) && scope != 0 && scope <= levelScope[l]
}
