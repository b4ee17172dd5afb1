package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"gsp/internal/fragment"
	"gsp/internal/source"
)

// CheckFragmentInvariants runs the invariants every tokenizer result must hold:
// 1) the stream ends with exactly one EOF fragment
// 2) every span points into sf and lies within its content
// 3) span starts and lines never decrease
// 4) each fragment's Line is the line of its span start
// 5) host code, literals and expressions carry text; expressions carry no empty filters
func CheckFragmentInvariants(frags []fragment.Fragment, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if len(frags) == 0 {
		return fmt.Errorf("empty fragment stream")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prev *fragment.Fragment
	for i := range frags {
		f := &frags[i]
		last := i == len(frags)-1
		if f.IsEOF() != last {
			return fmt.Errorf("fragment %d: EOF must be last and only last: %s", i, f)
		}
		sp := f.Span
		if sp.File != sf.ID {
			return fmt.Errorf("fragment %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End < sp.Start || sp.End > lenContent {
			return fmt.Errorf("fragment %d: span %v outside content of %d bytes", i, sp, lenContent)
		}
		if want := sf.Position(sp.Start).Line; f.Line != want {
			return fmt.Errorf("fragment %d: line %d, span starts on line %d", i, f.Line, want)
		}
		if prev != nil {
			if sp.Start < prev.Span.Start {
				return fmt.Errorf("fragment %d: span %v starts before previous %v", i, sp, prev.Span)
			}
			if f.Line < prev.Line {
				return fmt.Errorf("fragment %d: line %d decreases from %d", i, f.Line, prev.Line)
			}
		}
		switch f.Kind {
		case fragment.HostCode, fragment.Literal, fragment.Expression, fragment.FuncOpen:
			if f.Text == "" {
				return fmt.Errorf("fragment %d: %s with empty text", i, f.Kind)
			}
		}
		for _, name := range f.Filters {
			if name == "" {
				return fmt.Errorf("fragment %d: empty filter name", i)
			}
		}
		prev = f
	}
	return nil
}
