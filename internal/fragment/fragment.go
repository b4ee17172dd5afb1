package fragment

import (
	"fmt"
	"strconv"
	"strings"

	"gsp/internal/source"
)

// Fragment is one piece of a tokenized template.
type Fragment struct {
	Kind Kind
	// Text holds the host code, the literal text, the expression code or the
	// function signature depending on Kind.
	Text string
	// Format is an optional printf verb spec for expressions ("%04d").
	Format string
	// Filters are applied to a formatted expression in listed order.
	Filters []string
	Line    uint32
	Span    source.Span
}

// IsEOF reports whether the fragment terminates the stream.
func (f Fragment) IsEOF() bool { return f.Kind == EOF }

// String renders a compact single-line form used by the tokenize command and tests:
//
//	3 Expression "x + 5" format="%d" filters=[upper]
func (f Fragment) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s", f.Line, f.Kind)
	if f.Kind != EOF && f.Kind != FuncClose {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(f.Text))
	}
	if f.Format != "" {
		fmt.Fprintf(&b, " format=%q", f.Format)
	}
	if len(f.Filters) > 0 {
		fmt.Fprintf(&b, " filters=[%s]", strings.Join(f.Filters, " "))
	}
	return b.String()
}
