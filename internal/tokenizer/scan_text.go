package tokenizer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"gsp/internal/diag"
	"gsp/internal/fragment"
)

// scanText consumes literal text up to the next expression or the end of
// the block. Each call produces at most one literal and one expression.
func (tz *Tokenizer) scanText() {
	c := &tz.cursor
	start := c.Mark()
	var buf []byte
	flush := func(end Mark) {
		if len(buf) > 0 {
			tz.push(fragment.Literal, string(buf), c.SpanBetween(start, end))
		}
	}

	for {
		if c.EOF() {
			tz.fail(diag.LexUnterminatedText, tz.textOpen, "text block is never closed with $<", nil)
			return
		}
		if c.Peek() != Sigil {
			buf = append(buf, c.Bump())
			continue
		}
		m := c.Mark()
		_, next, ok := c.Peek2()
		if !ok {
			c.Bump()
			tz.fail(diag.LexUnterminatedEscape, c.SpanFrom(m), "'$' at end of input", nil)
			return
		}
		switch next {
		case Sigil:
			c.Skip(2)
			buf = append(buf, Sigil)
		case '<':
			flush(m)
			c.Skip(2)
			tz.mode = modeCode
			return
		case '{':
			flush(m)
			tz.scanExpression(m)
			return
		case '>':
			c.Skip(2)
			outer := tz.textOpen
			tz.fail(diag.LexNestedText, c.SpanFrom(m), "$> inside an open text block", &outer)
			return
		default:
			c.Bump()
			r, size := utf8.DecodeRune(c.Rest())
			c.Skip(safecast.MustConv[uint32](size))
			tz.fail(diag.LexBadEscape, c.SpanFrom(m),
				fmt.Sprintf("unknown escape %q, write $$ for a literal $", "$"+string(r)), nil)
			return
		}
	}
}
