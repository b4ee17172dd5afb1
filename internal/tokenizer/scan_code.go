package tokenizer

import (
	"bytes"

	"gsp/internal/diag"
	"gsp/internal/fragment"
)

// scanCode consumes host code up to the next text block or directive.
func (tz *Tokenizer) scanCode() {
	c := &tz.cursor
	start := c.Mark()
	var buf []byte
	flush := func(end Mark) {
		if len(buf) > 0 {
			tz.push(fragment.HostCode, string(buf), c.SpanBetween(start, end))
		}
	}

	for {
		if c.EOF() {
			flush(c.Mark())
			if tz.inFunc {
				tz.fail(diag.LexUnterminatedFunc, tz.funcOpen, "template function is never closed with $end", nil)
				return
			}
			tz.done = true
			return
		}
		if c.Peek() != Sigil {
			buf = append(buf, c.Bump())
			continue
		}
		m := c.Mark()
		_, next, ok := c.Peek2()
		if !ok {
			// одиночный $ в конце файла остаётся кодом
			buf = append(buf, c.Bump())
			continue
		}
		switch {
		case next == '>':
			flush(m)
			c.Skip(2)
			tz.textOpen = c.SpanFrom(m)
			tz.mode = modeText
			return
		case next == Sigil:
			c.Skip(2)
			buf = append(buf, Sigil)
		case next == '<':
			c.Skip(2)
			tz.fail(diag.LexStrayTextClose, c.SpanFrom(m), "$< without an open text block", nil)
			return
		case tz.directiveAhead("func"):
			flush(m)
			tz.scanFuncOpen(m)
			return
		case tz.directiveAhead("end"):
			flush(m)
			tz.scanFuncClose(m)
			return
		default:
			buf = append(buf, c.Bump())
		}
	}
}

// directiveAhead reports whether the cursor sits on $name not followed by
// an identifier character.
func (tz *Tokenizer) directiveAhead(name string) bool {
	rest := tz.cursor.Rest()
	if len(rest) < 1+len(name) || !bytes.HasPrefix(rest[1:], []byte(name)) {
		return false
	}
	tail := rest[1+len(name):]
	return len(tail) == 0 || !isIdentContinueByte(tail[0])
}

func (tz *Tokenizer) scanFuncOpen(m Mark) {
	c := &tz.cursor
	c.Skip(uint32(len("$func")))
	sigStart := c.Off
	for !c.EOF() && c.Peek() != '\n' {
		c.Bump()
	}
	sig := string(bytes.TrimSpace(c.File.Content[sigStart:c.Off]))
	sp := c.SpanFrom(m)
	c.Eat('\n')

	if tz.inFunc {
		outer := tz.funcOpen
		tz.fail(diag.LexNestedFunc, sp, "$func inside another template function", &outer)
		return
	}
	if msg := checkSignature(sig); msg != "" {
		tz.fail(diag.LexBadSignature, sp, msg, nil)
		return
	}
	tz.inFunc = true
	tz.funcOpen = sp
	tz.push(fragment.FuncOpen, sig, sp)
}

func (tz *Tokenizer) scanFuncClose(m Mark) {
	c := &tz.cursor
	c.Skip(uint32(len("$end")))
	sp := c.SpanFrom(m)
	c.Eat('\n')

	if !tz.inFunc {
		tz.fail(diag.LexStrayEnd, sp, "$end without an open template function", nil)
		return
	}
	tz.inFunc = false
	tz.push(fragment.FuncClose, "", sp)
}
