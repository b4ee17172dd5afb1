package tokenizer

import (
	"go/token"
	"strings"

	"fortio.org/safecast"

	"gsp/internal/diag"
	"gsp/internal/fragment"
)

// scanExpression reads ${...} starting at the sigil marked by m.
func (tz *Tokenizer) scanExpression(m Mark) {
	c := &tz.cursor
	c.Skip(2)
	body := c.Rest()
	end := walkGo(body, func(i, depth int) bool {
		return body[i] != '}' || depth > 0
	})
	switch end {
	case walkEOF:
		open := c.SpanFrom(m)
		c.Skip(safecast.MustConv[uint32](len(body)))
		tz.fail(diag.LexUnterminatedExpr, open, "expression is never closed with }", nil)
		return
	case walkMismatch:
		open := c.SpanFrom(m)
		tz.fail(diag.LexUnbalancedBracket, open, "mismatched bracket in expression", nil)
		return
	}
	text := string(body[:end])
	c.Skip(safecast.MustConv[uint32](end + 1))
	sp := c.SpanFrom(m)

	parts, code, msg := splitExpression(text)
	if msg != "" {
		tz.fail(code, sp, msg, nil)
		return
	}
	f := tz.push(fragment.Expression, parts.code, sp)
	f.Format = parts.format
	f.Filters = parts.filters
}

type exprParts struct {
	code    string
	format  string
	filters []string
}

// splitExpression separates "code [: %fmt] [| filter]..." into its parts.
// Filters are peeled from the right while the text after a top-level single
// '|' is a (qualified) identifier; anything else stays part of the code.
func splitExpression(body string) (exprParts, diag.Code, string) {
	var pipes []int
	walkGo(body, func(i, depth int) bool {
		if depth == 0 && body[i] == '|' && !isOrOr(body, i) {
			pipes = append(pipes, i)
		}
		return true
	})

	var parts exprParts
	end := len(body)
	for k := len(pipes) - 1; k >= 0; k-- {
		name := strings.TrimSpace(body[pipes[k]+1 : end])
		if name == "" {
			return parts, diag.LexEmptyFilter, "missing filter name after '|'"
		}
		if token.IsKeyword(name) {
			return parts, diag.LexBadFilter, "filter name " + name + " is a Go keyword"
		}
		if !isQualifiedIdent(name) {
			break
		}
		parts.filters = append(parts.filters, name)
		end = pipes[k]
	}
	// собраны справа налево
	for i, j := 0, len(parts.filters)-1; i < j; i, j = i+1, j-1 {
		parts.filters[i], parts.filters[j] = parts.filters[j], parts.filters[i]
	}

	expr := body[:end]
	colon := walkGo(expr, func(i, depth int) bool {
		return expr[i] != ':' || depth > 0
	})
	if colon >= 0 {
		parts.format = strings.TrimSpace(expr[colon+1:])
		expr = expr[:colon]
		if len(parts.format) < 2 || parts.format[0] != '%' {
			return parts, diag.LexBadFormat, "format after ':' must be a printf verb such as %d"
		}
	}
	parts.code = strings.TrimSpace(expr)
	if parts.code == "" {
		return parts, diag.LexEmptyExpr, "expression is empty"
	}
	if endsWithLineComment(parts.code) {
		parts.code += "\n"
	}
	return parts, 0, ""
}

func isOrOr(s string, i int) bool {
	return (i+1 < len(s) && s[i+1] == '|') || (i > 0 && s[i-1] == '|')
}
