package translate

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"gsp/internal/fragment"
)

// quoteLiteral renders text as Go string literals split after every
// newline, so the expression spans as many lines as the text did.
func quoteLiteral(text string) string {
	var b strings.Builder
	first := true
	for line := range strings.SplitAfterSeq(text, "\n") {
		if line == "" {
			continue
		}
		if !first {
			b.WriteString(" +\n\t")
		}
		first = false
		b.WriteString(strconv.Quote(line))
	}
	return b.String()
}

// renderExpr formats the expression and wraps filters innermost-first.
func (t *Translator) renderExpr(f fragment.Fragment) string {
	var out string
	if f.Format != "" {
		out = t.cfg.FormatfFunc + "(" + strconv.Quote(f.Format) + ", " + f.Text + ")"
	} else {
		out = t.cfg.FormatFunc + "(" + f.Text + ")"
	}
	for _, filter := range f.Filters {
		out = filter + "(" + out + ")"
	}
	return out
}

func (t *Translator) prologue(sig string) string {
	s := t.cfg.Strategy
	switch {
	case s.IsAppend():
		return "func " + sig + " string {\n\tvar " + s.name + " []byte\n"
	case s.IsCallback():
		return "func " + withParam(sig, s.name+" func(string)") + " {\n"
	default:
		pkg := t.cfg.SeqPackage
		return "func " + sig + " *" + pkg + ".Sequence[string] {\n\treturn " + pkg +
			".New(func(yield func(string) bool) error {\n"
	}
}

func (t *Translator) epilogue() string {
	s := t.cfg.Strategy
	switch {
	case s.IsAppend():
		return "return string(" + s.name + ")\n}\n"
	case s.IsCallback():
		return "}\n"
	default:
		return "return nil\n})\n}\n"
	}
}

// withParam adds param to the parameter list that ends sig. It goes last,
// or first when the list ends with a variadic parameter. Unnamed parameters
// are named _ so that the list stays valid Go.
func withParam(sig, param string) string {
	open := paramListStart(sig)
	inner := strings.TrimSuffix(strings.TrimSpace(sig[open+1:len(sig)-1]), ",")
	head := sig[:open+1]
	if inner == "" {
		return head + param + ")"
	}
	params := splitParams(inner)
	if !namedParams(params) {
		for i, p := range params {
			params[i] = "_ " + p
		}
	}
	inner = strings.Join(params, ", ")
	if isVariadic(params[len(params)-1]) {
		return head + param + ", " + inner + ")"
	}
	return head + inner + ", " + param + ")"
}

// splitParams splits a parameter list at its top-level commas.
func splitParams(list string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '"', '`':
			if j := strings.IndexByte(list[i+1:], list[i]); j >= 0 {
				i += j + 1
			}
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(list[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(list[start:]))
}

// namedParams reports whether any parameter starts with "name Type". In Go
// either every parameter is named or none is.
func namedParams(params []string) bool {
	for _, p := range params {
		n := 0
		for n < len(p) && (p[n] == '_' || p[n] >= utf8.RuneSelf || unicode.IsLetter(rune(p[n])) ||
			(n > 0 && unicode.IsDigit(rune(p[n])))) {
			n++
		}
		if n == 0 || n == len(p) || token.IsKeyword(p[:n]) {
			continue
		}
		if p[n] == ' ' || p[n] == '\t' || strings.HasPrefix(p[n:], "...") {
			return true
		}
	}
	return false
}

func isVariadic(param string) bool {
	if strings.HasPrefix(param, "...") {
		return true
	}
	name, typ, ok := strings.Cut(param, " ")
	if !ok || token.IsKeyword(name) {
		return strings.Contains(name, "...") && !strings.ContainsAny(name, "([{")
	}
	return strings.HasPrefix(strings.TrimSpace(typ), "...")
}

// paramListStart finds the '(' matching the final ')' of sig.
func paramListStart(sig string) int {
	depth := 0
	for i := len(sig) - 1; i >= 0; i-- {
		switch sig[i] {
		case ')', ']', '}':
			depth++
		case '(', '[', '{':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return 0
}
