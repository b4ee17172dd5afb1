package tokenizer

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	walkEOF      = -1
	walkMismatch = -2
)

// walkGo calls visit for every byte of s outside string, rune and raw
// string literals and comments, passing the bracket depth before that byte.
// It returns the index at which visit returned false, walkEOF when s ran
// out (including inside an unterminated literal or comment) or
// walkMismatch at a closing bracket of the wrong kind. A closer with no
// opener is still offered to visit first, so callers can treat it as a
// terminator.
func walkGo[S ~string | ~[]byte](s S, visit func(i, depth int) bool) int {
	var open []byte
	for i := 0; i < len(s); i++ {
		switch q := s[i]; q {
		case '"', '\'', '`':
			j := skipLiteral(s, i, q)
			if j < 0 {
				return walkEOF
			}
			i = j
			continue
		case '/':
			if j, ok := skipComment(s, i); ok {
				if j < 0 {
					return walkEOF
				}
				i = j
				continue
			}
		}
		b := s[i]
		if isCloseBracket(b) && len(open) > 0 && open[len(open)-1] != b {
			return walkMismatch
		}
		if !visit(i, len(open)) {
			return i
		}
		switch b {
		case '(':
			open = append(open, ')')
		case '[':
			open = append(open, ']')
		case '{':
			open = append(open, '}')
		case ')', ']', '}':
			if len(open) == 0 {
				return walkMismatch
			}
			open = open[:len(open)-1]
		}
	}
	return walkEOF
}

// skipLiteral returns the index of the quote closing the literal opened at i.
func skipLiteral[S ~string | ~[]byte](s S, i int, q byte) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			if q != '`' {
				j++
			}
		case q:
			return j
		}
	}
	return -1
}

// skipComment reports whether a comment starts at i and returns the index
// of its last byte, or -1 for a block comment that never ends. A line
// comment ends before its newline.
func skipComment[S ~string | ~[]byte](s S, i int) (int, bool) {
	if i+1 >= len(s) {
		return 0, false
	}
	switch s[i+1] {
	case '/':
		j := i + 2
		for j < len(s) && s[j] != '\n' {
			j++
		}
		return j - 1, true
	case '*':
		for j := i + 2; j+1 < len(s); j++ {
			if s[j] == '*' && s[j+1] == '/' {
				return j + 1, true
			}
		}
		return -1, true
	}
	return 0, false
}

// endsWithLineComment reports whether s ends inside a // comment.
func endsWithLineComment(s string) bool {
	line := false
	for i := 0; i < len(s); i++ {
		switch q := s[i]; q {
		case '"', '\'', '`':
			j := skipLiteral(s, i, q)
			if j < 0 {
				return false
			}
			i, line = j, false
			continue
		case '/':
			if j, ok := skipComment(s, i); ok {
				if j < 0 {
					return false
				}
				line = s[i+1] == '/'
				i = j
				continue
			}
		}
		switch s[i] {
		case ' ', '\t', '\r', '\n':
		default:
			line = false
		}
	}
	return line
}

// matchClose returns the index of the bracket closing s[open], or -1 when
// it is missing or of the wrong kind.
func matchClose(s string, open int) int {
	sub := s[open:]
	end := walkGo(sub, func(i, depth int) bool {
		return i == 0 || depth != 1 || !isCloseBracket(sub[i])
	})
	if end < 0 {
		return -1
	}
	return open + end
}

func isCloseBracket(b byte) bool {
	return b == ')' || b == ']' || b == '}'
}

// checkSignature validates "[(recv)] Name[TypeParams](params)" and returns a
// message describing the first problem, or "".
func checkSignature(sig string) string {
	if sig == "" {
		return "missing function signature after $func"
	}
	rest := sig
	if rest[0] == '(' {
		end := matchClose(rest, 0)
		if end < 0 {
			return "unbalanced receiver in function signature"
		}
		rest = strings.TrimLeft(rest[end+1:], " \t")
	}
	n := identPrefix(rest)
	if !token.IsIdentifier(rest[:n]) {
		return "expected function name after $func"
	}
	rest = strings.TrimLeft(rest[n:], " \t")
	if strings.HasPrefix(rest, "[") {
		end := matchClose(rest, 0)
		if end < 0 {
			return "unbalanced type parameter list"
		}
		rest = strings.TrimLeft(rest[end+1:], " \t")
	}
	if !strings.HasPrefix(rest, "(") {
		return "expected parameter list in function signature"
	}
	end := matchClose(rest, 0)
	if end < 0 {
		return "unbalanced parameter list"
	}
	if strings.TrimSpace(rest[end+1:]) != "" {
		return "unexpected text after the parameter list, the result type is chosen by the emission strategy"
	}
	return ""
}

func identPrefix(s string) int {
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
			break
		}
		i += size
	}
	return i
}

// isQualifiedIdent accepts "name" and dotted chains such as "filters.Upper".
func isQualifiedIdent(s string) bool {
	for part := range strings.SplitSeq(s, ".") {
		if !token.IsIdentifier(part) {
			return false
		}
	}
	return true
}

func isIdentContinueByte(b byte) bool {
	return b == '_' || b >= utf8.RuneSelf ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}
