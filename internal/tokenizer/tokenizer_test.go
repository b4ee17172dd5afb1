package tokenizer_test

import (
	"errors"
	"slices"
	"testing"

	"gsp/internal/diag"
	"gsp/internal/fragment"
	"gsp/internal/source"
	"gsp/internal/testkit"
	"gsp/internal/tokenizer"
)

func makeTestTokenizer(t *testing.T, input string, opts tokenizer.Options) *tokenizer.Tokenizer {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.gsp", []byte(input))
	return tokenizer.New(fs.Get(id), opts)
}

func collectStrings(t *testing.T, input string) ([]string, error) {
	t.Helper()
	frags, err := tokenizer.Tokenize("test.gsp", []byte(input))
	out := make([]string, 0, len(frags))
	for _, f := range frags {
		out = append(out, f.String())
	}
	return out, err
}

func TestTokenizeFragments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "host code and text block",
			input: "package p\n$>hello$<\n",
			want:  []string{`1 HostCode "package p\n"`, `2 Literal "hello"`, `2 HostCode "\n"`},
		},
		{
			name:  "escaped sigil in text",
			input: "$>a$$b$<",
			want:  []string{`1 Literal "a$b"`},
		},
		{
			name:  "escaped and bare sigil in code",
			input: `x := "$$" + "a$b"`,
			want:  []string{`1 HostCode "x := \"$\" + \"a$b\""`},
		},
		{
			name:  "lone sigil at end of code",
			input: "x$",
			want:  []string{`1 HostCode "x$"`},
		},
		{
			name:  "empty fragments are skipped",
			input: "$>$<$>$<",
			want:  []string{},
		},
		{
			name:  "expression between literals",
			input: "$>x=${ x + 5 }$$, $<",
			want:  []string{`1 Literal "x="`, `1 Expression "x + 5"`, `1 Literal "$, "`},
		},
		{
			name:  "filters in order",
			input: "$>${value | reverse | duplicate}$<",
			want:  []string{`1 Expression "value" filters=[reverse duplicate]`},
		},
		{
			name:  "format and qualified filter",
			input: "$>${price:%.2f | filters.Upper}$<",
			want:  []string{`1 Expression "price" format="%.2f" filters=[filters.Upper]`},
		},
		{
			name:  "bitwise or is not a filter",
			input: "$>${a | (b)}${a || b}$<",
			want:  []string{`1 Expression "a | (b)"`, `1 Expression "a || b"`},
		},
		{
			name:  "braces and strings inside expression",
			input: "$>${fmt.Sprint(map[string]int{\"}\": 1})}$<",
			want:  []string{`1 Expression "fmt.Sprint(map[string]int{\"}\": 1})"`},
		},
		{
			name:  "comments inside expression",
			input: "$>${x /* } */}${y // }\n}$<",
			want:  []string{`1 Expression "x /* } */"`, `1 Expression "y // }\n"`},
		},
		{
			name:  "slice expression is not a format",
			input: "$>${s[1:2]}$<",
			want:  []string{`1 Expression "s[1:2]"`},
		},
		{
			name:  "line tracking across modes",
			input: "a\nb\n$>\nfoo\n${x}\n$<\nz",
			want: []string{
				`1 HostCode "a\nb\n"`,
				`3 Literal "\nfoo\n"`,
				`5 Expression "x"`,
				`5 Literal "\n"`,
				`6 HostCode "\nz"`,
			},
		},
		{
			name:  "template function",
			input: "$func Render(items []int)\n$>x$<\n$end\n",
			want:  []string{`1 FuncOpen "Render(items []int)"`, `2 Literal "x"`, `2 HostCode "\n"`, "3 FuncClose"},
		},
		{
			name:  "method with type parameters",
			input: "$func (v *View) Render[T any](x T)\n$end",
			want:  []string{`1 FuncOpen "(v *View) Render[T any](x T)"`, "2 FuncClose"},
		},
		{
			name:  "sigil words that are not directives",
			input: "$endpoint $function",
			want:  []string{`1 HostCode "$endpoint $function"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := collectStrings(t, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Fatalf("fragments mismatch\nwant: %q\ngot:  %q", tt.want, got)
			}
		})
	}
}

func TestTokenizeSyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
		line  uint32
		col   uint32
	}{
		{"unterminated text", "$>abc", diag.LexUnterminatedText, 1, 1},
		{"unterminated expression", "a\n$>${x", diag.LexUnterminatedExpr, 2, 3},
		{"nested text block", "$>$>", diag.LexNestedText, 1, 3},
		{"bad escape", "$>$q$<", diag.LexBadEscape, 1, 3},
		{"sigil at end of text", "$>abc$", diag.LexUnterminatedEscape, 1, 6},
		{"stray text close", "x $< y", diag.LexStrayTextClose, 1, 3},
		{"empty expression", "$>${ }$<", diag.LexEmptyExpr, 1, 3},
		{"empty filter", "$>${x |}$<", diag.LexEmptyFilter, 1, 3},
		{"keyword filter", "$>${x | func}$<", diag.LexBadFilter, 1, 3},
		{"bad format", "$>${x:abc}$<", diag.LexBadFormat, 1, 3},
		{"nested function", "$func A()\n$func B()\n", diag.LexNestedFunc, 2, 1},
		{"stray end", "$end", diag.LexStrayEnd, 1, 1},
		{"unterminated function", "$func A()\nbody", diag.LexUnterminatedFunc, 1, 1},
		{"result type in signature", "$func A() string\n$end", diag.LexBadSignature, 1, 1},
		{"missing signature", "$func\n", diag.LexBadSignature, 1, 1},
		{"parameter list closed by brace", "$func F(x int}\n$end\n", diag.LexBadSignature, 1, 1},
		{"parameter list closed by bracket", "$func F(x int]\n$end\n", diag.LexBadSignature, 1, 1},
		{"type parameters closed by paren", "$func F[T any)(x T)\n$end\n", diag.LexBadSignature, 1, 1},
		{"mismatched bracket in expression", "$>${f(x]}$<", diag.LexUnbalancedBracket, 1, 3},
		{"closer without opener in expression", "$>${x)}$<", diag.LexUnbalancedBracket, 1, 3},
		{"unterminated block comment", "$>${x /* }$<", diag.LexUnterminatedExpr, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collectStrings(t, tt.input)
			se, ok := tokenizer.AsSyntaxError(err)
			if !ok {
				t.Fatalf("expected *SyntaxError, got %v", err)
			}
			if se.Code != tt.code || se.Line != tt.line || se.Col != tt.col {
				t.Fatalf("got %s at %d:%d, want %s at %d:%d (%s)",
					se.Code.ID(), se.Line, se.Col, tt.code.ID(), tt.line, tt.col, se.Msg)
			}
			if se.Path != "test.gsp" {
				t.Errorf("path = %q", se.Path)
			}
		})
	}
}

func TestFragmentsBeforeErrorAreDelivered(t *testing.T) {
	tz := makeTestTokenizer(t, "code $>lit${", tokenizer.Options{})

	var kinds []fragment.Kind
	var firstErr error
	for {
		f, err := tz.Next()
		if err != nil {
			firstErr = err
			break
		}
		kinds = append(kinds, f.Kind)
	}
	if !slices.Equal(kinds, []fragment.Kind{fragment.HostCode, fragment.Literal}) {
		t.Fatalf("kinds = %v", kinds)
	}
	// ошибка липкая
	if _, err := tz.Next(); !errors.Is(err, firstErr) {
		t.Fatalf("second error %v differs from first %v", err, firstErr)
	}
}

func TestEOFIsRepeated(t *testing.T) {
	tz := makeTestTokenizer(t, "x\n", tokenizer.Options{})
	if f, err := tz.Next(); err != nil || f.Kind != fragment.HostCode {
		t.Fatalf("first = %v, %v", f, err)
	}
	for range 3 {
		f, err := tz.Next()
		if err != nil || !f.IsEOF() {
			t.Fatalf("expected EOF, got %v, %v", f, err)
		}
	}
}

func TestReporterReceivesDiagnostic(t *testing.T) {
	bag := diag.NewBag(10)
	tz := makeTestTokenizer(t, "$>outer $> inner", tokenizer.Options{Reporter: diag.BagReporter{Bag: bag}})
	for _, err := range tz.All() {
		if err != nil {
			break
		}
	}
	if bag.Len() != 1 {
		t.Fatalf("bag has %d diagnostics, want 1", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.LexNestedText || len(d.Notes) != 1 {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Notes[0].Span.Start != 0 {
		t.Errorf("note should point at the outer $>, got %v", d.Notes[0].Span)
	}
}

func TestExpressionSpanCoversMarkup(t *testing.T) {
	frags, err := tokenizer.Tokenize("s.gsp", []byte("$>ab${x}$<"))
	if err != nil {
		t.Fatal(err)
	}
	expr := frags[1]
	if expr.Kind != fragment.Expression || expr.Span.Start != 4 || expr.Span.End != 8 {
		t.Fatalf("expression span = %v", expr.Span)
	}
}

func TestFragmentLinesNeverDecrease(t *testing.T) {
	inputs := []string{
		"package p\n$func Page(items []string)\n$>\n<ul>\n$<for _, it := range items {\n$>  <li>${it | filters.Upper}</li>\n$<}\n$>\n</ul>\n$<$end\n",
		"a\r\nb\r\n$>x\r\n${y:%d}\r\n$<z",
		"$>${f(\n\ta,\n\tb,\n)}$$\n$<\n\n\n$>tail$<",
		"$>\n\n\n$<$>${x /* many\nlines\n*/}$<",
	}
	for _, input := range inputs {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("lines.gsp", []byte(input)))
		tz := tokenizer.New(file, tokenizer.Options{})
		var frags []fragment.Fragment
		for {
			f, err := tz.Next()
			if err != nil {
				t.Fatalf("%q: %v", input, err)
			}
			frags = append(frags, f)
			if f.IsEOF() {
				break
			}
		}
		for i := 1; i < len(frags); i++ {
			if frags[i].Line < frags[i-1].Line {
				t.Fatalf("%q: fragment %d line %d after %d", input, i, frags[i].Line, frags[i-1].Line)
			}
		}
		if err := testkit.CheckFragmentInvariants(frags, file); err != nil {
			t.Fatalf("%q: %v", input, err)
		}
	}
}
