package translate_test

import (
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"gsp/internal/fragment"
	"gsp/internal/tokenizer"
	"gsp/internal/translate"
)

type sliceSource struct {
	frags []fragment.Fragment
}

func (s *sliceSource) Next() (fragment.Fragment, error) {
	if len(s.frags) == 0 {
		return fragment.Fragment{Kind: fragment.EOF}, nil
	}
	f := s.frags[0]
	s.frags = s.frags[1:]
	return f, nil
}

func plainConfig(s translate.Strategy) translate.Config {
	cfg := translate.DefaultConfig()
	cfg.Strategy = s
	cfg.LineMarkers = false
	cfg.Header = false
	return cfg
}

func TestStrategiesWithoutMarkers(t *testing.T) {
	const tmpl = "$func F(n int)\n$>a${n}b\n$<$end\n"
	tests := []struct {
		name     string
		strategy translate.Strategy
		want     string
	}{
		{
			name:     "callback",
			strategy: translate.Callback("sink"),
			want: "func F(n int, sink func(string)) {\n" +
				"sink(\"a\")\n" +
				"sink(fmt.Sprint(n))\n" +
				"sink(\"b\\n\")\n" +
				"}\n",
		},
		{
			name:     "append",
			strategy: translate.Append("buf"),
			want: "func F(n int) string {\n\tvar buf []byte\n" +
				"buf = append(buf, \"a\"...)\n" +
				"buf = append(buf, fmt.Sprint(n)...)\n" +
				"buf = append(buf, \"b\\n\"...)\n" +
				"return string(buf)\n}\n",
		},
		{
			name:     "yield",
			strategy: translate.Yield(),
			want: "func F(n int) *seq.Sequence[string] {\n\treturn seq.New(func(yield func(string) bool) error {\n" +
				"if !yield(\"a\") { return nil }\n" +
				"if !yield(fmt.Sprint(n)) { return nil }\n" +
				"if !yield(\"b\\n\") { return nil }\n" +
				"return nil\n})\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := translate.TranslateString("t.gsp", tmpl, plainConfig(tt.strategy))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("output mismatch\nwant:\n%s\ngot:\n%s", tt.want, got)
			}
		})
	}
}

func TestMarkersAndLineStart(t *testing.T) {
	cfg := translate.DefaultConfig()
	cfg.Header = false
	cfg.Strategy = translate.Append("out")
	cfg.SourcePath = "t.gsp"

	frags, err := tokenizer.Tokenize("t.gsp", []byte("x := 1$>hi$<"))
	if err != nil {
		t.Fatal(err)
	}
	tr, err := translate.New(&sliceSource{frags: frags}, cfg)
	if err != nil {
		t.Fatal(err)
	}

	var kinds []translate.ChunkKind
	var b strings.Builder
	for c, err := range tr.All() {
		if err != nil {
			t.Fatal(err)
		}
		kinds = append(kinds, c.Kind)
		b.WriteString(c.Text)
	}

	want := "//line t.gsp:1\nx := 1\n//line t.gsp:1\nout = append(out, \"hi\"...)\n"
	if b.String() != want {
		t.Fatalf("output mismatch\nwant:\n%s\ngot:\n%s", want, b.String())
	}
	wantKinds := []translate.ChunkKind{
		translate.ChunkMarker, translate.ChunkCode, translate.ChunkNewline,
		translate.ChunkMarker, translate.ChunkStatement,
	}
	if !slices.Equal(kinds, wantKinds) {
		t.Fatalf("kinds = %v, want %v", kinds, wantKinds)
	}
}

func TestYieldWithHeaderAndMarkers(t *testing.T) {
	got, err := translate.TranslateString("g.gsp", "$func G()\n$>x$<\n$end", translate.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	want := "// Code generated by gsp from g.gsp. DO NOT EDIT.\n\n" +
		"//line g.gsp:1\n" +
		"func G() *seq.Sequence[string] {\n" +
		"\treturn seq.New(func(yield func(string) bool) error {\n" +
		"//line g.gsp:2\n" +
		"if !yield(\"x\") { return nil }\n" +
		"//line g.gsp:2\n" +
		"\n" +
		"return nil\n})\n}\n"
	if got != want {
		t.Fatalf("output mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestMarkerLinesAreMonotonic(t *testing.T) {
	tmpl := "package p\n\n$func F(xs []int)\n\tfor _, x := range xs {\n$>  ${x}\n$<\t}\n$>done\n$<$end\n"
	frags, err := tokenizer.Tokenize("m.gsp", []byte(tmpl))
	if err != nil {
		t.Fatal(err)
	}
	cfg := translate.DefaultConfig()
	cfg.SourcePath = "m.gsp"
	tr, err := translate.New(&sliceSource{frags: frags}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	var lines []uint32
	for c, err := range tr.All() {
		if err != nil {
			t.Fatal(err)
		}
		if c.Kind == translate.ChunkMarker {
			lines = append(lines, c.Line)
		}
	}
	if len(lines) == 0 || !slices.IsSorted(lines) {
		t.Fatalf("marker lines %v are not monotonic", lines)
	}
}

func TestMalformedStreams(t *testing.T) {
	tests := []struct {
		name  string
		frags []fragment.Fragment
	}{
		{"close without open", []fragment.Fragment{{Kind: fragment.FuncClose, Line: 1}}},
		{"decreasing lines", []fragment.Fragment{
			{Kind: fragment.HostCode, Text: "a", Line: 3},
			{Kind: fragment.Literal, Text: "b", Line: 2},
		}},
		{"nested open", []fragment.Fragment{
			{Kind: fragment.FuncOpen, Text: "A()", Line: 1},
			{Kind: fragment.FuncOpen, Text: "B()", Line: 2},
		}},
		{"end inside function", []fragment.Fragment{{Kind: fragment.FuncOpen, Text: "A()", Line: 1}}},
		{"zero line", []fragment.Fragment{{Kind: fragment.HostCode, Text: "x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := translate.New(&sliceSource{frags: tt.frags}, plainConfig(translate.Yield()))
			if err != nil {
				t.Fatal(err)
			}
			_, err = tr.WriteTo(io.Discard)
			if !errors.Is(err, translate.ErrMalformedStream) {
				t.Fatalf("err = %v, want ErrMalformedStream", err)
			}
			// ошибка липкая
			if _, again := tr.Next(); !errors.Is(again, translate.ErrMalformedStream) {
				t.Fatalf("second Next = %v", again)
			}
		})
	}
}

func TestEmptyFragmentsAreSkipped(t *testing.T) {
	frags := []fragment.Fragment{
		{Kind: fragment.HostCode, Text: "", Line: 1},
		{Kind: fragment.Literal, Text: "", Line: 2},
		{Kind: fragment.Expression, Text: "  ", Line: 2},
		{Kind: fragment.Literal, Text: "x", Line: 3},
	}
	tr, err := translate.New(&sliceSource{frags: frags}, plainConfig(translate.Callback("emit")))
	if err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	if _, err := tr.WriteTo(&b); err != nil {
		t.Fatal(err)
	}
	if got, want := b.String(), "emit(\"x\")\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSyntaxErrorPropagates(t *testing.T) {
	inputs := []string{
		"code $>never closed",
		"$func F(x int}\n$end\n",
		"$func F[T any)(x T)\n$end\n",
	}
	for _, in := range inputs {
		_, err := translate.TranslateString("e.gsp", in, translate.DefaultConfig())
		if _, ok := tokenizer.AsSyntaxError(err); !ok {
			t.Errorf("%q: err = %v, want *tokenizer.SyntaxError", in, err)
		}
		if errors.Is(err, translate.ErrMalformedStream) {
			t.Errorf("%q: tokenizer output rejected as malformed", in)
		}
	}
}

func TestTranslationIsDeterministic(t *testing.T) {
	const tmpl = "package p\n\n$func Page(title string, items []string)\n$>\n<h1>${title | filters.Upper}</h1>\n$<" +
		"for i, it := range items {\n$>  ${i:%02d} ${it}\n$<}\n$end\n"
	strategies := []translate.Strategy{translate.Yield(), translate.Append("buf"), translate.Callback("emit")}
	for _, s := range strategies {
		cfg := translate.DefaultConfig()
		cfg.Strategy = s
		first, err := translate.TranslateString("page.gsp", tmpl, cfg)
		if err != nil {
			t.Fatal(err)
		}
		for range 3 {
			again, err := translate.TranslateString("page.gsp", tmpl, cfg)
			if err != nil {
				t.Fatal(err)
			}
			if again != first {
				t.Fatalf("%s: output differs between runs\nfirst:\n%s\nagain:\n%s", s, first, again)
			}
		}
	}
}

func TestCallbackNamesUnnamedParameters(t *testing.T) {
	got, err := translate.TranslateString("u.gsp", "$func F(int, string)\n$end\n", plainConfig(translate.Callback("emit")))
	if err != nil {
		t.Fatal(err)
	}
	if want := "func F(_ int, _ string, emit func(string)) {\n}\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStrategyFromNames(t *testing.T) {
	tests := []struct {
		callback, appendTo string
		want               string
		wantErr            bool
	}{
		{"", "", "yield", false},
		{"emit", "", "callback(emit)", false},
		{"", "out", "append(out)", false},
		{"emit", "out", "", true},
		{"1bad", "", "", true},
		{"", "func", "", true},
	}
	for _, tt := range tests {
		s, err := translate.StrategyFromNames(tt.callback, tt.appendTo)
		if tt.wantErr {
			var ce *translate.ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("(%q, %q): err = %v, want *ConfigError", tt.callback, tt.appendTo, err)
			}
			continue
		}
		if err != nil || s.String() != tt.want {
			t.Errorf("(%q, %q) = %s, %v; want %s", tt.callback, tt.appendTo, s, err, tt.want)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	if s, err := translate.ParseStrategy("append", "out"); err != nil || !s.IsAppend() || s.Name() != "out" {
		t.Errorf("append: %v, %v", s, err)
	}
	if s, err := translate.ParseStrategy("", ""); err != nil || !s.IsYield() {
		t.Errorf("default: %v, %v", s, err)
	}
	for _, bad := range [][2]string{{"append", ""}, {"weird", "x"}, {"yield", "x"}, {"callback", "a.b"}} {
		if _, err := translate.ParseStrategy(bad[0], bad[1]); err == nil {
			t.Errorf("ParseStrategy(%q, %q) succeeded", bad[0], bad[1])
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := translate.DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing source path accepted")
	}
	cfg.SourcePath = "ok.gsp"
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	cfg.FormatFunc = "not valid"
	if err := cfg.Validate(); err == nil {
		t.Fatal("bad format func accepted")
	}
	var zero translate.Config
	if !zero.Strategy.IsYield() {
		t.Fatal("zero Strategy is not yield")
	}
}
