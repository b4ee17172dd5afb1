package translate

import (
	"testing"

	"gsp/internal/fragment"
)

func TestQuoteLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a$b", `"a$b"`},
		{"\nfoo\n", "\"\\n\" +\n\t\"foo\\n\""},
		{"one\ntwo", "\"one\\n\" +\n\t\"two\""},
		{"tab\there \"q\"", `"tab\there \"q\""`},
	}
	for _, tt := range tests {
		if got := quoteLiteral(tt.in); got != tt.want {
			t.Errorf("quoteLiteral(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWithParam(t *testing.T) {
	const sink = "sink func(string)"
	tests := []struct {
		sig  string
		want string
	}{
		{"F()", "F(sink func(string))"},
		{"F(a int)", "F(a int, sink func(string))"},
		{"F(a int, )", "F(a int, sink func(string))"},
		{"F(args ...string)", "F(sink func(string), args ...string)"},
		{"(v *V) F[T any](x T)", "(v *V) F[T any](x T, sink func(string))"},
		{"F(fn func(int) bool)", "F(fn func(int) bool, sink func(string))"},
		{"F(int, string)", "F(_ int, _ string, sink func(string))"},
		{"F(a, b int)", "F(a, b int, sink func(string))"},
		{"F(func(int) string, ...any)", "F(sink func(string), _ func(int) string, _ ...any)"},
		{"F(m map[string]int, xs ...int)", "F(sink func(string), m map[string]int, xs ...int)"},
		{"F([]byte, pkg.T)", "F(_ []byte, _ pkg.T, sink func(string))"},
	}
	for _, tt := range tests {
		if got := withParam(tt.sig, sink); got != tt.want {
			t.Errorf("withParam(%q) = %q, want %q", tt.sig, got, tt.want)
		}
	}
}

func TestRenderExprFiltersInnermostFirst(t *testing.T) {
	tr := &Translator{cfg: DefaultConfig()}
	got := tr.renderExpr(fragment.Fragment{
		Kind:    fragment.Expression,
		Text:    "x",
		Format:  "%03d",
		Filters: []string{"f", "pkg.G"},
	})
	if want := `pkg.G(f(fmt.Sprintf("%03d", x)))`; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}
