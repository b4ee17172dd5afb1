package filters

import "testing"

func TestFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter func(string) string
		in     string
		want   string
	}{
		{"upper", Upper, "héllo", "HÉLLO"},
		{"lower", Lower, "MiXeD", "mixed"},
		{"title", Title, "hello wide world", "Hello Wide World"},
		{"html", HTML, `<a href="x">&</a>`, "&lt;a href=&#34;x&#34;&gt;&amp;&lt;/a&gt;"},
		{"url query", URLQuery, "a b&c", "a+b%26c"},
		{"trim", Trim, "  pad \n", "pad"},
		{"quote", Quote, "a\"b", `"a\"b"`},
		{"reverse ascii", Reverse, "21", "12"},
		{"reverse runes", Reverse, "añb", "bña"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter(tt.in); got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
			}
		})
	}
}
