package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gsp/internal/translate"
)

const tomlManifest = `
[generate]
strategy = "append"
name = "out"
line_markers = false
format_func = "str.Format"
jobs = 2

[[template]]
path = "views/page.go.gsp"

[[template]]
path = "views/list.go.gsp"
output = "views/list_gen.go"
strategy = "callback"
name = "sink"

[[template]]
path = "views/lazy.go.gsp"
strategy = "yield"
`

const yamlManifest = `
generate:
  strategy: append
  name: out
  line_markers: false
  format_func: str.Format
  jobs: 2
template:
  - path: views/page.go.gsp
  - path: views/list.go.gsp
    output: views/list_gen.go
    strategy: callback
    name: sink
  - path: views/lazy.go.gsp
    strategy: yield
`

func TestParseManifestFormatsAgree(t *testing.T) {
	for _, tc := range []struct {
		path string
		data string
	}{
		{"proj/gsp.toml", tomlManifest},
		{"proj/gsp.yaml", yamlManifest},
	} {
		t.Run(filepath.Ext(tc.path), func(t *testing.T) {
			m, err := ParseManifest(tc.path, []byte(tc.data))
			if err != nil {
				t.Fatalf("ParseManifest: %v", err)
			}
			if m.Root != "proj" || m.Generate.Jobs != 2 || len(m.Templates) != 3 {
				t.Fatalf("unexpected manifest: %+v", m)
			}
			if m.Templates[1].Output != "views/list_gen.go" {
				t.Fatalf("output = %q", m.Templates[1].Output)
			}

			want := []string{"append(out)", "callback(sink)", "yield"}
			for i, tmpl := range m.Templates {
				cfg, err := m.Config(tmpl, translate.DefaultConfig())
				if err != nil {
					t.Fatalf("Config(%s): %v", tmpl.Path, err)
				}
				if cfg.Strategy.String() != want[i] {
					t.Errorf("%s: strategy = %s, want %s", tmpl.Path, cfg.Strategy, want[i])
				}
				if cfg.LineMarkers {
					t.Errorf("%s: line markers must be disabled", tmpl.Path)
				}
				if cfg.FormatFunc != "str.Format" || cfg.FormatfFunc != "fmt.Sprintf" {
					t.Errorf("%s: format funcs = %s, %s", tmpl.Path, cfg.FormatFunc, cfg.FormatfFunc)
				}
				if !cfg.Header {
					t.Errorf("%s: header default must survive", tmpl.Path)
				}
			}
			if got := m.Resolve("views/page.go.gsp"); got != filepath.Join("proj", "views", "page.go.gsp") {
				t.Fatalf("Resolve = %q", got)
			}
		})
	}
}

func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
		want string
	}{
		{"missing path", "gsp.toml", "[[template]]\noutput = \"x.go\"\n", "template #1: missing path"},
		{"unknown strategy", "gsp.toml", "[generate]\nstrategy = \"stream\"\n", "expected yield, append or callback"},
		{"append without name", "gsp.yaml", "generate:\n  strategy: append\n", "must be a Go identifier"},
		{"yield with name", "gsp.toml", "[[template]]\npath = \"a.gsp\"\nstrategy = \"yield\"\nname = \"x\"\n", "takes no name"},
		{"unknown toml key", "gsp.toml", "[generate]\nstrategie = \"yield\"\n", "unknown key"},
		{"unknown yaml key", "gsp.yml", "generate:\n  strategie: yield\n", "failed to parse YAML"},
		{"bad toml", "gsp.toml", "[generate\n", "failed to parse TOML"},
		{"negative jobs", "gsp.toml", "[generate]\njobs = -1\n", "jobs must not be negative"},
		{"unknown format", "gsp.json", "{}", "unsupported manifest format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest(tt.path, []byte(tt.data))
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			var me *ManifestError
			if !errors.As(err, &me) || me.Path != tt.path {
				t.Fatalf("expected *ManifestError for %s, got %T: %v", tt.path, err, err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := filepath.Join(root, "gsp.yaml")
	if err := os.WriteFile(manifest, []byte("generate:\n  strategy: yield\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	if got != manifest {
		t.Fatalf("FindManifest = %q, want %q", got, manifest)
	}

	dir, ok, err := FindProjectRoot(nested)
	if err != nil || !ok || dir != root {
		t.Fatalf("FindProjectRoot = %q, %v, %v", dir, ok, err)
	}

	m, err := LoadManifest(got)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Root != root {
		t.Fatalf("Root = %q, want %q", m.Root, root)
	}
}

func TestFindManifestPrefersToml(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"gsp.yaml", "gsp.toml"} {
		if err := os.WriteFile(filepath.Join(root, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	got, ok, err := FindManifest(root)
	if err != nil || !ok || filepath.Base(got) != "gsp.toml" {
		t.Fatalf("FindManifest = %q, %v, %v", got, ok, err)
	}
}

func TestCombineDependsOnOrder(t *testing.T) {
	a, b := DigestOf([]byte("a")), DigestOf([]byte("b"))
	if Combine(a, b) == Combine(b, a) {
		t.Fatal("Combine must depend on argument order")
	}
	if Combine(a, b) != Combine(a, b) {
		t.Fatal("Combine must be deterministic")
	}
}
