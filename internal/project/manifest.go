package project

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"gsp/internal/translate"
)

// GenerateSection is the [generate] table: defaults for every template.
type GenerateSection struct {
	Strategy    string `toml:"strategy" yaml:"strategy"`
	Name        string `toml:"name" yaml:"name"`
	LineMarkers *bool  `toml:"line_markers" yaml:"line_markers"`
	Header      *bool  `toml:"header" yaml:"header"`
	FormatFunc  string `toml:"format_func" yaml:"format_func"`
	FormatfFunc string `toml:"formatf_func" yaml:"formatf_func"`
	Jobs        int    `toml:"jobs" yaml:"jobs"`
	Cache       bool   `toml:"cache" yaml:"cache"`
}

// TemplateEntry describes one [[template]] entry.
type TemplateEntry struct {
	Path     string `toml:"path" yaml:"path"`
	Output   string `toml:"output" yaml:"output"`
	Strategy string `toml:"strategy" yaml:"strategy"`
	Name     string `toml:"name" yaml:"name"`
}

// Manifest is a parsed gsp.toml or gsp.yaml.
type Manifest struct {
	// Path is the manifest file; Root is its directory.
	Path      string          `toml:"-" yaml:"-"`
	Root      string          `toml:"-" yaml:"-"`
	Generate  GenerateSection `toml:"generate" yaml:"generate"`
	Templates []TemplateEntry `toml:"template" yaml:"template"`
}

// ManifestError reports a problem in a manifest file.
type ManifestError struct {
	Path string
	Msg  string
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// LoadManifest reads and validates the manifest at path. The format is
// picked by extension: .toml, .yaml or .yml.
func LoadManifest(path string) (*Manifest, error) {
	// #nosec G304 -- manifest path comes from the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return ParseManifest(path, data)
}

// ParseManifest decodes manifest bytes; path selects the format and is used
// in error messages.
func ParseManifest(path string, data []byte) (*Manifest, error) {
	var m Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&m)
		if err != nil {
			return nil, &ManifestError{Path: path, Msg: "failed to parse TOML: " + err.Error()}
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, &ManifestError{Path: path, Msg: fmt.Sprintf("unknown key %q", undecoded[0].String())}
		}
	case ".yaml", ".yml":
		if err := yaml.UnmarshalWithOptions(data, &m, yaml.Strict()); err != nil {
			return nil, &ManifestError{Path: path, Msg: "failed to parse YAML: " + err.Error()}
		}
	default:
		return nil, &ManifestError{Path: path, Msg: "unsupported manifest format, expected .toml, .yaml or .yml"}
	}
	m.Path = path
	m.Root = filepath.Dir(path)
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if _, err := translate.ParseStrategy(m.Generate.Strategy, m.Generate.Name); err != nil {
		return &ManifestError{Path: m.Path, Msg: "[generate]: " + err.Error()}
	}
	if m.Generate.Jobs < 0 {
		return &ManifestError{Path: m.Path, Msg: fmt.Sprintf("[generate]: jobs must not be negative, got %d", m.Generate.Jobs)}
	}
	for i, t := range m.Templates {
		if strings.TrimSpace(t.Path) == "" {
			return &ManifestError{Path: m.Path, Msg: fmt.Sprintf("template #%d: missing path", i+1)}
		}
		if _, err := m.Strategy(t); err != nil {
			return &ManifestError{Path: m.Path, Msg: fmt.Sprintf("template %q: %v", t.Path, err)}
		}
	}
	return nil
}

// Strategy resolves the strategy of one template: its own setting when
// present, otherwise the [generate] default.
func (m *Manifest) Strategy(t TemplateEntry) (translate.Strategy, error) {
	if t.Strategy == "" && t.Name == "" {
		return translate.ParseStrategy(m.Generate.Strategy, m.Generate.Name)
	}
	kind := t.Strategy
	if kind == "" {
		// одно имя без стратегии наследует вид из [generate]
		kind = m.Generate.Strategy
	}
	return translate.ParseStrategy(kind, t.Name)
}

// Config builds the translator settings for one template on top of base.
func (m *Manifest) Config(t TemplateEntry, base translate.Config) (translate.Config, error) {
	s, err := m.Strategy(t)
	if err != nil {
		return base, err
	}
	cfg := base
	cfg.Strategy = s
	if m.Generate.LineMarkers != nil {
		cfg.LineMarkers = *m.Generate.LineMarkers
	}
	if m.Generate.Header != nil {
		cfg.Header = *m.Generate.Header
	}
	if m.Generate.FormatFunc != "" {
		cfg.FormatFunc = m.Generate.FormatFunc
	}
	if m.Generate.FormatfFunc != "" {
		cfg.FormatfFunc = m.Generate.FormatfFunc
	}
	return cfg, nil
}

// Resolve returns p relative to the manifest directory unless it is absolute.
func (m *Manifest) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}
