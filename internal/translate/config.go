package translate

import (
	"fmt"
	"go/token"
	"strings"
)

// Config controls code generation.
type Config struct {
	Strategy Strategy
	// LineMarkers emits //line directives mapping generated code back to
	// the template.
	LineMarkers bool
	// SourcePath is the template path written into line markers and the header.
	SourcePath string
	// Header emits the "Code generated ... DO NOT EDIT." comment.
	Header bool
	// FormatFunc turns an expression value into text.
	FormatFunc string
	// FormatfFunc does the same for expressions with a format spec.
	FormatfFunc string
	// SeqPackage is the name under which gsp/runtime/seq is imported.
	SeqPackage string
}

// DefaultConfig returns the settings used by the gen command.
func DefaultConfig() Config {
	return Config{
		Strategy:    Yield(),
		LineMarkers: true,
		Header:      true,
		FormatFunc:  "fmt.Sprint",
		FormatfFunc: "fmt.Sprintf",
		SeqPackage:  "seq",
	}
}

func (c Config) Validate() error {
	if err := c.Strategy.validate(); err != nil {
		return err
	}
	if (c.LineMarkers || c.Header) && c.SourcePath == "" {
		return &ConfigError{Field: "source path", Msg: "required for line markers and the header"}
	}
	if strings.ContainsAny(c.SourcePath, "\n\r") {
		return &ConfigError{Field: "source path", Value: c.SourcePath, Msg: "must not contain line breaks"}
	}
	for _, f := range []struct{ field, value string }{
		{"format func", c.FormatFunc},
		{"formatf func", c.FormatfFunc},
	} {
		if !isQualifiedIdent(f.value) {
			return &ConfigError{Field: f.field, Value: f.value, Msg: "must be a function name such as fmt.Sprint"}
		}
	}
	if c.Strategy.IsYield() && !token.IsIdentifier(c.SeqPackage) {
		return &ConfigError{Field: "seq package", Value: c.SeqPackage, Msg: "must be a Go identifier"}
	}
	return nil
}

// Fingerprint identifies every setting that affects the output.
func (c Config) Fingerprint() string {
	return fmt.Sprintf("strategy=%s markers=%t path=%s header=%t fmt=%s fmtf=%s seq=%s",
		c.Strategy, c.LineMarkers, c.SourcePath, c.Header, c.FormatFunc, c.FormatfFunc, c.SeqPackage)
}

func isQualifiedIdent(s string) bool {
	if s == "" {
		return false
	}
	for part := range strings.SplitSeq(s, ".") {
		if !token.IsIdentifier(part) {
			return false
		}
	}
	return true
}
