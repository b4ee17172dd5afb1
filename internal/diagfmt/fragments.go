package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gsp/internal/fragment"
	"gsp/internal/source"
)

// FragmentOutput is the JSON form of a fragment.
type FragmentOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Format  string      `json:"format,omitempty"`
	Filters []string    `json:"filters,omitempty"`
	Line    uint32      `json:"line"`
	Span    source.Span `json:"span"`
}

// FormatFragmentsPretty выводит фрагменты в человекочитаемом формате.
func FormatFragmentsPretty(w io.Writer, frags []fragment.Fragment, fs *source.FileSet) error {
	for i, f := range frags {
		startPos, endPos := fs.Resolve(f.Span)
		if _, err := fmt.Fprintf(w, "%3d: %-10s", i+1, f.Kind); err != nil {
			return err
		}
		if f.Text != "" {
			fmt.Fprintf(w, " %q", f.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		if f.Format != "" {
			fmt.Fprintf(w, " format=%q", f.Format)
		}
		if len(f.Filters) > 0 {
			fmt.Fprintf(w, " filters=%s", strings.Join(f.Filters, "|"))
		}
		fmt.Fprintln(w)
	}
	return nil
}

// FormatFragmentsJSON выводит фрагменты в JSON формате
func FormatFragmentsJSON(w io.Writer, frags []fragment.Fragment) error {
	output := make([]FragmentOutput, 0, len(frags))
	for _, f := range frags {
		output = append(output, FragmentOutput{
			Kind:    f.Kind.String(),
			Text:    f.Text,
			Format:  f.Format,
			Filters: f.Filters,
			Line:    f.Line,
			Span:    f.Span,
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
