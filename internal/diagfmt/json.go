package diagfmt

import (
	"encoding/json"
	"io"

	"gsp/internal/diag"
	"gsp/internal/source"
)

// Location points into a template: byte offsets always, 1-based line and
// column when positions were requested.
type Location struct {
	File    string `json:"file,omitempty"`
	Start   uint32 `json:"start"`
	End     uint32 `json:"end"`
	Line    uint32 `json:"line,omitempty"`
	Col     uint32 `json:"col,omitempty"`
	EndLine uint32 `json:"end_line,omitempty"`
	EndCol  uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

type DiagnosticJSON struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Title    string     `json:"title"`
	Message  string     `json:"message"`
	Location Location   `json:"location"`
	Notes    []NoteJSON `json:"notes,omitempty"`
}

// Report is the JSON form of the diagnostics of one template.
type Report struct {
	Template    string           `json:"template"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
}

func locationOf(span source.Span, fs *source.FileSet, opts JSONOpts) Location {
	loc := Location{Start: span.Start, End: span.End}
	if fs == nil || int(span.File) >= fs.Len() {
		return loc
	}
	loc.File = displayPath(fs.Get(span.File), false)
	if opts.Positions {
		start, end := fs.Resolve(span)
		loc.Line, loc.Col = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

// BuildReport converts bag into a Report. Errors and Warnings count the
// whole bag even when Max cuts the list.
func BuildReport(template string, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	r := Report{Template: template, Diagnostics: []DiagnosticJSON{}}
	for i, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			r.Errors++
		case diag.SevWarning:
			r.Warnings++
		}
		if opts.Max > 0 && i >= opts.Max {
			continue
		}
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: locationOf(d.Primary, fs, opts),
		}
		// заметки таймингов несут сами данные
		if opts.Notes || d.Code == diag.ObsTimings {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: locationOf(n.Span, fs, opts)})
			}
		}
		r.Diagnostics = append(r.Diagnostics, dj)
	}
	return r
}

// JSON writes the reports as one indented JSON array.
func JSON(w io.Writer, reports []Report) error {
	if reports == nil {
		reports = []Report{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}
