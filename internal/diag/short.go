package diag

import (
	"cmp"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gsp/internal/source"
)

// shortLine is one line of the short format.
type shortLine struct {
	label string
	code  string
	where string // "path:line:col", empty without a location
	path  string
	line  uint32
	col   uint32
	msg   string
}

func (l shortLine) String() string {
	parts := []string{l.label, l.code}
	if l.where != "" {
		parts = append(parts, l.where)
	}
	return strings.Join(append(parts, l.msg), " ")
}

// FormatShort renders diagnostics one per line:
//
//	error LEX1001 views/page.go.gsp:3:5 text block is never closed with $<
//	error IO4001 failed to load missing.go.gsp: no such file or directory
//
// Diagnostics without a location in fs come first, in their original
// order; the rest are sorted by position. Notes follow as "note" lines
// when withNotes is set. Messages are folded onto one line.
func FormatShort(diags []Diagnostic, fs *source.FileSet, withNotes bool) string {
	var loose, located []shortLine
	for i := range diags {
		d := &diags[i]
		first := shortLine{label: d.Severity.Label(), code: d.Code.ID(), msg: oneLine(d.Message)}
		if !locate(&first, fs, d.Primary) {
			loose = append(loose, first)
			continue
		}
		located = append(located, first)
		if !withNotes {
			continue
		}
		for _, n := range d.Notes {
			note := shortLine{label: "note", code: first.code, msg: oneLine(n.Msg)}
			if locate(&note, fs, n.Span) {
				located = append(located, note)
			}
		}
	}
	slices.SortStableFunc(located, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			cmp.Compare(a.label, b.label),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})

	lines := make([]string, 0, len(loose)+len(located))
	for _, l := range slices.Concat(loose, located) {
		lines = append(lines, l.String())
	}
	return strings.Join(lines, "\n")
}

// locate fills the position of l from sp; false when sp is not in fs.
func locate(l *shortLine, fs *source.FileSet, sp source.Span) bool {
	if fs == nil || int(sp.File) >= fs.Len() {
		return false
	}
	start, _ := fs.Resolve(sp)
	l.path = strings.TrimPrefix(filepath.ToSlash(fs.Get(sp.File).FormatPath("relative", fs.BaseDir())), "./")
	l.line, l.col = start.Line, start.Col
	l.where = l.path + ":" + strconv.FormatUint(uint64(l.line), 10) + ":" + strconv.FormatUint(uint64(l.col), 10)
	return true
}

func oneLine(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
