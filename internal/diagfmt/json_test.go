package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"gsp/internal/diag"
	"gsp/internal/source"
)

func TestJSONPositionsAndNotes(t *testing.T) {
	bag, fs := sampleBag(t)
	report := BuildReport("test.gsp", bag, fs, JSONOpts{Positions: true, Notes: true})
	var buf bytes.Buffer
	if err := JSON(&buf, []Report{report}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out []Report
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 || out[0].Template != "test.gsp" || out[0].Errors != 1 || len(out[0].Diagnostics) != 1 {
		t.Fatalf("unexpected reports: %+v", out)
	}
	d := out[0].Diagnostics[0]
	if d.Code != "LEX1001" || d.Severity != "ERROR" || d.Title != "Unterminated text block" {
		t.Fatalf("unexpected header: %+v", d)
	}
	if d.Location.File != "test.gsp" || d.Location.Line != 2 || d.Location.Col != 1 || d.Location.EndCol != 3 {
		t.Fatalf("unexpected location: %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "file starts here" || d.Notes[0].Location.Line != 1 {
		t.Fatalf("unexpected notes: %+v", d.Notes)
	}
}

func TestJSONMaxAndNoNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.gsp", []byte("$x $y $z"))
	bag := diag.NewBag(10)
	for i := range uint32(3) {
		sp := source.Span{File: id, Start: i * 3, End: i*3 + 2}
		bag.Add(diag.NewError(diag.LexBadEscape, sp, "bad escape").WithNote(sp, "here"))
	}

	report := BuildReport("m.gsp", bag, fs, JSONOpts{Max: 2})
	if len(report.Diagnostics) != 2 || report.Errors != 3 {
		t.Fatalf("diagnostics = %d, errors = %d", len(report.Diagnostics), report.Errors)
	}
	for _, d := range report.Diagnostics {
		if d.Notes != nil {
			t.Fatalf("notes must be omitted: %+v", d)
		}
		if d.Location.Line != 0 || d.Location.File != "m.gsp" {
			t.Fatalf("positions must be omitted: %+v", d.Location)
		}
	}
}

func TestJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Fatalf("JSON(nil) = %q", got)
	}
}
