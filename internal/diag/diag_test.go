package diag

import (
	"testing"

	"gsp/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	file := fs.Add("/workspace/views/page.go.gsp", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     CfgBadName,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     LexUnterminatedText,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	diags = append(diags, Errorf(IOLoadFileError, source.Span{File: 7}, "failed to load %s", "gone.gsp"))

	expected := "error IO4001 failed to load gone.gsp\n" +
		"error LEX1001 views/page.go.gsp:1:1 first line second\n" +
		"note LEX1001 views/page.go.gsp:2:1 note line\n" +
		"warning CFG3002 views/page.go.gsp:2:1 another"

	if got := FormatShort(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
	if got := FormatShort(diags[:1], fs, false); got != "warning CFG3002 views/page.go.gsp:2:1 another" {
		t.Fatalf("without notes: %q", got)
	}
}

func TestBagLimitSortDedup(t *testing.T) {
	bag := NewBag(3)
	r := BagReporter{Bag: bag}

	ReportError(r, LexBadEscape, source.Span{Start: 9, End: 10}, "late").Emit()
	ReportWarning(r, LexEmptyFilter, source.Span{Start: 1, End: 2}, "early").Emit()
	ReportError(r, LexBadEscape, source.Span{Start: 9, End: 10}, "late again").Emit()
	if bag.Add(NewError(LexEmptyExpr, source.Span{}, "over limit")) {
		t.Fatal("bag accepted a diagnostic past its limit")
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatal("expected both errors and warnings")
	}

	bag.Sort()
	if got := bag.Items()[0].Message; got != "early" {
		t.Errorf("first after sort = %q", got)
	}
	bag.Dedup()
	if bag.Len() != 2 {
		t.Errorf("Len after dedup = %d, want 2", bag.Len())
	}
}

func TestPendingEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportError(BagReporter{Bag: bag}, LexStrayEnd, source.Span{}, "stray").
		WithNote(source.Span{Start: 1, End: 2}, "here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("Len = %d, want 1", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Errorf("note lost")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 4, End: 7}
	for range 3 {
		r.Report(LexBadFilter, SevError, sp, "bad", nil)
	}
	// одна ошибка разметки на участок
	r.Report(LexEmptyFilter, SevError, sp, "other", nil)
	r.Report(IOWriteFileError, SevWarning, sp, "cache", nil)
	r.Report(IOWriteFileError, SevWarning, sp, "cache", nil)
	r.Report(IOWriteFileError, SevWarning, sp, "cache again", nil)
	r.Report(LexBadFilter, SevError, source.Span{Start: 8, End: 9}, "bad", nil)
	if bag.Len() != 4 {
		t.Fatalf("Len = %d, want 4", bag.Len())
	}
	if got := bag.Items()[0].Code; got != LexBadFilter {
		t.Errorf("first markup report must win, got %s", got.ID())
	}
}

func TestSeverity(t *testing.T) {
	if SevWarning.Label() != "warning" || SevError.String() != "ERROR" || Severity(9).String() != "UNKNOWN" {
		t.Fatalf("names: %s %s %s", SevWarning.Label(), SevError, Severity(9))
	}
	if SevWarning.Fails() || !SevError.Fails() {
		t.Fatal("only errors fail a template")
	}
	bag := NewBag(4)
	bag.Add(Warning(IOWriteFileError, source.Span{}, "cache"))
	if bag.HasErrors() || !bag.HasWarnings() {
		t.Fatal("a warning must not fail the bag")
	}
	bag.Add(Errorf(IOLoadFileError, source.Span{}, "failed to load %s", "a.gsp"))
	if !bag.HasErrors() || bag.Items()[1].Message != "failed to load a.gsp" {
		t.Fatalf("items = %+v", bag.Items())
	}
}

func TestWithNoteDoesNotShareNotes(t *testing.T) {
	base := NewError(LexNestedText, source.Span{}, "nested").WithNote(source.Span{Start: 1}, "outer")
	a := base.WithNote(source.Span{Start: 2}, "a")
	b := base.WithNote(source.Span{Start: 3}, "b")
	if len(base.Notes) != 1 || a.Notes[1].Msg != "a" || b.Notes[1].Msg != "b" {
		t.Fatalf("notes shared: base=%v a=%v b=%v", base.Notes, a.Notes, b.Notes)
	}
	if !LexNestedText.IsMarkup() || GenMalformedStream.IsMarkup() {
		t.Fatal("IsMarkup")
	}
}

func TestCodeIDs(t *testing.T) {
	tests := map[Code]string{
		LexNestedText:      "LEX1006",
		GenMalformedStream: "GEN2001",
		CfgManifest:        "CFG3004",
		IOLoadFileError:    "IO4001",
		ObsTimings:         "OBS6001",
		Code(9999):         "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if Code(1999).Title() != "Unknown error" {
		t.Errorf("fallback title = %q", Code(1999).Title())
	}
}
