package fuzztests

import (
	"testing"

	"gsp/internal/diag"
	"gsp/internal/source"
	"gsp/internal/testkit"
	"gsp/internal/tokenizer"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

func FuzzTokenize(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.go.gsp", clampInput(input)))

		bag := diag.NewBag(8)
		tz := tokenizer.New(file, tokenizer.Options{Reporter: diag.BagReporter{Bag: bag}})
		frags, err := tokenizer.Collect(file, tokenizer.Options{})
		if err != nil {
			se, ok := tokenizer.AsSyntaxError(err)
			if !ok {
				t.Fatalf("non-syntax error: %v", err)
			}
			if se.Span.End > uint32(len(file.Content)) {
				t.Fatalf("error span %v outside input", se.Span)
			}
			// тот же поток с репортером: ровно одна диагностика с тем же кодом
			for _, err := range tz.All() {
				if err != nil {
					break
				}
			}
			if bag.Len() != 1 || bag.Items()[0].Code != se.Code {
				t.Fatalf("reporter got %+v, want one %s", bag.Items(), se.Code.ID())
			}
			return
		}

		eof, err := tz.Next()
		for err == nil && !eof.IsEOF() {
			eof, err = tz.Next()
		}
		if err != nil {
			t.Fatalf("second pass failed: %v", err)
		}
		if err := testkit.CheckFragmentInvariants(append(frags, eof), file); err != nil {
			t.Fatal(err)
		}
	})
}
