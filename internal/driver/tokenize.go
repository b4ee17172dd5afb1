package driver

import (
	"gsp/internal/diag"
	"gsp/internal/fragment"
	"gsp/internal/source"
	"gsp/internal/tokenizer"
)

type TokenizeResult struct {
	FileSet   *source.FileSet
	File      *source.File
	Fragments []fragment.Fragment
	Bag       *diag.Bag
}

// Tokenize loads a template and splits it into fragments. A syntax error
// ends the stream early and is reported in Bag; only I/O errors are returned.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)

	frags, _ := tokenize(file, bag)
	return &TokenizeResult{
		FileSet:   fs,
		File:      file,
		Fragments: frags,
		Bag:       bag,
	}, nil
}

// tokenize collects fragments including the final EOF; the syntax error
// goes to bag through the tokenizer's reporter and is also returned.
func tokenize(file *source.File, bag *diag.Bag) ([]fragment.Fragment, error) {
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	tz := tokenizer.New(file, tokenizer.Options{Reporter: reporter})
	var frags []fragment.Fragment
	for {
		f, err := tz.Next()
		if err != nil {
			return frags, err
		}
		frags = append(frags, f)
		if f.IsEOF() {
			return frags, nil
		}
	}
}
