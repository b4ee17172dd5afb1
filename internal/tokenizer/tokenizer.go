package tokenizer

import (
	"errors"
	"iter"

	"gsp/internal/fragment"
	"gsp/internal/source"
)

type mode uint8

const (
	modeCode mode = iota
	modeText
)

// Tokenizer splits one template into fragments. It is lazy and forward-only;
// to start over, create a new Tokenizer.
type Tokenizer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	mode   mode
	queue  []fragment.Fragment
	err    error
	done   bool

	textOpen source.Span // маркер $> текущего текстового блока
	funcOpen source.Span // директива $func открытой функции
	inFunc   bool
}

func New(file *source.File, opts Options) *Tokenizer {
	return &Tokenizer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// File returns the template being tokenized.
func (tz *Tokenizer) File() *source.File { return tz.file }

// Next returns the next fragment. After the last fragment it returns an EOF
// fragment forever; after a syntax error it returns that *SyntaxError forever.
// Fragments completed before the error are still delivered first.
func (tz *Tokenizer) Next() (fragment.Fragment, error) {
	for len(tz.queue) == 0 {
		if tz.err != nil {
			return fragment.Fragment{}, tz.err
		}
		if tz.done {
			return tz.eof(), nil
		}
		switch tz.mode {
		case modeCode:
			tz.scanCode()
		case modeText:
			tz.scanText()
		}
	}
	f := tz.queue[0]
	tz.queue = tz.queue[1:]
	return f, nil
}

// All iterates over fragments up to, but not including, EOF. A syntax
// error is yielded once as the final pair.
func (tz *Tokenizer) All() iter.Seq2[fragment.Fragment, error] {
	return func(yield func(fragment.Fragment, error) bool) {
		for {
			f, err := tz.Next()
			if err != nil {
				yield(fragment.Fragment{}, err)
				return
			}
			if f.IsEOF() {
				return
			}
			if !yield(f, nil) {
				return
			}
		}
	}
}

// Collect tokenizes file completely.
func Collect(file *source.File, opts Options) ([]fragment.Fragment, error) {
	var out []fragment.Fragment
	for f, err := range New(file, opts).All() {
		if err != nil {
			return out, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Tokenize is a convenience for in-memory templates.
func Tokenize(path string, src []byte) ([]fragment.Fragment, error) {
	fs := source.NewFileSet()
	return Collect(fs.Get(fs.AddVirtual(path, src)), Options{})
}

// AsSyntaxError unwraps err into a *SyntaxError.
func AsSyntaxError(err error) (*SyntaxError, bool) {
	var se *SyntaxError
	ok := errors.As(err, &se)
	return se, ok
}

func (tz *Tokenizer) push(kind fragment.Kind, text string, sp source.Span) *fragment.Fragment {
	tz.queue = append(tz.queue, fragment.Fragment{
		Kind: kind,
		Text: text,
		Line: tz.line(sp.Start),
		Span: sp,
	})
	return &tz.queue[len(tz.queue)-1]
}

func (tz *Tokenizer) eof() fragment.Fragment {
	sp := tz.cursor.SpanFrom(tz.cursor.Mark())
	return fragment.Fragment{Kind: fragment.EOF, Line: tz.line(sp.Start), Span: sp}
}

func (tz *Tokenizer) line(off uint32) uint32 {
	return tz.file.Position(off).Line
}
