package translate

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"gsp/internal/fragment"
	"gsp/internal/source"
	"gsp/internal/tokenizer"
)

// ErrMalformedStream wraps every complaint about a fragment stream that the
// tokenizer could not have produced.
var ErrMalformedStream = errors.New("malformed fragment stream")

// Source yields fragments; *tokenizer.Tokenizer implements it.
type Source interface {
	Next() (fragment.Fragment, error)
}

// Translator turns a fragment stream into Go source, one chunk at a time.
type Translator struct {
	src   Source
	cfg   Config
	queue []Chunk
	err   error

	started bool
	done    bool
	inFunc  bool
	last    uint32 // line of the previous fragment

	atLineStart bool
	known       bool   // a marker has been written
	implied     uint32 // template line of the next generated line
}

// New validates cfg and returns a translator reading from src.
func New(src Source, cfg Config) (*Translator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Translator{src: src, cfg: cfg, atLineStart: true}, nil
}

// Next returns the next chunk, or io.EOF after the last one. Errors from
// the source (syntax errors) and ErrMalformedStream are sticky.
func (t *Translator) Next() (Chunk, error) {
	for len(t.queue) == 0 {
		if t.err != nil {
			return Chunk{}, t.err
		}
		if t.done {
			return Chunk{}, io.EOF
		}
		if !t.started {
			t.started = true
			if t.cfg.Header {
				t.emit(ChunkHeader, "// Code generated by gsp from "+t.cfg.SourcePath+". DO NOT EDIT.\n\n", 0)
			}
			continue
		}
		f, err := t.src.Next()
		if err != nil {
			t.err = err
			continue
		}
		t.err = t.translate(f)
	}
	c := t.queue[0]
	t.queue = t.queue[1:]
	return c, nil
}

// All iterates over the chunks; an error is yielded once as the final pair.
func (t *Translator) All() iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		for {
			c, err := t.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Chunk{}, err)
				return
			}
			if !yield(c, nil) {
				return
			}
		}
	}
}

// WriteTo writes all remaining chunks to w.
func (t *Translator) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for c, err := range t.All() {
		if err != nil {
			return n, err
		}
		m, err := io.WriteString(w, c.Text)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// TranslateString tokenizes and translates an in-memory template.
// cfg.SourcePath defaults to path.
func TranslateString(path, text string, cfg Config) (string, error) {
	if cfg.SourcePath == "" {
		cfg.SourcePath = path
	}
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(path, []byte(text)))
	tr, err := New(tokenizer.New(file, tokenizer.Options{}), cfg)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if _, err := tr.WriteTo(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (t *Translator) translate(f fragment.Fragment) error {
	if f.IsEOF() {
		if t.inFunc {
			return malformed(f, "stream ends inside a template function")
		}
		t.done = true
		return nil
	}
	if f.Line == 0 || f.Line < t.last {
		return malformed(f, fmt.Sprintf("line %d after line %d", f.Line, t.last))
	}
	t.last = f.Line

	// пустые фрагменты пропускаются, строка уже учтена
	switch f.Kind {
	case fragment.HostCode:
		if f.Text == "" {
			return nil
		}
		t.mark(f.Line)
		t.emit(ChunkCode, f.Text, f.Line)
	case fragment.Literal:
		if f.Text == "" {
			return nil
		}
		t.statement(quoteLiteral(f.Text), f.Line)
	case fragment.Expression:
		if strings.TrimSpace(f.Text) == "" {
			return nil
		}
		t.statement(t.renderExpr(f), f.Line)
	case fragment.FuncOpen:
		if t.inFunc {
			return malformed(f, "nested template function")
		}
		if !strings.HasSuffix(f.Text, ")") {
			return malformed(f, "signature does not end with a parameter list")
		}
		t.inFunc = true
		t.lineStart()
		t.mark(f.Line)
		t.emit(ChunkPrologue, t.prologue(f.Text), f.Line)
	case fragment.FuncClose:
		if !t.inFunc {
			return malformed(f, "close without open template function")
		}
		t.inFunc = false
		t.lineStart()
		t.mark(f.Line)
		t.emit(ChunkEpilogue, t.epilogue(), f.Line)
	default:
		return malformed(f, "unexpected fragment kind "+f.Kind.String())
	}
	return nil
}

func malformed(f fragment.Fragment, msg string) error {
	return fmt.Errorf("%w: %s at line %d", ErrMalformedStream, msg, f.Line)
}

// statement emits one emission statement for the rendered string expression.
func (t *Translator) statement(expr string, line uint32) {
	t.lineStart()
	t.mark(line)
	var text string
	switch s := t.cfg.Strategy; {
	case s.IsAppend():
		text = s.name + " = append(" + s.name + ", " + expr + "...)\n"
	case s.IsCallback():
		text = s.name + "(" + expr + ")\n"
	default:
		text = "if !yield(" + expr + ") { return nil }\n"
	}
	t.emit(ChunkStatement, text, line)
}

// mark emits a line marker unless the output is already known to be at
// line. Statements call lineStart first so that the check sees the line the
// statement will actually occupy.
func (t *Translator) mark(line uint32) {
	if !t.cfg.LineMarkers || (t.known && t.implied == line) {
		return
	}
	t.lineStart()
	t.emit(ChunkMarker, "//line "+t.cfg.SourcePath+":"+strconv.FormatUint(uint64(line), 10)+"\n", line)
	t.known = true
	t.implied = line
}

func (t *Translator) lineStart() {
	if !t.atLineStart {
		t.emit(ChunkNewline, "\n", t.last)
	}
}

func (t *Translator) emit(kind ChunkKind, text string, line uint32) {
	if text == "" {
		return
	}
	t.queue = append(t.queue, Chunk{Kind: kind, Text: text, Line: line})
	t.atLineStart = text[len(text)-1] == '\n'
	if t.known {
		t.implied += safecast.MustConv[uint32](strings.Count(text, "\n"))
	}
}

type fragmentSlice struct {
	frags []fragment.Fragment
	last  fragment.Fragment
}

// FromFragments returns a Source replaying frags. When frags does not end
// with an EOF fragment, one is supplied.
func FromFragments(frags []fragment.Fragment) Source {
	s := &fragmentSlice{frags: frags, last: fragment.Fragment{Kind: fragment.EOF}}
	if n := len(frags); n > 0 {
		s.last.Line = frags[n-1].Line
		s.last.Span = source.Span{File: frags[n-1].Span.File, Start: frags[n-1].Span.End, End: frags[n-1].Span.End}
	}
	return s
}

func (s *fragmentSlice) Next() (fragment.Fragment, error) {
	if len(s.frags) == 0 {
		return s.last, nil
	}
	f := s.frags[0]
	s.frags = s.frags[1:]
	return f, nil
}
