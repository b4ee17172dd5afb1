package tokenizer

import (
	"fmt"

	"gsp/internal/diag"
	"gsp/internal/source"
)

// SyntaxError describes malformed template markup. The tokenizer stops at
// the first one and returns it from every later Next call.
type SyntaxError struct {
	Code diag.Code
	Path string
	Line uint32
	Col  uint32
	Span source.Span
	Msg  string
	// Related points at the construct that makes this one invalid
	// (the still-open text block, the enclosing function).
	Related *source.Span
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Col, e.Msg)
}

func (tz *Tokenizer) fail(code diag.Code, sp source.Span, msg string, related *source.Span) {
	pos := tz.file.Position(sp.Start)
	tz.err = &SyntaxError{
		Code:    code,
		Path:    tz.file.Path,
		Line:    pos.Line,
		Col:     pos.Col,
		Span:    sp,
		Msg:     msg,
		Related: related,
	}
	if tz.opts.Reporter == nil {
		return
	}
	b := diag.ReportError(tz.opts.Reporter, code, sp, msg)
	if related != nil {
		b.WithNote(*related, relatedNote(code))
	}
	b.Emit()
}

func relatedNote(code diag.Code) string {
	switch code {
	case diag.LexNestedText, diag.LexUnterminatedText:
		return "text block opened here"
	case diag.LexNestedFunc, diag.LexUnterminatedFunc:
		return "template function opened here"
	default:
		return "related location"
	}
}
