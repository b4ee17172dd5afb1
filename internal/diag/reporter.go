package diag

import "gsp/internal/source"

// Reporter получает диагностики по мере их обнаружения.
// Реализации: BagReporter, DedupReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// BagReporter складывает диагностики в Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag != nil {
		r.Bag.Add(Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
	}
}

// Pending is a diagnostic being assembled for a Reporter.
type Pending struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return &Pending{to: r, d: NewError(code, primary, msg)}
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return &Pending{to: r, d: Warning(code, primary, msg)}
}

// WithNote attaches a secondary location.
func (p *Pending) WithNote(sp source.Span, msg string) *Pending {
	if p != nil {
		p.d = p.d.WithNote(sp, msg)
	}
	return p
}

// Emit sends the diagnostic; later calls do nothing.
func (p *Pending) Emit() {
	if p == nil || p.sent {
		return
	}
	p.sent = true
	if p.to != nil {
		p.to.Report(p.d.Code, p.d.Severity, p.d.Primary, p.d.Message, p.d.Notes)
	}
}

// Diagnostic returns the diagnostic as assembled so far.
func (p *Pending) Diagnostic() Diagnostic {
	if p == nil {
		return Diagnostic{}
	}
	return p.d
}
