package diagfmt

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color     bool
	Context   int8 // строк контекста перед строкой ошибки
	ShowNotes bool
	Absolute  bool // полные пути вместо коротких
}

// JSONOpts configures the JSON report.
type JSONOpts struct {
	Positions bool // line/col for every location
	Notes     bool
	Max       int // at most this many diagnostics per template, 0 for all
}
