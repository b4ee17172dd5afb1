package tokenizer

import "gsp/internal/diag"

// Sigil introduces every markup sequence.
const Sigil = '$'

type Options struct {
	// Reporter receives a diagnostic for the first syntax error; may be nil.
	Reporter diag.Reporter
}
