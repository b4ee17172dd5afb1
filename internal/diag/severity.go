package diag

import "strings"

// Severity orders diagnostics. Only SevError fails a template.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Label is the lower-case name used by the one-line diagnostic format.
func (s Severity) Label() string {
	return strings.ToLower(s.String())
}

// Fails reports whether a diagnostic of this severity makes generation of
// its template fail.
func (s Severity) Fails() bool {
	return s >= SevError
}
