// Package diag defines the diagnostic model shared by the tokenizer, the
// translator and the driver.
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – compact numeric identifier with a stable string form
//     (LEXnnnn for template markup, GENnnnn for code generation,
//     CFGnnnn for configuration, IOnnnn for file access).
//   - Message – short, actionable text.
//   - Primary – the source.Span inside the template.
//   - Notes – optional secondary spans with extra context.
//
// Producers emit through a Reporter (usually BagReporter, optionally wrapped
// in DedupReporter) so they never depend on storage or rendering. Rendering
// lives in internal/diagfmt.
package diag
