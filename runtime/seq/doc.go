// Package seq provides the lazy, single-pass sequence returned by template
// functions generated with the yield strategy.
//
// A Sequence wraps a producer function that pushes values through a yield
// callback. The producer runs as a coroutine (iter.Pull2): it is started
// eagerly and runs up to its first value when the Sequence is created, and
// every Advance resumes it until the next value.
//
//	s := page.Render(items)
//	defer s.Close()
//	for !s.AtEnd() {
//		io.WriteString(w, s.Current())
//		if err := s.Advance(); err != nil {
//			return err
//		}
//	}
//
// Errors returned by the producer are recorded and surfaced by the Advance
// call during which they occurred, and by Err. A Sequence is not safe for
// concurrent use and must not be copied; pass *Sequence and use Take to hand
// ownership over.
package seq
