package seq

import (
	"errors"
	"iter"
	"strings"
)

// ErrEnded is returned by Advance after the sequence completed normally.
var ErrEnded = errors.New("seq: advance past end of sequence")

// noCopy lets go vet's copylocks check flag copied Sequences.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Sequence is a lazily pulled stream of values of type T.
type Sequence[T any] struct {
	_    noCopy
	next func() (T, error, bool)
	stop func()
	cur  T
	err  error
	done bool
}

// New starts fn and runs it to its first value. fn must stop and return when
// yield reports false; its returned error terminates the sequence.
func New[T any](fn func(yield func(T) bool) error) *Sequence[T] {
	s := &Sequence[T]{}
	s.next, s.stop = iter.Pull2(producer(fn))
	s.pull()
	return s
}

// producer adapts fn to a Seq2 whose final pair carries the error, if any.
func producer[T any](fn func(yield func(T) bool) error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		open := true
		err := fn(func(v T) bool {
			if !open {
				return false
			}
			open = yield(v, nil)
			return open
		})
		if err != nil && open {
			var zero T
			yield(zero, err)
		}
	}
}

func (s *Sequence[T]) pull() error {
	v, err, ok := s.next()
	switch {
	case !ok:
		s.release()
		return nil
	case err != nil:
		s.err = err
		s.release()
		return err
	}
	s.cur = v
	return nil
}

// release drops the coroutine; stop runs at most once.
func (s *Sequence[T]) release() {
	var zero T
	s.cur = zero
	s.done = true
	if s.stop == nil {
		return
	}
	stop := s.stop
	s.next, s.stop = nil, nil
	stop()
}

// AtEnd reports whether no current value exists.
func (s *Sequence[T]) AtEnd() bool { return s.done }

// HasNext is the negation of AtEnd.
func (s *Sequence[T]) HasNext() bool { return !s.done }

// Current returns the current value. It panics at the end of the sequence.
func (s *Sequence[T]) Current() T {
	if s.done {
		panic("seq: Current called at end of sequence")
	}
	return s.cur
}

// Advance resumes the producer until its next value. It returns the error
// the producer failed with during this step. Called at the end, it returns
// the terminal error again, or ErrEnded after normal completion.
// A panic in the producer propagates out of Advance.
func (s *Sequence[T]) Advance() error {
	if s.done {
		if s.err != nil {
			return s.err
		}
		return ErrEnded
	}
	return s.pull()
}

// Err returns the error that terminated the sequence, if any.
func (s *Sequence[T]) Err() error { return s.err }

// Close abandons the sequence and releases the producer. The producer's
// pending yield returns false so its deferred calls run. Close is idempotent.
func (s *Sequence[T]) Close() {
	s.release()
}

// Take moves the sequence into a new handle and leaves s empty and at end.
func (s *Sequence[T]) Take() *Sequence[T] {
	t := &Sequence[T]{next: s.next, stop: s.stop, cur: s.cur, err: s.err, done: s.done}
	var zero T
	s.next, s.stop, s.cur, s.err, s.done = nil, nil, zero, nil, true
	return t
}

// All ranges over the remaining values, starting with the current one.
// Stopping early keeps the rest for later; check Err after the loop.
func (s *Sequence[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for !s.done {
			if !yield(s.cur) {
				return
			}
			if s.Advance() != nil {
				return
			}
		}
	}
}

// Collect drains s into a slice and closes it.
func Collect[T any](s *Sequence[T]) ([]T, error) {
	defer s.Close()
	var out []T
	for v := range s.All() {
		out = append(out, v)
	}
	return out, s.Err()
}

// Concat drains s, joining the values, and closes it.
func Concat[S ~string](s *Sequence[S]) (S, error) {
	defer s.Close()
	var b strings.Builder
	for v := range s.All() {
		b.WriteString(string(v))
	}
	return S(b.String()), s.Err()
}

// FromSlice returns a sequence over items; mostly useful in tests.
func FromSlice[T any](items []T) *Sequence[T] {
	return New(func(yield func(T) bool) error {
		for _, v := range items {
			if !yield(v) {
				return nil
			}
		}
		return nil
	})
}
