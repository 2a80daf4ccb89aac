package page

import (
	"fmt"

	"github.com/signadot/jjpages/span"
)

// Scoped is a single-use writer: its one write opens an overlay, appends
// to the page and closes the overlay. The close happens even if the write
// panics. Writing twice panics with ErrScopeConsumed.
//
// Scoped implements io.Writer, so fmt.Fprintf(b.Labelled(id), ...) is one
// write.
type Scoped[T any] struct {
	b       *Builder
	tracker span.Tracker[T]
	value   T
	used    bool
}

func (s *Scoped[T]) begin() {
	s.b.check()
	if s.used {
		span.Invariant(ErrScopeConsumed)
	}
	s.used = true
	s.tracker.Push(s.b.buf.String(), s.value)
}

func (s *Scoped[T]) end() {
	s.tracker.Pop(s.b.buf.String())
}

func (s *Scoped[T]) Write(p []byte) (int, error) {
	s.begin()
	defer s.end()
	return s.b.buf.Write(p)
}

func (s *Scoped[T]) WriteString(str string) (int, error) {
	s.begin()
	defer s.end()
	return s.b.buf.WriteString(str)
}

func (s *Scoped[T]) Printf(format string, args ...any) {
	s.begin()
	defer s.end()
	fmt.Fprintf(&s.b.buf, format, args...)
}

func (s *Scoped[T]) Println(args ...any) {
	s.begin()
	defer s.end()
	fmt.Fprintln(&s.b.buf, args...)
}
