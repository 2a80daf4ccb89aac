// Package span tracks byte intervals of annotations over a growing text
// buffer.
//
// A tracker is fed the buffer each time an annotation opens (Push) or
// closes (Pop) and turns those pairs into closed [Start, End) spans. Two
// strategies exist: Stack, where annotations nest, and DisjointStack, where
// opening an annotation suspends the enclosing one so that no two finished
// spans of the same tracker overlap.
package span

import (
	"fmt"
	"strings"
	"unicode"
)

// Span is a half-open byte interval [Start, End) into a page's text.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether off lies inside s.
func (s Span) Contains(off int) bool {
	return s.Start <= off && off < s.End
}

// Intersects reports whether s and o touch. Touching at a single boundary
// counts, so that a zero-width cursor range at the end of a span still
// selects it.
func (s Span) Intersects(o Span) bool {
	return s.Start <= o.End && o.Start <= s.End
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Entry is a finished span with its payload.
type Entry[T any] struct {
	Span  Span
	Value T
}

// Tracker is implemented by Stack and DisjointStack.
type Tracker[T any] interface {
	// Push opens an annotation at len(buf).
	Push(buf string, v T)
	// Pop closes the innermost open annotation at the end of buf, not
	// counting trailing whitespace. It panics with an *InvariantError if
	// nothing is open.
	Pop(buf string)
	// Depth is the number of open annotations.
	Depth() int
	// Done returns the finished entries in the order they were closed.
	Done() []Entry[T]
}

type pending[T any] struct {
	start int
	value T
}

// closeOffset is where an annotation opened at start closes when the
// buffer is buf. Trailing whitespace, notably the line break ending the
// annotated line, is excluded.
func closeOffset(buf string, start int) int {
	end := len(strings.TrimRightFunc(buf, unicode.IsSpace))
	if end < start {
		return start
	}
	return end
}

// Stack is the nesting strategy. Push and Pop must be matched LIFO.
type Stack[T any] struct {
	open []pending[T]
	done []Entry[T]
}

func (s *Stack[T]) Push(buf string, v T) {
	s.open = append(s.open, pending[T]{start: len(buf), value: v})
}

func (s *Stack[T]) Pop(buf string) {
	n := len(s.open)
	if n == 0 {
		Invariant(ErrPopEmpty)
	}
	top := s.open[n-1]
	s.open = s.open[:n-1]
	s.done = append(s.done, Entry[T]{
		Span:  Span{Start: top.start, End: closeOffset(buf, top.start)},
		Value: top.value,
	})
}

func (s *Stack[T]) Depth() int {
	return len(s.open)
}

func (s *Stack[T]) Done() []Entry[T] {
	return s.done
}

// DisjointStack is the replacing strategy: a Push closes the enclosing
// annotation at the new start, and a Pop reopens the enclosing annotation
// where the inner one closed. At any time at most one annotation is
// emitting, and the finished spans never overlap. Empty spans are dropped.
type DisjointStack[T any] struct {
	open []pending[T]
	done []Entry[T]
}

func (s *DisjointStack[T]) Push(buf string, v T) {
	at := len(buf)
	if n := len(s.open); n > 0 {
		top := &s.open[n-1]
		s.emit(top.start, at, top.value)
		top.start = at
	}
	s.open = append(s.open, pending[T]{start: at, value: v})
}

func (s *DisjointStack[T]) Pop(buf string) {
	n := len(s.open)
	if n == 0 {
		Invariant(ErrPopEmpty)
	}
	top := s.open[n-1]
	s.open = s.open[:n-1]
	end := closeOffset(buf, top.start)
	s.emit(top.start, end, top.value)
	if n > 1 {
		s.open[n-2].start = end
	}
}

func (s *DisjointStack[T]) emit(start, end int, v T) {
	if end <= start {
		return
	}
	s.done = append(s.done, Entry[T]{Span: Span{Start: start, End: end}, Value: v})
}

func (s *DisjointStack[T]) Depth() int {
	return len(s.open)
}

func (s *DisjointStack[T]) Done() []Entry[T] {
	return s.done
}
