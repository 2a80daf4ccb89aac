package page

import (
	"fmt"
	"sort"
	"strings"

	"github.com/signadot/jjpages/label"
	"github.com/signadot/jjpages/span"
)

// Builder accumulates the text of a page and its overlays. The zero value
// is ready to use. A Builder must not be copied after first use.
type Builder struct {
	buf strings.Builder

	labels  span.DisjointStack[label.ID]
	folds   span.Stack[struct{}]
	targets span.Stack[Target]
	actions span.Stack[[]Action]

	// one entry per PushLabel, true when the name resolved and a label
	// was opened for it
	sinkLabels []bool

	finished bool
}

func (b *Builder) check() {
	if b.finished {
		span.Invariant(ErrFinished)
	}
}

// Len is the number of bytes written so far.
func (b *Builder) Len() int {
	return b.buf.Len()
}

// Labelled returns a writer highlighting its one write with id. Labels are
// disjoint: a label opened inside another replaces it for its extent.
func (b *Builder) Labelled(id label.ID) *Scoped[label.ID] {
	b.check()
	return &Scoped[label.ID]{b: b, tracker: &b.labels, value: id}
}

// Folding returns a writer whose one write is a folding region.
func (b *Builder) Folding() *Scoped[struct{}] {
	b.check()
	return &Scoped[struct{}]{b: b, tracker: &b.folds}
}

// JumpTo returns a writer whose one write jumps to t.
func (b *Builder) JumpTo(t Target) *Scoped[Target] {
	b.check()
	return &Scoped[Target]{b: b, tracker: &b.targets, value: t}
}

// WithActions returns a writer whose one write offers actions.
func (b *Builder) WithActions(actions ...Action) *Scoped[[]Action] {
	b.check()
	return &Scoped[[]Action]{b: b, tracker: &b.actions, value: actions}
}

func (b *Builder) Write(p []byte) (int, error) {
	b.check()
	return b.buf.Write(p)
}

func (b *Builder) WriteString(s string) (int, error) {
	b.check()
	return b.buf.WriteString(s)
}

func (b *Builder) Printf(format string, args ...any) {
	b.check()
	fmt.Fprintf(&b.buf, format, args...)
}

func (b *Builder) Println(args ...any) {
	b.check()
	fmt.Fprintln(&b.buf, args...)
}

func (b *Builder) PushFold() {
	b.check()
	b.folds.Push(b.buf.String(), struct{}{})
}

func (b *Builder) PopFold() {
	b.check()
	b.folds.Pop(b.buf.String())
}

func (b *Builder) PushTarget(t Target) {
	b.check()
	b.targets.Push(b.buf.String(), t)
}

func (b *Builder) PopTarget() {
	b.check()
	b.targets.Pop(b.buf.String())
}

func (b *Builder) PushActions(actions ...Action) {
	b.check()
	b.actions.Push(b.buf.String(), actions)
}

func (b *Builder) PopActions() {
	b.check()
	b.actions.Pop(b.buf.String())
}

// PushLabel opens the label called name. Names missing from the legend
// open nothing, so the enclosing label keeps covering the text.
func (b *Builder) PushLabel(name string) {
	b.check()
	id, ok := label.TryGet(name)
	b.sinkLabels = append(b.sinkLabels, ok)
	if ok {
		b.labels.Push(b.buf.String(), id)
	}
}

// PopLabel closes the label opened by the matching PushLabel.
func (b *Builder) PopLabel() {
	b.check()
	n := len(b.sinkLabels)
	if n == 0 {
		span.Invariant(span.ErrPopEmpty)
	}
	opened := b.sinkLabels[n-1]
	b.sinkLabels = b.sinkLabels[:n-1]
	if opened {
		b.labels.Pop(b.buf.String())
	}
}

// Finish freezes the builder into a Page. The builder is unusable
// afterwards. Labels are sorted by start offset, since a disjoint label
// closed by a nested one is recorded after it.
func (b *Builder) Finish() *Page {
	b.check()
	if b.labels.Depth() != 0 || b.folds.Depth() != 0 || b.targets.Depth() != 0 || b.actions.Depth() != 0 {
		span.Invariant(ErrUnclosed)
	}
	b.finished = true
	labels := b.labels.Done()
	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Span.Start < labels[j].Span.Start
	})
	return &Page{
		Text:    b.buf.String(),
		Labels:  labels,
		Folds:   b.folds.Done(),
		Targets: b.targets.Done(),
		Actions: b.actions.Done(),
	}
}
