// Package page builds annotated text: plain text plus overlays of
// highlight labels, folding regions, jump targets and available actions
// whose spans are aligned to the text byte for byte.
//
// A Builder is written once, front to back. Overlays are opened and closed
// around writes, either through a Scoped writer, which covers exactly one
// write, or through explicit Push/Pop pairs for regions spanning many
// writes. Finish freezes the result into an immutable Page.
package page

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/signadot/jjpages/label"
	"github.com/signadot/jjpages/span"
)

// Target is the destination of a jump target overlay: a filesystem path.
type Target struct {
	Path string
}

// Action is a command the editor may invoke on a region of the page.
type Action struct {
	Title   string
	Command string
	Args    []string
}

// Page is the immutable result of one render. The slices must not be
// modified.
type Page struct {
	Text    string
	Labels  []span.Entry[label.ID]
	Folds   []span.Entry[struct{}]
	Targets []span.Entry[Target]
	Actions []span.Entry[[]Action]
}

// TargetAt returns the innermost jump target containing off.
func (p *Page) TargetAt(off int) (span.Entry[Target], bool) {
	var (
		res   span.Entry[Target]
		found bool
	)
	for _, e := range p.Targets {
		if !e.Span.Contains(off) {
			continue
		}
		if !found || e.Span.Len() < res.Span.Len() {
			res = e
			found = true
		}
	}
	return res, found
}

// ActionsIn returns the actions of every action region intersecting r,
// innermost regions first.
func (p *Page) ActionsIn(r span.Span) []Action {
	var res []Action
	for _, e := range p.Actions {
		if e.Span.Intersects(r) {
			res = append(res, e.Value...)
		}
	}
	return res
}

// Dump writes a listing of the overlays of p, one per line, each with the
// text it covers.
func (p *Page) Dump(w io.Writer) error {
	type line struct {
		s    span.Span
		kind string
		desc string
	}
	var lines []line
	for _, e := range p.Labels {
		lines = append(lines, line{e.Span, "label", e.Value.String()})
	}
	for _, e := range p.Folds {
		lines = append(lines, line{e.Span, "fold", ""})
	}
	for _, e := range p.Targets {
		lines = append(lines, line{e.Span, "target", e.Value.Path})
	}
	for _, e := range p.Actions {
		desc := ""
		for i, a := range e.Value {
			if i > 0 {
				desc += ", "
			}
			desc += a.Command
		}
		lines = append(lines, line{e.Span, "actions", desc})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].s.Start < lines[j].s.Start
	})
	for _, l := range lines {
		text := p.Text[l.s.Start:l.s.End]
		if utf8.RuneCountInString(text) > 40 {
			text = string([]rune(text)[:37]) + "..."
		}
		if _, err := fmt.Fprintf(w, "%-8s %-12s %s %s\n", l.kind, l.s, l.desc, strconv.Quote(text)); err != nil {
			return err
		}
	}
	return nil
}
