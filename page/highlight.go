package page

import (
	"io"

	"github.com/signadot/jjpages/label"
)

// Highlight writes the text of p to w with each labelled run passed
// through its color in colors.
func (p *Page) Highlight(w io.Writer, colors *label.Colors) error {
	at := 0
	for _, e := range p.Labels {
		if e.Span.Start > at {
			if _, err := io.WriteString(w, p.Text[at:e.Span.Start]); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, colors.Color(e.Value, p.Text[e.Span.Start:e.Span.End])); err != nil {
			return err
		}
		at = e.Span.End
	}
	_, err := io.WriteString(w, p.Text[at:])
	return err
}
