package jjcli

import (
	"fmt"
	"io"
	"strings"

	"github.com/signadot/jjpages/vcs"
)

// segment is a run of text jj printed under labels.
type segment struct {
	labels []string
	text   string
}

// parseDebugColor splits the output of jj --color=debug, in which styled
// runs appear as <<label label::text>>.
func parseDebugColor(s string) ([]segment, error) {
	var res []segment
	for len(s) > 0 {
		i := strings.Index(s, "<<")
		if i < 0 {
			res = append(res, segment{text: s})
			break
		}
		if i > 0 {
			res = append(res, segment{text: s[:i]})
		}
		s = s[i+2:]
		sep := strings.Index(s, "::")
		if sep < 0 {
			return nil, fmt.Errorf("unterminated label run %q", s)
		}
		end := strings.Index(s[sep+2:], ">>")
		if end < 0 {
			return nil, fmt.Errorf("unterminated label run %q", s)
		}
		res = append(res, segment{
			labels: strings.Fields(s[:sep]),
			text:   s[sep+2 : sep+2+end],
		})
		s = s[sep+2+end+2:]
	}
	return res, nil
}

func trimTrailingNewlines(segs []segment) []segment {
	for len(segs) > 0 {
		last := &segs[len(segs)-1]
		last.text = strings.TrimRight(last.text, "\n")
		if last.text != "" {
			break
		}
		segs = segs[:len(segs)-1]
	}
	return segs
}

func emit(w vcs.LabelSink, segs []segment) error {
	for _, seg := range segs {
		for _, l := range seg.labels {
			w.PushLabel(l)
		}
		_, err := io.WriteString(w, seg.text)
		for range seg.labels {
			w.PopLabel()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// writeDebugColor writes debug colored output to w without its trailing
// line breaks.
func writeDebugColor(w vcs.LabelSink, s string) error {
	segs, err := parseDebugColor(s)
	if err != nil {
		return err
	}
	return emit(w, trimTrailingNewlines(segs))
}
