package vcs

import (
	"fmt"
	"path"
	"strings"
)

// CopyOp records whether a diff entry is a copy or rename.
type CopyOp int

const (
	NoCopy CopyOp = iota
	Rename
	Copy
)

func (op CopyOp) String() string {
	switch op {
	case Rename:
		return "rename"
	case Copy:
		return "copy"
	default:
		return "none"
	}
}

// EntryKind classifies a diff entry.
type EntryKind int

const (
	Modified EntryKind = iota
	Added
	Deleted
	Renamed
	Copied
)

// Sigil is the letter jj's summary shows for the kind.
func (k EntryKind) Sigil() string {
	return [...]string{"M", "A", "D", "R", "C"}[k]
}

func (k EntryKind) String() string {
	return [...]string{"modified", "added", "deleted", "renamed", "copied"}[k]
}

// summaryLabel is the label jj uses for the kind in diff summaries.
func (k EntryKind) summaryLabel() string {
	if k == Deleted {
		return "removed"
	}
	return k.String()
}

// DiffEntry is one path of a diff. Before and After are repository
// relative slash separated paths; they are equal unless Copy is set.
type DiffEntry struct {
	Before        string
	After         string
	BeforePresent bool
	AfterPresent  bool
	Copy          CopyOp
}

func (e DiffEntry) Kind() EntryKind {
	switch {
	case e.Copy == Rename:
		return Renamed
	case e.Copy == Copy:
		return Copied
	case !e.BeforePresent:
		return Added
	case !e.AfterPresent:
		return Deleted
	default:
		return Modified
	}
}

// Path is the entry's path formatted for display.
func (e DiffEntry) Path() string {
	if e.Copy != NoCopy {
		return FormatCopiedPath(e.Before, e.After)
	}
	return e.After
}

// FormatCopiedPath formats a copy or rename the way jj does, factoring out
// the leading and trailing path elements both sides share:
// "src/{a.go => b.go}".
func FormatCopiedPath(before, after string) string {
	b := strings.Split(before, "/")
	a := strings.Split(after, "/")
	pre := 0
	for pre < len(b)-1 && pre < len(a)-1 && b[pre] == a[pre] {
		pre++
	}
	suf := 0
	for suf < len(b)-pre && suf < len(a)-pre && b[len(b)-1-suf] == a[len(a)-1-suf] {
		suf++
	}
	var sb strings.Builder
	if pre > 0 {
		sb.WriteString(path.Join(b[:pre]...))
		sb.WriteByte('/')
	}
	fmt.Fprintf(&sb, "{%s => %s}",
		path.Join(b[pre:len(b)-suf]...),
		path.Join(a[pre:len(a)-suf]...))
	if suf > 0 {
		sb.WriteByte('/')
		sb.WriteString(path.Join(b[len(b)-suf:]...))
	}
	return sb.String()
}

// Matcher selects diff entries by path.
type Matcher struct {
	all   bool
	files map[string]bool
}

func Everything() Matcher {
	return Matcher{all: true}
}

func Files(paths ...string) Matcher {
	m := Matcher{files: make(map[string]bool, len(paths))}
	for _, p := range paths {
		m.files[p] = true
	}
	return m
}

func (m Matcher) Matches(path string) bool {
	return m.all || m.files[path]
}

// MatchesEntry reports whether either side of e matches.
func (m Matcher) MatchesEntry(e DiffEntry) bool {
	return m.Matches(e.Before) || m.Matches(e.After)
}

// Hunk is one hunk of a unified diff. Lines keep their leading ' ', '-'
// or '+' and have no line terminator.
type Hunk struct {
	OrigStart, OrigLines int
	NewStart, NewLines   int
	Section              string
	Lines                []string
}

func (h *Hunk) Header() string {
	s := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OrigStart, h.OrigLines, h.NewStart, h.NewLines)
	if h.Section != "" {
		s += " " + h.Section
	}
	return s
}

type FileDiff struct {
	Entry  DiffEntry
	Binary bool
	Hunks  []Hunk
}

// Diff is a DiffState held in memory.
type Diff struct {
	Files []FileDiff
}

func (d *Diff) Entries(m Matcher) []DiffEntry {
	var res []DiffEntry
	for i := range d.Files {
		if m.MatchesEntry(d.Files[i].Entry) {
			res = append(res, d.Files[i].Entry)
		}
	}
	return res
}

// WriteSummary writes one "X path" line per entry.
func (d *Diff) WriteSummary(w LabelSink) error {
	for i := range d.Files {
		e := d.Files[i].Entry
		k := e.Kind()
		if err := WriteLabelled(w, k.summaryLabel(), k.Sigil()+" "+e.Path()); err != nil {
			return err
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return err
		}
	}
	return nil
}

// WriteDiff writes the hunks of the matching entries.
func (d *Diff) WriteDiff(w LabelSink, m Matcher) error {
	w.PushLabel("diff")
	defer w.PopLabel()
	for i := range d.Files {
		fd := &d.Files[i]
		if !m.MatchesEntry(fd.Entry) {
			continue
		}
		if err := writeFileDiff(w, fd); err != nil {
			return err
		}
	}
	return nil
}

func writeFileDiff(w LabelSink, fd *FileDiff) error {
	if fd.Binary {
		if err := WriteLabelled(w, "binary", "(binary)"); err != nil {
			return err
		}
		_, err := w.Write([]byte{'\n'})
		return err
	}
	for i := range fd.Hunks {
		h := &fd.Hunks[i]
		if err := WriteLabelled(w, "hunk_header", h.Header()); err != nil {
			return err
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return err
		}
		for _, line := range h.Lines {
			if err := WriteLabelled(w, lineLabel(line), line); err != nil {
				return err
			}
			if _, err := w.Write([]byte{'\n'}); err != nil {
				return err
			}
		}
	}
	return nil
}

func lineLabel(line string) string {
	if line == "" {
		return "context"
	}
	switch line[0] {
	case '+':
		return "added"
	case '-':
		return "removed"
	default:
		return "context"
	}
}
