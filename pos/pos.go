// Package pos translates between byte offsets into a text and editor
// positions (zero based line, UTF-16 column).
package pos

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
)

const maxUint32 = ^uint32(0)

// Position is an editor position; Character counts UTF-16 code units.
type Position struct {
	Line      uint32
	Character uint32
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Doc is a text with an index of its line breaks.
type Doc struct {
	d string
	n []int
}

func NewDoc(text string) *Doc {
	doc := &Doc{d: text}
	for i := 0; i < len(text); {
		j := strings.IndexByte(text[i:], '\n')
		if j < 0 {
			break
		}
		doc.n = append(doc.n, i+j)
		i += j + 1
	}
	return doc
}

func (d *Doc) Text() string {
	return d.d
}

func (d *Doc) Len() int {
	return len(d.d)
}

// Lines is the number of lines; a trailing newline starts an empty last
// line.
func (d *Doc) Lines() int {
	return len(d.n) + 1
}

// LineCol returns the line of off and its byte column.
func (d *Doc) LineCol(off int) (int, int) {
	off = d.clamp(off)
	N := len(d.n)
	di := sort.Search(N, func(i int) bool {
		return d.n[i] >= off
	})
	if di == 0 {
		return 0, off
	}
	return di, off - d.n[di-1] - 1
}

// LineStart is the offset of the first byte of line, clamped to the
// text.
func (d *Doc) LineStart(line int) int {
	switch {
	case line <= 0:
		return 0
	case line > len(d.n):
		return len(d.d)
	default:
		return d.n[line-1] + 1
	}
}

// LineEnd is the offset of the line break ending line, or the end of the
// text.
func (d *Doc) LineEnd(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(d.n) {
		return len(d.d)
	}
	return d.n[line]
}

// Position converts a byte offset. Offsets inside a multi-byte rune
// resolve to the start of that rune.
func (d *Doc) Position(off int) Position {
	off = d.clamp(off)
	line, _ := d.LineCol(off)
	units := 0
	for i := d.LineStart(line); i < off; {
		r, size := utf8.DecodeRuneInString(d.d[i:])
		if i+size > off {
			break
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		i += size
	}
	return Position{Line: toUint32(line), Character: toUint32(units)}
}

// Offset converts a position. Lines past the end map to the end of the
// text, columns past the end of a line map to its line break.
func (d *Doc) Offset(p Position) int {
	if int(p.Line) > len(d.n) {
		return len(d.d)
	}
	line := int(p.Line)
	i, end := d.LineStart(line), d.LineEnd(line)
	units := 0
	for i < end {
		r, size := utf8.DecodeRuneInString(d.d[i:end])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > int(p.Character) {
			break
		}
		units += need
		i += size
	}
	return i
}

func (d *Doc) clamp(off int) int {
	if off < 0 {
		return 0
	}
	if off > len(d.d) {
		return len(d.d)
	}
	return off
}

func toUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}
