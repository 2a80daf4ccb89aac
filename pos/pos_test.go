package pos

import (
	"testing"
)

func TestLineCol(t *testing.T) {
	d := NewDoc("ab\ncd\n\nef")
	tests := []struct {
		off, line, col int
	}{
		{0, 0, 0},
		{2, 0, 2},
		{3, 1, 0},
		{5, 1, 2},
		{6, 2, 0},
		{7, 3, 0},
		{9, 3, 2},
		{100, 3, 2},
	}
	for _, tt := range tests {
		line, col := d.LineCol(tt.off)
		if line != tt.line || col != tt.col {
			t.Errorf("LineCol(%d) = %d,%d want %d,%d", tt.off, line, col, tt.line, tt.col)
		}
	}
	if d.Lines() != 4 {
		t.Errorf("Lines() = %d, want 4", d.Lines())
	}
}

func TestPositionUTF16(t *testing.T) {
	// é is 2 bytes / 1 unit, 😀 is 4 bytes / 2 units
	d := NewDoc("x\né😀y\n")
	tests := []struct {
		off  int
		want Position
	}{
		{0, Position{0, 0}},
		{2, Position{1, 0}},
		{4, Position{1, 1}},
		{8, Position{1, 3}},
		{9, Position{1, 4}},
		{10, Position{2, 0}},
		{5, Position{1, 1}},
	}
	for _, tt := range tests {
		if got := d.Position(tt.off); got != tt.want {
			t.Errorf("Position(%d) = %v, want %v", tt.off, got, tt.want)
		}
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	text := "Head: qpv 😀 main\nChanges (1)\nM a/é.go\n"
	d := NewDoc(text)
	for off := 0; off <= len(text); off++ {
		if off < len(text) && !isRuneStart(text[off]) {
			continue
		}
		p := d.Position(off)
		if got := d.Offset(p); got != off {
			t.Errorf("Offset(Position(%d)=%v) = %d", off, p, got)
		}
	}
}

func TestOffsetClamps(t *testing.T) {
	d := NewDoc("ab\ncd")
	if got := d.Offset(Position{Line: 0, Character: 10}); got != 2 {
		t.Errorf("past line end: got %d, want 2", got)
	}
	if got := d.Offset(Position{Line: 7, Character: 0}); got != 5 {
		t.Errorf("past last line: got %d, want 5", got)
	}
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
