package label

import "testing"

func TestLegend(t *testing.T) {
	names := Legend()
	if names[0] != Base {
		t.Errorf("Legend()[0] = %q, want %q", names[0], Base)
	}
	for i, name := range names {
		if got := Get(name); got != ID(i) {
			t.Errorf("Get(%q) = %d, want %d", name, got, i)
		}
		if got := ID(i).String(); got != name {
			t.Errorf("ID(%d).String() = %q, want %q", i, got, name)
		}
	}
}

func TestLookup(t *testing.T) {
	if _, ok := TryGet("no-such-label"); ok {
		t.Errorf("TryGet found an unknown label")
	}
	if id, ok := TryGet(Added); !ok || id != Get(Added) {
		t.Errorf("TryGet(%q) = %d, %v", Added, id, ok)
	}
}

func TestColors(t *testing.T) {
	c := NewColors()
	if got := c.Color(Get("token"), "x%y"); got != "x%y" {
		t.Errorf("default color changed text: %q", got)
	}
}
