// Package debug holds switches for verbose tracing, set from the
// environment at startup.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Spans     bool
	Reconcile bool
	JJ        bool
}

var d *debug

func init() {
	d = &debug{}
	d.Spans = boolEnv("JJPAGES_DEBUG_SPANS")
	d.Reconcile = boolEnv("JJPAGES_DEBUG_RECONCILE")
	d.JJ = boolEnv("JJPAGES_DEBUG_JJ")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Spans traces the overlays of every rendered page.
func Spans() bool {
	return d.Spans
}

// Reconcile traces each step of reconciling a document.
func Reconcile() bool {
	return d.Reconcile
}

// JJ traces jj invocations.
func JJ() bool {
	return d.JJ
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
