package pages

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/jjpages/label"
	"github.com/signadot/jjpages/page"
	"github.com/signadot/jjpages/span"
	"github.com/signadot/jjpages/vcs"
	"github.com/signadot/jjpages/vcs/vcstest"
)

const recentText = `Recent commits
qpvuntsm Ann (no description set)
M src/a.js
A new.txt
D old.txt
R doc/{x.md => y.md}
rlvkpnrz Bob add feature
A src/a.js
zzzzzzzz Ann initial
`

const changesText = `M src/a.js
@@ -1,2 +1,2 @@
 let a = 1;
-let b = 2;
+let b = 3;
A new.txt
@@ -0,0 +1,1 @@
+hello
D old.txt
@@ -1,1 +0,0 @@
-bye
R doc/{x.md => y.md}
`

func render(t *testing.T, repo vcs.Repository, kind Kind, args ...string) *page.Page {
	t.Helper()
	p, err := Render(context.Background(), repo, kind, args)
	if err != nil {
		t.Fatalf("Render(%s, %q): %v", kind, args, err)
	}
	return p
}

// lineStart returns the offset of the line of p starting with prefix.
func lineStart(t *testing.T, p *page.Page, prefix string) int {
	t.Helper()
	if strings.HasPrefix(p.Text, prefix) {
		return 0
	}
	i := strings.Index(p.Text, "\n"+prefix)
	if i < 0 {
		t.Fatalf("no line starting with %q in\n%s", prefix, p.Text)
	}
	return i + 1
}

func labelAt(p *page.Page, off int) (span.Entry[label.ID], bool) {
	for _, e := range p.Labels {
		if e.Span.Start == off {
			return e, true
		}
	}
	return span.Entry[label.ID]{}, false
}

func TestStatusText(t *testing.T) {
	repo := vcstest.Sample(t.TempDir())
	p := render(t, repo, Status)
	want := "Head: qpvuntsm Ann (no description set)\nChanges (4)\n" + changesText + "\n" + recentText
	if diff := cmp.Diff(want, p.Text); diff != "" {
		t.Errorf("text (-want +got):\n%s", diff)
	}
}

func TestStatusEntryOverlays(t *testing.T) {
	ws := t.TempDir()
	repo := vcstest.Sample(ws)
	p := render(t, repo, Status)

	tests := []struct {
		line   string
		label  string
		target string
	}{
		{"M src/a.js", label.Modified, filepath.Join(ws, "src", "a.js")},
		{"A new.txt", label.Added, filepath.Join(ws, "new.txt")},
		{"D old.txt", label.Deleted, ""},
		{"R doc/{x.md => y.md}", label.Renamed, filepath.Join(ws, "doc", "y.md")},
	}
	for _, tt := range tests {
		off := lineStart(t, p, tt.line)
		e, ok := labelAt(p, off)
		if !ok {
			t.Errorf("%s: no label", tt.line)
		} else if e.Value != label.Get(tt.label) || e.Span.End != off+len(tt.line) {
			t.Errorf("%s: label %v %v, want %s %v", tt.line, e.Value, e.Span, tt.label, span.Span{Start: off, End: off + len(tt.line)})
		}
		target, ok := p.TargetAt(off)
		switch {
		case tt.target == "" && ok:
			t.Errorf("%s: unexpected target %v", tt.line, target)
		case tt.target != "" && !ok:
			t.Errorf("%s: no target", tt.line)
		case tt.target != "" && target.Value.Path != tt.target:
			t.Errorf("%s: target %q, want %q", tt.line, target.Value.Path, tt.target)
		}
	}
	if len(p.Targets) != 3 {
		t.Errorf("got %d targets, want 3", len(p.Targets))
	}
}

func TestStatusFoldsAndActions(t *testing.T) {
	ws := t.TempDir()
	p := render(t, vcstest.Sample(ws), Status)

	// one fold per working copy entry and per recent commit
	if len(p.Folds) != 4+3 {
		t.Errorf("got %d folds, want 7", len(p.Folds))
	}
	off := lineStart(t, p, "M src/a.js")
	var fold span.Span
	for _, f := range p.Folds {
		if f.Span.Start == off {
			fold = f.Span
		}
	}
	if got, want := p.Text[fold.Start:fold.End], strings.TrimSuffix(changesText[:strings.Index(changesText, "A new.txt")], "\n"); got != want {
		t.Errorf("fold covers %q, want %q", got, want)
	}

	changes := lineStart(t, p, "Changes")
	acts := p.ActionsIn(span.Span{Start: changes, End: changes + 1})
	if len(acts) != 1 || acts[0].Command != CmdSquash {
		t.Fatalf("Changes actions %+v", acts)
	}

	acts = p.ActionsIn(span.Span{Start: off + 2, End: off + 3})
	want := []page.Action{
		{Title: "Squash file into parent", Command: CmdSquash, Args: []string{ws, "src/a.js"}},
		{Title: "Annotate file", Command: CmdOpen, Args: []string{ws, "annotate", "src/a.js"}},
	}
	if diff := cmp.Diff(want, acts); diff != "" {
		t.Errorf("entry actions (-want +got):\n%s", diff)
	}

	del := lineStart(t, p, "D old.txt")
	acts = p.ActionsIn(span.Span{Start: del, End: del + 1})
	if len(acts) != 1 {
		t.Errorf("deleted entry offers %d actions, want squash only", len(acts))
	}

	feat := lineStart(t, p, "rlvkpnrz Bob")
	acts = p.ActionsIn(span.Span{Start: feat, End: feat + 1})
	var cmds []string
	for _, a := range acts {
		cmds = append(cmds, a.Command)
	}
	if diff := cmp.Diff([]string{CmdOpen, CmdNew, CmdAbandon}, cmds); diff != "" {
		t.Errorf("commit actions (-want +got):\n%s", diff)
	}
}

func TestLabelsDisjointAndSorted(t *testing.T) {
	p := render(t, vcstest.Sample(t.TempDir()), Status)
	for i := 1; i < len(p.Labels); i++ {
		prev, cur := p.Labels[i-1].Span, p.Labels[i].Span
		if cur.Start < prev.End {
			t.Errorf("labels %d %v and %d %v overlap", i-1, prev, i, cur)
		}
	}
	for _, e := range p.Labels {
		if e.Span.Start > e.Span.End || e.Span.End > len(p.Text) {
			t.Errorf("label span %v out of range", e.Span)
		}
	}
}

func TestDeterministic(t *testing.T) {
	repo := vcstest.Sample(t.TempDir())
	for _, k := range []Kind{Status, Split} {
		a := render(t, repo, k)
		b := render(t, repo, k)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("%s renders differ (-first +second):\n%s", k, diff)
		}
	}
}

func TestSplit(t *testing.T) {
	p := render(t, vcstest.Sample(t.TempDir()), Split)
	want := "Unselected changes (0)\n\nSelected changes (4)\n" + changesText + "\n" + recentText
	if diff := cmp.Diff(want, p.Text); diff != "" {
		t.Errorf("text (-want +got):\n%s", diff)
	}
	if len(p.Folds) != 4+3 {
		t.Errorf("got %d folds, want 7", len(p.Folds))
	}
}

func TestAnnotate(t *testing.T) {
	ws := t.TempDir()
	repo := vcstest.Sample(ws)
	p := render(t, repo, Annotate, "src/a.js")
	want := "rlvkpnrz    1: let a = 1;\nqpvuntsm    2: let b = 3;\n"
	if diff := cmp.Diff(want, p.Text); diff != "" {
		t.Errorf("text (-want +got):\n%s", diff)
	}
	acts := p.ActionsIn(span.Span{Start: 0, End: 1})
	wantActs := []page.Action{{
		Title:   "Annotate before this change",
		Command: CmdOpen,
		Args:    []string{ws, "annotate", "src/a.js", "rlvkpnrzqnoowoytxnquwvuryrwnrmlp-"},
	}}
	if diff := cmp.Diff(wantActs, acts); diff != "" {
		t.Errorf("actions (-want +got):\n%s", diff)
	}
	if len(p.Actions) != 2 {
		t.Errorf("got %d action spans, want one per line", len(p.Actions))
	}

	abs := render(t, repo, Annotate, filepath.Join(ws, "src", "a.js"))
	if abs.Text != p.Text {
		t.Errorf("absolute path renders %q", abs.Text)
	}

	before := render(t, repo, Annotate, "src/a.js", "@-")
	if want := "rlvkpnrz    1: let a = 1;\nrlvkpnrz    2: let b = 2;\n"; before.Text != want {
		t.Errorf("annotate at @-: %q, want %q", before.Text, want)
	}
}

func TestAnnotateErrors(t *testing.T) {
	ws := t.TempDir()
	if err := os.MkdirAll(filepath.Join(ws, "src"), 0755); err != nil {
		t.Fatal(err)
	}
	repo := vcstest.Sample(ws)
	tests := []struct {
		args []string
		want error
	}{
		{nil, ErrArgCount},
		{[]string{"a", "b", "c"}, ErrArgCount},
		{[]string{"../elsewhere"}, ErrOutsideRepo},
		{[]string{filepath.Join(filepath.Dir(ws), "elsewhere")}, ErrOutsideRepo},
		{[]string{"."}, ErrOutsideRepo},
		{[]string{"src"}, ErrIsDirectory},
		{[]string{"missing.txt"}, vcs.ErrNoSuchPath},
		{[]string{"src/a.js", "nothing"}, vcs.ErrEmpty},
	}
	for _, tt := range tests {
		_, err := Render(context.Background(), repo, Annotate, tt.args)
		if !errors.Is(err, tt.want) {
			t.Errorf("args %q: error %v, want %v", tt.args, err, tt.want)
		}
	}
}

func TestCommit(t *testing.T) {
	ws := t.TempDir()
	p := render(t, vcstest.Sample(ws), Commit, "rlv")
	want := "Commit: rlvkpnrz Bob add feature\n\nadd feature\n\nlonger text\n\nA src/a.js\n"
	if diff := cmp.Diff(want, p.Text); diff != "" {
		t.Errorf("text (-want +got):\n%s", diff)
	}
	target, ok := p.TargetAt(lineStart(t, p, "A src/a.js"))
	if !ok || target.Value.Path != filepath.Join(ws, "src", "a.js") {
		t.Errorf("target %v, %v", target, ok)
	}
	if _, err := Render(context.Background(), vcstest.Sample(ws), Commit, nil); !errors.Is(err, ErrArgCount) {
		t.Errorf("got %v, want ErrArgCount", err)
	}
}

func TestRenderErrors(t *testing.T) {
	repo := vcstest.Sample(t.TempDir())
	if _, err := Render(context.Background(), repo, Status, []string{"x"}); !errors.Is(err, ErrArgCount) {
		t.Errorf("status with args: %v", err)
	}
	if _, err := Render(context.Background(), repo, Kind(42), nil); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("unknown kind: %v", err)
	}
}

// brokenRepo pops a label it never pushed.
type brokenRepo struct {
	*vcstest.Repo
}

func (brokenRepo) RenderCommit(_ context.Context, _ vcs.Commit, w vcs.LabelSink) error {
	w.PopLabel()
	return nil
}

func TestRenderRecoversInvariant(t *testing.T) {
	repo := brokenRepo{vcstest.Sample(t.TempDir())}
	p, err := Render(context.Background(), repo, Status, nil)
	if p != nil {
		t.Error("got a page from a broken render")
	}
	var ie *span.InvariantError
	if !errors.As(err, &ie) || !errors.Is(err, span.ErrPopEmpty) {
		t.Errorf("got %v, want invariant error", err)
	}
}

func TestRenderConcurrencyBound(t *testing.T) {
	repo := vcstest.Sample(t.TempDir())
	r := &Renderer{Concurrency: 1}
	p, err := r.Render(context.Background(), repo, Status, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(p.Text, recentText) {
		t.Errorf("recent commits out of order:\n%s", p.Text)
	}
}

// diffCounter records the change IDs whose diffs were requested.
type diffCounter struct {
	*vcstest.Repo

	mu      sync.Mutex
	changes []string
}

func (r *diffCounter) Diff(ctx context.Context, c vcs.Commit) (vcs.DiffState, error) {
	r.mu.Lock()
	r.changes = append(r.changes, c.ShortChangeID())
	r.mu.Unlock()
	return r.Repo.Diff(ctx, c)
}

func TestRecentSkipsEmptyDiffs(t *testing.T) {
	sample := vcstest.Sample(t.TempDir())
	sample.Recent[2].Empty = true
	repo := &diffCounter{Repo: sample}
	p := render(t, repo, Status)
	if !strings.HasSuffix(p.Text, recentText) {
		t.Errorf("recent commits changed:\n%s", p.Text)
	}
	sort.Strings(repo.changes)
	want := []string{"qpvuntsm", "qpvuntsm", "rlvkpnrz"}
	if diff := cmp.Diff(want, repo.changes); diff != "" {
		t.Errorf("diffs fetched (-want +got):\n%s", diff)
	}
}
