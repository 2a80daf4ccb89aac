package pages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/signadot/jjpages/debug"
	"github.com/signadot/jjpages/label"
	"github.com/signadot/jjpages/page"
	"github.com/signadot/jjpages/span"
	"github.com/signadot/jjpages/vcs"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultAnnotateRevision = "@"
	DefaultConcurrency      = 4
)

// Renderer renders pages. The zero value uses the defaults.
type Renderer struct {
	// AnnotateRevision is the revision an annotate page without a
	// revision argument shows.
	AnnotateRevision string
	// Concurrency bounds the backend queries a render runs at once.
	Concurrency int
}

// Render renders a page with the default Renderer.
func Render(ctx context.Context, repo vcs.Repository, kind Kind, args []string) (*page.Page, error) {
	return (&Renderer{}).Render(ctx, repo, kind, args)
}

// Render renders the page of kind with args from repo. Renderers only
// read from repo. A misused page builder aborts the render with an
// *span.InvariantError.
func (r *Renderer) Render(ctx context.Context, repo vcs.Repository, kind Kind, args []string) (p *page.Page, err error) {
	defer span.Recover(&err)
	b := &page.Builder{}
	switch kind {
	case Status:
		err = r.status(ctx, b, repo, args)
	case Split:
		err = r.split(ctx, b, repo, args)
	case Annotate:
		err = r.annotate(ctx, b, repo, args)
	case Commit:
		err = r.commit(ctx, b, repo, args)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", kind, err)
	}
	p = b.Finish()
	if debug.Spans() {
		debug.Logf("%s page of %s:\n", kind, repo.WorkspaceRoot())
		p.Dump(os.Stderr)
	}
	return p, nil
}

func (r *Renderer) concurrency() int {
	if r.Concurrency > 0 {
		return r.Concurrency
	}
	return DefaultConcurrency
}

func (r *Renderer) annotateRevision() string {
	if r.AnnotateRevision != "" {
		return r.AnnotateRevision
	}
	return DefaultAnnotateRevision
}

func wantArgs(args []string, min, max int) error {
	if len(args) < min || len(args) > max {
		if min == max {
			return fmt.Errorf("%w: want %d, got %q", ErrArgCount, min, args)
		}
		return fmt.Errorf("%w: want %d to %d, got %q", ErrArgCount, min, max, args)
	}
	return nil
}

func heading(b *page.Builder, text string) {
	b.Labelled(label.Get(label.Heading)).WriteString(text)
}

// writeEntry writes one diff entry: a fold holding its status line and
// its hunks.
func writeEntry(b *page.Builder, ds vcs.DiffState, ws string, e vcs.DiffEntry, actions ...page.Action) error {
	b.PushFold()
	defer b.PopFold()
	if len(actions) != 0 {
		b.PushActions(actions...)
		defer b.PopActions()
	}
	k := e.Kind()
	l := b.Labelled(label.Get(k.String()))
	if e.AfterPresent {
		b.PushTarget(page.Target{Path: filepath.Join(ws, filepath.FromSlash(e.After))})
		fmt.Fprintf(l, "%s %s\n", k.Sigil(), e.Path())
		b.PopTarget()
	} else {
		fmt.Fprintf(l, "%s %s\n", k.Sigil(), e.Path())
	}
	return ds.WriteDiff(b, vcs.Files(e.Before, e.After))
}

// writeRecent writes the recent commits section. The diffs of the
// commits are fetched concurrently and written in log order. Empty
// commits have no diff to fetch.
func (r *Renderer) writeRecent(ctx context.Context, b *page.Builder, repo vcs.Repository) error {
	commits, err := repo.Log(ctx)
	if err != nil {
		return err
	}
	diffs := make([]vcs.DiffState, len(commits))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency())
	for i, c := range commits {
		if c.Empty {
			continue
		}
		g.Go(func() error {
			d, err := repo.Diff(gctx, c)
			if err != nil {
				return fmt.Errorf("diff of %s: %w", c.ShortChangeID(), err)
			}
			diffs[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	ws := repo.WorkspaceRoot()
	heading(b, "Recent commits")
	b.WriteString("\n")
	for i, c := range commits {
		if err := writeCommit(ctx, b, repo, ws, c, diffs[i]); err != nil {
			return err
		}
	}
	return nil
}

func writeCommit(ctx context.Context, b *page.Builder, repo vcs.Repository, ws string, c vcs.Commit, d vcs.DiffState) error {
	b.PushFold()
	defer b.PopFold()
	b.PushActions(
		openAction("Show commit", ws, Commit, c.ChangeID),
		newOn(ws, c),
		abandon(ws, c),
	)
	err := repo.RenderCommit(ctx, c, b)
	b.WriteString("\n")
	b.PopActions()
	if err != nil || d == nil {
		return err
	}
	return d.WriteSummary(b)
}
