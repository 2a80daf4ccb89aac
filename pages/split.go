package pages

import (
	"context"

	"github.com/signadot/jjpages/page"
	"github.com/signadot/jjpages/vcs"
)

// split lists the working copy's changes for splitting; all of them start
// out selected.
func (r *Renderer) split(ctx context.Context, b *page.Builder, repo vcs.Repository, args []string) error {
	if err := wantArgs(args, 0, 0); err != nil {
		return err
	}
	head, err := repo.CurrentHead(ctx)
	if err != nil {
		return err
	}
	ds, err := repo.Diff(ctx, head)
	if err != nil {
		return err
	}
	entries := ds.Entries(vcs.Everything())
	ws := repo.WorkspaceRoot()

	heading(b, "Unselected changes")
	b.Printf(" (%d)\n\n", 0)
	heading(b, "Selected changes")
	b.Printf(" (%d)\n", len(entries))
	for _, e := range entries {
		if err := writeEntry(b, ds, ws, e); err != nil {
			return err
		}
	}
	b.WriteString("\n")
	return r.writeRecent(ctx, b, repo)
}
