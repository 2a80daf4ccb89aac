package pages

import (
	"context"

	"github.com/signadot/jjpages/page"
	"github.com/signadot/jjpages/vcs"
)

func (r *Renderer) commit(ctx context.Context, b *page.Builder, repo vcs.Repository, args []string) error {
	if err := wantArgs(args, 1, 1); err != nil {
		return err
	}
	c, err := repo.Resolve(ctx, args[0])
	if err != nil {
		return err
	}
	ds, err := repo.Diff(ctx, c)
	if err != nil {
		return err
	}
	ws := repo.WorkspaceRoot()

	heading(b, "Commit: ")
	if err := repo.RenderCommit(ctx, c, b); err != nil {
		return err
	}
	b.WriteString("\n")
	if desc := c.Description; desc != "" {
		b.Printf("\n%s", desc)
		if desc[len(desc)-1] != '\n' {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	for _, e := range ds.Entries(vcs.Everything()) {
		if err := writeEntry(b, ds, ws, e); err != nil {
			return err
		}
	}
	return nil
}
