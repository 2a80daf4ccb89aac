package pages

import (
	"context"
	"fmt"

	"github.com/signadot/jjpages/page"
	"github.com/signadot/jjpages/vcs"
)

func (r *Renderer) status(ctx context.Context, b *page.Builder, repo vcs.Repository, args []string) error {
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

	heading(b, "Head: ")
	if err := repo.RenderCommit(ctx, head, b); err != nil {
		return err
	}
	b.WriteString("\n")

	b.PushActions(squashAll(ws))
	heading(b, "Changes")
	b.PopActions()
	b.Printf(" (%d)\n", len(entries))
	for _, e := range entries {
		actions := []page.Action{squashFile(ws, e.After)}
		if e.AfterPresent {
			actions = append(actions, openAction("Annotate file", ws, Annotate, e.After))
		}
		if err := writeEntry(b, ds, ws, e, actions...); err != nil {
			return fmt.Errorf("%s: %w", e.Path(), err)
		}
	}
	b.WriteString("\n")
	return r.writeRecent(ctx, b, repo)
}
