package pages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/signadot/jjpages/page"
	"github.com/signadot/jjpages/vcs"
)

// annotate takes a file path, relative to the workspace or absolute, and
// optionally the revision to annotate at.
func (r *Renderer) annotate(ctx context.Context, b *page.Builder, repo vcs.Repository, args []string) error {
	if err := wantArgs(args, 1, 2); err != nil {
		return err
	}
	ws := repo.WorkspaceRoot()
	rel, err := workspacePath(ws, args[0])
	if err != nil {
		return err
	}
	rev := r.annotateRevision()
	if len(args) == 2 {
		rev = args[1]
	}
	c, err := repo.Resolve(ctx, rev)
	if err != nil {
		return err
	}
	a, err := repo.Annotate(ctx, c, rel)
	if err != nil {
		return err
	}
	for _, line := range a.Lines {
		b.PushActions(openAction("Annotate before this change", ws, Annotate, rel, line.Commit.ChangeID+"-"))
		err := repo.RenderAnnotationLine(ctx, line, b)
		b.PopActions()
		if err != nil {
			return err
		}
	}
	return nil
}

// workspacePath returns p as a slash separated path relative to ws,
// rejecting paths outside ws and directories.
func workspacePath(ws, p string) (string, error) {
	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(ws, p)
	}
	rel, err := filepath.Rel(ws, abs)
	if err != nil {
		return "", fmt.Errorf("%s: %w", p, ErrOutsideRepo)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", p, ErrOutsideRepo)
	}
	fi, err := os.Stat(abs)
	if err == nil && fi.IsDir() {
		return "", fmt.Errorf("%s: %w", p, ErrIsDirectory)
	}
	return filepath.ToSlash(rel), nil
}
