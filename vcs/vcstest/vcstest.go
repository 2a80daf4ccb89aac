// Package vcstest provides an in-memory vcs backend holding a fixed
// repository snapshot.
package vcstest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/signadot/jjpages/vcs"
)

// Backend locates the repositories it holds by workspace root.
type Backend struct {
	Repos []*Repo
}

func (b *Backend) Locate(_ context.Context, start string) (vcs.Repository, error) {
	start = filepath.Clean(start)
	var best *Repo
	for _, r := range b.Repos {
		root := filepath.Clean(r.Root)
		if start != root && !strings.HasPrefix(start, root+string(filepath.Separator)) {
			continue
		}
		if best == nil || len(root) > len(best.Root) {
			best = r
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%s: %w", start, vcs.ErrNoRepository)
	}
	return best, nil
}

// Repo is a repository snapshot. Fields may be set directly before use;
// Parents, Diffs and Annotations are keyed by change ID.
type Repo struct {
	Root        string
	Head        vcs.Commit
	Recent      []vcs.Commit
	Parents     map[string]string
	Diffs       map[string]*vcs.Diff
	Annotations map[string]map[string]*vcs.FileAnnotation

	// MutateErr is returned by every mutation.
	MutateErr error

	mu    sync.Mutex
	calls []string
}

func (r *Repo) WorkspaceRoot() string {
	return r.Root
}

func (r *Repo) CurrentHead(context.Context) (vcs.Commit, error) {
	return r.Head, nil
}

func (r *Repo) Log(context.Context) ([]vcs.Commit, error) {
	return r.Recent, nil
}

func (r *Repo) Diff(_ context.Context, c vcs.Commit) (vcs.DiffState, error) {
	if d, ok := r.Diffs[c.ChangeID]; ok {
		return d, nil
	}
	return &vcs.Diff{}, nil
}

func (r *Repo) commits() []vcs.Commit {
	res := make([]vcs.Commit, 0, len(r.Recent)+1)
	res = append(res, r.Head)
	for _, c := range r.Recent {
		if c.ChangeID != r.Head.ChangeID {
			res = append(res, c)
		}
	}
	return res
}

// Resolve understands "@", change or commit ID prefixes, and a trailing
// "-" for the parent.
func (r *Repo) Resolve(ctx context.Context, revision string) (vcs.Commit, error) {
	if rest, ok := strings.CutSuffix(revision, "-"); ok {
		c, err := r.Resolve(ctx, rest)
		if err != nil {
			return vcs.Commit{}, err
		}
		p, ok := r.Parents[c.ChangeID]
		if !ok {
			return vcs.Commit{}, fmt.Errorf("%s: %w", revision, vcs.ErrEmpty)
		}
		return r.Resolve(ctx, p)
	}
	if revision == "@" {
		return r.Head, nil
	}
	var found []vcs.Commit
	for _, c := range r.commits() {
		if revision != "" && (strings.HasPrefix(c.ChangeID, revision) || strings.HasPrefix(c.CommitID, revision)) {
			found = append(found, c)
		}
	}
	switch len(found) {
	case 0:
		return vcs.Commit{}, fmt.Errorf("%s: %w", revision, vcs.ErrEmpty)
	case 1:
		return found[0], nil
	default:
		return vcs.Commit{}, fmt.Errorf("%s: %w", revision, vcs.ErrAmbiguous)
	}
}

// RenderCommit writes "<change> <author> <subject>".
func (r *Repo) RenderCommit(_ context.Context, c vcs.Commit, w vcs.LabelSink) error {
	if err := vcs.WriteLabelled(w, "change_id", c.ShortChangeID()); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, " "); err != nil {
		return err
	}
	if err := vcs.WriteLabelled(w, "author", c.Author); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, " "); err != nil {
		return err
	}
	if c.Subject() == "" {
		return vcs.WriteLabelled(w, "placeholder", "(no description set)")
	}
	return vcs.WriteLabelled(w, "description", c.Subject())
}

func (r *Repo) Annotate(_ context.Context, c vcs.Commit, path string) (*vcs.FileAnnotation, error) {
	if a, ok := r.Annotations[c.ChangeID][path]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%s: %w", path, vcs.ErrNoSuchPath)
}

// RenderAnnotationLine writes "<change> <line>: <content>".
func (r *Repo) RenderAnnotationLine(_ context.Context, line vcs.AnnotationLine, w vcs.LabelSink) error {
	if err := vcs.WriteLabelled(w, "change_id", line.Commit.ShortChangeID()); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, " "); err != nil {
		return err
	}
	if err := vcs.WriteLabelled(w, "line_number", fmt.Sprintf("%4d", line.LineNumber)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, ": %s", line.Content)
	return err
}

func (r *Repo) New(_ context.Context, revision string) error {
	return r.record("new " + revision)
}

func (r *Repo) Abandon(_ context.Context, revision string) error {
	return r.record("abandon " + revision)
}

func (r *Repo) Squash(_ context.Context, paths ...string) error {
	return r.record(strings.TrimSpace("squash " + strings.Join(paths, " ")))
}

func (r *Repo) record(call string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	return r.MutateErr
}

// Calls returns the mutations requested so far, in order.
func (r *Repo) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}
