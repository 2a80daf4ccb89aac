// Package vcs is the contract between pages and the version control
// engine behind them: locating a repository, reading commits, diffs and
// file annotations, and rendering backend templates into a LabelSink.
package vcs

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNoRepository = errors.New("no repository found")
	ErrAmbiguous    = errors.New("revision resolves to more than one commit")
	ErrEmpty        = errors.New("revision resolves to no commit")
	ErrNoSuchPath   = errors.New("path not in revision")
)

// Backend locates repositories.
type Backend interface {
	// Locate finds the repository containing start, which may be any
	// path inside a workspace. It returns ErrNoRepository when there is
	// none.
	Locate(ctx context.Context, start string) (Repository, error)
}

// Repository is a read only view of one workspace.
type Repository interface {
	WorkspaceRoot() string
	CurrentHead(ctx context.Context) (Commit, error)
	// Log lists the recent commits shown below a status page.
	Log(ctx context.Context) ([]Commit, error)
	Diff(ctx context.Context, c Commit) (DiffState, error)
	// Resolve evaluates revision to exactly one commit.
	Resolve(ctx context.Context, revision string) (Commit, error)
	RenderCommit(ctx context.Context, c Commit, w LabelSink) error
	Annotate(ctx context.Context, c Commit, path string) (*FileAnnotation, error)
	RenderAnnotationLine(ctx context.Context, line AnnotationLine, w LabelSink) error
}

// DiffState is the difference between a commit and its parents.
type DiffState interface {
	Entries(m Matcher) []DiffEntry
	WriteSummary(w LabelSink) error
	WriteDiff(w LabelSink, m Matcher) error
}

// Mutator is implemented by repositories which can change the
// repository state.
type Mutator interface {
	New(ctx context.Context, revision string) error
	Abandon(ctx context.Context, revision string) error
	// Squash moves the changes to paths, or all changes when paths is
	// empty, from the working copy into its parent.
	Squash(ctx context.Context, paths ...string) error
}

// LabelSink receives labelled text. Labels nest; text written between
// PushLabel and the matching PopLabel carries the label.
type LabelSink interface {
	io.Writer
	PushLabel(name string)
	PopLabel()
}

// WriteLabelled writes s to w under the label name.
func WriteLabelled(w LabelSink, name, s string) error {
	w.PushLabel(name)
	defer w.PopLabel()
	_, err := io.WriteString(w, s)
	return err
}
