package jjcli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/signadot/jjpages/vcs"
)

const timeLayout = "2006-01-02T15:04:05Z"

// commitTemplate prints the fields of a commit, each terminated by NUL.
// The description comes last as it may span lines.
const commitTemplate = `change_id ++ "\0" ++ commit_id ++ "\0" ++ ` +
	`author.name() ++ "\0" ++ author.email() ++ "\0" ++ ` +
	`author.timestamp().utc().format("%Y-%m-%dT%H:%M:%SZ") ++ "\0" ++ ` +
	`if(empty, "true", "false") ++ "\0" ++ description ++ "\0"`

const commitFields = 7

// Repo is a jj workspace.
type Repo struct {
	root string
	run  Runner
	opts Options
}

var (
	_ vcs.Repository = (*Repo)(nil)
	_ vcs.Mutator    = (*Repo)(nil)
)

func (r *Repo) WorkspaceRoot() string {
	return r.root
}

// jj runs a command that snapshots the working copy first.
func (r *Repo) jj(ctx context.Context, color string, args ...string) ([]byte, error) {
	full := append([]string{"--repository", r.root, "--no-pager", "--color=" + color}, args...)
	return r.run.Run(ctx, r.root, full...)
}

// query runs a read-only command against the last snapshot. Resolve
// takes the snapshot; a render resolves the head or its revision before
// any query.
func (r *Repo) query(ctx context.Context, color string, args ...string) ([]byte, error) {
	return r.jj(ctx, color, append([]string{"--ignore-working-copy"}, args...)...)
}

func (r *Repo) commits(ctx context.Context, revset string, limit int, snapshot bool) ([]vcs.Commit, error) {
	args := []string{"log", "--no-graph", "-r", revset, "-T", commitTemplate}
	if limit > 0 {
		args = append(args, "--limit", fmt.Sprint(limit))
	}
	run := r.query
	if snapshot {
		run = r.jj
	}
	out, err := run(ctx, "never", args...)
	if err != nil {
		return nil, err
	}
	return parseCommits(string(out))
}

func parseCommits(out string) ([]vcs.Commit, error) {
	fields := strings.Split(out, "\x00")
	// the final terminator leaves an empty trailing field
	fields = fields[:len(fields)-1]
	if len(fields)%commitFields != 0 {
		return nil, fmt.Errorf("malformed log output: %d fields", len(fields))
	}
	res := make([]vcs.Commit, 0, len(fields)/commitFields)
	for i := 0; i < len(fields); i += commitFields {
		f := fields[i : i+commitFields]
		ts, err := time.Parse(timeLayout, f[4])
		if err != nil {
			return nil, fmt.Errorf("malformed log output: %w", err)
		}
		res = append(res, vcs.Commit{
			ChangeID:    f[0],
			CommitID:    f[1],
			Author:      f[2],
			Email:       f[3],
			Timestamp:   ts,
			Empty:       f[5] == "true",
			Description: f[6],
		})
	}
	return res, nil
}

func (r *Repo) CurrentHead(ctx context.Context) (vcs.Commit, error) {
	return r.Resolve(ctx, "@")
}

func (r *Repo) Log(ctx context.Context) ([]vcs.Commit, error) {
	return r.commits(ctx, r.opts.LogRevset, 0, false)
}

func (r *Repo) Resolve(ctx context.Context, revision string) (vcs.Commit, error) {
	cs, err := r.commits(ctx, revision, 2, true)
	if err != nil {
		return vcs.Commit{}, err
	}
	switch len(cs) {
	case 0:
		return vcs.Commit{}, fmt.Errorf("%s: %w", revision, vcs.ErrEmpty)
	case 1:
		return cs[0], nil
	default:
		return vcs.Commit{}, fmt.Errorf("%s: %w", revision, vcs.ErrAmbiguous)
	}
}

func (r *Repo) Diff(ctx context.Context, c vcs.Commit) (vcs.DiffState, error) {
	out, err := r.query(ctx, "never", "diff", "-r", c.CommitID, "--git")
	if err != nil {
		return nil, err
	}
	return parseGitDiff(out)
}

// RenderCommit renders c with the configured template, without its
// trailing line break.
func (r *Repo) RenderCommit(ctx context.Context, c vcs.Commit, w vcs.LabelSink) error {
	out, err := r.query(ctx, "debug", "log", "--no-graph", "-r", c.CommitID, "-T", r.opts.CommitTemplate)
	if err != nil {
		return err
	}
	return writeDebugColor(w, string(out))
}

func (r *Repo) New(ctx context.Context, revision string) error {
	_, err := r.jj(ctx, "never", "new", revision)
	return err
}

func (r *Repo) Abandon(ctx context.Context, revision string) error {
	_, err := r.jj(ctx, "never", "abandon", revision)
	return err
}

func (r *Repo) Squash(ctx context.Context, paths ...string) error {
	args := []string{"squash"}
	if len(paths) != 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	_, err := r.jj(ctx, "never", args...)
	return err
}
