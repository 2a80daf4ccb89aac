// Package jjcli implements the vcs contract by running the jj command
// line tool.
package jjcli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/signadot/jjpages/vcs"
)

const (
	DefaultLogRevset      = "ancestors(@, 10)"
	DefaultCommitTemplate = "builtin_log_oneline"
	DefaultTimeout        = 30 * time.Second
)

type Options struct {
	// LogRevset selects the commits of Repository.Log.
	LogRevset string
	// CommitTemplate renders commits in pages.
	CommitTemplate string
}

// Backend locates jj workspaces on the local filesystem.
type Backend struct {
	Runner  Runner
	Options Options
}

// New returns a Backend running the jj binary bin.
func New(bin string, opts Options) *Backend {
	return &Backend{
		Runner:  &ExecRunner{Bin: bin, Timeout: DefaultTimeout},
		Options: opts,
	}
}

// Locate finds the workspace containing start by looking for a .jj
// directory in start and its parents.
func (b *Backend) Locate(_ context.Context, start string) (vcs.Repository, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}
	for {
		fi, err := os.Stat(filepath.Join(dir, ".jj"))
		if err == nil && fi.IsDir() {
			return &Repo{root: dir, run: b.Runner, opts: b.options()}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("%s: %w", start, vcs.ErrNoRepository)
		}
		dir = parent
	}
}

func (b *Backend) options() Options {
	opts := b.Options
	if opts.LogRevset == "" {
		opts.LogRevset = DefaultLogRevset
	}
	if opts.CommitTemplate == "" {
		opts.CommitTemplate = DefaultCommitTemplate
	}
	return opts
}
