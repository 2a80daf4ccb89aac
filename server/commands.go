package server

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/signadot/jjpages/pages"
	"github.com/signadot/jjpages/vcs"
	"go.lsp.dev/protocol"
)

func (s *Server) ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (interface{}, error) {
	args, err := stringArgs(params.Arguments)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", params.Command, err)
	}
	switch params.Command {
	case pages.CmdOpen:
		return s.open(ctx, args)
	case pages.CmdNew, pages.CmdAbandon, pages.CmdSquash:
		return nil, s.mutate(ctx, params.Command, args)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownCommand, params.Command)
	}
}

// stringArgs drops null arguments; any other non-string is an error.
func stringArgs(in []interface{}) ([]string, error) {
	res := make([]string, 0, len(in))
	for i, a := range in {
		switch v := a.(type) {
		case nil:
		case string:
			res = append(res, v)
		default:
			return nil, fmt.Errorf("%w: argument %d is %T", ErrBadArgument, i, a)
		}
	}
	return res, nil
}

// workspace resolves a workspace argument. An empty one means the first
// workspace folder.
func (s *Server) workspace(arg string) (string, error) {
	if arg == "" {
		folders := s.Folders()
		if len(folders) == 0 {
			return "", ErrNoWorkspace
		}
		return folders[0], nil
	}
	return filepath.Abs(arg)
}

// open renders the page [workspace, kind, args...] and returns the path of
// its file.
func (s *Server) open(ctx context.Context, args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("%s: %w", pages.CmdOpen, pages.ErrArgCount)
	}
	ws, err := s.workspace(args[0])
	if err != nil {
		return "", err
	}
	kind, ok := pages.Named(args[1])
	if !ok {
		return "", fmt.Errorf("%w %q", pages.ErrUnknownKind, args[1])
	}
	repo, err := s.Backend.Locate(ctx, ws)
	if err != nil {
		return "", err
	}
	path, err := pages.Encode(pages.Identity{Workspace: repo.WorkspaceRoot(), Kind: kind, Args: args[2:]})
	if err != nil {
		return "", err
	}
	if _, err := s.generate(ctx, path); err != nil {
		return "", err
	}
	s.Log.Debug("opened page", "path", path)
	return path, nil
}

func (s *Server) mutate(ctx context.Context, cmd string, args []string) error {
	want := 2
	if cmd == pages.CmdSquash {
		want = len(args)
	}
	if len(args) == 0 || len(args) != want {
		return fmt.Errorf("%s: %w", cmd, pages.ErrArgCount)
	}
	ws, err := s.workspace(args[0])
	if err != nil {
		return err
	}
	repo, err := s.Backend.Locate(ctx, ws)
	if err != nil {
		return err
	}
	m, ok := repo.(vcs.Mutator)
	if !ok {
		return fmt.Errorf("%s: %w", cmd, ErrReadOnly)
	}
	switch cmd {
	case pages.CmdNew:
		err = m.New(ctx, args[1])
	case pages.CmdAbandon:
		err = m.Abandon(ctx, args[1])
	case pages.CmdSquash:
		err = m.Squash(ctx, args[1:]...)
	}
	if err != nil {
		return err
	}
	s.Log.Info("repository changed", "command", cmd, "args", args)
	s.regenerate(ctx, repo.WorkspaceRoot())
	return nil
}
