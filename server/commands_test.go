package server

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/jjpages/pages"
	"github.com/signadot/jjpages/vcs"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

func execute(s *Server, cmd string, args ...interface{}) (interface{}, error) {
	return s.ExecuteCommand(context.Background(), &protocol.ExecuteCommandParams{
		Command:   cmd,
		Arguments: args,
	})
}

func TestOpen(t *testing.T) {
	f := newFixture(t)
	res, err := execute(f.s, pages.CmdOpen, f.root, "commit", "rlvkpnrz")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(f.root, pages.Marker, "commit", "rlvkpnrz.page")
	if res != want {
		t.Fatalf("open = %v, want %s", res, want)
	}
	if got := readFile(t, uri.File(want)); !strings.HasPrefix(got, "Commit: rlvkpnrz") {
		t.Errorf("page file = %q", got)
	}
	if got := readFile(t, uri.File(filepath.Join(f.root, pages.Marker, ".gitignore"))); got != "*\n" {
		t.Errorf(".gitignore = %q", got)
	}

	res, err = execute(f.s, pages.CmdOpen, f.root, "status", nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(f.root, pages.Marker, "status.page"); res != want {
		t.Errorf("open with null argument = %v, want %s", res, want)
	}
}

func TestOpenFromSubdirectory(t *testing.T) {
	f := newFixture(t)
	want := filepath.Join(f.root, pages.Marker, "status.page")
	for _, ws := range []string{f.root, filepath.Join(f.root, "src"), filepath.Join(f.root, "src", "deep")} {
		res, err := execute(f.s, pages.CmdOpen, ws, "status")
		if err != nil {
			t.Fatal(err)
		}
		if res != want {
			t.Errorf("open from %s = %v, want %s", ws, res, want)
		}
	}
}

func TestOpenDefaultsToFolder(t *testing.T) {
	f := newFixture(t)
	if _, err := execute(f.s, pages.CmdOpen, "", "status"); !errors.Is(err, ErrNoWorkspace) {
		t.Fatalf("open without folders: error %v, want ErrNoWorkspace", err)
	}
	f.s.addFolder(string(uri.File(f.root)))
	res, err := execute(f.s, pages.CmdOpen, "", "split")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(f.root, pages.Marker, "split.page"); res != want {
		t.Errorf("open = %v, want %s", res, want)
	}
}

func TestExecuteErrors(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		cmd  string
		args []interface{}
		want error
	}{
		{"bogus", nil, ErrUnknownCommand},
		{pages.CmdOpen, []interface{}{f.root, 3}, ErrBadArgument},
		{pages.CmdOpen, []interface{}{f.root}, pages.ErrArgCount},
		{pages.CmdOpen, []interface{}{f.root, "bogus"}, pages.ErrUnknownKind},
		{pages.CmdOpen, []interface{}{f.root, "commit", "a|b"}, pages.ErrReservedChar},
		{pages.CmdOpen, []interface{}{f.root, "commit"}, pages.ErrArgCount},
		{pages.CmdNew, []interface{}{f.root}, pages.ErrArgCount},
		{pages.CmdAbandon, nil, pages.ErrArgCount},
		{pages.CmdNew, []interface{}{"/elsewhere", "x"}, vcs.ErrNoRepository},
	}
	for _, tt := range tests {
		if _, err := execute(f.s, tt.cmd, tt.args...); !errors.Is(err, tt.want) {
			t.Errorf("%s %v: error %v, want %v", tt.cmd, tt.args, err, tt.want)
		}
	}
	if calls := f.repo.Calls(); len(calls) != 0 {
		t.Errorf("failed commands changed the repository: %q", calls)
	}
}

func TestMutations(t *testing.T) {
	f := newFixture(t)
	for _, args := range [][]interface{}{
		{pages.CmdNew, f.root, "rlvkpnrz"},
		{pages.CmdAbandon, f.root, "zzzzzzzz"},
		{pages.CmdSquash, f.root},
		{pages.CmdSquash, f.root, "src/a.js"},
	} {
		if _, err := execute(f.s, args[0].(string), args[1:]...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}
	want := []string{"new rlvkpnrz", "abandon zzzzzzzz", "squash", "squash src/a.js"}
	if diff := cmp.Diff(want, f.repo.Calls()); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

func TestMutationError(t *testing.T) {
	f := newFixture(t)
	f.repo.MutateErr = errors.New("conflict")
	if _, err := execute(f.s, pages.CmdNew, f.root, "x"); err == nil || err.Error() != "conflict" {
		t.Errorf("error = %v, want conflict", err)
	}
}

type readOnlyRepo struct {
	vcs.Repository
}

// fixedBackend locates repo for every path.
type fixedBackend struct {
	repo vcs.Repository
}

func (b fixedBackend) Locate(context.Context, string) (vcs.Repository, error) {
	return b.repo, nil
}

func TestReadOnlyRepository(t *testing.T) {
	f := newFixture(t)
	f.s.Backend = fixedBackend{readOnlyRepo{f.repo}}
	if _, err := execute(f.s, pages.CmdAbandon, f.root, "x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("error = %v, want ErrReadOnly", err)
	}
}

// Acting on a status page: the cursor on the Changes heading offers
// squashing everything, and running it regenerates the open pages.
func TestStatusActionRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.pageURI("status.page")
	if err := f.s.Reconcile(ctx, u, f.want(t, pages.Status)); err != nil {
		t.Fatal(err)
	}
	cursor := protocol.Position{Line: 1, Character: 2}
	actions, err := f.s.CodeAction(ctx, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: u},
		Range:        protocol.Range{Start: cursor, End: cursor},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(actions) != 1 || actions[0].Command.Command != pages.CmdSquash {
		t.Fatalf("actions = %+v", actions)
	}

	// the page will change once the repository does
	f.repo.Diffs[f.repo.Head.ChangeID] = &vcs.Diff{}
	cmd := actions[0].Command
	if _, err := execute(f.s, cmd.Command, cmd.Arguments...); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"squash"}, f.repo.Calls()); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
	want := f.want(t, pages.Status)
	if !strings.Contains(want, "Changes (0)") {
		t.Fatalf("unexpected status page:\n%s", want)
	}
	if got := readFile(t, u); got != want {
		t.Errorf("file after squash = %q, want %q", got, want)
	}
	if p, _ := f.s.pages.get(u); p.Text != want {
		t.Errorf("stored page after squash = %q", p.Text)
	}

	locs, err := f.s.Definition(ctx, &protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: u},
			Position:     protocol.Position{Line: 0, Character: 1},
		},
	})
	if err != nil || locs != nil {
		t.Errorf("definition on the head line = %v, %v", locs, err)
	}
}
