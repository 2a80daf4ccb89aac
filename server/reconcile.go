package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/signadot/jjpages/debug"
	"github.com/signadot/jjpages/page"
	"github.com/signadot/jjpages/pages"
	"github.com/signadot/jjpages/pos"
	"go.lsp.dev/protocol"
)

// Reconcile records text as the editor's view of the document at u, then
// regenerates the page u names and writes it over the file. On success
// the new page replaces the stored one; on failure the stored page is
// kept.
func (s *Server) Reconcile(ctx context.Context, u protocol.DocumentURI, text string) error {
	s.docs.put(u, pos.NewDoc(text))
	path, err := filename(u)
	if err != nil {
		return err
	}
	p, err := s.generate(ctx, path)
	if err != nil {
		return err
	}
	if p.Text != text {
		s.logMismatch(u, text, p.Text)
	}
	s.pages.put(u, p)
	return nil
}

// reconcile runs Reconcile and reports a failure to the log and the
// client.
func (s *Server) reconcile(ctx context.Context, u protocol.DocumentURI, text string) bool {
	if err := s.Reconcile(ctx, u, text); err != nil {
		s.report(ctx, u, err)
		return false
	}
	return true
}

func (s *Server) report(ctx context.Context, u protocol.DocumentURI, err error) {
	s.Log.Error("reconcile failed", "uri", u, "error", err)
	s.notify(ctx, protocol.MethodWindowLogMessage, &protocol.LogMessageParams{
		Type:    protocol.MessageTypeError,
		Message: fmt.Sprintf("%s: %v", u, err),
	})
}

// generate renders the page at path and writes it there.
func (s *Server) generate(ctx context.Context, path string) (*page.Page, error) {
	id, err := pages.Decode(path)
	if err != nil {
		return nil, err
	}
	if debug.Reconcile() {
		debug.Logf("generate %s %v in %s\n", id.Kind, id.Args, id.Workspace)
	}
	repo, err := s.Backend.Locate(ctx, id.Workspace)
	if err != nil {
		return nil, err
	}
	p, err := s.Renderer.Render(ctx, repo, id.Kind, id.Args)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := ignorePages(id.Workspace); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(p.Text), 0o644); err != nil {
		return nil, err
	}
	return p, nil
}

// ignorePages keeps the page files of ws out of jj snapshots.
func ignorePages(ws string) error {
	path := filepath.Join(ws, pages.Marker, ".gitignore")
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte("*\n"), 0o644)
}

// regenerate rewrites every stored page of the workspace ws.
func (s *Server) regenerate(ctx context.Context, ws string) {
	for _, u := range s.pages.keys() {
		path, err := filename(u)
		if err != nil {
			continue
		}
		id, err := pages.Decode(path)
		if err != nil || id.Workspace != ws {
			continue
		}
		p, err := s.generate(ctx, path)
		if err != nil {
			s.report(ctx, u, err)
			continue
		}
		s.pages.put(u, p)
	}
	s.refreshTokens(ctx)
}

type mismatch struct {
	inserted, deleted int
	// 1 based line of the first difference
	line int
}

func diffSummary(diffs []diffpatch.Diff) mismatch {
	var (
		m     mismatch
		lines int
	)
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffEqual:
			lines += strings.Count(d.Text, "\n")
			continue
		case diffpatch.DiffInsert:
			m.inserted += utf8.RuneCountInString(d.Text)
		case diffpatch.DiffDelete:
			m.deleted += utf8.RuneCountInString(d.Text)
		}
		if m.line == 0 {
			m.line = lines + 1
		}
	}
	return m
}

func (s *Server) logMismatch(u protocol.DocumentURI, have, want string) {
	dmp := diffpatch.New()
	diffs := dmp.DiffMain(have, want, true)
	m := diffSummary(diffs)
	s.Log.Debug("page rewritten", "uri", u, "inserted", m.inserted, "deleted", m.deleted, "line", m.line)
	if debug.Reconcile() {
		debug.Logf("%s:\n%s\n", u, dmp.DiffPrettyText(diffs))
	}
}
