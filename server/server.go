// Package server is the language server keeping page files in step with
// the repository they describe.
//
// Opening, editing or saving a page file reconciles it: the path is decoded
// into a page identity, the page is rendered afresh from the repository and
// written back over the file. Highlighting, folding, jump targets and code
// actions are then answered from the rendered page.
package server

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"sync"

	"github.com/signadot/jjpages/label"
	"github.com/signadot/jjpages/page"
	"github.com/signadot/jjpages/pages"
	"github.com/signadot/jjpages/pos"
	"github.com/signadot/jjpages/vcs"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

const Name = "jjpages"

var Version = "0.0.1"

type Spec struct {
	Backend  vcs.Backend
	Renderer *pages.Renderer
	Log      *slog.Logger
}

type Server struct {
	Spec

	conn jsonrpc2.Conn

	docs  *store[*pos.Doc]
	pages *store[*page.Page]

	mu      sync.Mutex
	folders []string
	refresh bool
}

func New(spec *Spec) *Server {
	if spec.Log == nil {
		spec.Log = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	if spec.Renderer == nil {
		spec.Renderer = &pages.Renderer{}
	}
	return &Server{
		Spec:  *spec,
		docs:  newStore[*pos.Doc](),
		pages: newStore[*page.Page](),
	}
}

// SetConn sets the connection notifications and requests to the client go
// through. Without one, they are dropped.
func (s *Server) SetConn(conn jsonrpc2.Conn) {
	s.conn = conn
}

// Folders returns the workspace folders the client has open.
func (s *Server) Folders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.folders)
}

func (s *Server) addFolder(u string) {
	path, err := filename(protocol.DocumentURI(u))
	if err != nil {
		s.Log.Warn("ignoring workspace folder", "uri", u, "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.folders, path) {
		s.folders = append(s.folders, path)
	}
}

func (s *Server) removeFolder(u string) {
	path, err := filename(protocol.DocumentURI(u))
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders = slices.DeleteFunc(s.folders, func(f string) bool { return f == path })
}

// filename is the path of a file URI. Unlike uri.URI.Filename it returns
// an error for other URIs.
func filename(u protocol.DocumentURI) (string, error) {
	pu, err := url.ParseRequestURI(string(u))
	if err != nil || pu.Scheme != uri.FileScheme {
		return "", &url.Error{Op: "filename", URL: string(u), Err: ErrNotFile}
	}
	return u.Filename(), nil
}

func tokenTypes() []protocol.SemanticTokenTypes {
	names := label.Legend()
	res := make([]protocol.SemanticTokenTypes, len(names))
	for i, name := range names {
		res[i] = protocol.SemanticTokenTypes(name)
	}
	return res
}

func (s *Server) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	for _, f := range params.WorkspaceFolders {
		s.addFolder(f.URI)
	}
	if len(params.WorkspaceFolders) == 0 && params.RootURI != "" {
		s.addFolder(string(params.RootURI))
	}
	if ws := params.Capabilities.Workspace; ws != nil && ws.SemanticTokens != nil {
		s.mu.Lock()
		s.refresh = ws.SemanticTokens.RefreshSupport
		s.mu.Unlock()
	}
	s.Log.Info("initialize", "folders", s.Folders())

	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			Change:    protocol.TextDocumentSyncKindFull,
			OpenClose: true,
			Save:      &protocol.SaveOptions{IncludeText: true},
		},
		DefinitionProvider:   true,
		CodeActionProvider:   true,
		FoldingRangeProvider: true,
		ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
			Commands: []string{pages.CmdOpen, pages.CmdNew, pages.CmdAbandon, pages.CmdSquash},
		},
		SemanticTokensProvider: map[string]interface{}{
			"full":  true,
			"range": true,
			"legend": protocol.SemanticTokensLegend{
				TokenTypes:     tokenTypes(),
				TokenModifiers: []protocol.SemanticTokenModifiers{},
			},
		},
		Workspace: &protocol.ServerCapabilitiesWorkspace{
			WorkspaceFolders: &protocol.ServerCapabilitiesWorkspaceFolders{
				Supported:           true,
				ChangeNotifications: true,
			},
		},
	}
	return &protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.ServerInfo{
			Name:    Name,
			Version: Version,
		},
	}, nil
}

func (s *Server) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

func (s *Server) Exit(ctx context.Context) error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.reconcile(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	n := len(params.ContentChanges)
	if n == 0 {
		return nil
	}
	// full sync: the last change holds the whole text
	s.reconcile(ctx, params.TextDocument.URI, params.ContentChanges[n-1].Text)
	return nil
}

func (s *Server) DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
	text := params.Text
	if text == "" {
		doc, ok := s.docs.get(params.TextDocument.URI)
		if !ok {
			return nil
		}
		text = doc.Text()
	}
	if s.reconcile(ctx, params.TextDocument.URI, text) {
		s.refreshTokens(ctx)
	}
	return nil
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.remove(params.TextDocument.URI)
	s.pages.remove(params.TextDocument.URI)
	return nil
}

func (s *Server) DidChangeWorkspaceFolders(ctx context.Context, params *protocol.DidChangeWorkspaceFoldersParams) error {
	for _, f := range params.Event.Removed {
		s.removeFolder(f.URI)
	}
	for _, f := range params.Event.Added {
		s.addFolder(f.URI)
	}
	s.Log.Debug("workspace folders changed", "folders", s.Folders())
	return nil
}

// notify sends a notification to the client, if connected.
func (s *Server) notify(ctx context.Context, method string, params interface{}) {
	if s.conn == nil {
		return
	}
	if err := s.conn.Notify(ctx, method, params); err != nil {
		s.Log.Warn("notify failed", "method", method, "error", err)
	}
}

// refreshTokens asks the client to request semantic tokens again. The
// request is made from a new goroutine: the connection handles one message
// at a time, so waiting for the reply from a handler would never return.
func (s *Server) refreshTokens(ctx context.Context) {
	s.mu.Lock()
	refresh := s.refresh
	s.mu.Unlock()
	if s.conn == nil || !refresh {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		if _, err := s.conn.Call(ctx, protocol.MethodSemanticTokensRefresh, nil, nil); err != nil {
			s.Log.Debug("semantic tokens refresh failed", "error", err)
		}
	}()
}
