package server

import (
	"context"

	"github.com/signadot/jjpages/page"
	"github.com/signadot/jjpages/pos"
	"github.com/signadot/jjpages/span"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// lookup returns the stored page of u and the live document it is mapped
// onto. Overlays reaching past the end of the document are clamped.
func (s *Server) lookup(u protocol.DocumentURI) (*page.Page, *pos.Doc, bool) {
	p, ok := s.pages.get(u)
	if !ok {
		return nil, nil, false
	}
	doc, ok := s.docs.get(u)
	if !ok {
		doc = pos.NewDoc(p.Text)
	}
	return p, doc, true
}

func clampSpan(sp span.Span, n int) (span.Span, bool) {
	if sp.Start >= n {
		return span.Span{}, false
	}
	sp.End = min(sp.End, n)
	return sp, true
}

func fromProtocol(p protocol.Position) pos.Position {
	return pos.Position{Line: p.Line, Character: p.Character}
}

type token struct {
	line, character, length uint32
	tokenType               uint32
}

// tokens splits every label of p into one token per line it touches.
// Segments covering nothing but a line break are dropped.
func tokens(p *page.Page, doc *pos.Doc) []token {
	var res []token
	for _, e := range p.Labels {
		sp, ok := clampSpan(e.Span, doc.Len())
		if !ok {
			continue
		}
		first, _ := doc.LineCol(sp.Start)
		last, _ := doc.LineCol(sp.End)
		for line := first; line <= last; line++ {
			start := max(sp.Start, doc.LineStart(line))
			end := min(sp.End, doc.LineEnd(line))
			if end <= start {
				continue
			}
			from, to := doc.Position(start), doc.Position(end)
			if to.Character <= from.Character {
				continue
			}
			res = append(res, token{
				line:      from.Line,
				character: from.Character,
				length:    to.Character - from.Character,
				tokenType: uint32(e.Value),
			})
		}
	}
	return res
}

func encodeTokens(ts []token) []uint32 {
	data := make([]uint32, 0, 5*len(ts))
	var prevLine, prevChar uint32
	for _, t := range ts {
		deltaLine := t.line - prevLine
		deltaChar := t.character
		if deltaLine == 0 {
			deltaChar = t.character - prevChar
		}
		data = append(data, deltaLine, deltaChar, t.length, t.tokenType, 0)
		prevLine = t.line
		prevChar = t.character
	}
	return data
}

func (s *Server) SemanticTokensFull(ctx context.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	p, doc, ok := s.lookup(params.TextDocument.URI)
	if !ok {
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}
	return &protocol.SemanticTokens{Data: encodeTokens(tokens(p, doc))}, nil
}

func (s *Server) SemanticTokensRange(ctx context.Context, params *protocol.SemanticTokensRangeParams) (*protocol.SemanticTokens, error) {
	p, doc, ok := s.lookup(params.TextDocument.URI)
	if !ok {
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}
	var in []token
	for _, t := range tokens(p, doc) {
		if t.line >= params.Range.Start.Line && t.line <= params.Range.End.Line {
			in = append(in, t)
		}
	}
	return &protocol.SemanticTokens{Data: encodeTokens(in)}, nil
}

func (s *Server) FoldingRanges(ctx context.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	p, doc, ok := s.lookup(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	var res []protocol.FoldingRange
	for _, e := range p.Folds {
		sp, ok := clampSpan(e.Span, doc.Len())
		if !ok || sp.Len() == 0 {
			continue
		}
		start := doc.Position(sp.Start)
		end := doc.Position(sp.End - 1)
		if end.Line == start.Line {
			continue
		}
		res = append(res, protocol.FoldingRange{
			StartLine:      start.Line,
			StartCharacter: start.Character,
			EndLine:        end.Line,
			Kind:           protocol.RegionFoldingRange,
		})
	}
	return res, nil
}

func (s *Server) Definition(ctx context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error) {
	p, doc, ok := s.lookup(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	target, ok := p.TargetAt(doc.Offset(fromProtocol(params.Position)))
	if !ok {
		return nil, nil
	}
	return []protocol.Location{{URI: uri.File(target.Value.Path)}}, nil
}

func (s *Server) CodeAction(ctx context.Context, params *protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	p, doc, ok := s.lookup(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	r := span.Span{
		Start: doc.Offset(fromProtocol(params.Range.Start)),
		End:   doc.Offset(fromProtocol(params.Range.End)),
	}
	var res []protocol.CodeAction
	for _, a := range p.ActionsIn(r) {
		args := make([]interface{}, len(a.Args))
		for i, arg := range a.Args {
			args[i] = arg
		}
		res = append(res, protocol.CodeAction{
			Title: a.Title,
			Command: &protocol.Command{
				Title:     a.Title,
				Command:   a.Command,
				Arguments: args,
			},
		})
	}
	return res, nil
}
