package lspserver

import (
	"context"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/sqlls/sqlls/definition"
)

// triggerCharacters are the characters that re-invoke completion without
// an explicit request: "." after a table alias (column completion), and
// space after a keyword like FROM/JOIN (table completion) — §6's
// "completion with trigger characters . and space".
var triggerCharacters = []string{".", " "}

func (s *Server) onInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.InitializeParams
	if err := unmarshalParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	s.log().WithField("root_uri", params.RootURI).Info("initializing")

	result := protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindIncremental,
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: triggerCharacters,
			},
			// Hover, formatting, and document symbols are advertised but
			// not functionally implemented (§6 calls all three "stub");
			// go-to-definition is real.
			HoverProvider:              true,
			DefinitionProvider:         true,
			DocumentFormattingProvider: true,
			DocumentSymbolProvider:     true,
		},
		ServerInfo: &protocol.ServerInfo{Name: "sqlls"},
	}

	return reply(ctx, result, nil)
}

func (s *Server) onDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := unmarshalParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	doc := params.TextDocument

	_, err := s.docs.Open(string(doc.URI), string(doc.LanguageID), int(doc.Version), doc.Text)
	if err != nil {
		s.log().WithError(err).WithField("uri", doc.URI).Warn("didOpen failed")
	}

	return reply(ctx, nil, nil)
}

func (s *Server) onDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := unmarshalParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	uri := string(params.TextDocument.URI)
	changes := toDocumentChanges(params.ContentChanges)

	if _, err := s.docs.ApplyChange(uri, int(params.TextDocument.Version), changes); err != nil {
		s.log().WithError(err).WithField("uri", uri).Warn("didChange failed")
	}

	return reply(ctx, nil, nil)
}

func (s *Server) onDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := unmarshalParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	uri := string(params.TextDocument.URI)
	if err := s.docs.Close(uri); err != nil {
		s.log().WithError(err).WithField("uri", uri).Warn("didClose failed")
	}

	return reply(ctx, nil, nil)
}

func (s *Server) onCompletion(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.CompletionParams
	if err := unmarshalParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	uri := string(params.TextDocument.URI)

	snap, err := s.docs.Get(uri)
	if err != nil {
		s.log().WithError(err).WithField("uri", uri).Warn("completion on unknown document")

		return reply(ctx, nil, nil)
	}

	items, ok := s.engine.Complete(ctx, snap, toDocumentPosition(params.Position))
	if !ok {
		return reply(ctx, nil, nil)
	}

	return reply(ctx, toCompletionList(items), nil)
}

func (s *Server) onDefinition(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DefinitionParams
	if err := unmarshalParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	uri := params.TextDocument.URI

	snap, err := s.docs.Get(string(uri))
	if err != nil {
		s.log().WithError(err).WithField("uri", uri).Warn("definition on unknown document")

		return reply(ctx, nil, nil)
	}

	offset := snap.Offset(toDocumentPosition(params.Position))

	res, ok := definition.FindAt(snap.Tree, snap.Text, offset)
	if !ok {
		return reply(ctx, nil, nil)
	}

	return reply(ctx, toLocation(uri, snap, res), nil)
}
