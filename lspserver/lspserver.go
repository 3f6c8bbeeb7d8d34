// Package lspserver binds the completion pipeline (C9) and
// go-to-definition to the Language Server Protocol over stdio (a Server
// also constructs the semantic analyzer (C10), but no handler calls it),
// using go.lsp.dev/jsonrpc2's connection primitives directly
// rather than go.lsp.dev/protocol's generated server dispatcher: this
// package's handler only implements the handful of methods §6 actually
// asks for, and a raw jsonrpc2.Handler switching on req.Method() is a
// smaller surface to get right than satisfying protocol.Server's full,
// mostly-unimplemented interface.
package lspserver

import (
	"context"
	"encoding/json"
	"io"

	"github.com/sirupsen/logrus"
	"go.lsp.dev/jsonrpc2"

	"github.com/sqlls/sqlls/completion"
	"github.com/sqlls/sqlls/document"
	"github.com/sqlls/sqlls/internal/logging"
	"github.com/sqlls/sqlls/semantic"
)

// Server binds one document.Store and completion.Engine to the LSP's
// wire protocol. A Server is safe to reuse across connections, but
// cmd/sqlls never needs to: one stdio connection lives as long
// as the process.
type Server struct {
	docs     *document.Store
	engine   *completion.Engine
	analyzer *semantic.Analyzer
	logger   *logrus.Logger

	conn jsonrpc2.Conn
}

// New returns a Server serving completions from engine over documents
// kept in docs, logging through logger (a nil logger disables logging,
// matching completion.Engine's own convention).
func New(docs *document.Store, engine *completion.Engine, logger *logrus.Logger) *Server {
	return &Server{
		docs:     docs,
		engine:   engine,
		analyzer: semantic.NewAnalyzer(),
		logger:   logger,
	}
}

// Serve runs the server over rwc (typically os.Stdin/os.Stdout wrapped
// into one io.ReadWriteCloser) until the connection closes or ctx is
// canceled, whichever comes first.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	stream := jsonrpc2.NewStream(rwc)
	conn := jsonrpc2.NewConn(stream)
	s.conn = conn

	conn.Go(ctx, s.handle)

	select {
	case <-conn.Done():
		return conn.Err()
	case <-ctx.Done():
		_ = conn.Close()
		return ctx.Err()
	}
}

func (s *Server) log() *logrus.Entry {
	if s.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)

		return logrus.NewEntry(discard)
	}

	return logging.ForComponent(s.logger, "lspserver")
}

// handle is the single jsonrpc2.Handler this server registers; it
// dispatches every request and notification the client sends by method
// name. Unknown methods are answered with jsonrpc2's standard
// MethodNotFound for requests, and silently ignored for notifications —
// exactly how the LSP spec says an implementation should behave toward
// capabilities it never advertised.
func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	switch req.Method() {
	case "initialize":
		return s.onInitialize(ctx, reply, req)
	case "initialized":
		return reply(ctx, nil, nil)
	case "shutdown":
		return reply(ctx, nil, nil)
	case "exit":
		return s.onExit(ctx, reply, req)
	case "textDocument/didOpen":
		return s.onDidOpen(ctx, reply, req)
	case "textDocument/didChange":
		return s.onDidChange(ctx, reply, req)
	case "textDocument/didClose":
		return s.onDidClose(ctx, reply, req)
	case "textDocument/completion":
		return s.onCompletion(ctx, reply, req)
	case "textDocument/definition":
		return s.onDefinition(ctx, reply, req)
	case "textDocument/hover":
		return reply(ctx, nil, nil)
	case "textDocument/formatting":
		return reply(ctx, []any{}, nil)
	case "textDocument/documentSymbol":
		return reply(ctx, []any{}, nil)
	default:
		if req.Notif() {
			return reply(ctx, nil, nil)
		}

		return reply(ctx, nil, jsonrpc2.ErrMethodNotFound)
	}
}

func (s *Server) onExit(ctx context.Context, reply jsonrpc2.Replier, _ jsonrpc2.Request) error {
	err := reply(ctx, nil, nil)

	if s.conn != nil {
		_ = s.conn.Close()
	}

	return err
}

func unmarshalParams(req jsonrpc2.Request, v any) error {
	return json.Unmarshal(req.Params(), v)
}
