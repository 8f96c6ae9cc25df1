package lsp

import (
	"fmt"
	"sync"

	"bennypowers.dev/rxls/internal/documents"
	"bennypowers.dev/rxls/internal/log"
	"bennypowers.dev/rxls/internal/parser/html"
	"bennypowers.dev/rxls/internal/parser/js"
	"bennypowers.dev/rxls/internal/regexp/dialect"
	"bennypowers.dev/rxls/lsp/methods/lifecycle"
	"bennypowers.dev/rxls/lsp/methods/textDocument"
	codeaction "bennypowers.dev/rxls/lsp/methods/textDocument/codeAction"
	"bennypowers.dev/rxls/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/rxls/lsp/methods/workspace"
	"bennypowers.dev/rxls/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

var _ types.ServerContext = (*Server)(nil)

// Server represents the regexp language server
type Server struct {
	documents  *documents.Manager
	dialects   *dialect.Registry
	glspServer *server.Server
	context    *glsp.Context
	rootURI    string             // Workspace root URI
	rootPath   string             // Workspace root path (file system)
	config     types.ServerConfig // Effective configuration, all layers applied
	client     types.ConfigLayer  // Settings sent by the client
	// Protects the fields above plus clientDiagnosticCapability and
	// usePullDiagnostics from concurrent access
	configMu                   sync.RWMutex
	clientDiagnosticCapability *bool // Detected from raw initialize params (nil = not detected yet)
	usePullDiagnostics         bool  // Whether to use pull diagnostics (LSP 3.17) vs push
}

// Option configures a Server.
type Option func(*options)

type options struct {
	debug bool
}

// WithDebug makes glsp log every JSON-RPC message through commonlog.
func WithDebug(debug bool) Option {
	return func(o *options) { o.debug = debug }
}

// NewServer creates a new regexp LSP server
func NewServer(opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	registry, err := dialect.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in dialects: %w", err)
	}

	s := &Server{
		documents: documents.NewManager(),
		dialects:  registry,
		config:    types.DefaultConfig(),
	}

	protocolHandler := protocol.Handler{
		Initialize:                      method(s, "initialize", lifecycle.Initialize),
		Initialized:                     notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                        noParam(s, "shutdown", lifecycle.Shutdown),
		Exit:                            noParam(s, "exit", s.exit),
		SetTrace:                        notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", workspace.DidChangeConfiguration),
		WorkspaceDidChangeWatchedFiles:  notify(s, "workspace/didChangeWatchedFiles", workspace.DidChangeWatchedFiles),
		TextDocumentDidOpen:             notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:           notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:            notify(s, "textDocument/didClose", textDocument.DidClose),
		TextDocumentCodeAction:          method(s, "textDocument/codeAction", codeaction.CodeAction),
		CodeActionResolve:               method(s, "codeAction/resolve", codeaction.CodeActionResolve),
	}

	// textDocument/diagnostic is LSP 3.17 and unknown to protocol.Handler
	customHandler := &CustomHandler{
		Handler: &protocolHandler,
		server:  s,
	}

	s.glspServer = server.NewServer(customHandler, lifecycle.ServerName, o.debug)

	return s, nil
}

// RunStdio serves JSON-RPC over stdin and stdout until the client disconnects.
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// Close releases the tree-sitter parser pools.
// Calling it again is harmless.
func (s *Server) Close() error {
	js.ClosePool()
	html.ClosePool()
	return nil
}

// exit handles the exit notification. The transport ends when the client
// closes the stream; here we only release resources.
func (s *Server) exit(*types.RequestContext) error {
	log.Info("Exit requested")
	return s.Close()
}

// Document looks up an open document.
func (s *Server) Document(uri string) *documents.Document {
	return s.documents.Get(uri)
}

func (s *Server) DocumentManager() *documents.Manager {
	return s.documents
}

// AllDocuments lists the open documents.
func (s *Server) AllDocuments() []*documents.Document {
	return s.documents.GetAll()
}

// Dialects returns the dialect registry, built-in and workspace dialects
func (s *Server) Dialects() *dialect.Registry {
	return s.dialects
}

// RootURI is the workspace root as sent by the client.
func (s *Server) RootURI() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootURI
}

// RootPath is the workspace root on disk, or "" without a workspace.
func (s *Server) RootPath() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootPath
}

func (s *Server) SetRootURI(uri string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootURI = uri
}

func (s *Server) SetRootPath(path string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootPath = path
}

// GLSPContext is the context stored by initialized, used for notifications
// sent outside a request.
func (s *Server) GLSPContext() *glsp.Context {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.context
}

func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.context = ctx
}

// ClientDiagnosticCapability is nil until initialize has been seen.
func (s *Server) ClientDiagnosticCapability() *bool {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.clientDiagnosticCapability
}

// SetClientDiagnosticCapability records what the CustomHandler detected in
// the raw initialize params.
func (s *Server) SetClientDiagnosticCapability(hasCapability bool) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.clientDiagnosticCapability = &hasCapability
}

// UsePullDiagnostics reports whether the client asks for diagnostics itself,
// in which case nothing is pushed.
func (s *Server) UsePullDiagnostics() bool {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.usePullDiagnostics
}

func (s *Server) SetUsePullDiagnostics(use bool) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.usePullDiagnostics = use
}

// PublishDiagnostics pushes the diagnostics of one document.
func (s *Server) PublishDiagnostics(context *glsp.Context, uri string) error {
	log.Debug("Publishing diagnostics for: %s", uri)

	if s.UsePullDiagnostics() {
		return nil
	}

	diagnostics, err := diagnostic.GetDiagnostics(s, uri)
	if err != nil {
		return err
	}
	return s.sendDiagnostics(context, uri, diagnostics)
}

// ClearDiagnostics publishes an empty set so the client drops what it shows
// for a closed document.
func (s *Server) ClearDiagnostics(context *glsp.Context, uri string) error {
	if s.UsePullDiagnostics() {
		return nil
	}
	return s.sendDiagnostics(context, uri, []protocol.Diagnostic{})
}

func (s *Server) sendDiagnostics(context *glsp.Context, uri string, diagnostics []protocol.Diagnostic) error {
	// Use passed-in context if non-nil, otherwise fall back to server's context
	ctx := context
	if ctx == nil {
		ctx = s.GLSPContext()
	}
	if ctx == nil || ctx.Notify == nil {
		return fmt.Errorf("cannot publish diagnostics for %s: no client connection", uri)
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}
