package types

import (
	"bennypowers.dev/rxls/internal/documents"
	"bennypowers.dev/rxls/internal/regexp/dialect"
	"github.com/tliron/glsp"
)

// ServerContext provides all dependencies needed for LSP handlers.
// Handlers depend on this interface so tests can swap in a mock.
type ServerContext interface {
	// Document operations
	Document(uri string) *documents.Document
	DocumentManager() *documents.Manager
	AllDocuments() []*documents.Document

	// Dialects known to the server: built-ins plus workspace descriptors
	Dialects() *dialect.Registry

	// Workspace operations
	RootURI() string
	RootPath() string
	SetRootURI(uri string)
	SetRootPath(path string)

	// Configuration
	GetConfig() ServerConfig
	SetConfig(config ServerConfig)
	// SetClientSettings stores the layer sent by workspace/didChangeConfiguration
	SetClientSettings(layer ConfigLayer)
	// LoadConfig rebuilds the configuration from defaults, workspace files
	// and client settings
	LoadConfig() error
	// LoadDialects reloads custom dialect descriptors matched by DialectFiles
	LoadDialects() error
	IsDialectFile(path string) bool

	RegisterFileWatchers(ctx *glsp.Context) error

	// LSP context (for publishing diagnostics, etc.)
	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)

	// Diagnostics
	UsePullDiagnostics() bool
	SetUsePullDiagnostics(use bool)
	ClientDiagnosticCapability() *bool
	PublishDiagnostics(context *glsp.Context, uri string) error
	ClearDiagnostics(context *glsp.Context, uri string) error
}
