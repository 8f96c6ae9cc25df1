// Package testutil provides a ServerContext for handler tests.
package testutil

import (
	"sync"

	"bennypowers.dev/rxls/internal/documents"
	"bennypowers.dev/rxls/internal/regexp/dialect"
	"bennypowers.dev/rxls/lsp/types"
	"github.com/tliron/glsp"
)

// MockServerContext implements types.ServerContext for testing.
// Behaviour can be customised through the *Func callbacks.
type MockServerContext struct {
	docs        *documents.Manager
	dialects    *dialect.Registry
	rootURI     string
	rootPath    string
	config      types.ServerConfig
	client      types.ConfigLayer
	glspContext *glsp.Context
	usePull     bool
	pullCap     *bool

	LoadConfigFunc         func() error
	LoadDialectsFunc       func() error
	RegisterWatchersFunc   func(*glsp.Context) error
	IsDialectFileFunc      func(string) bool
	PublishDiagnosticsFunc func(*glsp.Context, string) error

	mu                     sync.Mutex
	LoadConfigCalled       bool
	LoadDialectsCalled     int
	RegisterWatchersCalled bool
	Published              []string
	Cleared                []string
}

var _ types.ServerContext = (*MockServerContext)(nil)

// NewMockServerContext creates a mock with the built-in dialects and the
// default configuration.
func NewMockServerContext() *MockServerContext {
	reg, err := dialect.NewRegistry()
	if err != nil {
		panic(err)
	}
	return &MockServerContext{
		docs:     documents.NewManager(),
		dialects: reg,
		config:   types.DefaultConfig(),
	}
}

func (m *MockServerContext) Document(uri string) *documents.Document { return m.docs.Get(uri) }
func (m *MockServerContext) DocumentManager() *documents.Manager     { return m.docs }
func (m *MockServerContext) AllDocuments() []*documents.Document     { return m.docs.GetAll() }
func (m *MockServerContext) Dialects() *dialect.Registry             { return m.dialects }

func (m *MockServerContext) RootURI() string               { return m.rootURI }
func (m *MockServerContext) RootPath() string              { return m.rootPath }
func (m *MockServerContext) SetRootURI(uri string)         { m.rootURI = uri }
func (m *MockServerContext) SetRootPath(path string)       { m.rootPath = path }
func (m *MockServerContext) GetConfig() types.ServerConfig { return m.config }

func (m *MockServerContext) SetConfig(config types.ServerConfig) { m.config = config }

// SetClientSettings stores the layer; ClientSettings returns it.
func (m *MockServerContext) SetClientSettings(layer types.ConfigLayer) { m.client = layer }
func (m *MockServerContext) ClientSettings() types.ConfigLayer         { return m.client }

// LoadConfig applies the stored client layer to the defaults unless
// LoadConfigFunc is set.
func (m *MockServerContext) LoadConfig() error {
	m.mu.Lock()
	m.LoadConfigCalled = true
	m.mu.Unlock()
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc()
	}
	m.config = types.DefaultConfig().Apply(m.client)
	return nil
}

func (m *MockServerContext) LoadDialects() error {
	m.mu.Lock()
	m.LoadDialectsCalled++
	m.mu.Unlock()
	if m.LoadDialectsFunc != nil {
		return m.LoadDialectsFunc()
	}
	return nil
}

func (m *MockServerContext) IsDialectFile(path string) bool {
	if m.IsDialectFileFunc != nil {
		return m.IsDialectFileFunc(path)
	}
	return false
}

func (m *MockServerContext) RegisterFileWatchers(ctx *glsp.Context) error {
	m.mu.Lock()
	m.RegisterWatchersCalled = true
	m.mu.Unlock()
	if m.RegisterWatchersFunc != nil {
		return m.RegisterWatchersFunc(ctx)
	}
	return nil
}

func (m *MockServerContext) GLSPContext() *glsp.Context       { return m.glspContext }
func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context) { m.glspContext = ctx }

func (m *MockServerContext) UsePullDiagnostics() bool          { return m.usePull }
func (m *MockServerContext) SetUsePullDiagnostics(use bool)    { m.usePull = use }
func (m *MockServerContext) ClientDiagnosticCapability() *bool { return m.pullCap }

// SetClientDiagnosticCapability simulates what the initialize interceptor
// detects from the raw params.
func (m *MockServerContext) SetClientDiagnosticCapability(has bool) { m.pullCap = &has }

// PublishDiagnostics records the uri, then defers to PublishDiagnosticsFunc.
func (m *MockServerContext) PublishDiagnostics(ctx *glsp.Context, uri string) error {
	m.mu.Lock()
	m.Published = append(m.Published, uri)
	m.mu.Unlock()
	if m.PublishDiagnosticsFunc != nil {
		return m.PublishDiagnosticsFunc(ctx, uri)
	}
	return nil
}

func (m *MockServerContext) ClearDiagnostics(_ *glsp.Context, uri string) error {
	m.mu.Lock()
	m.Cleared = append(m.Cleared, uri)
	m.mu.Unlock()
	return nil
}
