package lifecycle

import (
	"testing"

	"bennypowers.dev/rxls/internal/version"
	"bennypowers.dev/rxls/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/rxls/lsp/testutil"
	"bennypowers.dev/rxls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func initialize(t *testing.T, ctx *testutil.MockServerContext, params *protocol.InitializeParams) (*types.RequestContext, InitializeResult) {
	t.Helper()
	req := types.NewRequestContext(ctx, nil)
	result, err := Initialize(req, params)
	require.NoError(t, err)
	initResult, ok := result.(InitializeResult)
	require.True(t, ok)
	return req, initResult
}

func TestInitialize(t *testing.T) {
	t.Run("sets root from params.RootURI", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		rootURI := "file:///workspace"
		initialize(t, ctx, &protocol.InitializeParams{RootURI: &rootURI})

		assert.Equal(t, "file:///workspace", ctx.RootURI())
		assert.Equal(t, "/workspace", ctx.RootPath())
	})

	t.Run("sets root from params.RootPath", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		rootPath := "/workspace"
		initialize(t, ctx, &protocol.InitializeParams{RootPath: &rootPath})

		assert.Equal(t, "/workspace", ctx.RootPath())
		assert.Equal(t, "file:///workspace", ctx.RootURI())
	})

	t.Run("server info", func(t *testing.T) {
		_, result := initialize(t, testutil.NewMockServerContext(), &protocol.InitializeParams{})
		require.NotNil(t, result.ServerInfo)
		assert.Equal(t, ServerName, result.ServerInfo.Name)
		require.NotNil(t, result.ServerInfo.Version)
		assert.Equal(t, version.GetVersion(), *result.ServerInfo.Version)
	})

	t.Run("capabilities", func(t *testing.T) {
		_, result := initialize(t, testutil.NewMockServerContext(), &protocol.InitializeParams{})

		sync, ok := result.Capabilities["textDocumentSync"].(protocol.TextDocumentSyncOptions)
		require.True(t, ok)
		assert.Equal(t, protocol.TextDocumentSyncKindIncremental, *sync.Change)

		actions, ok := result.Capabilities["codeActionProvider"].(protocol.CodeActionOptions)
		require.True(t, ok)
		assert.Contains(t, actions.CodeActionKinds, protocol.CodeActionKindQuickFix)
		assert.Contains(t, actions.CodeActionKinds, protocol.CodeActionKind("source.fixAll"))
		assert.True(t, *actions.ResolveProvider)

		for _, gone := range []string{"hoverProvider", "completionProvider", "definitionProvider"} {
			assert.NotContains(t, result.Capabilities, gone)
		}
	})

	t.Run("push diagnostics without client capability", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		_, result := initialize(t, ctx, &protocol.InitializeParams{})
		assert.False(t, ctx.UsePullDiagnostics())
		assert.NotContains(t, result.Capabilities, "diagnosticProvider")
	})

	t.Run("pull diagnostics with client capability", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		ctx.SetClientDiagnosticCapability(true)
		_, result := initialize(t, ctx, &protocol.InitializeParams{})
		assert.True(t, ctx.UsePullDiagnostics())
		opts, ok := result.Capabilities["diagnosticProvider"].(diagnostic.DiagnosticOptions)
		require.True(t, ok)
		assert.False(t, opts.InterFileDependencies)
	})

	t.Run("initialization options become client settings", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		initialize(t, ctx, &protocol.InitializeParams{
			InitializationOptions: map[string]any{"defaultDialect": "python"},
		})
		require.NotNil(t, ctx.ClientSettings().DefaultDialect)
		assert.Equal(t, "python", *ctx.ClientSettings().DefaultDialect)
	})

	t.Run("bad initialization options warn", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		req, _ := initialize(t, ctx, &protocol.InitializeParams{
			InitializationOptions: map[string]any{"ignore": "not-a-list"},
		})
		assert.True(t, req.HasWarnings())
		assert.True(t, ctx.ClientSettings().IsZero())
	})
}
