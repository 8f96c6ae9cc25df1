package lsp

import (
	"encoding/json"
	"testing"

	"bennypowers.dev/rxls/lsp/methods/textDocument/diagnostic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func customHandler(t *testing.T, s *Server) *CustomHandler {
	t.Helper()
	h, ok := s.glspServer.Handler.(*CustomHandler)
	require.True(t, ok)
	return h
}

func TestDetectPullDiagnosticsSupport(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"with diagnostic capability", `{"capabilities":{"textDocument":{"diagnostic":{"dynamicRegistration":false}}}}`, true},
		{"empty object", `{"capabilities":{"textDocument":{"diagnostic":{}}}}`, true},
		{"null", `{"capabilities":{"textDocument":{"diagnostic":null}}}`, false},
		{"absent", `{"capabilities":{"textDocument":{"hover":{}}}}`, false},
		{"no textDocument", `{"capabilities":{}}`, false},
		{"invalid json", `{`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPullDiagnosticsSupport(json.RawMessage(tt.raw)))
		})
	}
}

func TestCustomHandler_Initialize(t *testing.T) {
	s := newTestServer(t)
	h := customHandler(t, s)

	result, validMethod, validParams, err := h.Handle(&glsp.Context{
		Method: protocol.MethodInitialize,
		Params: json.RawMessage(`{
			"rootUri": "file:///workspace",
			"capabilities": {"textDocument": {"diagnostic": {}}}
		}`),
	})
	require.NoError(t, err)
	assert.True(t, validMethod)
	assert.True(t, validParams)
	require.NotNil(t, result)

	require.NotNil(t, s.ClientDiagnosticCapability())
	assert.True(t, *s.ClientDiagnosticCapability())
	assert.True(t, s.UsePullDiagnostics())
	assert.Equal(t, "/workspace", s.RootPath())
	assert.True(t, h.IsInitialized())
}

func TestCustomHandler_Diagnostic(t *testing.T) {
	const uri = "file:///workspace/a.js"
	params := json.RawMessage(`{"textDocument":{"uri":"` + uri + `"}}`)

	t.Run("before initialize", func(t *testing.T) {
		h := customHandler(t, newTestServer(t))
		_, validMethod, _, err := h.Handle(&glsp.Context{Method: MethodTextDocumentDiagnostic, Params: params})
		assert.True(t, validMethod)
		assert.ErrorIs(t, err, errNotInitialized)
	})

	t.Run("invalid params", func(t *testing.T) {
		h := customHandler(t, newTestServer(t))
		h.SetInitialized(true)
		_, validMethod, validParams, err := h.Handle(&glsp.Context{
			Method: MethodTextDocumentDiagnostic,
			Params: json.RawMessage(`{"textDocument":7}`),
		})
		assert.True(t, validMethod)
		assert.False(t, validParams)
		assert.Error(t, err)
	})

	t.Run("full report", func(t *testing.T) {
		s := newTestServer(t)
		s.DocumentManager().DidOpen(uri, "javascript", 1, "const r = /[z-a]/;\n")
		h := customHandler(t, s)
		h.SetInitialized(true)

		result, validMethod, validParams, err := h.Handle(&glsp.Context{Method: MethodTextDocumentDiagnostic, Params: params})
		require.NoError(t, err)
		assert.True(t, validMethod)
		assert.True(t, validParams)

		report, ok := result.(diagnostic.RelatedFullDocumentDiagnosticReport)
		require.True(t, ok)
		assert.Equal(t, "full", report.Kind)
		assert.Len(t, report.Items, 1)
	})
}

func TestCustomHandler_DelegatesOtherMethods(t *testing.T) {
	h := customHandler(t, newTestServer(t))
	h.SetInitialized(true)

	_, validMethod, _, _ := h.Handle(&glsp.Context{Method: "textDocument/hover", Params: json.RawMessage(`{}`)})
	assert.False(t, validMethod)
}
