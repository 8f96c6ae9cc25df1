package textDocument

import (
	"errors"
	"testing"

	"bennypowers.dev/rxls/internal/documents"
	"bennypowers.dev/rxls/lsp/testutil"
	"bennypowers.dev/rxls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const uri = "file:///workspace/a.js"

func newRequest(pull bool) (*testutil.MockServerContext, *types.RequestContext) {
	ctx := testutil.NewMockServerContext()
	ctx.SetGLSPContext(&glsp.Context{})
	ctx.SetUsePullDiagnostics(pull)
	return ctx, types.NewRequestContext(ctx, nil)
}

func openParams(text string) *protocol.DidOpenTextDocumentParams {
	return &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: "javascript",
			Version:    1,
			Text:       text,
		},
	}
}

func TestDidOpen(t *testing.T) {
	t.Run("push", func(t *testing.T) {
		ctx, req := newRequest(false)
		require.NoError(t, DidOpen(req, openParams("const a = /x/;")))

		doc := ctx.Document(uri)
		require.NotNil(t, doc)
		assert.Equal(t, "javascript", doc.LanguageID())
		assert.Equal(t, 1, doc.Version())
		assert.Equal(t, []string{uri}, ctx.Published)
	})

	t.Run("pull", func(t *testing.T) {
		ctx, req := newRequest(true)
		require.NoError(t, DidOpen(req, openParams("const a = /x/;")))
		assert.NotNil(t, ctx.Document(uri))
		assert.Empty(t, ctx.Published)
	})

	t.Run("before initialized", func(t *testing.T) {
		ctx, req := newRequest(false)
		ctx.SetGLSPContext(nil)
		require.NoError(t, DidOpen(req, openParams("const a = /x/;")))
		assert.Empty(t, ctx.Published)
	})

	t.Run("publish failure is not fatal", func(t *testing.T) {
		ctx, req := newRequest(false)
		ctx.PublishDiagnosticsFunc = func(*glsp.Context, string) error { return errors.New("boom") }
		assert.NoError(t, DidOpen(req, openParams("const a = /x/;")))
	})
}

func TestDidChange(t *testing.T) {
	tests := []struct {
		name    string
		changes []any
		want    string
	}{
		{
			name: "ranged edit",
			changes: []any{protocol.TextDocumentContentChangeEvent{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 0, Character: 11},
					End:   protocol.Position{Line: 0, Character: 12},
				},
				Text: "y+",
			}},
			want: "const a = /y+/;",
		},
		{
			name:    "whole document",
			changes: []any{protocol.TextDocumentContentChangeEventWhole{Text: "let b = /z/g;"}},
			want:    "let b = /z/g;",
		},
		{
			name:    "unknown change shapes are skipped",
			changes: []any{"garbage"},
			want:    "const a = /x/;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, req := newRequest(false)
			ctx.DocumentManager().DidOpen(uri, "javascript", 1, "const a = /x/;")

			err := DidChange(req, &protocol.DidChangeTextDocumentParams{
				TextDocument: protocol.VersionedTextDocumentIdentifier{
					TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
					Version:                2,
				},
				ContentChanges: tt.changes,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ctx.Document(uri).Content())
			assert.Equal(t, 2, ctx.Document(uri).Version())
			assert.Equal(t, []string{uri}, ctx.Published)
		})
	}

	t.Run("unknown document", func(t *testing.T) {
		ctx, req := newRequest(false)
		err := DidChange(req, &protocol.DidChangeTextDocumentParams{
			TextDocument: protocol.VersionedTextDocumentIdentifier{
				TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
				Version:                2,
			},
		})
		assert.ErrorIs(t, err, documents.ErrNotFound)
		assert.Empty(t, ctx.Published)
	})
}

func TestDidClose(t *testing.T) {
	t.Run("push clears", func(t *testing.T) {
		ctx, req := newRequest(false)
		ctx.DocumentManager().DidOpen(uri, "javascript", 1, "const a = /x/;")

		err := DidClose(req, &protocol.DidCloseTextDocumentParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		})
		require.NoError(t, err)
		assert.Nil(t, ctx.Document(uri))
		assert.Equal(t, []string{uri}, ctx.Cleared)
	})

	t.Run("pull leaves diagnostics to the client", func(t *testing.T) {
		ctx, req := newRequest(true)
		ctx.DocumentManager().DidOpen(uri, "javascript", 1, "const a = /x/;")

		err := DidClose(req, &protocol.DidCloseTextDocumentParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		})
		require.NoError(t, err)
		assert.Empty(t, ctx.Cleared)
	})

	t.Run("unknown document", func(t *testing.T) {
		_, req := newRequest(false)
		err := DidClose(req, &protocol.DidCloseTextDocumentParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		})
		assert.ErrorIs(t, err, documents.ErrNotFound)
	})
}
