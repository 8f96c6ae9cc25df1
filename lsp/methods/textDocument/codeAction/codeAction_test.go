package codeaction

import (
	"testing"

	"bennypowers.dev/rxls/lsp/testutil"
	"bennypowers.dev/rxls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const uri = "file:///workspace/a.js"

// x{1} at 0:12-15, y{1} at 0:16-19, z{3,3} at 1:12-17
const source = "const a = /x{1}y{1}/;\nconst b = /z{3,3}/;\n"

func rng(sl, sc, el, ec uint32) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: sl, Character: sc},
		End:   protocol.Position{Line: el, Character: ec},
	}
}

func newRequest(t *testing.T) *types.RequestContext {
	t.Helper()
	ctx := testutil.NewMockServerContext()
	ctx.DocumentManager().DidOpen(uri, "javascript", 1, source)
	return types.NewRequestContext(ctx, nil)
}

func request(r protocol.Range, only ...protocol.CodeActionKind) *protocol.CodeActionParams {
	return &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range:        r,
		Context:      protocol.CodeActionContext{Only: only},
	}
}

func actionsFor(t *testing.T, req *types.RequestContext, params *protocol.CodeActionParams) []protocol.CodeAction {
	t.Helper()
	result, err := CodeAction(req, params)
	require.NoError(t, err)
	if result == nil {
		return nil
	}
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok)
	return actions
}

func titles(actions []protocol.CodeAction) []string {
	var out []string
	for _, a := range actions {
		out = append(out, a.Title)
	}
	return out
}

func TestCodeAction_QuickFixes(t *testing.T) {
	tests := []struct {
		name  string
		rng   protocol.Range
		only  []protocol.CodeActionKind
		wants []string
	}{
		{"cursor on quantifier", rng(0, 13, 0, 13), nil, []string{"Remove redundant quantifier", FixAllTitle}},
		{"cursor at quantifier edge", rng(0, 12, 0, 12), nil, []string{"Remove redundant quantifier", FixAllTitle}},
		{"selection over both", rng(0, 10, 0, 20), nil, []string{"Remove redundant quantifier", "Remove redundant quantifier", FixAllTitle}},
		{"fixed range", rng(1, 14, 1, 14), nil, []string{"Replace with '{3}'", FixAllTitle}},
		{"outside patterns", rng(0, 0, 0, 5), nil, []string{FixAllTitle}},
		{"quickfix only", rng(0, 13, 0, 13), []protocol.CodeActionKind{protocol.CodeActionKindQuickFix}, []string{"Remove redundant quantifier"}},
		{"fixAll only", rng(0, 13, 0, 13), []protocol.CodeActionKind{KindSourceFixAll}, []string{FixAllTitle}},
		{"source covers fixAll", rng(0, 0, 0, 0), []protocol.CodeActionKind{protocol.CodeActionKindSource}, []string{FixAllTitle}},
		{"refactor only", rng(0, 13, 0, 13), []protocol.CodeActionKind{protocol.CodeActionKindRefactor}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t)
			actions := actionsFor(t, req, request(tt.rng, tt.only...))
			assert.Equal(t, tt.wants, titles(actions))
		})
	}
}

func TestCodeAction_QuickFixShape(t *testing.T) {
	req := newRequest(t)
	actions := actionsFor(t, req, request(rng(1, 12, 1, 17), protocol.CodeActionKindQuickFix))
	require.Len(t, actions, 1)

	action := actions[0]
	require.NotNil(t, action.Kind)
	assert.Equal(t, protocol.CodeActionKindQuickFix, *action.Kind)
	require.NotNil(t, action.IsPreferred)
	assert.True(t, *action.IsPreferred)
	require.NotNil(t, action.Edit)
	assert.Equal(t, []protocol.TextEdit{{Range: rng(1, 12, 1, 17), NewText: "{3}"}}, action.Edit.Changes[uri])
	require.Len(t, action.Diagnostics, 1)
	assert.Equal(t, "Fixed repetition range", action.Diagnostics[0].Message)
}

func TestCodeAction_ReusesClientDiagnostic(t *testing.T) {
	req := newRequest(t)
	src := "client"
	reported := protocol.Diagnostic{Range: rng(0, 12, 0, 15), Message: "Single repetition", Source: &src}

	params := request(rng(0, 12, 0, 15), protocol.CodeActionKindQuickFix)
	params.Context.Diagnostics = []protocol.Diagnostic{reported}
	actions := actionsFor(t, req, params)
	require.Len(t, actions, 1)
	assert.Equal(t, []protocol.Diagnostic{reported}, actions[0].Diagnostics)
}

func TestCodeAction_NoFixAllForSingleFix(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	ctx.DocumentManager().DidOpen(uri, "javascript", 1, "const a = /x{1}/;")
	req := types.NewRequestContext(ctx, nil)

	actions := actionsFor(t, req, request(rng(0, 0, 0, 0)))
	assert.Empty(t, actions)

	actions = actionsFor(t, req, request(rng(0, 0, 0, 0), KindSourceFixAll))
	assert.Equal(t, []string{FixAllTitle}, titles(actions))
}

func TestCodeAction_DocumentNotFound(t *testing.T) {
	req := types.NewRequestContext(testutil.NewMockServerContext(), nil)
	result, err := CodeAction(req, request(rng(0, 0, 0, 0)))
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCodeActionResolve(t *testing.T) {
	t.Run("fix all", func(t *testing.T) {
		req := newRequest(t)
		action := CreateFixAllAction(uri)
		resolved, err := CodeActionResolve(req, &action)
		require.NoError(t, err)
		require.NotNil(t, resolved.Edit)
		assert.Equal(t, []protocol.TextEdit{
			{Range: rng(0, 12, 0, 15), NewText: ""},
			{Range: rng(0, 16, 0, 19), NewText: ""},
			{Range: rng(1, 12, 1, 17), NewText: "{3}"},
		}, resolved.Edit.Changes[uri])
		assert.Nil(t, action.Edit, "the request's action is not mutated")
	})

	t.Run("nothing left", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		ctx.DocumentManager().DidOpen(uri, "javascript", 1, "const a = /x+/;")
		req := types.NewRequestContext(ctx, nil)
		action := CreateFixAllAction(uri)
		resolved, err := CodeActionResolve(req, &action)
		require.NoError(t, err)
		assert.Empty(t, resolved.Edit.Changes[uri])
		assert.True(t, req.HasWarnings())
	})

	t.Run("other actions pass through", func(t *testing.T) {
		req := newRequest(t)
		action := &protocol.CodeAction{Title: "Something else"}
		resolved, err := CodeActionResolve(req, action)
		require.NoError(t, err)
		assert.Same(t, action, resolved)
	})

	t.Run("missing data", func(t *testing.T) {
		req := newRequest(t)
		_, err := CodeActionResolve(req, &protocol.CodeAction{Title: FixAllTitle})
		assert.Error(t, err)
	})
}
