package codeaction

import (
	"fmt"
	"slices"
	"strings"

	"bennypowers.dev/rxls/internal/log"
	"bennypowers.dev/rxls/internal/regexp/validator"
	"bennypowers.dev/rxls/lsp/helpers"
	"bennypowers.dev/rxls/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/rxls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// KindSourceFixAll is the LSP source.fixAll kind, which protocol_3_16 does
// not declare.
const KindSourceFixAll protocol.CodeActionKind = "source.fixAll"

// FixAllTitle is the title of the document-wide quantifier cleanup.
const FixAllTitle = "Simplify all quantifiers"

// CodeAction handles the textDocument/codeAction request. Every finding
// with a fix inside the requested range yields a quick fix; the fix-all
// action is offered when requested or when more than one quantifier can be
// simplified.
func CodeAction(req *types.RequestContext, params *protocol.CodeActionParams) (any, error) {
	uri := params.TextDocument.URI
	log.Debug("CodeAction requested: %s", uri)

	if req.Server.Document(uri) == nil {
		return nil, nil
	}

	findings, err := diagnostic.Findings(req.Server, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to compute fixes for %s: %w", uri, err)
	}

	var actions []protocol.CodeAction
	if wants(params.Context.Only, protocol.CodeActionKindQuickFix) {
		for _, f := range findings {
			if f.Edit == nil || !helpers.Touches(params.Range, f.Range) {
				continue
			}
			actions = append(actions, quickFix(uri, f, params.Context.Diagnostics))
		}
	}

	simplifiable := 0
	for _, f := range findings {
		if isSimplification(f) {
			simplifiable++
		}
	}
	explicit := slices.ContainsFunc(params.Context.Only, func(k protocol.CodeActionKind) bool {
		return covers(k, KindSourceFixAll)
	})
	if simplifiable > 0 && (explicit || (len(params.Context.Only) == 0 && simplifiable > 1)) {
		actions = append(actions, CreateFixAllAction(uri))
	}

	log.Debug("Returning %d code actions", len(actions))
	return actions, nil
}

// CodeActionResolve handles the codeAction/resolve request. Only the fix-all
// action is resolved lazily; every other action already carries its edit.
func CodeActionResolve(req *types.RequestContext, action *protocol.CodeAction) (*protocol.CodeAction, error) {
	log.Debug("CodeActionResolve requested: %s", action.Title)
	if action.Title != FixAllTitle || action.Edit != nil {
		return action, nil
	}

	data, ok := action.Data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("fix-all action is missing its data")
	}
	uri, ok := data["uri"].(string)
	if !ok || uri == "" {
		return nil, fmt.Errorf("fix-all action is missing its document uri")
	}

	findings, err := diagnostic.Findings(req.Server, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fixes for %s: %w", uri, err)
	}
	var edits []protocol.TextEdit
	for _, f := range findings {
		if isSimplification(f) {
			edits = append(edits, *f.Edit)
		}
	}
	if len(edits) == 0 {
		req.AddWarning(fmt.Errorf("no quantifiers left to simplify in %s", uri))
	}

	resolved := *action
	resolved.Edit = &protocol.WorkspaceEdit{
		Changes: map[string][]protocol.TextEdit{uri: edits},
	}
	return &resolved, nil
}

// CreateFixAllAction creates the source.fixAll action. Its edits are
// computed in the resolve step.
func CreateFixAllAction(uri string) protocol.CodeAction {
	kind := KindSourceFixAll
	return protocol.CodeAction{
		Title: FixAllTitle,
		Kind:  &kind,
		Data:  map[string]any{"uri": uri},
	}
}

func quickFix(uri string, f diagnostic.Finding, reported []protocol.Diagnostic) protocol.CodeAction {
	kind := protocol.CodeActionKindQuickFix
	preferred := true
	return protocol.CodeAction{
		Title: f.Fix.Title,
		Kind:  &kind,
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{uri: {*f.Edit}},
		},
		Diagnostics: []protocol.Diagnostic{matching(f, reported)},
		IsPreferred: &preferred,
	}
}

// matching returns the client's copy of the finding's diagnostic when it
// sent one, so the client can associate the fix with what it displays.
func matching(f diagnostic.Finding, reported []protocol.Diagnostic) protocol.Diagnostic {
	for _, d := range reported {
		if d.Range == f.Range && d.Message == f.Message {
			return d
		}
	}
	return diagnostic.ToProtocol(f)
}

func isSimplification(f diagnostic.Finding) bool {
	return f.Edit != nil && f.Code == validator.CodeSimplifiableQuantifier
}

// wants reports whether a request filtered by only accepts kind.
func wants(only []protocol.CodeActionKind, kind protocol.CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	return slices.ContainsFunc(only, func(k protocol.CodeActionKind) bool {
		return covers(k, kind)
	})
}

// covers reports whether the hierarchical kind filter matches kind, e.g.
// "source" covers "source.fixAll".
func covers(filter, kind protocol.CodeActionKind) bool {
	return filter == kind || strings.HasPrefix(string(kind), string(filter)+".")
}
