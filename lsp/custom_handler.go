package lsp

import (
	"encoding/json"
	"errors"

	"bennypowers.dev/rxls/lsp/methods/textDocument/diagnostic"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// CustomHandler wraps protocol.Handler to add custom method support
//
// WORKAROUND: glsp v0.2.2 implements LSP 3.16. The protocol.Handler struct
// has no field for textDocument/diagnostic, and InitializeParams cannot
// carry the 3.17 diagnostic client capability, so both are handled here.
type CustomHandler struct {
	*protocol.Handler // Pointer to avoid copying embedded mutex
	server            *Server
}

// Handle implements glsp.Handler interface
func (h *CustomHandler) Handle(context *glsp.Context) (r any, validMethod bool, validParams bool, err error) {
	switch context.Method {
	case protocol.MethodInitialize:
		// Record the capability, then let the normal initialize handler run
		h.server.SetClientDiagnosticCapability(DetectPullDiagnosticsSupport(context.Params))

	case MethodTextDocumentDiagnostic:
		if !h.IsInitialized() {
			return nil, true, true, errNotInitialized
		}
		var params diagnostic.DocumentDiagnosticParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}
		handler := method(h.server, MethodTextDocumentDiagnostic, diagnostic.DocumentDiagnostic)
		result, err := handler(context, &params)
		return result, true, true, err
	}

	return h.Handler.Handle(context)
}

// MethodTextDocumentDiagnostic is the LSP 3.17 pull diagnostics request.
const MethodTextDocumentDiagnostic = "textDocument/diagnostic"

var errNotInitialized = errors.New("server not initialized")

// DetectPullDiagnosticsSupport reports whether the raw initialize params
// declare capabilities.textDocument.diagnostic. Presence is enough, even
// with an empty object. Unparseable params fall back to push diagnostics.
func DetectPullDiagnosticsSupport(rawParams json.RawMessage) bool {
	var initParams struct {
		Capabilities struct {
			TextDocument *struct {
				Diagnostic json.RawMessage `json:"diagnostic"` // LSP 3.17 field
			} `json:"textDocument"`
		} `json:"capabilities"`
	}
	if err := json.Unmarshal(rawParams, &initParams); err != nil {
		return false
	}
	td := initParams.Capabilities.TextDocument
	return td != nil && len(td.Diagnostic) > 0 && string(td.Diagnostic) != "null"
}
