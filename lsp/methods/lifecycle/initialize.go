package lifecycle

import (
	"bennypowers.dev/rxls/internal/log"
	"bennypowers.dev/rxls/internal/uriutil"
	"bennypowers.dev/rxls/internal/version"
	"bennypowers.dev/rxls/lsp/methods/textDocument/codeAction"
	"bennypowers.dev/rxls/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/rxls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ServerName identifies the server in serverInfo.
const ServerName = "regexp-language-server"

// InitializeResult mirrors protocol.InitializeResult with an untyped
// Capabilities field.
//
// WORKAROUND: protocol.ServerCapabilities is LSP 3.16 and has no
// diagnosticProvider. When glsp is updated, use protocol_3_17.InitializeResult.
type InitializeResult struct {
	Capabilities map[string]any                       `json:"capabilities"`
	ServerInfo   *protocol.InitializeResultServerInfo `json:"serverInfo,omitempty"`
}

// Initialize handles the LSP initialize request
func Initialize(req *types.RequestContext, params *protocol.InitializeParams) (any, error) {
	clientName := "unknown"
	if params.ClientInfo != nil {
		clientName = params.ClientInfo.Name
	}
	log.Info("Initializing for client: %s", clientName)

	// The custom handler inspects the raw params for
	// capabilities.textDocument.diagnostic, which glsp v0.2.2 cannot decode.
	supportsPullDiagnostics := false
	if detected := req.Server.ClientDiagnosticCapability(); detected != nil {
		supportsPullDiagnostics = *detected
	}
	req.Server.SetUsePullDiagnostics(supportsPullDiagnostics)

	if supportsPullDiagnostics {
		log.Info("Using pull diagnostics model (LSP 3.17) - client will request diagnostics")
	} else {
		log.Info("Using push diagnostics model - server will push diagnostics")
	}

	if params.RootURI != nil {
		req.Server.SetRootURI(*params.RootURI)
		req.Server.SetRootPath(uriutil.URIToPath(*params.RootURI))
		log.Info("Workspace root: %s", req.Server.RootPath())
	} else if params.RootPath != nil {
		req.Server.SetRootPath(*params.RootPath)
		req.Server.SetRootURI(uriutil.PathToURI(*params.RootPath))
		log.Info("Workspace root (from rootPath): %s", req.Server.RootPath())
	}

	if params.InitializationOptions != nil {
		layer, err := types.ParseSettings(params.InitializationOptions)
		if err != nil {
			req.AddWarning(err)
		} else {
			req.Server.SetClientSettings(layer)
		}
	}

	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities := map[string]any{
		"textDocumentSync": protocol.TextDocumentSyncOptions{
			OpenClose: boolPtr(true),
			Change:    &syncKind,
		},
		"codeActionProvider": protocol.CodeActionOptions{
			CodeActionKinds: []protocol.CodeActionKind{
				protocol.CodeActionKindQuickFix,
				codeaction.KindSourceFixAll,
			},
			ResolveProvider: boolPtr(true),
		},
	}

	// LSP 3.17: only advertise pull diagnostics if the client supports them.
	if supportsPullDiagnostics {
		capabilities["diagnosticProvider"] = diagnostic.DiagnosticOptions{
			Identifier:            diagnostic.Source,
			InterFileDependencies: false,
			WorkspaceDiagnostics:  false,
		}
	}

	v := version.GetVersion()
	return InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ServerName,
			Version: &v,
		},
	}, nil
}

func boolPtr(b bool) *bool {
	return &b
}
