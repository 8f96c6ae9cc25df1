package lifecycle

import (
	"bennypowers.dev/rxls/internal/log"
	"bennypowers.dev/rxls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialized handles the LSP initialized notification. Configuration and
// dialect failures are logged; the server keeps running on defaults.
func Initialized(req *types.RequestContext, params *protocol.InitializedParams) error {
	log.Info("Server initialized")

	// Store context for later use (diagnostics)
	req.Server.SetGLSPContext(req.GLSP)

	if err := req.Server.LoadConfig(); err != nil {
		log.Warn("failed to load configuration: %v", err)
	}

	if err := req.Server.LoadDialects(); err != nil {
		log.Warn("failed to load dialect files: %v", err)
	}

	if err := req.Server.RegisterFileWatchers(req.GLSP); err != nil {
		log.Warn("failed to register file watchers: %v", err)
	}

	return nil
}
