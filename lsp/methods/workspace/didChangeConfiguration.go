package workspace

import (
	"bennypowers.dev/rxls/internal/log"
	"bennypowers.dev/rxls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeConfiguration handles the workspace/didChangeConfiguration notification
func DidChangeConfiguration(req *types.RequestContext, params *protocol.DidChangeConfigurationParams) error {
	log.Info("Configuration changed")

	layer, err := types.ParseSettings(params.Settings)
	if err != nil {
		LogWarning(req.GLSP, "ignoring client settings: %v", err)
		return nil
	}
	req.Server.SetClientSettings(layer)

	reload(req, true)
	return nil
}

// reload re-reads configuration when asked, always reloads custom dialects
// and republishes diagnostics for every open document.
func reload(req *types.RequestContext, config bool) {
	if config {
		if err := req.Server.LoadConfig(); err != nil {
			LogWarning(req.GLSP, "failed to load configuration: %v", err)
		}
		log.Debug("New configuration: %+v", req.Server.GetConfig())
	}
	if err := req.Server.LoadDialects(); err != nil {
		LogWarning(req.GLSP, "failed to load dialects: %v", err)
	}

	if req.Server.UsePullDiagnostics() {
		return
	}
	glspCtx := req.Server.GLSPContext()
	if glspCtx == nil {
		return
	}
	for _, doc := range req.Server.AllDocuments() {
		if err := req.Server.PublishDiagnostics(glspCtx, doc.URI()); err != nil {
			log.Warn("failed to publish diagnostics for %s: %v", doc.URI(), err)
		}
	}
}
