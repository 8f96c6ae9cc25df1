package workspace

import (
	"path/filepath"
	"slices"

	"bennypowers.dev/rxls/internal/log"
	"bennypowers.dev/rxls/internal/uriutil"
	"bennypowers.dev/rxls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeWatchedFiles handles the workspace/didChangeWatchedFiles notification.
// A change to a configuration file reloads everything; a change to a dialect
// file reloads the dialects.
func DidChangeWatchedFiles(req *types.RequestContext, params *protocol.DidChangeWatchedFilesParams) error {
	log.Debug("Watched files changed: %d files", len(params.Changes))

	configChanged := false
	dialectsChanged := false
	for _, change := range params.Changes {
		path := uriutil.URIToPath(change.URI)
		log.Debug("File change: %s (type: %d)", path, change.Type)

		switch {
		case isConfigFile(req.Server.RootPath(), path):
			configChanged = true
		case req.Server.IsDialectFile(path):
			dialectsChanged = true
		}
	}

	if configChanged || dialectsChanged {
		log.Info("Reloading after watched file changes")
		reload(req, configChanged)
	}
	return nil
}

func isConfigFile(rootPath, path string) bool {
	if rootPath == "" || filepath.Dir(path) != filepath.Clean(rootPath) {
		return false
	}
	return slices.Contains(types.ConfigFileNames, filepath.Base(path))
}
