package lsp

import (
	"path/filepath"

	"bennypowers.dev/rxls/internal/log"
	"bennypowers.dev/rxls/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// RegisterFileWatchers asks the client to report changes to dialect files
// and workspace configuration files.
func (s *Server) RegisterFileWatchers(context *glsp.Context) error {
	// An empty context (created with &glsp.Context{}) won't have Call initialized
	if context == nil || context.Call == nil {
		log.Info("Skipping file watcher registration (no client context)")
		return nil
	}

	watchers := s.fileWatchers()
	if len(watchers) == 0 {
		log.Info("No file watchers to register")
		return nil
	}

	params := protocol.RegistrationParams{
		Registrations: []protocol.Registration{
			{
				ID:     "rxls-file-watcher",
				Method: protocol.MethodWorkspaceDidChangeWatchedFiles,
				RegisterOptions: protocol.DidChangeWatchedFilesRegistrationOptions{
					Watchers: watchers,
				},
			},
		},
	}

	// client/registerCapability is a request, and the client's response is
	// read by the same loop that is running this handler. Calling it
	// synchronously would deadlock. glsp logs a rejected registration itself.
	go func(ctx *glsp.Context) {
		var result any
		ctx.Call(protocol.ServerClientRegisterCapability, params, &result)
		log.Debug("File watcher registration completed")
	}(context)

	log.Info("Sent file watcher registration request (%d watchers)", len(watchers))
	return nil
}

func (s *Server) fileWatchers() []protocol.FileSystemWatcher {
	var watchers []protocol.FileSystemWatcher
	for _, pattern := range s.dialectPatterns() {
		watchers = append(watchers, protocol.FileSystemWatcher{GlobPattern: pattern})
	}
	if root := s.RootPath(); root != "" {
		for _, name := range types.ConfigFileNames {
			watchers = append(watchers, protocol.FileSystemWatcher{
				GlobPattern: filepath.ToSlash(filepath.Join(root, name)),
			})
		}
	}
	return watchers
}
