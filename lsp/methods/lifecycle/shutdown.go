package lifecycle

import (
	"bennypowers.dev/rxls/internal/log"
	"bennypowers.dev/rxls/internal/parser/html"
	"bennypowers.dev/rxls/internal/parser/js"
	"bennypowers.dev/rxls/lsp/types"
)

// Shutdown handles the LSP shutdown request
func Shutdown(req *types.RequestContext) error {
	log.Info("Server shutting down")

	// Release the tree-sitter parser pools. Server.Close does the same for
	// clients that exit without a shutdown request.
	js.ClosePool()
	html.ClosePool()

	return nil
}
