package lifecycle

import (
	"bennypowers.dev/rxls/internal/log"
	"bennypowers.dev/rxls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SetTrace handles the $/setTrace notification. A verbose trace lowers the
// log level to debug.
func SetTrace(req *types.RequestContext, params *protocol.SetTraceParams) error {
	log.Info("Trace level set to: %s", params.Value)
	if params.Value == protocol.TraceValueVerbose {
		log.SetLevel(log.LevelDebug)
	}
	return nil
}
