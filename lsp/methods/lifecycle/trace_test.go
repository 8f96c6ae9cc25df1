package lifecycle

import (
	"testing"

	"bennypowers.dev/rxls/internal/log"
	"bennypowers.dev/rxls/lsp/testutil"
	"bennypowers.dev/rxls/lsp/types"
	"github.com/stretchr/testify/assert"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestSetTrace(t *testing.T) {
	defer log.SetLevel(log.LevelInfo)
	req := types.NewRequestContext(testutil.NewMockServerContext(), nil)

	log.SetLevel(log.LevelInfo)
	assert.NoError(t, SetTrace(req, &protocol.SetTraceParams{Value: protocol.TraceValueMessage}))
	assert.Equal(t, log.LevelInfo, log.GetLevel())

	assert.NoError(t, SetTrace(req, &protocol.SetTraceParams{Value: protocol.TraceValueVerbose}))
	assert.Equal(t, log.LevelDebug, log.GetLevel())
}
