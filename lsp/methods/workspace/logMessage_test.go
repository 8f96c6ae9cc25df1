package workspace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type sent struct {
	method string
	params any
}

func recordingContext() (*glsp.Context, <-chan sent) {
	ch := make(chan sent, 4)
	return &glsp.Context{
		Notify: func(method string, params any) { ch <- sent{method, params} },
	}, ch
}

func receive(t *testing.T, ch <-chan sent) sent {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		require.FailNow(t, "no notification sent")
		return sent{}
	}
}

func TestLogMessages_NilContext(t *testing.T) {
	assert.NotPanics(t, func() {
		LogError(nil, "test error: %s", "message")
		LogWarning(nil, "test warning: %s", "message")
		ShowMessage(nil, protocol.MessageTypeInfo, "test message")
		// a context without a connection
		LogError(&glsp.Context{}, "test error")
	})
}

func TestLogError(t *testing.T) {
	ctx, ch := recordingContext()
	LogError(ctx, "bad dialect %q", "x")

	got := receive(t, ch)
	assert.Equal(t, protocol.ServerWindowLogMessage, got.method)
	assert.Equal(t, &protocol.LogMessageParams{Type: protocol.MessageTypeError, Message: `bad dialect "x"`}, got.params)
}

func TestLogWarning(t *testing.T) {
	ctx, ch := recordingContext()
	LogWarning(ctx, "careful")

	got := receive(t, ch)
	assert.Equal(t, &protocol.LogMessageParams{Type: protocol.MessageTypeWarning, Message: "careful"}, got.params)
}

func TestShowMessage(t *testing.T) {
	ctx, ch := recordingContext()
	ShowMessage(ctx, protocol.MessageTypeInfo, "hello")

	got := receive(t, ch)
	assert.Equal(t, protocol.ServerWindowShowMessage, got.method)
	assert.Equal(t, &protocol.ShowMessageParams{Type: protocol.MessageTypeInfo, Message: "hello"}, got.params)
}
