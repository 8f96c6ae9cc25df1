package lsp

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestRegisterFileWatchers(t *testing.T) {
	t.Run("no client context", func(t *testing.T) {
		s := newTestServer(t)
		assert.NoError(t, s.RegisterFileWatchers(nil))
		assert.NoError(t, s.RegisterFileWatchers(&glsp.Context{}))
	})

	t.Run("registers dialect and config files", func(t *testing.T) {
		root := t.TempDir()
		s := newTestServer(t)
		s.SetRootPath(root)

		type call struct {
			method string
			params any
		}
		calls := make(chan call, 1)
		ctx := &glsp.Context{
			Call: func(method string, params any, _ any) {
				calls <- call{method, params}
			},
		}
		require.NoError(t, s.RegisterFileWatchers(ctx))

		var got call
		select {
		case got = <-calls:
		case <-time.After(time.Second):
			t.Fatal("registration was not sent")
		}
		assert.Equal(t, protocol.ServerClientRegisterCapability, got.method)

		params, ok := got.params.(protocol.RegistrationParams)
		require.True(t, ok)
		require.Len(t, params.Registrations, 1)
		reg := params.Registrations[0]
		assert.Equal(t, protocol.MethodWorkspaceDidChangeWatchedFiles, reg.Method)

		opts, ok := reg.RegisterOptions.(protocol.DidChangeWatchedFilesRegistrationOptions)
		require.True(t, ok)
		var globs []string
		for _, w := range opts.Watchers {
			globs = append(globs, w.GlobPattern)
		}
		slash := filepath.ToSlash(root)
		assert.Equal(t, []string{
			slash + "/.rxls/dialects/*.yaml",
			slash + "/.rxls/dialects/*.yml",
			slash + "/package.json",
			slash + "/.rxls.yaml",
			slash + "/.rxls.yml",
		}, globs)
	})
}
