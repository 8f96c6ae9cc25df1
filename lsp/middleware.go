package lsp

import (
	"fmt"
	"runtime/debug"

	"bennypowers.dev/rxls/internal/log"
	"bennypowers.dev/rxls/lsp/methods/workspace"
	"bennypowers.dev/rxls/lsp/types"
	"github.com/tliron/glsp"
)

// method wraps an LSP handler that returns (result, error) with middleware
// Returns the underlying function type so it's compatible with protocol.Handler field types
func method[P, R any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) (R, error),
) func(*glsp.Context, P) (R, error) {
	return func(ctx *glsp.Context, params P) (result R, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered(ctx, methodName, r)
				var zero R
				result = zero
			}
		}()

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, ctx)
		result, err = handler(req, params)
		return result, finish(req, methodName, err)
	}
}

// notify wraps an LSP notification handler that returns only error
func notify[P any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) error,
) func(*glsp.Context, P) error {
	return func(ctx *glsp.Context, params P) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered(ctx, methodName, r)
			}
		}()

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, ctx)
		return finish(req, methodName, handler(req, params))
	}
}

// noParam wraps an LSP handler that takes no params (like Shutdown)
func noParam(
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext) error,
) func(*glsp.Context) error {
	return func(ctx *glsp.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered(ctx, methodName, r)
			}
		}()

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, ctx)
		return finish(req, methodName, handler(req))
	}
}

// recovered logs a handler panic with its stack and converts it to an error.
func recovered(ctx *glsp.Context, methodName string, r any) error {
	log.Error("PANIC in %s: %v\nStack trace:\n%s", methodName, r, debug.Stack())
	workspace.LogError(ctx, "Internal error in %s: %v", methodName, r)
	return fmt.Errorf("internal error in %s", methodName)
}

// finish reports the warnings a handler collected and wraps its error with
// the method name.
func finish(req *types.RequestContext, methodName string, err error) error {
	for _, w := range req.Warnings() {
		workspace.LogWarning(req.GLSP, "%s: %v", methodName, w)
	}
	if err != nil {
		workspace.LogError(req.GLSP, "%s: %v", methodName, err)
		return fmt.Errorf("%s: %w", methodName, err)
	}
	log.Debug("%s completed successfully", methodName)
	return nil
}
