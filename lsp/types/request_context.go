package types

import (
	"github.com/tliron/glsp"
)

// RequestContext is what a handler sees of one LSP call: the server, the
// connection, and the problems worth reporting without failing the call.
type RequestContext struct {
	Server   ServerContext // Server-wide context (documents, dialects, config)
	GLSP     *glsp.Context // GLSP protocol context (Notify, Call methods)
	warnings []error
}

func NewRequestContext(server ServerContext, glsp *glsp.Context) *RequestContext {
	return &RequestContext{
		Server: server,
		GLSP:   glsp,
	}
}

// AddWarning records a non-fatal problem. Middleware logs warnings after the
// handler returns.
func (r *RequestContext) AddWarning(err error) {
	if err != nil {
		r.warnings = append(r.warnings, err)
	}
}

// Warnings are returned in the order they were added.
func (r *RequestContext) Warnings() []error {
	return r.warnings
}

func (r *RequestContext) HasWarnings() bool {
	return len(r.warnings) > 0
}
