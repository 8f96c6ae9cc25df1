package diagnostic

import (
	"bennypowers.dev/rxls/internal/log"
	"bennypowers.dev/rxls/internal/regexp/validator"
	"bennypowers.dev/rxls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Source names the server in diagnostics.
const Source = "rxls"

// DocumentDiagnostic handles the textDocument/diagnostic request (pull
// diagnostics). It is dispatched by the custom handler because glsp's
// protocol.Handler predates the method.
func DocumentDiagnostic(req *types.RequestContext, params *DocumentDiagnosticParams) (any, error) {
	uri := params.TextDocument.URI
	log.Debug("Pull diagnostics requested for: %s", uri)

	diagnostics, err := GetDiagnostics(req.Server, uri)
	if err != nil {
		return nil, err
	}

	return RelatedFullDocumentDiagnosticReport{
		Kind:  string(DiagnosticFull),
		Items: diagnostics,
	}, nil
}

// GetDiagnostics returns the protocol diagnostics for a document, never nil.
func GetDiagnostics(ctx types.ServerContext, uri string) ([]protocol.Diagnostic, error) {
	findings, err := Findings(ctx, uri)
	if err != nil {
		return nil, err
	}
	diagnostics := make([]protocol.Diagnostic, 0, len(findings))
	for _, f := range findings {
		diagnostics = append(diagnostics, ToProtocol(f))
	}
	return diagnostics, nil
}

// ToProtocol converts a finding. Weak warnings become hints, and findings
// whose text can simply be removed are tagged unnecessary.
func ToProtocol(f Finding) protocol.Diagnostic {
	severity := Severity(f.Severity)
	source := Source
	d := protocol.Diagnostic{
		Range:    f.Range,
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: string(f.Code)},
		Source:   &source,
		Message:  f.Message,
	}
	if isUnnecessary(f.Diagnostic) {
		d.Tags = []protocol.DiagnosticTag{protocol.DiagnosticTagUnnecessary}
	}
	if f.Edit != nil {
		d.Data = FixData{Title: f.Fix.Title, Edit: *f.Edit}
	}
	return d
}

// Severity maps validator severities to LSP ones.
func Severity(s validator.Severity) protocol.DiagnosticSeverity {
	switch s {
	case validator.Error:
		return protocol.DiagnosticSeverityError
	case validator.Warning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityHint
	}
}

func isUnnecessary(d validator.Diagnostic) bool {
	switch d.Code {
	case validator.CodeRedundantGroup, validator.CodeDuplicateClassMember:
		return true
	case validator.CodeSimplifiableQuantifier:
		return d.Fix != nil && d.Fix.NewText == ""
	}
	return false
}
