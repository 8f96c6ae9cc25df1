package diagnostic

import (
	"context"
	"errors"
	"fmt"

	"bennypowers.dev/rxls/internal/log"
	"bennypowers.dev/rxls/internal/parser"
	"bennypowers.dev/rxls/internal/position"
	"bennypowers.dev/rxls/internal/regexp/ast"
	"bennypowers.dev/rxls/internal/regexp/check"
	"bennypowers.dev/rxls/internal/regexp/dialect"
	"bennypowers.dev/rxls/internal/regexp/validator"
	"bennypowers.dev/rxls/lsp/helpers"
	"bennypowers.dev/rxls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CodeUnknownDialect marks a pattern whose configured dialect is not registered.
const CodeUnknownDialect validator.Code = "unknown-dialect"

var tracer = otel.Tracer("bennypowers.dev/rxls/lsp/diagnostic")

// Finding is a validator diagnostic placed in its document.
type Finding struct {
	validator.Diagnostic
	Region parser.Region
	// Range covers the diagnostic span in document coordinates
	Range protocol.Range
	// Edit applies Diagnostic.Fix to the document; nil without a fix
	Edit *protocol.TextEdit
}

// Findings extracts every pattern in the document, checks it in its dialect
// and returns what survives the configured filters. A document the server
// does not track has no findings.
//
// Each call starts an "rxls.diagnostics" span on the global tracer. The
// binary installs no TracerProvider, so spans are only recorded when a host
// embedding the server calls otel.SetTracerProvider.
func Findings(ctx types.ServerContext, uri string) ([]Finding, error) {
	_, span := tracer.Start(context.Background(), "rxls.diagnostics",
		trace.WithAttributes(attribute.String("rxls.uri", uri)))
	defer span.End()

	doc := ctx.Document(uri)
	if doc == nil {
		return nil, nil
	}

	cfg := ctx.GetConfig()
	content, ix := doc.Indexed()
	regions := parser.Extract(doc.LanguageID(), uri, content, cfg.ExtractConfig(ctx.RootPath()))

	var findings []Finding
	for _, region := range regions {
		d, err := ctx.Dialects().Get(region.Dialect)
		if err != nil {
			if !errors.Is(err, dialect.ErrUnknownDialect) {
				span.RecordError(err)
				return nil, fmt.Errorf("failed to resolve dialect for %s: %w", uri, err)
			}
			findings = append(findings, place(ix, region, validator.Diagnostic{
				Severity: validator.Warning,
				Code:     CodeUnknownDialect,
				Message:  fmt.Sprintf("Unknown regular expression dialect %q", region.Dialect),
				Span:     ast.Range{Start: 0, End: len(region.Pattern)},
			}))
			continue
		}

		for _, diag := range check.Pattern(region.Pattern, d).Diagnostics {
			if cfg.IsIgnored(string(diag.Code)) {
				continue
			}
			if cfg.DisableWeakWarnings && diag.Severity == validator.WeakWarning {
				continue
			}
			findings = append(findings, place(ix, region, diag))
		}
	}

	span.SetAttributes(
		attribute.String("rxls.language", doc.LanguageID()),
		attribute.Int("rxls.regions", len(regions)),
		attribute.Int("rxls.diagnostics", len(findings)),
	)
	log.Debug("%s: %d patterns, %d diagnostics", uri, len(regions), len(findings))
	return findings, nil
}

func place(ix *position.LineIndex, region parser.Region, diag validator.Diagnostic) Finding {
	f := Finding{
		Diagnostic: diag,
		Region:     region,
		Range:      helpers.ByteRange(ix, region.Offset+diag.Span.Start, region.Offset+diag.Span.End),
	}
	if diag.Fix != nil {
		f.Edit = &protocol.TextEdit{
			Range:   helpers.ByteRange(ix, region.Offset+diag.Fix.Span.Start, region.Offset+diag.Fix.Span.End),
			NewText: diag.Fix.NewText,
		}
	}
	return f
}
