package server

import (
	"context"
	"errors"

	"github.com/risor-io/lowering/errz"
	"github.com/risor-io/lowering/parser"
	"github.com/risor-io/lowering/protocol"
	"github.com/risor-io/lowering/transform"
)

var diagnosticCodes = map[errz.ErrorKind]int{
	errz.ErrSyntax:   1001,
	errz.ErrContract: 2001,
	errz.ErrMacro:    2002,
}

// diagnostic is a located error of a document.
type diagnostic struct {
	start, end int // byte offsets
	text       string
	code       int
}

// syntaxDiagnostics returns the parse errors of the document.
func (d *document) syntaxDiagnostics() []diagnostic {
	if d.err == nil {
		return nil
	}
	errs := parser.SyntaxErrors(d.err)
	if len(errs) == 0 {
		return []diagnostic{{text: d.err.Error()}}
	}
	out := make([]diagnostic, 0, len(errs))
	for _, se := range errs {
		out = append(out, d.fromStructured(se))
	}
	return out
}

// loweringDiagnostics runs the default transformer chain over the document
// and returns the failure, if any. Documents with syntax errors are not
// lowered.
func (d *document) loweringDiagnostics(ctx context.Context, host transform.Host) []diagnostic {
	if d.err != nil || d.ast == nil {
		return nil
	}
	_, err := transform.Transform(ctx, host, d.ast, transform.DefaultTransformers()...)
	if err == nil {
		return nil
	}
	var se *errz.StructuredError
	if errors.As(err, &se) {
		return []diagnostic{d.fromStructured(se)}
	}
	return []diagnostic{{text: err.Error()}}
}

func (d *document) fromStructured(se *errz.StructuredError) diagnostic {
	text := se.Message
	if se.Cause != nil {
		if text == "" {
			text = se.Cause.Error()
		} else {
			text += ": " + se.Cause.Error()
		}
	}
	diag := diagnostic{text: text, code: diagnosticCodes[se.Kind]}
	loc := se.Location
	if loc.Line == 0 {
		return diag
	}
	start, err := d.offset(loc.Line, loc.Column)
	if err != nil {
		return diag
	}
	diag.start, diag.end = start, start
	if loc.EndLine > 0 {
		if end, err := d.offset(loc.EndLine, loc.EndColumn); err == nil && end >= start {
			diag.end = end
		}
	}
	return diag
}

func (d *document) protocolDiagnostics(diags []diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, diag := range diags {
		out = append(out, protocol.Diagnostic{
			Start: d.location(diag.start),
			End:   d.location(diag.end),
			Text:  diag.text,
		})
	}
	return out
}

func (d *document) linePositionDiagnostics(diags []diagnostic) []protocol.DiagnosticWithLinePosition {
	out := make([]protocol.DiagnosticWithLinePosition, 0, len(diags))
	for _, diag := range diags {
		out = append(out, protocol.DiagnosticWithLinePosition{
			Message:       diag.text,
			Start:         diag.start,
			Length:        diag.end - diag.start,
			StartLocation: d.location(diag.start),
			EndLocation:   d.location(diag.end),
			Category:      "error",
			Code:          diag.code,
		})
	}
	return out
}
