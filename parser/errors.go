package parser

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/risor-io/lowering/errz"
	"github.com/risor-io/lowering/internal/token"
)

// ErrorOpts is a struct that holds a variety of error data.
// All fields are optional, although one of `Cause` or `Message`
// are recommended.
type ErrorOpts struct {
	Message       string
	Cause         error
	StartPosition token.Position
	EndPosition   token.Position
	SourceCode    string
}

// NewSyntaxError returns a syntax error populated with the given error data.
func NewSyntaxError(opts ErrorOpts) *errz.StructuredError {
	err := errz.NewStructuredError(
		errz.ErrSyntax,
		opts.Message,
		errz.LocationFromRange(opts.StartPosition, opts.EndPosition, opts.SourceCode),
	)
	if opts.Cause != nil {
		err = err.WithCause(opts.Cause)
	}
	return err
}

// SyntaxErrors returns the individual syntax errors held by an error returned
// from Parse.
func SyntaxErrors(err error) []*errz.StructuredError {
	if err == nil {
		return nil
	}
	var out []*errz.StructuredError
	if merr, ok := err.(*multierror.Error); ok {
		for _, e := range merr.Errors {
			if se, ok := e.(*errz.StructuredError); ok {
				out = append(out, se)
			}
		}
		return out
	}
	if se, ok := err.(*errz.StructuredError); ok {
		out = append(out, se)
	}
	return out
}

// formatErrors renders the first error followed by a count of the rest.
func formatErrors(errs []error) string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Error()
	}
	var b strings.Builder
	b.WriteString(errs[0].Error())
	b.WriteString(fmt.Sprintf(" (and %d more errors)", len(errs)-1))
	return b.String()
}

func tokenTypeDescription(t token.Type) string {
	switch t {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		return "identifier"
	default:
		return string(t)
	}
}

func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of file"
	default:
		if t.Literal == "" {
			return string(t.Type)
		}
		return t.Literal
	}
}
