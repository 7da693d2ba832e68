package errz

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a StructuredError.
type ErrorKind int

const (
	// ErrSyntax indicates a lexing or parsing error.
	ErrSyntax ErrorKind = iota
	// ErrContract indicates that a node reached a lowering routine that does
	// not handle it. It signals a classification bug, never bad user input.
	ErrContract
	// ErrMacro indicates a failure loading a macro schema or expanding a
	// macro call.
	ErrMacro
	// ErrProtocol indicates a malformed or unsupported protocol request.
	ErrProtocol
)

// String returns the prefix Error puts before the message.
func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax error"
	case ErrContract:
		return "contract violation"
	case ErrMacro:
		return "macro error"
	case ErrProtocol:
		return "protocol error"
	default:
		return "error"
	}
}

// StructuredError is an error with a kind and an optional source location.
type StructuredError struct {
	Message  string
	Kind     ErrorKind
	Location SourceLocation
	Cause    error
}

func (e *StructuredError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		if msg == "" {
			msg = e.Cause.Error()
		} else {
			msg = msg + ": " + e.Cause.Error()
		}
	}
	if e.Location.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind.String(), msg)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind.String(), msg, e.Location.String())
}

// Unwrap exposes Cause to errors.Is and errors.As.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// IsFatal returns whether the error aborts the compilation unit it occurred
// in. Protocol errors are reported to the client and the session continues.
func (e *StructuredError) IsFatal() bool {
	return e.Kind != ErrProtocol
}

// FriendlyErrorMessage returns a human-friendly error message with the
// offending source line and a caret under the error column.
func (e *StructuredError) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	msg.WriteString(e.Error())
	msg.WriteString("\n")
	if e.Location.Source != "" {
		msg.WriteString(" | ")
		msg.WriteString(e.Location.Source)
		msg.WriteString("\n")
		if e.Location.Column > 0 {
			width := 1
			if e.Location.EndLine == e.Location.Line && e.Location.EndColumn > e.Location.Column {
				width = e.Location.EndColumn - e.Location.Column
			}
			msg.WriteString(" | ")
			msg.WriteString(strings.Repeat(" ", e.Location.Column-1))
			msg.WriteString(strings.Repeat("^", width))
			msg.WriteString("\n")
		}
	}
	return msg.String()
}

// NewStructuredError returns an error of the given kind at loc.
func NewStructuredError(kind ErrorKind, message string, loc SourceLocation) *StructuredError {
	return &StructuredError{
		Message:  message,
		Kind:     kind,
		Location: loc,
	}
}

// NewStructuredErrorf is NewStructuredError with a format string.
func NewStructuredErrorf(kind ErrorKind, loc SourceLocation, format string, args ...any) *StructuredError {
	return &StructuredError{
		Message:  fmt.Sprintf(format, args...),
		Kind:     kind,
		Location: loc,
	}
}

// WithCause wraps the error with a cause.
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}

// GetLocation returns the source location of the error.
func (e *StructuredError) GetLocation() SourceLocation {
	return e.Location
}

// KindOf returns the kind of the first StructuredError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}
