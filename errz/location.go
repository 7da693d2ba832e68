package errz

import (
	"fmt"

	"github.com/risor-io/lowering/internal/token"
)

// SourceLocation identifies a span of source code. Line and column numbers
// are 1-indexed.
type SourceLocation struct {
	Filename  string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
	Source    string // text of the line containing the start position
}

// IsZero returns true if no location information is present.
func (l SourceLocation) IsZero() bool {
	return l.Line == 0 && l.Column == 0 && l.Filename == ""
}

func (l SourceLocation) String() string {
	if l.Filename == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Column)
}

// LocationFromRange builds a SourceLocation from lexer positions.
func LocationFromRange(start, end token.Position, source string) SourceLocation {
	return SourceLocation{
		Filename:  start.File,
		Line:      start.LineNumber(),
		Column:    start.ColumnNumber(),
		EndLine:   end.LineNumber(),
		EndColumn: end.ColumnNumber(),
		Source:    source,
	}
}
