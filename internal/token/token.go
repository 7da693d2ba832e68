// Package token defines the keywords, operators and source positions used when
// lexing script source code.
package token

// Type names a token kind.
type Type string

// Position is a point in a source file.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber is Line counted from one.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber is Column counted from one.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance moves p forward n bytes on the same line.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
		File:      p.File,
	}
}

// IsValid reports whether p was set by the lexer.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos marks a synthesized node with no source location.
var NoPos = Position{}

// Token is one lexeme with its source span.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token kinds
const (
	AND                 Type = "&&"
	ASSIGN              Type = "="
	ASTERISK            Type = "*"
	ASTERISK_EQUALS     Type = "*="
	BANG                Type = "!"
	COLON               Type = ":"
	COMMA               Type = ","
	CONST               Type = "CONST"
	ELSE                Type = "ELSE"
	EOF                 Type = "EOF"
	EQ                  Type = "=="
	EQ_STRICT           Type = "==="
	FALSE               Type = "FALSE"
	FUNCTION            Type = "FUNCTION"
	GT                  Type = ">"
	GT_EQUALS           Type = ">="
	IDENT               Type = "IDENT"
	IF                  Type = "IF"
	ILLEGAL             Type = "ILLEGAL"
	LBRACE              Type = "{"
	LBRACKET            Type = "["
	LET                 Type = "LET"
	LPAREN              Type = "("
	LT                  Type = "<"
	LT_EQUALS           Type = "<="
	MINUS               Type = "-"
	MINUS_EQUALS        Type = "-="
	MOD                 Type = "%"
	NEW                 Type = "NEW"
	NOT_EQ              Type = "!="
	NOT_EQ_STRICT       Type = "!=="
	NULL                Type = "NULL"
	NUMBER              Type = "NUMBER"
	OR                  Type = "||"
	PERIOD              Type = "."
	PLUS                Type = "+"
	PLUS_EQUALS         Type = "+="
	POW                 Type = "**"
	POW_EQUALS          Type = "**="
	RBRACE              Type = "}"
	RBRACKET            Type = "]"
	RETURN              Type = "RETURN"
	RPAREN              Type = ")"
	SEMICOLON           Type = ";"
	SLASH               Type = "/"
	SLASH_EQUALS        Type = "/="
	SPREAD              Type = "..."
	STRING              Type = "STRING"
	TEMPLATE_HEAD       Type = "TEMPLATE_HEAD"
	TEMPLATE_MIDDLE     Type = "TEMPLATE_MIDDLE"
	TEMPLATE_TAIL       Type = "TEMPLATE_TAIL"
	THIS                Type = "THIS"
	THROW               Type = "THROW"
	TRUE                Type = "TRUE"
	TYPEOF              Type = "TYPEOF"
	VAR                 Type = "VAR"
	NO_SUBSTITUTION_TPL Type = "NO_SUBSTITUTION_TEMPLATE"
)

// Words the lexer never returns as IDENT.
var keywords = map[string]Type{
	"const":    CONST,
	"else":     ELSE,
	"false":    FALSE,
	"function": FUNCTION,
	"if":       IF,
	"let":      LET,
	"new":      NEW,
	"null":     NULL,
	"return":   RETURN,
	"this":     THIS,
	"throw":    THROW,
	"true":     TRUE,
	"typeof":   TYPEOF,
	"var":      VAR,
}

// LookupIdentifier used to determinate whether identifier is keyword nor not
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns the reserved words in no particular order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for word := range keywords {
		words = append(words, word)
	}
	return words
}
