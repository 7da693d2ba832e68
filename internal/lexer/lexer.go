// Package lexer converts script source code into a stream of tokens.
//
// Template literals are scanned with a brace stack: "`a${" produces a
// TEMPLATE_HEAD token and pushes a template marker, and the "}" that closes the
// substitution resumes template scanning instead of producing RBRACE.
package lexer

import (
	"fmt"
	"strings"

	"github.com/risor-io/lowering/internal/token"
)

// Lexer holds our object-state.
type Lexer struct {
	// The input being tokenized
	input string

	// The current byte offset in the input
	pos int

	// Current line (0-indexed) and the offset where it starts
	line      int
	lineStart int

	// The name of the file being lexed, attached to every position
	file string

	// braces tracks open "{" and "${" so that "}" can resume a template
	braces []bool
}

// New creates a Lexer instance for the given input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// SetFilename sets the file name attached to token positions.
func (l *Lexer) SetFilename(file string) {
	l.file = file
}

// Filename returns the file name attached to token positions.
func (l *Lexer) Filename() string {
	return l.file
}

// Next returns the next token in the input. At the end of the input an EOF
// token is returned repeatedly.
func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return l.illegal(l.position(), err)
	}
	start := l.position()
	if l.pos >= len(l.input) {
		return token.Token{Type: token.EOF, StartPosition: start, EndPosition: start}, nil
	}
	ch := l.input[l.pos]
	switch {
	case isLetter(ch):
		word := l.readWhile(isIdentChar)
		return l.emit(token.LookupIdentifier(word), word, start), nil
	case isDigit(ch) || (ch == '.' && isDigit(l.peekByte(1))):
		return l.readNumber(start)
	case ch == '"' || ch == '\'':
		return l.readString(start, ch)
	case ch == '`':
		l.pos++
		return l.readTemplate(start, token.NO_SUBSTITUTION_TPL, token.TEMPLATE_HEAD)
	case ch == '{':
		l.braces = append(l.braces, false)
		l.pos++
		return l.emit(token.LBRACE, "{", start), nil
	case ch == '}':
		if n := len(l.braces); n > 0 {
			resumesTemplate := l.braces[n-1]
			l.braces = l.braces[:n-1]
			if resumesTemplate {
				l.pos++
				return l.readTemplate(start, token.TEMPLATE_TAIL, token.TEMPLATE_MIDDLE)
			}
		}
		l.pos++
		return l.emit(token.RBRACE, "}", start), nil
	}
	for _, op := range operators {
		if strings.HasPrefix(l.input[l.pos:], op.text) {
			l.pos += len(op.text)
			return l.emit(op.typ, op.text, start), nil
		}
	}
	l.pos++
	return l.illegal(start, fmt.Errorf("unexpected character %q", ch))
}

// operators ordered so that longer operators match first.
var operators = []struct {
	text string
	typ  token.Type
}{
	{"...", token.SPREAD},
	{"**=", token.POW_EQUALS},
	{"===", token.EQ_STRICT},
	{"!==", token.NOT_EQ_STRICT},
	{"**", token.POW},
	{"*=", token.ASTERISK_EQUALS},
	{"==", token.EQ},
	{"!=", token.NOT_EQ},
	{"<=", token.LT_EQUALS},
	{">=", token.GT_EQUALS},
	{"&&", token.AND},
	{"||", token.OR},
	{"+=", token.PLUS_EQUALS},
	{"-=", token.MINUS_EQUALS},
	{"/=", token.SLASH_EQUALS},
	{"*", token.ASTERISK},
	{"=", token.ASSIGN},
	{"!", token.BANG},
	{"<", token.LT},
	{">", token.GT},
	{"+", token.PLUS},
	{"-", token.MINUS},
	{"/", token.SLASH},
	{"%", token.MOD},
	{".", token.PERIOD},
	{",", token.COMMA},
	{";", token.SEMICOLON},
	{":", token.COLON},
	{"(", token.LPAREN},
	{")", token.RPAREN},
	{"[", token.LBRACKET},
	{"]", token.RBRACKET},
}

// GetLineText returns the full line of source containing the given token.
func (l *Lexer) GetLineText(tok token.Token) string {
	start := tok.StartPosition.LineStart
	if start > len(l.input) {
		return ""
	}
	end := strings.IndexByte(l.input[start:], '\n')
	if end < 0 {
		return l.input[start:]
	}
	return l.input[start : start+end]
}

func (l *Lexer) position() token.Position {
	return token.Position{
		Char:      l.pos,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.pos - l.lineStart,
		File:      l.file,
	}
}

func (l *Lexer) emit(typ token.Type, literal string, start token.Position) token.Token {
	return token.Token{
		Type:          typ,
		Literal:       literal,
		StartPosition: start,
		EndPosition:   l.position(),
	}
}

func (l *Lexer) illegal(start token.Position, err error) (token.Token, error) {
	literal := ""
	if start.Char < l.pos && l.pos <= len(l.input) {
		literal = l.input[start.Char:l.pos]
	}
	return l.emit(token.ILLEGAL, literal, start), err
}

func (l *Lexer) peekByte(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

// advance moves forward one byte, tracking line starts.
func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.lineStart = l.pos + 1
	}
	l.pos++
}

func (l *Lexer) readWhile(pred func(byte) bool) string {
	start := l.pos
	for l.pos < len(l.input) && pred(l.input[l.pos]) {
		l.pos++
	}
	return l.input[start:l.pos]
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peekByte(1) == '/':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		case ch == '/' && l.peekByte(1) == '*':
			l.pos += 2
			for {
				if l.pos >= len(l.input) {
					return fmt.Errorf("unterminated block comment")
				}
				if l.input[l.pos] == '*' && l.peekByte(1) == '/' {
					l.pos += 2
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) readNumber(start token.Position) (token.Token, error) {
	if l.input[l.pos] == '0' && (l.peekByte(1) == 'x' || l.peekByte(1) == 'X') {
		l.pos += 2
		digits := l.readWhile(isHexDigit)
		if digits == "" {
			return l.illegal(start, fmt.Errorf("invalid hexadecimal literal"))
		}
		return l.emit(token.NUMBER, l.input[start.Char:l.pos], start), nil
	}
	l.readWhile(isDigit)
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		l.pos++
		l.readWhile(isDigit)
	}
	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		l.pos++
		if l.pos < len(l.input) && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.pos++
		}
		if l.readWhile(isDigit) == "" {
			return l.illegal(start, fmt.Errorf("invalid exponent in numeric literal"))
		}
	}
	if l.pos < len(l.input) && isLetter(l.input[l.pos]) {
		l.readWhile(isIdentChar)
		return l.illegal(start, fmt.Errorf("identifier starts immediately after numeric literal"))
	}
	return l.emit(token.NUMBER, l.input[start.Char:l.pos], start), nil
}

// readString scans a quoted string. The token literal is the raw source text
// including the quotes; use Unquote to obtain the value.
func (l *Lexer) readString(start token.Position, quote byte) (token.Token, error) {
	l.pos++
	for {
		if l.pos >= len(l.input) || l.input[l.pos] == '\n' {
			return l.illegal(start, fmt.Errorf("unterminated string literal"))
		}
		ch := l.input[l.pos]
		if ch == '\\' {
			l.pos++
			if l.pos < len(l.input) {
				l.advance()
			}
			continue
		}
		l.pos++
		if ch == quote {
			break
		}
	}
	return l.emit(token.STRING, l.input[start.Char:l.pos], start), nil
}

// readTemplate scans template text after "`" or after the "}" closing a
// substitution. It stops at "`" (producing the end type) or at "${"
// (producing the open type and pushing a template brace). The token literal
// is the raw text between the delimiters.
func (l *Lexer) readTemplate(start token.Position, end, open token.Type) (token.Token, error) {
	textStart := l.pos
	for {
		if l.pos >= len(l.input) {
			return l.illegal(start, fmt.Errorf("unterminated template literal"))
		}
		ch := l.input[l.pos]
		switch {
		case ch == '\\':
			l.pos++
			if l.pos < len(l.input) {
				l.advance()
			}
		case ch == '`':
			raw := l.input[textStart:l.pos]
			l.pos++
			return l.emit(end, raw, start), nil
		case ch == '$' && l.peekByte(1) == '{':
			raw := l.input[textStart:l.pos]
			l.pos += 2
			l.braces = append(l.braces, true)
			return l.emit(open, raw, start), nil
		default:
			l.advance()
		}
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}

func isIdentChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}
