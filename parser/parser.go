// Package parser is used to generate the syntax tree for a source file.
//
// New wraps a lexer in a single-use Parser; Parse then produces the tree with
// its transform flags already computed.
//
// The accepted language is the script subset the lowering transformers work
// on: declarations, functions, if/return/throw, and expressions including
// exponentiation, object spread and tagged templates.
package parser

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/internal/lexer"
	"github.com/risor-io/lowering/internal/token"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parse lexes and parses input in one call.
func Parse(ctx context.Context, input string, options ...Option) (*ast.SourceFile, error) {
	// Extract filename from options before creating the parser, so that lexer
	// errors in the first tokens have proper location context.
	var probe Parser
	for _, opt := range options {
		opt(&probe)
	}
	l := lexer.New(input)
	if probe.filename != "" {
		l.SetFilename(probe.filename)
	}
	p := New(l, options...)
	return p.Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name recorded on the tree and in errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth bounds expression and block nesting. Input nested deeper than
// depth is rejected with a syntax error.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// DefaultMaxDepth is used unless WithMaxDepth says otherwise.
const DefaultMaxDepth = 500

// MaxErrors caps the syntax errors reported for one file.
const MaxErrors = 10

// Parser turns a token stream into an *ast.SourceFile.
type Parser struct {
	ctx context.Context
	l   *lexer.Lexer

	// Token window: prevToken was just consumed, curToken is being parsed
	// and peekToken is one token of lookahead.
	prevToken token.Token
	curToken  token.Token
	peekToken token.Token

	errors []error

	// lexErrPos is the start of the last token the lexer rejected, so the
	// ILLEGAL token is not reported a second time by the parser.
	lexErrPos *token.Position

	// len(errors) when the current statement started.
	stmtErrorCount int

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	filename string
	depth    int
	maxDepth int
}

// New returns a Parser reading tokens from l.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:              l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.filename == "" {
		p.filename = l.Filename()
	}

	// Fill cur and peek.
	p.nextToken() // makes curToken=<empty>, peekToken=token[0]
	p.nextToken() // makes curToken=token[0], peekToken=token[1]

	// Prefix
	p.registerPrefix(token.BANG, p.parseUnary)
	p.registerPrefix(token.EOF, p.illegalToken)
	p.registerPrefix(token.FALSE, p.parseBool)
	p.registerPrefix(token.FUNCTION, p.parseFuncLit)
	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.ILLEGAL, p.illegalToken)
	p.registerPrefix(token.LBRACE, p.parseObjectLiteral)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LPAREN, p.parseParen)
	p.registerPrefix(token.MINUS, p.parseUnary)
	p.registerPrefix(token.NEW, p.parseNew)
	p.registerPrefix(token.NO_SUBSTITUTION_TPL, p.parseTemplateExpr)
	p.registerPrefix(token.NULL, p.parseNull)
	p.registerPrefix(token.NUMBER, p.parseNumber)
	p.registerPrefix(token.PLUS, p.parseUnary)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.TEMPLATE_HEAD, p.parseTemplateExpr)
	p.registerPrefix(token.THIS, p.parseThis)
	p.registerPrefix(token.TRUE, p.parseBool)
	p.registerPrefix(token.TYPEOF, p.parseUnary)

	// Infix
	p.registerInfix(token.AND, p.parseBinary)
	p.registerInfix(token.ASSIGN, p.parseAssign)
	p.registerInfix(token.ASTERISK, p.parseBinary)
	p.registerInfix(token.ASTERISK_EQUALS, p.parseCompoundAssign)
	p.registerInfix(token.EQ, p.parseBinary)
	p.registerInfix(token.EQ_STRICT, p.parseBinary)
	p.registerInfix(token.GT, p.parseBinary)
	p.registerInfix(token.GT_EQUALS, p.parseBinary)
	p.registerInfix(token.LBRACKET, p.parseElementAccess)
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.LT, p.parseBinary)
	p.registerInfix(token.LT_EQUALS, p.parseBinary)
	p.registerInfix(token.MINUS, p.parseBinary)
	p.registerInfix(token.MINUS_EQUALS, p.parseCompoundAssign)
	p.registerInfix(token.MOD, p.parseBinary)
	p.registerInfix(token.NOT_EQ, p.parseBinary)
	p.registerInfix(token.NOT_EQ_STRICT, p.parseBinary)
	p.registerInfix(token.NO_SUBSTITUTION_TPL, p.parseTaggedTemplate)
	p.registerInfix(token.OR, p.parseBinary)
	p.registerInfix(token.PERIOD, p.parsePropertyAccess)
	p.registerInfix(token.PLUS, p.parseBinary)
	p.registerInfix(token.PLUS_EQUALS, p.parseCompoundAssign)
	p.registerInfix(token.POW, p.parseBinary)
	p.registerInfix(token.POW_EQUALS, p.parseCompoundAssign)
	p.registerInfix(token.SLASH, p.parseBinary)
	p.registerInfix(token.SLASH_EQUALS, p.parseCompoundAssign)
	p.registerInfix(token.TEMPLATE_HEAD, p.parseTaggedTemplate)

	return p
}

// advanceToken shifts the token window and ignores lexer errors. Only error
// recovery uses it.
func (p *Parser) advanceToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken, _ = p.l.Next()
}

// nextToken shifts the prev/cur/peek window by one token.
func (p *Parser) nextToken() error {
	var err error
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken, err = p.l.Next()
	if err == nil {
		return nil // success
	}
	// The lexer encountered an error. We consider all lexer errors
	// "syntax errors" and parsing will now be considered broken.
	pos := p.peekToken.StartPosition
	p.lexErrPos = &pos
	p.addError(NewSyntaxError(ErrorOpts{
		Cause:         err,
		StartPosition: p.peekToken.StartPosition,
		EndPosition:   p.peekToken.EndPosition,
		SourceCode:    p.l.GetLineText(p.peekToken),
	}))
	return err
}

// Parse consumes the whole token stream.
// It returns the tree and any errors encountered. If there are errors, the tree
// may be partial (containing only successfully parsed statements). The error
// is a *multierror.Error holding one *errz.StructuredError per problem.
func (p *Parser) Parse(ctx context.Context) (*ast.SourceFile, error) {
	p.ctx = ctx
	stmts, err := p.parseStatements(token.EOF)
	if err != nil {
		return nil, err
	}
	file := &ast.SourceFile{
		FileName: p.filename,
		Stmts:    stmts,
		EOF:      p.curToken.StartPosition,
	}
	ast.Annotate(file)
	if p.hasErrors() {
		return file, p.errorResult()
	}
	return file, nil
}

// parseStatements parses statements until the end token, leaving curToken on
// it. When a statement fails, we synchronize and continue to collect more
// errors. The only returned error is context cancellation.
func (p *Parser) parseStatements(end token.Type) ([]ast.Stmt, error) {
	outerErrorCount := p.stmtErrorCount
	defer func() { p.stmtErrorCount = outerErrorCount }()

	var statements []ast.Stmt
	for !p.curTokenIs(end) && !p.curTokenIs(token.EOF) {
		if p.ctx != nil {
			select {
			case <-p.ctx.Done():
				return nil, p.ctx.Err()
			default:
			}
		}
		if p.tooManyErrors() {
			break
		}
		p.stmtErrorCount = len(p.errors)
		stmt := p.parseStatementStrict()
		if stmt != nil {
			statements = append(statements, stmt)
		} else if p.hadNewError() {
			p.synchronize()
		}
		p.nextToken()
	}
	return statements, nil
}

func (p *Parser) errorResult() error {
	merr := &multierror.Error{
		Errors:      append([]error(nil), p.errors...),
		ErrorFormat: formatErrors,
	}
	return merr
}

// registerPrefix binds the parse function for tokens starting an expression.
func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix binds the parse function for binary and postfix operators.
func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) addError(err error) {
	p.errors = append(p.errors, err)
}

func (p *Parser) hasErrors() bool {
	return len(p.errors) > 0
}

func (p *Parser) tooManyErrors() bool {
	return len(p.errors) >= MaxErrors
}

// hadNewError reports whether the current statement has produced an error.
func (p *Parser) hadNewError() bool {
	return len(p.errors) > p.stmtErrorCount
}

// synchronize skips tokens until the next token starts a new statement or a
// new line.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) || p.peekOnNewLine() {
			return
		}
		switch p.peekToken.Type {
		case token.EOF, token.RBRACE, token.VAR, token.LET, token.CONST,
			token.RETURN, token.IF, token.FUNCTION, token.THROW:
			return
		}
		prevPos := p.curToken.StartPosition
		p.advanceToken()
		// Safety: if we didn't advance (lexer stuck), bail out
		if p.curToken.StartPosition == prevPos {
			return
		}
	}
}

func (p *Parser) noPrefixParseFnError(t token.Token) {
	p.setTokenError(t, "invalid syntax (unexpected %q)", t.Literal)
}

// peekError records that the next token was not the expected type.
func (p *Parser) peekError(context string, expected token.Type, got token.Token) {
	p.setTokenError(got, "unexpected %s while parsing %s (expected %s)",
		tokenDescription(got), context, tokenTypeDescription(expected))
}

func (p *Parser) parseExpression(precedence int) ast.Expr {
	if p.hadNewError() {
		return nil
	}
	// Check recursion depth
	p.depth++
	if p.depth > p.maxDepth {
		p.setTokenError(p.curToken, "maximum nesting depth exceeded")
		p.depth--
		return nil
	}
	defer func() { p.depth-- }()

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if p.hadNewError() || leftExp == nil {
		return nil
	}
	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		if err := p.nextToken(); err != nil {
			return nil
		}
		leftExp = infix(leftExp)
		if p.hadNewError() || leftExp == nil {
			return nil
		}
	}
	return leftExp
}

func (p *Parser) illegalToken() ast.Expr {
	if p.lexErrPos != nil && *p.lexErrPos == p.curToken.StartPosition {
		// Already reported by nextToken
		return nil
	}
	if p.curTokenIs(token.EOF) {
		p.setTokenError(p.curToken, "unexpected end of file")
		return nil
	}
	p.setTokenError(p.curToken, "illegal token %s", p.curToken.Literal)
	return nil
}

func (p *Parser) setTokenError(t token.Token, msg string, args ...any) {
	p.addError(NewSyntaxError(ErrorOpts{
		Message:       fmt.Sprintf(msg, args...),
		StartPosition: t.StartPosition,
		EndPosition:   t.EndPosition,
		SourceCode:    p.l.GetLineText(t),
	}))
}

// newIdent builds an Ident positioned at tok.
func (p *Parser) newIdent(tok token.Token) *ast.Ident {
	return &ast.Ident{NamePos: tok.StartPosition, Name: tok.Literal}
}

// curTokenIs reports the type of the current token.
func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

// peekTokenIs reports the type of the next token.
func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// peekOnNewLine returns true if a line break separates the current and the
// next token.
func (p *Parser) peekOnNewLine() bool {
	return p.peekToken.StartPosition.Line > p.curToken.EndPosition.Line
}

// expectPeek advances when the next token has type t and records a syntax
// error otherwise.
func (p *Parser) expectPeek(context string, t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(context, t, p.peekToken)
	return false
}

// peekPrecedence looks up the binding power of the next token.
func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

// currentPrecedence looks up the binding power of the current token.
func (p *Parser) currentPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}
