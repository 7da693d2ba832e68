package parser

import (
	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/internal/token"
)

// parseStatementStrict parses a statement and checks that it is properly
// terminated: by a semicolon, a closing brace, the end of the file or a line
// break.
func (p *Parser) parseStatementStrict() ast.Stmt {
	stmt := p.parseStatement()
	if stmt == nil {
		return nil
	}
	if p.curTokenIs(token.SEMICOLON) || p.curTokenIs(token.RBRACE) ||
		p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) || p.peekOnNewLine() {
		return stmt
	}
	p.setTokenError(p.peekToken, "unexpected token %q following statement", p.peekToken.Literal)
	return nil
}

func (p *Parser) parseStatement() ast.Stmt {
	var stmt ast.Stmt
	switch p.curToken.Type {
	case token.VAR, token.LET, token.CONST:
		stmt = p.parseVarDecl()
	case token.FUNCTION:
		stmt = p.parseFuncDecl()
	case token.RETURN:
		stmt = p.parseReturn()
	case token.THROW:
		stmt = p.parseThrow()
	case token.IF:
		stmt = p.parseIf()
	case token.LBRACE:
		if block := p.parseBlock(); block != nil {
			return block
		}
		return nil
	case token.SEMICOLON:
		// Empty statement
		return nil
	default:
		stmt = p.parseExprStmt()
	}
	if stmt == nil {
		return nil
	}
	// Consume trailing semicolon if present
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseVarDecl() ast.Stmt {
	decl := &ast.VarDecl{Keyword: p.curToken.StartPosition, Kind: p.curToken.Type}
	context := "declaration"
	for {
		if !p.expectPeek(context, token.IDENT) {
			return nil
		}
		binding := &ast.VarBinding{Name: p.newIdent(p.curToken)}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			binding.Value = p.parseExpression(ASSIGN - 1)
			if binding.Value == nil {
				return nil
			}
		} else if decl.Kind == token.CONST {
			p.setTokenError(p.curToken, "missing initializer in const declaration")
			return nil
		}
		decl.Bindings = append(decl.Bindings, binding)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	return decl
}

func (p *Parser) parseFuncDecl() ast.Stmt {
	funcPos := p.curToken.StartPosition
	if !p.expectPeek("function declaration", token.IDENT) {
		return nil
	}
	name := p.newIdent(p.curToken)
	params, body := p.parseFuncSignatureAndBody()
	if body == nil {
		return nil
	}
	return &ast.FuncDecl{Func: funcPos, Name: name, Params: params, Body: body}
}

func (p *Parser) parseReturn() ast.Stmt {
	stmt := &ast.Return{ReturnPos: p.curToken.StartPosition}
	if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.RBRACE) ||
		p.peekTokenIs(token.EOF) || p.peekOnNewLine() {
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseThrow() ast.Stmt {
	throwPos := p.curToken.StartPosition
	if p.peekOnNewLine() {
		p.setTokenError(p.curToken, "line break is not permitted after throw")
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	return &ast.Throw{ThrowPos: throwPos, Value: value}
}

func (p *Parser) parseIf() ast.Stmt {
	stmt := &ast.If{IfPos: p.curToken.StartPosition}
	if !p.expectPeek("if statement", token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if stmt.Cond == nil {
		return nil
	}
	if !p.expectPeek("if statement", token.RPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Consequence = p.parseBranch()
	if stmt.Consequence == nil {
		return nil
	}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		stmt.Alternative = p.parseBranch()
		if stmt.Alternative == nil {
			return nil
		}
	}
	return stmt
}

// parseBranch parses the statement following "if (...)" or "else".
func (p *Parser) parseBranch() ast.Stmt {
	stmt := p.parseStatement()
	if stmt == nil && !p.hadNewError() {
		p.setTokenError(p.curToken, "expected statement")
	}
	return stmt
}

// parseBlock parses "{ statements }" with curToken on "{". On success
// curToken is the closing "}".
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Lbrace: p.curToken.StartPosition}
	p.nextToken()
	stmts, err := p.parseStatements(token.RBRACE)
	if err != nil {
		p.setTokenError(p.curToken, "%s", err.Error())
		return nil
	}
	if !p.curTokenIs(token.RBRACE) {
		if !p.hadNewError() {
			p.setTokenError(p.curToken, "unterminated block (expected })")
		}
		return nil
	}
	block.Stmts = stmts
	block.Rbrace = p.curToken.StartPosition
	return block
}

func (p *Parser) parseExprStmt() ast.Stmt {
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	return &ast.ExprStmt{X: expr}
}

// parseFuncSignatureAndBody parses "(params) { body }" with curToken on the
// token before "(".
func (p *Parser) parseFuncSignatureAndBody() ([]*ast.Ident, *ast.Block) {
	if !p.expectPeek("function", token.LPAREN) {
		return nil, nil
	}
	var params []*ast.Ident
	for !p.peekTokenIs(token.RPAREN) {
		if !p.expectPeek("function parameters", token.IDENT) {
			return nil, nil
		}
		params = append(params, p.newIdent(p.curToken))
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek("function parameters", token.RPAREN) {
		return nil, nil
	}
	if !p.expectPeek("function", token.LBRACE) {
		return nil, nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil, nil
	}
	return params, body
}
