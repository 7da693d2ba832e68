package parser

import (
	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/internal/token"
)

func (p *Parser) parseIdent() ast.Expr {
	return p.newIdent(p.curToken)
}

func (p *Parser) parseUnary() ast.Expr {
	opTok := p.curToken
	if err := p.nextToken(); err != nil {
		return nil
	}
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	// "-a ** b" is ambiguous and rejected; "(-a) ** b" and "-(a ** b)" are fine.
	if bin, ok := operand.(*ast.Binary); ok && bin.Op == token.POW {
		p.addError(NewSyntaxError(ErrorOpts{
			Message:       "unary operator used immediately before exponentiation expression; use parentheses",
			StartPosition: opTok.StartPosition,
			EndPosition:   bin.End(),
			SourceCode:    p.l.GetLineText(opTok),
		}))
		return nil
	}
	return &ast.Unary{OpPos: opTok.StartPosition, Op: opTok.Type, X: operand}
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	opTok := p.curToken
	precedence := p.currentPrecedence()
	if rightAssociative[opTok.Type] {
		precedence--
	}
	if err := p.nextToken(); err != nil {
		return nil
	}
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.Binary{X: left, OpPos: opTok.StartPosition, Op: opTok.Type, Y: right}
}

func (p *Parser) parseAssign(target ast.Expr) ast.Expr {
	opTok := p.curToken
	if !p.checkAssignmentTarget(target) {
		return nil
	}
	if err := p.nextToken(); err != nil {
		return nil
	}
	value := p.parseExpression(ASSIGN - 1)
	if value == nil {
		return nil
	}
	return &ast.Assign{Target: target, OpPos: opTok.StartPosition, Value: value}
}

// parseCompoundAssign parses "target op= value". The result is a Binary node
// whose operator is the compound operator.
func (p *Parser) parseCompoundAssign(target ast.Expr) ast.Expr {
	if !p.checkAssignmentTarget(target) {
		return nil
	}
	return p.parseBinary(target)
}

func (p *Parser) checkAssignmentTarget(target ast.Expr) bool {
	switch target.(type) {
	case *ast.Ident, *ast.PropertyAccess, *ast.ElementAccess:
		return true
	}
	p.addError(NewSyntaxError(ErrorOpts{
		Message:       "invalid assignment target",
		StartPosition: target.Pos(),
		EndPosition:   target.End(),
		SourceCode:    p.l.GetLineText(p.curToken),
	}))
	return false
}

func (p *Parser) parseParen() ast.Expr {
	lparen := p.curToken.StartPosition
	if err := p.nextToken(); err != nil {
		return nil
	}
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek("parenthesized expression", token.RPAREN) {
		return nil
	}
	return &ast.Paren{Lparen: lparen, X: expr, Rparen: p.curToken.StartPosition}
}

func (p *Parser) parseCall(fun ast.Expr) ast.Expr {
	lparen := p.curToken.StartPosition
	args := p.parseExprList("call arguments", token.RPAREN)
	if args == nil {
		return nil
	}
	return &ast.Call{Fun: fun, Lparen: lparen, Args: *args, Rparen: p.curToken.StartPosition}
}

func (p *Parser) parseNew() ast.Expr {
	newPos := p.curToken.StartPosition
	if err := p.nextToken(); err != nil {
		return nil
	}
	// The callee stops before the argument list: "new a.B(x)".
	fun := p.parseExpression(CALL)
	if fun == nil {
		return nil
	}
	node := &ast.New{NewPos: newPos, Fun: fun}
	if !p.peekTokenIs(token.LPAREN) {
		node.Lparen = fun.End()
		node.Rparen = fun.End().Advance(-1)
		return node
	}
	p.nextToken()
	node.Lparen = p.curToken.StartPosition
	args := p.parseExprList("constructor arguments", token.RPAREN)
	if args == nil {
		return nil
	}
	node.Args = *args
	node.Rparen = p.curToken.StartPosition
	return node
}

func (p *Parser) parsePropertyAccess(x ast.Expr) ast.Expr {
	period := p.curToken.StartPosition
	if err := p.nextToken(); err != nil {
		return nil
	}
	if !isIdentifierName(p.curToken) {
		p.peekError("property access", token.IDENT, p.curToken)
		return nil
	}
	return &ast.PropertyAccess{X: x, Period: period, Name: p.newIdent(p.curToken)}
}

func (p *Parser) parseElementAccess(x ast.Expr) ast.Expr {
	lbrack := p.curToken.StartPosition
	if err := p.nextToken(); err != nil {
		return nil
	}
	index := p.parseExpression(LOWEST)
	if index == nil {
		return nil
	}
	if !p.expectPeek("element access", token.RBRACKET) {
		return nil
	}
	return &ast.ElementAccess{X: x, Lbrack: lbrack, Index: index, Rbrack: p.curToken.StartPosition}
}

func (p *Parser) parseTaggedTemplate(tag ast.Expr) ast.Expr {
	tpl := p.parseTemplate()
	if tpl == nil {
		return nil
	}
	return &ast.TaggedTemplate{Tag: tag, Template: tpl}
}

func (p *Parser) parseFuncLit() ast.Expr {
	fn := &ast.FuncLit{Func: p.curToken.StartPosition}
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		fn.Name = p.newIdent(p.curToken)
	}
	params, body := p.parseFuncSignatureAndBody()
	if body == nil {
		return nil
	}
	fn.Params = params
	fn.Body = body
	return fn
}

// parseExprList parses a comma separated list of expressions with curToken on
// the opening delimiter. On success curToken is the closing delimiter. A nil
// result indicates an error.
func (p *Parser) parseExprList(context string, end token.Type) *[]ast.Expr {
	list := []ast.Expr{}
	if p.peekTokenIs(end) {
		p.nextToken()
		return &list
	}
	for {
		if err := p.nextToken(); err != nil {
			return nil
		}
		if p.curTokenIs(token.SPREAD) {
			p.setTokenError(p.curToken, "spread is only supported in object literals")
			return nil
		}
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		list = append(list, expr)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		// Trailing comma
		if p.peekTokenIs(end) {
			break
		}
	}
	if !p.expectPeek(context, end) {
		return nil
	}
	return &list
}

// isIdentifierName reports whether tok may be used as a property name after
// "." or before ":" in an object literal. Reserved words are allowed there.
func isIdentifierName(tok token.Token) bool {
	if tok.Type == token.IDENT {
		return true
	}
	return tok.Literal != "" && token.LookupIdentifier(tok.Literal) == tok.Type
}
