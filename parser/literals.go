package parser

import (
	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/internal/lexer"
	"github.com/risor-io/lowering/internal/token"
)

func (p *Parser) parseNumber() ast.Expr {
	return &ast.Number{ValuePos: p.curToken.StartPosition, Literal: p.curToken.Literal}
}

func (p *Parser) parseString() ast.Expr {
	value, err := lexer.Unquote(p.curToken.Literal)
	if err != nil {
		p.addError(NewSyntaxError(ErrorOpts{
			Cause:         err,
			StartPosition: p.curToken.StartPosition,
			EndPosition:   p.curToken.EndPosition,
			SourceCode:    p.l.GetLineText(p.curToken),
		}))
		return nil
	}
	return &ast.String{ValuePos: p.curToken.StartPosition, Literal: p.curToken.Literal, Value: value}
}

func (p *Parser) parseBool() ast.Expr {
	return &ast.Bool{ValuePos: p.curToken.StartPosition, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNull() ast.Expr {
	return &ast.Null{NullPos: p.curToken.StartPosition}
}

func (p *Parser) parseThis() ast.Expr {
	return &ast.This{ThisPos: p.curToken.StartPosition}
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	lbrack := p.curToken.StartPosition
	items := p.parseExprList("array literal", token.RBRACKET)
	if items == nil {
		return nil
	}
	return &ast.ArrayLiteral{Lbrack: lbrack, Elements: *items, Rbrack: p.curToken.StartPosition}
}

func (p *Parser) parseObjectLiteral() ast.Expr {
	obj := &ast.ObjectLiteral{Lbrace: p.curToken.StartPosition}
	for !p.peekTokenIs(token.RBRACE) {
		if err := p.nextToken(); err != nil {
			return nil
		}
		elem := p.parseObjectElement()
		if elem == nil {
			return nil
		}
		obj.Elements = append(obj.Elements, elem)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek("object literal", token.RBRACE) {
		return nil
	}
	obj.Rbrace = p.curToken.StartPosition
	return obj
}

func (p *Parser) parseObjectElement() ast.ObjectElement {
	switch {
	case p.curTokenIs(token.SPREAD):
		ellipsis := p.curToken.StartPosition
		if err := p.nextToken(); err != nil {
			return nil
		}
		x := p.parseExpression(ASSIGN - 1)
		if x == nil {
			return nil
		}
		return &ast.SpreadElement{Ellipsis: ellipsis, X: x}
	case p.curTokenIs(token.LBRACKET):
		lbrack := p.curToken.StartPosition
		if err := p.nextToken(); err != nil {
			return nil
		}
		x := p.parseExpression(LOWEST)
		if x == nil {
			return nil
		}
		if !p.expectPeek("computed property name", token.RBRACKET) {
			return nil
		}
		name := &ast.ComputedName{Lbrack: lbrack, X: x, Rbrack: p.curToken.StartPosition}
		return p.parsePropertyValue(name)
	case p.curTokenIs(token.STRING):
		name, ok := p.parseString().(*ast.String)
		if !ok {
			return nil
		}
		return p.parsePropertyValue(name)
	case p.curTokenIs(token.NUMBER):
		return p.parsePropertyValue(&ast.Number{ValuePos: p.curToken.StartPosition, Literal: p.curToken.Literal})
	case isIdentifierName(p.curToken):
		name := p.newIdent(p.curToken)
		if p.curTokenIs(token.IDENT) && (p.peekTokenIs(token.COMMA) || p.peekTokenIs(token.RBRACE)) {
			return &ast.ShorthandProperty{Name: name}
		}
		return p.parsePropertyValue(name)
	}
	p.setTokenError(p.curToken, "unexpected %s in object literal", tokenDescription(p.curToken))
	return nil
}

// parsePropertyValue parses ": value" after a property name.
func (p *Parser) parsePropertyValue(name ast.PropertyName) ast.ObjectElement {
	if !p.expectPeek("object literal", token.COLON) {
		return nil
	}
	colon := p.curToken.StartPosition
	if err := p.nextToken(); err != nil {
		return nil
	}
	value := p.parseExpression(ASSIGN - 1)
	if value == nil {
		return nil
	}
	return &ast.PropertyAssignment{Name: name, Colon: colon, Value: value}
}

func (p *Parser) parseTemplateExpr() ast.Expr {
	tpl := p.parseTemplate()
	if tpl == nil {
		return nil
	}
	return tpl
}

// parseTemplate parses a template starting at a NO_SUBSTITUTION_TPL or
// TEMPLATE_HEAD token. On success curToken is the last part of the template.
func (p *Parser) parseTemplate() *ast.TemplateLiteral {
	head := p.templatePart()
	if head == nil {
		return nil
	}
	tpl := &ast.TemplateLiteral{Head: head}
	if head.Kind == token.NO_SUBSTITUTION_TPL {
		return tpl
	}
	for {
		if err := p.nextToken(); err != nil {
			return nil
		}
		x := p.parseExpression(LOWEST)
		if x == nil {
			return nil
		}
		if err := p.nextToken(); err != nil {
			return nil
		}
		if !p.curTokenIs(token.TEMPLATE_MIDDLE) && !p.curTokenIs(token.TEMPLATE_TAIL) {
			p.setTokenError(p.curToken, "unexpected %s in template substitution (expected })",
				tokenDescription(p.curToken))
			return nil
		}
		part := p.templatePart()
		if part == nil {
			return nil
		}
		tpl.Spans = append(tpl.Spans, &ast.TemplateSpan{X: x, Literal: part})
		if part.Kind == token.TEMPLATE_TAIL {
			return tpl
		}
	}
}

func (p *Parser) templatePart() *ast.TemplatePart {
	cooked, err := lexer.Cook(p.curToken.Literal)
	if err != nil {
		p.addError(NewSyntaxError(ErrorOpts{
			Cause:         err,
			StartPosition: p.curToken.StartPosition,
			EndPosition:   p.curToken.EndPosition,
			SourceCode:    p.l.GetLineText(p.curToken),
		}))
		return nil
	}
	return &ast.TemplatePart{
		Kind:   p.curToken.Type,
		From:   p.curToken.StartPosition,
		To:     p.curToken.EndPosition,
		Raw:    p.curToken.Literal,
		Cooked: cooked,
	}
}
