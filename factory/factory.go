// Package factory builds syntax nodes for lowering transformers.
//
// Every constructor takes the source position the new node should report,
// usually the position of the node being replaced, and computes the
// transform flags of the new node from its children. Use token.NoPos for
// nodes with no source counterpart.
package factory

import (
	"slices"

	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/internal/token"
)

func done[T ast.Node](node T) T {
	ast.ComputeFlags(node)
	return node
}

// Ident returns an identifier reference.
func Ident(name string, loc token.Position) *ast.Ident {
	return done(&ast.Ident{NamePos: loc, Name: name})
}

// Number returns a numeric literal with the given source text.
func Number(literal string, loc token.Position) *ast.Number {
	return done(&ast.Number{ValuePos: loc, Literal: literal})
}

// String returns a string literal with the given value.
func String(value string, loc token.Position) *ast.String {
	return done(&ast.String{ValuePos: loc, Value: value})
}

// Bool returns a boolean literal.
func Bool(value bool, loc token.Position) *ast.Bool {
	return done(&ast.Bool{ValuePos: loc, Value: value})
}

// Null returns a null literal.
func Null(loc token.Position) *ast.Null {
	return done(&ast.Null{NullPos: loc})
}

// This returns a "this" expression.
func This(loc token.Position) *ast.This {
	return done(&ast.This{ThisPos: loc})
}

// Binary returns "x op y".
func Binary(x ast.Expr, op token.Type, y ast.Expr, loc token.Position) *ast.Binary {
	return done(&ast.Binary{X: x, OpPos: loc, Op: op, Y: y})
}

// Assign returns "target = value". The target position is taken from the
// target itself.
func Assign(target, value ast.Expr, loc token.Position) *ast.Assign {
	return done(&ast.Assign{Target: target, OpPos: loc, Value: value})
}

// Paren wraps x in parentheses.
func Paren(x ast.Expr, loc token.Position) *ast.Paren {
	return done(&ast.Paren{Lparen: loc, X: x, Rparen: x.End()})
}

// Call returns "fun(args...)".
func Call(fun ast.Expr, args []ast.Expr, loc token.Position) *ast.Call {
	return done(&ast.Call{Fun: fun, Lparen: loc, Args: args, Rparen: loc})
}

// New returns "new fun(args...)".
func New(fun ast.Expr, args []ast.Expr, loc token.Position) *ast.New {
	return done(&ast.New{NewPos: loc, Fun: fun, Lparen: loc, Args: args, Rparen: loc})
}

// PropertyAccess returns "x.name", parenthesizing x when required.
func PropertyAccess(x ast.Expr, name string, loc token.Position) *ast.PropertyAccess {
	return done(&ast.PropertyAccess{
		X:      ParenthesizeForAccess(x),
		Period: loc,
		Name:   Ident(name, loc),
	})
}

// ElementAccess returns "x[index]", parenthesizing x when required.
func ElementAccess(x, index ast.Expr, loc token.Position) *ast.ElementAccess {
	return done(&ast.ElementAccess{
		X:      ParenthesizeForAccess(x),
		Lbrack: loc,
		Index:  index,
		Rbrack: index.End(),
	})
}

// ParenthesizeForAccess wraps expressions that cannot appear unparenthesized
// as the object of a member or element access, such as the assignment in
// "(_a = a).x".
func ParenthesizeForAccess(x ast.Expr) ast.Expr {
	switch x.(type) {
	case *ast.Assign, *ast.Binary, *ast.Unary, *ast.FuncLit, *ast.Number:
		return Paren(x, x.Pos())
	default:
		return x
	}
}

// ObjectLiteral returns "{ elements... }".
func ObjectLiteral(elements []ast.ObjectElement, loc token.Position) *ast.ObjectLiteral {
	return done(&ast.ObjectLiteral{Lbrace: loc, Elements: elements, Rbrace: loc})
}

// PropertyAssignment returns "name: value".
func PropertyAssignment(name ast.PropertyName, value ast.Expr) *ast.PropertyAssignment {
	return done(&ast.PropertyAssignment{Name: name, Colon: name.End(), Value: value})
}

// ComputedName returns "[x]" for use as a property name.
func ComputedName(x ast.Expr, loc token.Position) *ast.ComputedName {
	return done(&ast.ComputedName{Lbrack: loc, X: x, Rbrack: x.End()})
}

// ShorthandProperty returns the object element "{ name }".
func ShorthandProperty(name *ast.Ident) *ast.ShorthandProperty {
	return done(&ast.ShorthandProperty{Name: name})
}

// SpreadElement returns the object element "...x".
func SpreadElement(x ast.Expr, loc token.Position) *ast.SpreadElement {
	return done(&ast.SpreadElement{Ellipsis: loc, X: x})
}

// ArrayLiteral returns "[elements...]".
func ArrayLiteral(elements []ast.Expr, loc token.Position) *ast.ArrayLiteral {
	return done(&ast.ArrayLiteral{Lbrack: loc, Elements: elements, Rbrack: loc})
}

// FuncLit returns a function expression. name may be nil.
func FuncLit(name *ast.Ident, params []*ast.Ident, body *ast.Block, loc token.Position) *ast.FuncLit {
	return done(&ast.FuncLit{Func: loc, Name: name, Params: params, Body: body})
}

// Block returns "{ stmts... }".
func Block(stmts []ast.Stmt, loc token.Position) *ast.Block {
	return done(&ast.Block{Lbrace: loc, Stmts: stmts, Rbrace: loc})
}

// ExprStmt returns an expression statement.
func ExprStmt(x ast.Expr) *ast.ExprStmt {
	return done(&ast.ExprStmt{X: x})
}

// Return returns "return value;". value may be nil.
func Return(value ast.Expr, loc token.Position) *ast.Return {
	return done(&ast.Return{ReturnPos: loc, Value: value})
}

// Throw returns "throw value;".
func Throw(value ast.Expr, loc token.Position) *ast.Throw {
	return done(&ast.Throw{ThrowPos: loc, Value: value})
}

// VarBinding returns one "name = value" declaration entry. value may be nil.
func VarBinding(name *ast.Ident, value ast.Expr) *ast.VarBinding {
	return done(&ast.VarBinding{Name: name, Value: value})
}

// VarDecl returns a declaration statement of the given kind (VAR, LET or
// CONST).
func VarDecl(kind token.Type, bindings []*ast.VarBinding, loc token.Position) *ast.VarDecl {
	return done(&ast.VarDecl{Keyword: loc, Kind: kind, Bindings: bindings})
}

// HoistedVars returns "var a, b, c;" for the given identifiers.
func HoistedVars(names []*ast.Ident, loc token.Position) *ast.VarDecl {
	bindings := make([]*ast.VarBinding, 0, len(names))
	for _, name := range names {
		bindings = append(bindings, VarBinding(name, nil))
	}
	return VarDecl(token.VAR, bindings, loc)
}

// UpdateSourceFile returns a copy of file with the given statements and
// helpers. file is returned unchanged when neither differs.
func UpdateSourceFile(file *ast.SourceFile, stmts []ast.Stmt, helpers []string) *ast.SourceFile {
	if slices.Equal(file.Stmts, stmts) && slices.Equal(file.Helpers, helpers) {
		return file
	}
	return done(&ast.SourceFile{
		FileName: file.FileName,
		Stmts:    stmts,
		EOF:      file.EOF,
		Helpers:  helpers,
	})
}
