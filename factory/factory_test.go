package factory

import (
	"testing"

	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/internal/token"
	"github.com/stretchr/testify/require"
)

var loc = token.Position{Char: 10, Line: 2, Column: 4, File: "f.js"}

func TestPowCall(t *testing.T) {
	call := Call(
		PropertyAccess(Ident("Math", loc), "pow", loc),
		[]ast.Expr{Ident("a", loc), Number("2", loc)},
		loc,
	)
	require.Equal(t, "Math.pow(a, 2)", call.String())
	require.Equal(t, loc, call.Pos())
	require.Equal(t, ast.Inert, ast.Classify(call, ast.ES7))
}

func TestParenthesizeForAccess(t *testing.T) {
	tmp := Ident("_a", loc)
	target := PropertyAccess(Assign(tmp, Ident("a", loc), loc), "x", loc)
	require.Equal(t, "(_a = a).x", target.String())

	index := ElementAccess(
		Assign(Ident("_a", loc), Ident("a", loc), loc),
		Assign(Ident("_b", loc), Ident("x", loc), loc),
		loc,
	)
	require.Equal(t, "(_a = a)[_b = x]", index.String())

	require.Equal(t, "a.b.c", PropertyAccess(PropertyAccess(Ident("a", loc), "b", loc), "c", loc).String())
	require.Equal(t, "(1).x", PropertyAccess(Number("1", loc), "x", loc).String())
}

func TestFlagsFromChildren(t *testing.T) {
	pow := &ast.Binary{X: Ident("a", loc), Op: token.POW, Y: Ident("b", loc)}
	ast.ComputeFlags(pow)

	call := Call(Ident("f", loc), []ast.Expr{pow}, loc)
	require.Equal(t, ast.ContainsDescendant, ast.Classify(call, ast.ES7))

	spread := ObjectLiteral([]ast.ObjectElement{SpreadElement(Ident("s", loc), loc)}, loc)
	require.Equal(t, ast.NeedsSelf, ast.Classify(spread, ast.ES7))

	stmt := ExprStmt(Binary(Ident("a", loc), token.PLUS, Ident("b", loc), loc))
	require.Equal(t, ast.Inert, ast.Classify(stmt, ast.ES7))
}

func TestObjectLiteral(t *testing.T) {
	obj := ObjectLiteral([]ast.ObjectElement{
		PropertyAssignment(Ident("a", loc), Number("1", loc)),
		PropertyAssignment(ComputedName(Ident("k", loc), loc), String("v", loc)),
		ShorthandProperty(Ident("b", loc)),
	}, loc)
	require.Equal(t, `{ a: 1, [k]: "v", b }`, obj.String())
	require.Equal(t, "{}", ObjectLiteral(nil, loc).String())
}

func TestStatements(t *testing.T) {
	decl := HoistedVars([]*ast.Ident{Ident("_a", loc), Ident("_b", loc)}, loc)
	require.Equal(t, "var _a, _b;", decl.String())

	fn := FuncLit(nil, []*ast.Ident{Ident("x", loc)}, Block([]ast.Stmt{
		Return(Ident("x", loc), loc),
	}, loc), loc)
	require.Equal(t, "function(x) {\n    return x;\n}", fn.String())

	throw := Throw(New(Ident("Error", loc), []ast.Expr{String("bad", loc)}, loc), loc)
	require.Equal(t, `throw new Error("bad");`, throw.String())
	require.Equal(t, "let x = null;", VarDecl(token.LET, []*ast.VarBinding{VarBinding(Ident("x", loc), Null(loc))}, loc).String())
	require.Equal(t, "[true, this]", ArrayLiteral([]ast.Expr{Bool(true, loc), This(loc)}, loc).String())
}

func TestUpdateSourceFile(t *testing.T) {
	stmt := ExprStmt(Ident("a", loc))
	file := &ast.SourceFile{FileName: "f.js", Stmts: []ast.Stmt{stmt}}

	same := UpdateSourceFile(file, []ast.Stmt{stmt}, nil)
	require.Same(t, file, same)

	other := ExprStmt(Ident("b", loc))
	updated := UpdateSourceFile(file, []ast.Stmt{other}, []string{ast.AssignHelperName})
	require.NotSame(t, file, updated)
	require.Equal(t, "f.js", updated.FileName)
	require.True(t, updated.HasHelper(ast.AssignHelperName))
	require.Equal(t, "a;", file.String())
}
