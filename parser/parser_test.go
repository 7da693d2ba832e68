package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/errz"
	"github.com/risor-io/lowering/internal/token"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, input string) ast.Stmt {
	t.Helper()
	file, err := Parse(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, file.Stmts, 1)
	return file.Stmts[0]
}

func parseExpr(t *testing.T, input string) ast.Expr {
	t.Helper()
	stmt, ok := parseOne(t, input).(*ast.ExprStmt)
	require.True(t, ok, "expected expression statement")
	return stmt.X
}

func TestRender(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a ** b", "a ** b;"},
		{"a ** b ** c", "a ** b ** c;"},
		{"x = y = 1", "x = y = 1;"},
		{"a.b[c] **= 2;", "a.b[c] **= 2;"},
		{"f(1, 'two', [3],)", "f(1, 'two', [3]);"},
		{"new Foo", "new Foo();"},
		{"new a.B(x)", "new a.B(x);"},
		{"typeof x === \"y\"", "typeof x === \"y\";"},
		{"(-a) ** 2", "(-a) ** 2;"},
		{"-(a ** 2)", "-(a ** 2);"},
		{"!a && b || c", "!a && b || c;"},
		{"this.x", "this.x;"},
		{"a.if.new", "a.if.new;"},
		{"var a = 1, b", "var a = 1, b;"},
		{"let x = null", "let x = null;"},
		{"const y = true", "const y = true;"},
		{"return", "return;"},
		{"return a", "return a;"},
		{"throw new Error('x')", "throw new Error('x');"},
		{"function f(a, b) { return a ** b }", "function f(a, b) {\n    return a ** b;\n}"},
		{"x = function () {}", "x = function() {};"},
		{"if (a) b; else { c }", "if (a) b; else {\n    c;\n}"},
		{"{}", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			file, err := Parse(context.Background(), tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.expected, file.String())
		})
	}
}

func TestObjectLiteral(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		spreads  bool
	}{
		{"x = {}", "{}", false},
		{"x = { a: 1, b }", "{ a: 1, b }", false},
		{"x = { 'a': 1, 2: b, [k]: c, }", "{ 'a': 1, 2: b, [k]: c }", false},
		{"x = { if: 1, new: 2 }", "{ if: 1, new: 2 }", false},
		{"x = { a: 1, ...{ b: 2 }, c: 3 }", "{ a: 1, ...{ b: 2 }, c: 3 }", true},
		{"x = { ...s1, ...s2 }", "{ ...s1, ...s2 }", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assign, ok := parseExpr(t, tt.input).(*ast.Assign)
			require.True(t, ok)
			obj, ok := assign.Value.(*ast.ObjectLiteral)
			require.True(t, ok)
			require.Equal(t, tt.expected, obj.String())
			require.Equal(t, tt.spreads, obj.HasSpread(len(obj.Elements)))
		})
	}
}

func TestObjectElementKinds(t *testing.T) {
	assign := parseExpr(t, "x = { a: 1, b, ...c, [d]: 2 }").(*ast.Assign)
	obj := assign.Value.(*ast.ObjectLiteral)
	require.Len(t, obj.Elements, 4)
	require.IsType(t, &ast.PropertyAssignment{}, obj.Elements[0])
	require.IsType(t, &ast.ShorthandProperty{}, obj.Elements[1])
	require.IsType(t, &ast.SpreadElement{}, obj.Elements[2])
	computed := obj.Elements[3].(*ast.PropertyAssignment)
	require.IsType(t, &ast.ComputedName{}, computed.Name)
}

func TestPrecedence(t *testing.T) {
	bin := parseExpr(t, "a * b ** c").(*ast.Binary)
	require.Equal(t, token.ASTERISK, bin.Op)
	require.Equal(t, token.POW, bin.Y.(*ast.Binary).Op)

	// ** is right associative
	bin = parseExpr(t, "a ** b ** c").(*ast.Binary)
	require.Equal(t, "a", bin.X.String())
	require.Equal(t, "b ** c", bin.Y.String())

	// compound assignment is a binary node with the compound operator
	bin = parseExpr(t, "a.x **= b + 1").(*ast.Binary)
	require.Equal(t, token.POW_EQUALS, bin.Op)
	require.IsType(t, &ast.PropertyAccess{}, bin.X)
	require.Equal(t, "b + 1", bin.Y.String())

	call := parseExpr(t, "a.b(c)[d]").(*ast.ElementAccess)
	require.Equal(t, "a.b(c)", call.X.String())
}

func TestTemplates(t *testing.T) {
	expr := parseExpr(t, "Relay.QL`query { a(id: ${id}) { ${f({x: 1})} } }`")
	tagged, ok := expr.(*ast.TaggedTemplate)
	require.True(t, ok)
	name, ok := ast.DottedName(tagged.Tag)
	require.True(t, ok)
	require.Equal(t, "Relay.QL", name)

	tpl := tagged.Template
	require.Equal(t, "query { a(id: ", tpl.Head.Raw)
	require.Len(t, tpl.Spans, 2)
	require.Equal(t, "id", tpl.Spans[0].X.String())
	require.Equal(t, token.TEMPLATE_MIDDLE, tpl.Spans[0].Literal.Kind)
	require.Equal(t, "f({ x: 1 })", tpl.Spans[1].X.String())
	require.True(t, tpl.Spans[1].Literal.IsTail())
	require.Equal(t, " } }", tpl.Spans[1].Literal.Raw)

	plain := parseExpr(t, "`a\\tb`").(*ast.TemplateLiteral)
	require.True(t, plain.NoSubstitution())
	require.Equal(t, `a\tb`, plain.Head.Raw)
	require.Equal(t, "a\tb", plain.Head.Cooked)
	require.Equal(t, 0, plain.Head.From.Char)
	require.Equal(t, 6, plain.Head.To.Char)
}

func TestStrings(t *testing.T) {
	str := parseExpr(t, `"a\nb"`).(*ast.String)
	require.Equal(t, "a\nb", str.Value)
	require.Equal(t, `"a\nb"`, str.Literal)
}

func TestPositions(t *testing.T) {
	file, err := Parse(context.Background(), "x = 1\ny = a ** b", WithFilename("main.js"))
	require.NoError(t, err)
	require.Equal(t, "main.js", file.FileName)
	require.Len(t, file.Stmts, 2)

	assign := file.Stmts[1].(*ast.ExprStmt).X.(*ast.Assign)
	pow := assign.Value.(*ast.Binary)
	require.Equal(t, 1, pow.Pos().Line)
	require.Equal(t, 4, pow.Pos().Column)
	require.Equal(t, 10, pow.End().Column)
	require.Equal(t, "main.js", pow.Pos().File)
}

func TestFlagsAnnotated(t *testing.T) {
	file, err := Parse(context.Background(), "function f() { return { ...a } }\ng(x ** 2)\nh(1)")
	require.NoError(t, err)
	require.Equal(t, ast.ContainsDescendant, ast.Classify(file.Stmts[0], ast.ES7))
	require.Equal(t, ast.ContainsDescendant, ast.Classify(file.Stmts[1], ast.ES7))
	require.Equal(t, ast.Inert, ast.Classify(file.Stmts[2], ast.ES7))

	pow := file.Stmts[1].(*ast.ExprStmt).X.(*ast.Call).Args[0]
	require.Equal(t, ast.NeedsSelf, ast.Classify(pow, ast.ES7))
	require.Equal(t, ast.Inert, ast.Classify(pow, ast.MacroExpansion))
}

func TestStatementSeparators(t *testing.T) {
	file, err := Parse(context.Background(), "a;;b\nc; if (x) { y } z")
	require.NoError(t, err)
	var out []string
	for _, s := range file.Stmts {
		out = append(out, s.String())
	}
	require.Equal(t, []string{"a;", "b;", "c;", "if (x) {\n    y;\n}", "z;"}, out)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		input string
		err   string
	}{
		{"-a ** b", "unary operator used immediately before exponentiation expression; use parentheses"},
		{"1 = a", "invalid assignment target"},
		{"f() **= 2", "invalid assignment target"},
		{"const a", "missing initializer in const declaration"},
		{"f(...a)", "spread is only supported in object literals"},
		{"[...a]", "spread is only supported in object literals"},
		{"a b", `unexpected token "b" following statement`},
		{"x = {a: }", `invalid syntax (unexpected "}")`},
		{"x = (1", "unexpected end of file while parsing parenthesized expression (expected ))"},
		{"throw\nx", "line break is not permitted after throw"},
		{"`a ${b`", "unterminated template literal"},
		{"x = #", "unexpected character '#'"},
		{"{ a", "unterminated block (expected })"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(context.Background(), tt.input)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.err)
			for _, se := range SyntaxErrors(err) {
				require.Equal(t, errz.ErrSyntax, se.Kind)
			}
		})
	}
}

func TestMultipleErrors(t *testing.T) {
	file, err := Parse(context.Background(), "1 = a\nb\n2 = c\nlet d = 1")
	require.Error(t, err)
	errs := SyntaxErrors(err)
	require.Len(t, errs, 2)
	require.Equal(t, 1, errs[0].Location.Line)
	require.Equal(t, 3, errs[1].Location.Line)
	require.Contains(t, err.Error(), "(and 1 more errors)")

	// The statements that parsed are kept.
	require.NotNil(t, file)
	require.Len(t, file.Stmts, 2)
}

func TestMaxErrors(t *testing.T) {
	input := strings.Repeat("1 = a\n", MaxErrors+5)
	_, err := Parse(context.Background(), input)
	require.Len(t, SyntaxErrors(err), MaxErrors)
}

func TestMaxDepth(t *testing.T) {
	input := strings.Repeat("(", 50) + "a" + strings.Repeat(")", 50)
	_, err := Parse(context.Background(), input, WithMaxDepth(20))
	require.Error(t, err)
	require.Contains(t, err.Error(), "maximum nesting depth exceeded")

	_, err = Parse(context.Background(), input)
	require.NoError(t, err)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, "a")
	require.ErrorIs(t, err, context.Canceled)
}

func TestFriendlyErrorMessage(t *testing.T) {
	_, err := Parse(context.Background(), "x = 1\ny = -a ** b", WithFilename("f.js"))
	errs := SyntaxErrors(err)
	require.Len(t, errs, 1)
	require.Equal(t, "f.js", errs[0].Location.Filename)
	require.Equal(t, "y = -a ** b", errs[0].Location.Source)
	require.Contains(t, errs[0].FriendlyErrorMessage(), "y = -a ** b")
}
