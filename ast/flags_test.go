package ast

import (
	"testing"

	"github.com/risor-io/lowering/internal/token"
	"github.com/stretchr/testify/require"
)

func TestAnnotateExponentiation(t *testing.T) {
	pow := &Binary{X: ident("a"), Op: token.POW, Y: num("2")}
	call := &Call{Fun: ident("f"), Args: []Expr{pow}}
	stmt := &ExprStmt{X: call}
	file := &SourceFile{Stmts: []Stmt{stmt, &ExprStmt{X: ident("b")}}}

	Annotate(file)

	require.Equal(t, NeedsSelf, Classify(pow, ES7))
	require.Equal(t, ContainsDescendant, Classify(call, ES7))
	require.Equal(t, ContainsDescendant, Classify(file, ES7))
	require.Equal(t, Inert, Classify(file.Stmts[1], ES7))
	require.Equal(t, Inert, Classify(file, MacroExpansion))
}

func TestAnnotateSpread(t *testing.T) {
	plain := &ObjectLiteral{Elements: []ObjectElement{
		&PropertyAssignment{Name: ident("a"), Value: num("1")},
	}}
	spread := &ObjectLiteral{Elements: []ObjectElement{
		&SpreadElement{X: ident("s")},
	}}
	outer := &ObjectLiteral{Elements: []ObjectElement{
		&PropertyAssignment{Name: ident("inner"), Value: spread},
	}}
	Annotate(plain)
	Annotate(outer)

	require.Equal(t, Inert, Classify(plain, ES7))
	require.Equal(t, NeedsSelf, Classify(spread, ES7))
	require.Equal(t, ContainsDescendant, Classify(outer, ES7))
}

func TestAnnotateMacro(t *testing.T) {
	tagged := &TaggedTemplate{
		Tag: &PropertyAccess{X: ident("Relay"), Name: ident("QL")},
		Template: &TemplateLiteral{
			Head: &TemplatePart{Kind: token.TEMPLATE_HEAD, Raw: "q "},
			Spans: []*TemplateSpan{{
				X:       &Binary{X: ident("a"), Op: token.POW, Y: num("2")},
				Literal: &TemplatePart{Kind: token.TEMPLATE_TAIL},
			}},
		},
	}
	ret := &Return{Value: tagged}
	Annotate(ret)

	require.Equal(t, NeedsSelf, Classify(tagged, MacroExpansion))
	require.Equal(t, ContainsDescendant, Classify(tagged, ES7))
	require.Equal(t, ContainsDescendant, Classify(ret, MacroExpansion))
	require.Equal(t, Macro|ContainsExponentiation, tagged.TransformFlags())
	require.Equal(t, ContainsMacro|ContainsExponentiation, ret.TransformFlags())
}

func TestAnnotateIdempotent(t *testing.T) {
	node := &Assign{Target: ident("x"), Value: &Binary{X: ident("a"), Op: token.POW_EQUALS, Y: num("2")}}
	first := Annotate(node)
	second := Annotate(node)
	require.Equal(t, first, second)
	require.Equal(t, ContainsExponentiation, first)
}

func TestClassificationString(t *testing.T) {
	require.Equal(t, "needs-self", NeedsSelf.String())
	require.Equal(t, "contains-descendant", ContainsDescendant.String())
	require.Equal(t, "inert", Inert.String())
}
