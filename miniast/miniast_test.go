package miniast

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/errz"
	"github.com/risor-io/lowering/parser"
	"github.com/stretchr/testify/require"
)

func taggedTemplate(t *testing.T, src string) *ast.TaggedTemplate {
	t.Helper()
	file, err := parser.Parse(context.Background(), src)
	require.NoError(t, err)
	node := file.Stmts[0].(*ast.ExprStmt).X.(*ast.TaggedTemplate)
	return node
}

func TestBuildNoSubstitution(t *testing.T) {
	site := taggedTemplate(t, "Relay.QL`query { me }`")
	view := Build(site)
	require.Empty(t, view.Refs)

	root := view.Root
	require.Equal(t, TaggedTemplateExpression, root.Type)
	require.Equal(t, 0, root.Start)
	require.Equal(t, 22, root.End)

	require.Equal(t, MemberExpression, root.Tag.Type)
	require.Equal(t, "Relay", root.Tag.Object.Name)
	require.Equal(t, "QL", root.Tag.Property.Name)
	require.False(t, root.Tag.Computed)

	quasi := root.Quasi
	require.Equal(t, TemplateLiteral, quasi.Type)
	require.Empty(t, quasi.Expressions)
	require.Len(t, quasi.Quasis, 1)
	elem := quasi.Quasis[0]
	require.True(t, elem.Tail)
	require.Equal(t, "query { me }", elem.Value.Cooked)
	require.Equal(t, quasi.Start+1, elem.Start)
	require.Equal(t, quasi.End-1, elem.End)
}

func TestBuildWithSubstitutions(t *testing.T) {
	site := taggedTemplate(t, "Relay.QL`a ${x.y} b ${f()}`")
	view := Build(site)
	require.Len(t, view.Refs, 2)
	require.Equal(t, "x.y", view.Refs[0].String())
	require.Equal(t, "f()", view.Refs[1].String())

	quasi := view.Root.Quasi
	require.Len(t, quasi.Quasis, 3)
	require.Len(t, quasi.Expressions, 2)
	require.Equal(t, "a ", quasi.Quasis[0].Value.Cooked)
	require.False(t, quasi.Quasis[0].Tail)
	require.False(t, quasi.Quasis[1].Tail)
	require.True(t, quasi.Quasis[2].Tail)

	for i, expr := range quasi.Expressions {
		require.Equal(t, Ref, expr.Type)
		require.Equal(t, i, *expr.Ref)
	}
}

func TestBuildJSON(t *testing.T) {
	site := taggedTemplate(t, "Relay.QL`q`")
	data, err := json.Marshal(Build(site).Root)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "TaggedTemplateExpression", decoded["type"])
	quasi := decoded["quasi"].(map[string]any)
	require.Equal(t, []any{}, quasi["expressions"])
}

func TestBuildUnsupportedTag(t *testing.T) {
	site := taggedTemplate(t, "a[0]`q`")
	err := func() (err error) {
		defer errz.Recover(&err)
		Build(site)
		return nil
	}()
	require.Error(t, err)
	kind, ok := errz.KindOf(err)
	require.True(t, ok)
	require.Equal(t, errz.ErrContract, kind)
	require.Contains(t, err.Error(), "unexpected ElementAccess in macro call site")
}

func TestNewRequest(t *testing.T) {
	site := taggedTemplate(t, "Relay.QL`q`")
	req := NewRequest("src/app/query.js", site)
	require.Equal(t, "query.js", req.BaseName)
	require.Equal(t, "src/app/query.js", req.FileName)
	require.Same(t, site, req.Site)
}
