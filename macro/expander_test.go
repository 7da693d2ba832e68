package macro

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/miniast"
	"github.com/risor-io/lowering/parser"
	"github.com/risor-io/lowering/transform"
	"github.com/stretchr/testify/require"
)

func callSite(t *testing.T, src string) *ast.TaggedTemplate {
	t.Helper()
	file, err := parser.Parse(context.Background(), src, parser.WithFilename("app.js"))
	require.NoError(t, err)
	var site *ast.TaggedTemplate
	ast.Inspect(file, func(n ast.Node) bool {
		if tt, ok := n.(*ast.TaggedTemplate); ok && site == nil {
			site = tt
		}
		return true
	})
	require.NotNil(t, site)
	return site
}

// respond returns a runner that answers every request with output.
func respond(output string) RunnerFunc {
	return func(ctx context.Context, input []byte) ([]byte, error) {
		return []byte(output), nil
	}
}

func expand(t *testing.T, runner Runner, src string) (ast.Expr, error) {
	t.Helper()
	req := miniast.NewRequest("src/app.js", callSite(t, src))
	return NewExpander(runner).ExpandMacro(context.Background(), []byte(`{"types":[]}`), req)
}

func TestExpanderRequest(t *testing.T) {
	var got Request
	runner := RunnerFunc(func(ctx context.Context, input []byte) ([]byte, error) {
		require.NoError(t, json.Unmarshal(input, &got))
		return []byte(`{"node":{"type":"NullLiteral"}}`), nil
	})
	out, err := expand(t, runner, "q = Relay.QL`query { ${frag} }`")
	require.NoError(t, err)
	require.Equal(t, "null", out.String())

	require.JSONEq(t, `{"types":[]}`, string(got.Schema))
	require.Equal(t, FileInfo{Filename: "src/app.js", Basename: "app.js"}, got.File)
	require.Equal(t, miniast.TaggedTemplateExpression, got.Node.Type)
	require.Equal(t, miniast.MemberExpression, got.Node.Tag.Type)
	require.Len(t, got.Node.Quasi.Quasis, 2)
	require.Equal(t, miniast.Ref, got.Node.Quasi.Expressions[0].Type)
	require.Equal(t, 0, *got.Node.Quasi.Expressions[0].Ref)
}

func TestExpanderDecodesReplacement(t *testing.T) {
	output := `{"node": {
		"type": "CallExpression",
		"callee": {"type": "MemberExpression",
			"object": {"type": "Identifier", "name": "Relay"},
			"property": {"type": "Identifier", "name": "createQuery"}},
		"arguments": [
			{"type": "FunctionExpression", "id": null,
				"params": [{"type": "Identifier", "name": "RQL_0"}],
				"body": {"type": "BlockStatement", "body": [
					{"type": "ReturnStatement", "argument": {
						"type": "NewExpression",
						"callee": {"type": "MemberExpression",
							"object": {"type": "Identifier", "name": "Relay"},
							"property": {"type": "Identifier", "name": "Query"}},
						"arguments": [
							{"type": "Literal", "value": "node"},
							{"type": "ArrayExpression", "elements": [
								{"type": "Ref", "ref": 0},
								{"type": "Literal", "value": 1.5},
								{"type": "Literal", "value": true},
								{"type": "NullLiteral"}
							]}
						]}}
				]}},
			{"type": "ObjectExpression", "properties": [
				{"type": "ObjectProperty", "key": {"type": "Identifier", "name": "id"}, "value": {"type": "Ref", "ref": 0}},
				{"type": "ObjectProperty", "key": {"type": "Literal", "value": "a-b"},
					"value": {"type": "MemberExpression", "computed": true,
						"object": {"type": "Identifier", "name": "x"},
						"property": {"type": "Literal", "value": 0}}}
			]}
		]}}`
	site := callSite(t, "q = Relay.QL`node(id: ${id})`")
	req := miniast.NewRequest("app.js", site)
	out, err := NewExpander(respond(output)).ExpandMacro(context.Background(), nil, req)
	require.NoError(t, err)
	require.Equal(t,
		"Relay.createQuery(function(RQL_0) {\n    return new Relay.Query(\"node\", [id, 1.5, true, null]);\n}, { id: id, \"a-b\": x[0] })",
		out.String())
	require.Equal(t, site.Pos(), out.Pos())

	// Refs are the original interpolated expressions.
	args := out.(*ast.Call).Args
	prop := args[1].(*ast.ObjectLiteral).Elements[0].(*ast.PropertyAssignment)
	require.Same(t, req.View.Refs[0], prop.Value)
}

func TestExpanderStatements(t *testing.T) {
	output := `{"node": {"type": "FunctionExpression", "id": {"type": "Identifier", "name": "f"},
		"body": {"type": "BlockStatement", "body": [
			{"type": "ExpressionStatement", "expression": {"type": "CallExpression",
				"callee": {"type": "Identifier", "name": "g"}}},
			{"type": "BlockStatement", "body": []},
			{"type": "ThrowStatement", "argument": {"type": "NewExpression",
				"callee": {"type": "Identifier", "name": "Error"},
				"arguments": [{"type": "Literal", "value": "bad"}]}},
			{"type": "ReturnStatement"}
		]}}}`
	out, err := expand(t, respond(output), "Relay.QL`q`")
	require.NoError(t, err)
	require.Equal(t,
		"function f() {\n    g();\n    {}\n    throw new Error(\"bad\");\n    return;\n}",
		out.String())
}

func TestExpanderErrors(t *testing.T) {
	runFailed := errors.New("plugin crashed")
	tests := []struct {
		name   string
		runner Runner
		msg    string
	}{
		{"runner error", RunnerFunc(func(context.Context, []byte) ([]byte, error) { return nil, runFailed }), "plugin crashed"},
		{"no output", respond(""), "macro produced no output"},
		{"invalid json", respond(`{"node":`), "invalid macro response"},
		{"macro error", respond(`{"error":"Unknown field 'nam' on type 'User'"}`), "Unknown field 'nam' on type 'User'"},
		{"no node", respond(`{}`), "macro response has no node"},
		{"no type", respond(`{"node":{"name":"x"}}`), "macro output node has no type"},
		{"unsupported", respond(`{"node":{"type":"SequenceExpression"}}`), `unsupported expression type "SequenceExpression"`},
		{"bad ref", respond(`{"node":{"type":"Ref","ref":3}}`), "invalid ref in macro output"},
		{"object literal value", respond(`{"node":{"type":"Literal","value":{"a":1}}}`), `unsupported literal value {"a":1}`},
		{"missing callee", respond(`{"node":{"type":"CallExpression"}}`), "missing expression"},
		{"nameless identifier", respond(`{"node":{"type":"Identifier"}}`), "identifier without a name"},
		{"function without body", respond(`{"node":{"type":"FunctionExpression"}}`), "function expression without a body"},
		{"bad statement", respond(`{"node":{"type":"FunctionExpression","body":{"type":"BlockStatement","body":[{"type":"IfStatement"}]}}}`), `unsupported statement type "IfStatement"`},
		{"bad key", respond(`{"node":{"type":"ObjectExpression","properties":[{"type":"ObjectProperty","key":{"type":"Literal","value":true},"value":{"type":"NullLiteral"}}]}}`), "unsupported property key true"},
		{"not a property", respond(`{"node":{"type":"ObjectExpression","properties":[{"type":"Identifier","name":"x"}]}}`), "expected ObjectProperty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := expand(t, tt.runner, "Relay.QL`q ${a}`")
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.msg)
		})
	}

	_, err := expand(t, tests[0].runner, "Relay.QL`q`")
	require.ErrorIs(t, err, runFailed)
}

func TestExpanderInPipeline(t *testing.T) {
	schemas := NewSchemaCache(WithFetcher("", FetcherFunc(func(ctx context.Context, location string) ([]byte, error) {
		require.Equal(t, "/work/schema.json", location)
		return []byte(`{}`), nil
	})))
	runner := RunnerFunc(func(ctx context.Context, input []byte) ([]byte, error) {
		var req Request
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, err
		}
		text := req.Node.Quasi.Quasis[0].Value.Cooked
		return json.Marshal(map[string]any{"node": map[string]any{
			"type":      "CallExpression",
			"callee":    map[string]any{"type": "Identifier", "name": "gql"},
			"arguments": []any{map[string]any{"type": "Literal", "value": text}},
		}})
	})
	host := &transform.StaticHost{
		Directory: "/work",
		Opts: transform.Options{
			MacroSchema: "schema.json",
			Schemas:     schemas,
			Expander:    NewExpander(runner),
		},
	}
	file, err := parser.Parse(context.Background(), "a = Relay.QL`first`\nb = { ...Relay.QL`second` }")
	require.NoError(t, err)
	out, err := transform.Transform(context.Background(), host, file, transform.DefaultTransformers()...)
	require.NoError(t, err)
	require.Len(t, out.Stmts, 2)
	require.Equal(t, `a = gql("first");`, out.Stmts[0].String())
	require.Equal(t, `b = __assign({}, gql("second"));`, out.Stmts[1].String())
	require.Equal(t, 1, schemas.Len())
}
