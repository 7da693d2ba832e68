package macro

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/factory"
	"github.com/risor-io/lowering/internal/token"
)

// Replacement node types accepted from a macro.
const (
	Identifier          = "Identifier"
	Literal             = "Literal"
	NullLiteral         = "NullLiteral"
	NewExpression       = "NewExpression"
	CallExpression      = "CallExpression"
	ArrayExpression     = "ArrayExpression"
	ObjectExpression    = "ObjectExpression"
	ObjectProperty      = "ObjectProperty"
	MemberExpression    = "MemberExpression"
	FunctionExpression  = "FunctionExpression"
	BlockStatement      = "BlockStatement"
	ReturnStatement     = "ReturnStatement"
	ThrowStatement      = "ThrowStatement"
	ExpressionStatement = "ExpressionStatement"
	Ref                 = "Ref"
)

// Node is one node of a replacement tree. Body is a BlockStatement object in
// a FunctionExpression and a statement array in a BlockStatement.
type Node struct {
	Type string `json:"type"`

	Name  string          `json:"name,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`

	Callee    *Node   `json:"callee,omitempty"`
	Arguments []*Node `json:"arguments,omitempty"`

	Elements   []*Node `json:"elements,omitempty"`
	Properties []*Node `json:"properties,omitempty"`
	Key        *Node   `json:"key,omitempty"`

	Object   *Node `json:"object,omitempty"`
	Property *Node `json:"property,omitempty"`
	Computed bool  `json:"computed,omitempty"`

	ID     *Node           `json:"id,omitempty"`
	Params []*Node         `json:"params,omitempty"`
	Body   json.RawMessage `json:"body,omitempty"`

	Argument   *Node `json:"argument,omitempty"`
	Expression *Node `json:"expression,omitempty"`

	Ref *int `json:"ref,omitempty"`
}

type decoder struct {
	refs []ast.Expr
	loc  token.Position
}

func (d *decoder) expr(n *Node) (ast.Expr, error) {
	if n == nil {
		return nil, fmt.Errorf("missing expression")
	}
	switch n.Type {
	case Identifier:
		return d.ident(n)
	case Literal:
		return d.literal(n)
	case NullLiteral:
		return factory.Null(d.loc), nil
	case Ref:
		if n.Ref == nil || *n.Ref < 0 || *n.Ref >= len(d.refs) {
			return nil, fmt.Errorf("invalid ref in macro output")
		}
		return d.refs[*n.Ref], nil
	case NewExpression, CallExpression:
		callee, err := d.expr(n.Callee)
		if err != nil {
			return nil, err
		}
		args, err := d.exprs(n.Arguments)
		if err != nil {
			return nil, err
		}
		if n.Type == NewExpression {
			return factory.New(callee, args, d.loc), nil
		}
		return factory.Call(callee, args, d.loc), nil
	case ArrayExpression:
		elems, err := d.exprs(n.Elements)
		if err != nil {
			return nil, err
		}
		return factory.ArrayLiteral(elems, d.loc), nil
	case ObjectExpression:
		elems := make([]ast.ObjectElement, 0, len(n.Properties))
		for _, p := range n.Properties {
			e, err := d.property(p)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		return factory.ObjectLiteral(elems, d.loc), nil
	case MemberExpression:
		return d.member(n)
	case FunctionExpression:
		return d.function(n)
	case "":
		return nil, fmt.Errorf("macro output node has no type")
	default:
		return nil, fmt.Errorf("unsupported expression type %q in macro output", n.Type)
	}
}

func (d *decoder) exprs(nodes []*Node) ([]ast.Expr, error) {
	out := make([]ast.Expr, 0, len(nodes))
	for _, n := range nodes {
		x, err := d.expr(n)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func (d *decoder) ident(n *Node) (*ast.Ident, error) {
	if n == nil || n.Type != Identifier {
		return nil, fmt.Errorf("expected %s in macro output", Identifier)
	}
	if n.Name == "" {
		return nil, fmt.Errorf("identifier without a name in macro output")
	}
	return factory.Ident(n.Name, d.loc), nil
}

// literal decodes the JSON value of a Literal node. Numbers keep their JSON
// spelling.
func (d *decoder) literal(n *Node) (ast.Expr, error) {
	raw := bytes.TrimSpace(n.Value)
	if len(raw) == 0 {
		return nil, fmt.Errorf("literal without a value in macro output")
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return factory.String(s, d.loc), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return factory.Bool(b, d.loc), nil
	case 'n':
		return factory.Null(d.loc), nil
	default:
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			return nil, fmt.Errorf("unsupported literal value %s in macro output", raw)
		}
		return factory.Number(num.String(), d.loc), nil
	}
}

// property decodes an ObjectProperty. Identifier keys are written bare and
// literal keys as strings or numbers.
func (d *decoder) property(n *Node) (ast.ObjectElement, error) {
	if n == nil || n.Type != ObjectProperty {
		return nil, fmt.Errorf("expected %s in macro output", ObjectProperty)
	}
	var (
		name ast.PropertyName
		err  error
	)
	switch {
	case n.Key == nil && n.Name != "":
		name = factory.Ident(n.Name, d.loc)
	case n.Key == nil:
		return nil, fmt.Errorf("object property without a key in macro output")
	case n.Computed:
		var x ast.Expr
		if x, err = d.expr(n.Key); err == nil {
			name = factory.ComputedName(x, d.loc)
		}
	case n.Key.Type == Identifier:
		name, err = d.ident(n.Key)
	case n.Key.Type == Literal:
		var x ast.Expr
		if x, err = d.literal(n.Key); err == nil {
			pn, ok := x.(ast.PropertyName)
			if !ok {
				return nil, fmt.Errorf("unsupported property key %s in macro output", n.Key.Value)
			}
			name = pn
		}
	default:
		return nil, fmt.Errorf("unsupported property key type %q in macro output", n.Key.Type)
	}
	if err != nil {
		return nil, err
	}
	var valueNode *Node
	if len(n.Value) > 0 {
		valueNode = &Node{}
		if err := json.Unmarshal(n.Value, valueNode); err != nil {
			return nil, fmt.Errorf("invalid property value in macro output: %w", err)
		}
	}
	value, err := d.expr(valueNode)
	if err != nil {
		return nil, err
	}
	return factory.PropertyAssignment(name, value), nil
}

// member decodes a MemberExpression. A non-computed identifier property is a
// property access; anything else is an element access.
func (d *decoder) member(n *Node) (ast.Expr, error) {
	object, err := d.expr(n.Object)
	if err != nil {
		return nil, err
	}
	if n.Property == nil {
		return nil, fmt.Errorf("member expression without a property in macro output")
	}
	if !n.Computed && n.Property.Type == Identifier {
		prop, err := d.ident(n.Property)
		if err != nil {
			return nil, err
		}
		return factory.PropertyAccess(object, prop.Name, d.loc), nil
	}
	index, err := d.expr(n.Property)
	if err != nil {
		return nil, err
	}
	return factory.ElementAccess(object, index, d.loc), nil
}

func (d *decoder) function(n *Node) (ast.Expr, error) {
	var name *ast.Ident
	if n.ID != nil {
		id, err := d.ident(n.ID)
		if err != nil {
			return nil, err
		}
		name = id
	}
	params := make([]*ast.Ident, 0, len(n.Params))
	for _, p := range n.Params {
		id, err := d.ident(p)
		if err != nil {
			return nil, err
		}
		params = append(params, id)
	}
	var body Node
	if len(n.Body) == 0 {
		return nil, fmt.Errorf("function expression without a body in macro output")
	}
	if err := json.Unmarshal(n.Body, &body); err != nil {
		return nil, fmt.Errorf("invalid function body in macro output: %w", err)
	}
	block, err := d.block(&body)
	if err != nil {
		return nil, err
	}
	return factory.FuncLit(name, params, block, d.loc), nil
}

func (d *decoder) block(n *Node) (*ast.Block, error) {
	if n.Type != BlockStatement {
		return nil, fmt.Errorf("expected %s in macro output", BlockStatement)
	}
	var nodes []*Node
	if len(n.Body) > 0 {
		if err := json.Unmarshal(n.Body, &nodes); err != nil {
			return nil, fmt.Errorf("invalid block body in macro output: %w", err)
		}
	}
	stmts := make([]ast.Stmt, 0, len(nodes))
	for _, s := range nodes {
		stmt, err := d.stmt(s)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return factory.Block(stmts, d.loc), nil
}

func (d *decoder) stmt(n *Node) (ast.Stmt, error) {
	if n == nil {
		return nil, fmt.Errorf("missing statement")
	}
	switch n.Type {
	case BlockStatement:
		return d.block(n)
	case ReturnStatement:
		if n.Argument == nil {
			return factory.Return(nil, d.loc), nil
		}
		x, err := d.expr(n.Argument)
		if err != nil {
			return nil, err
		}
		return factory.Return(x, d.loc), nil
	case ThrowStatement:
		x, err := d.expr(n.Argument)
		if err != nil {
			return nil, err
		}
		return factory.Throw(x, d.loc), nil
	case ExpressionStatement:
		x, err := d.expr(n.Expression)
		if err != nil {
			return nil, err
		}
		return factory.ExprStmt(x), nil
	default:
		return nil, fmt.Errorf("unsupported statement type %q in macro output", n.Type)
	}
}
