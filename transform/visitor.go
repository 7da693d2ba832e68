package transform

import (
	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/errz"
	"github.com/risor-io/lowering/factory"
)

// Visitor returns the replacement for a node, or the node itself.
type Visitor func(ast.Node) ast.Node

// Guard checks the kind of a visitor result.
type Guard func(ast.Node) bool

// IsExpr accepts expressions.
func IsExpr(n ast.Node) bool { _, ok := n.(ast.Expr); return ok }

// IsStmt accepts statements.
func IsStmt(n ast.Node) bool { _, ok := n.(ast.Stmt); return ok }

// IsObjectElement accepts object literal elements.
func IsObjectElement(n ast.Node) bool { _, ok := n.(ast.ObjectElement); return ok }

// IsPropertyName accepts property names.
func IsPropertyName(n ast.Node) bool { _, ok := n.(ast.PropertyName); return ok }

// VisitNode passes node through visit and checks the result with guard. A
// nil node is returned as nil. A result rejected by guard is a contract
// violation.
func VisitNode(node ast.Node, visit Visitor, guard Guard) ast.Node {
	if node == nil {
		return nil
	}
	out := visit(node)
	if out == nil || (guard != nil && !guard(out)) {
		errz.Contractf(node.Pos(), node.End(), "visitor returned %s for %s", kindOf(out), ast.Kind(node))
	}
	return out
}

func kindOf(n ast.Node) string {
	if n == nil {
		return "nothing"
	}
	return ast.Kind(n)
}

func visitExpr(x ast.Expr, visit Visitor) ast.Expr {
	if x == nil {
		return nil
	}
	return VisitNode(x, visit, IsExpr).(ast.Expr)
}

func visitStmt(s ast.Stmt, visit Visitor) ast.Stmt {
	if s == nil {
		return nil
	}
	return VisitNode(s, visit, IsStmt).(ast.Stmt)
}

// visitList visits each element of list. The input slice is returned when no
// element changed.
func visitList[T ast.Node](list []T, visit Visitor, guard Guard) []T {
	var out []T
	for i, item := range list {
		v := VisitNode(item, visit, guard).(T)
		if out == nil {
			if ast.Node(v) == ast.Node(item) {
				continue
			}
			out = make([]T, len(list))
			copy(out, list[:i])
		}
		out[i] = v
	}
	if out == nil {
		return list
	}
	return out
}

func changed[T ast.Node](a, b []T) bool {
	return len(a) != len(b) || (len(a) > 0 && &a[0] != &b[0])
}

// rebuilt finishes a copied node by recomputing its flags.
func rebuilt[T ast.Node](node T) T {
	ast.ComputeFlags(node)
	return node
}

// VisitEachChild returns node with each of its children passed through visit.
// The same pointer is returned when no child changed; otherwise a new node
// is returned and node is left untouched. Function bodies and the source file
// open a lexical environment, and the temporaries hoisted while visiting them
// are declared at the top of the new body.
func VisitEachChild(node ast.Node, visit Visitor, c *Context) ast.Node {
	switch n := node.(type) {
	case nil:
		return nil

	case *ast.Ident, *ast.Number, *ast.String, *ast.Bool, *ast.Null, *ast.This,
		*ast.TemplatePart, *ast.ShorthandProperty:
		return node

	case *ast.Binary:
		x, y := visitExpr(n.X, visit), visitExpr(n.Y, visit)
		if x == n.X && y == n.Y {
			return n
		}
		cp := *n
		cp.X, cp.Y = x, y
		return rebuilt(&cp)

	case *ast.Assign:
		target, value := visitExpr(n.Target, visit), visitExpr(n.Value, visit)
		if target == n.Target && value == n.Value {
			return n
		}
		cp := *n
		cp.Target, cp.Value = target, value
		return rebuilt(&cp)

	case *ast.Unary:
		x := visitExpr(n.X, visit)
		if x == n.X {
			return n
		}
		cp := *n
		cp.X = x
		return rebuilt(&cp)

	case *ast.Paren:
		x := visitExpr(n.X, visit)
		if x == n.X {
			return n
		}
		cp := *n
		cp.X = x
		return rebuilt(&cp)

	case *ast.Call:
		fun, args := visitExpr(n.Fun, visit), visitList(n.Args, visit, IsExpr)
		if fun == n.Fun && !changed(args, n.Args) {
			return n
		}
		cp := *n
		cp.Fun, cp.Args = fun, args
		return rebuilt(&cp)

	case *ast.New:
		fun, args := visitExpr(n.Fun, visit), visitList(n.Args, visit, IsExpr)
		if fun == n.Fun && !changed(args, n.Args) {
			return n
		}
		cp := *n
		cp.Fun, cp.Args = fun, args
		return rebuilt(&cp)

	case *ast.PropertyAccess:
		x := visitExpr(n.X, visit)
		if x == n.X {
			return n
		}
		cp := *n
		cp.X = factory.ParenthesizeForAccess(x)
		return rebuilt(&cp)

	case *ast.ElementAccess:
		x, index := visitExpr(n.X, visit), visitExpr(n.Index, visit)
		if x == n.X && index == n.Index {
			return n
		}
		cp := *n
		cp.X, cp.Index = factory.ParenthesizeForAccess(x), index
		return rebuilt(&cp)

	case *ast.ObjectLiteral:
		elems := visitList(n.Elements, visit, IsObjectElement)
		if !changed(elems, n.Elements) {
			return n
		}
		cp := *n
		cp.Elements = elems
		return rebuilt(&cp)

	case *ast.PropertyAssignment:
		name := VisitNode(n.Name, visit, IsPropertyName).(ast.PropertyName)
		value := visitExpr(n.Value, visit)
		if name == n.Name && value == n.Value {
			return n
		}
		cp := *n
		cp.Name, cp.Value = name, value
		return rebuilt(&cp)

	case *ast.ComputedName:
		x := visitExpr(n.X, visit)
		if x == n.X {
			return n
		}
		cp := *n
		cp.X = x
		return rebuilt(&cp)

	case *ast.SpreadElement:
		x := visitExpr(n.X, visit)
		if x == n.X {
			return n
		}
		cp := *n
		cp.X = x
		return rebuilt(&cp)

	case *ast.ArrayLiteral:
		elems := visitList(n.Elements, visit, IsExpr)
		if !changed(elems, n.Elements) {
			return n
		}
		cp := *n
		cp.Elements = elems
		return rebuilt(&cp)

	case *ast.TemplateLiteral:
		var spans []*ast.TemplateSpan
		for i, span := range n.Spans {
			x := visitExpr(span.X, visit)
			if x == span.X && spans == nil {
				continue
			}
			if spans == nil {
				spans = append(make([]*ast.TemplateSpan, 0, len(n.Spans)), n.Spans[:i]...)
			}
			if x == span.X {
				spans = append(spans, span)
				continue
			}
			spans = append(spans, rebuilt(&ast.TemplateSpan{X: x, Literal: span.Literal}))
		}
		if spans == nil {
			return n
		}
		cp := *n
		cp.Spans = spans
		return rebuilt(&cp)

	case *ast.TaggedTemplate:
		tag := visitExpr(n.Tag, visit)
		tpl, ok := VisitNode(n.Template, visit, IsExpr).(*ast.TemplateLiteral)
		if !ok {
			errz.Contractf(n.Template.Pos(), n.Template.End(), "tagged template lost its template literal")
		}
		if tag == n.Tag && tpl == n.Template {
			return n
		}
		cp := *n
		cp.Tag, cp.Template = tag, tpl
		return rebuilt(&cp)

	case *ast.FuncLit:
		body := visitFunctionBody(n.Body, visit, c)
		if body == n.Body {
			return n
		}
		cp := *n
		cp.Body = body
		return rebuilt(&cp)

	case *ast.SourceFile:
		c.StartLexicalEnvironment()
		stmts := visitList(n.Stmts, visit, IsStmt)
		if decls := c.EndLexicalEnvironment(); len(decls) > 0 {
			stmts = append(decls, stmts...)
		}
		return factory.UpdateSourceFile(n, stmts, c.EmitHelpers())

	case *ast.ExprStmt:
		x := visitExpr(n.X, visit)
		if x == n.X {
			return n
		}
		cp := *n
		cp.X = x
		return rebuilt(&cp)

	case *ast.VarDecl:
		var bindings []*ast.VarBinding
		for i, b := range n.Bindings {
			value := visitExpr(b.Value, visit)
			if value == b.Value && bindings == nil {
				continue
			}
			if bindings == nil {
				bindings = append(make([]*ast.VarBinding, 0, len(n.Bindings)), n.Bindings[:i]...)
			}
			if value == b.Value {
				bindings = append(bindings, b)
				continue
			}
			bindings = append(bindings, factory.VarBinding(b.Name, value))
		}
		if bindings == nil {
			return n
		}
		cp := *n
		cp.Bindings = bindings
		return rebuilt(&cp)

	case *ast.VarBinding:
		value := visitExpr(n.Value, visit)
		if value == n.Value {
			return n
		}
		return factory.VarBinding(n.Name, value)

	case *ast.FuncDecl:
		body := visitFunctionBody(n.Body, visit, c)
		if body == n.Body {
			return n
		}
		cp := *n
		cp.Body = body
		return rebuilt(&cp)

	case *ast.Return:
		value := visitExpr(n.Value, visit)
		if value == n.Value {
			return n
		}
		cp := *n
		cp.Value = value
		return rebuilt(&cp)

	case *ast.Throw:
		value := visitExpr(n.Value, visit)
		if value == n.Value {
			return n
		}
		cp := *n
		cp.Value = value
		return rebuilt(&cp)

	case *ast.Block:
		stmts := visitList(n.Stmts, visit, IsStmt)
		if !changed(stmts, n.Stmts) {
			return n
		}
		cp := *n
		cp.Stmts = stmts
		return rebuilt(&cp)

	case *ast.If:
		cond := visitExpr(n.Cond, visit)
		cons := visitStmt(n.Consequence, visit)
		alt := visitStmt(n.Alternative, visit)
		if cond == n.Cond && cons == n.Consequence && alt == n.Alternative {
			return n
		}
		cp := *n
		cp.Cond, cp.Consequence, cp.Alternative = cond, cons, alt
		return rebuilt(&cp)

	case *ast.TemplateSpan:
		x := visitExpr(n.X, visit)
		if x == n.X {
			return n
		}
		return rebuilt(&ast.TemplateSpan{X: x, Literal: n.Literal})
	}
	errz.Contractf(node.Pos(), node.End(), "cannot visit children of %s", ast.Kind(node))
	return nil
}

// visitFunctionBody visits the statements of a function body in a new
// lexical environment.
func visitFunctionBody(body *ast.Block, visit Visitor, c *Context) *ast.Block {
	c.StartLexicalEnvironment()
	stmts := visitList(body.Stmts, visit, IsStmt)
	decls := c.EndLexicalEnvironment()
	if len(decls) == 0 && !changed(stmts, body.Stmts) {
		return body
	}
	if len(decls) > 0 {
		stmts = append(decls, stmts...)
	}
	cp := *body
	cp.Stmts = stmts
	return rebuilt(&cp)
}
