package ast

import "iter"

// A Visitor is called for each node by Walk. Returning nil prunes the
// subtree; any other Visitor is used for the children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk visits node and then, unless pruned, its non-nil children in source
// order.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
}

// Inspect is Walk with a function. f returning false prunes the subtree.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder yields every node under root, parents before children.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			for _, child := range Children(n) {
				if !visit(child) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}

// Children returns the non-nil direct children of node in source order.
func Children(node Node) []Node {
	var out []Node
	add := func(n Node) {
		if n != nil && !isNilNode(n) {
			out = append(out, n)
		}
	}
	switch n := node.(type) {
	// Statements
	case *SourceFile:
		for _, s := range n.Stmts {
			add(s)
		}
	case *ExprStmt:
		add(n.X)
	case *VarDecl:
		for _, b := range n.Bindings {
			add(b)
		}
	case *VarBinding:
		add(n.Name)
		add(n.Value)
	case *FuncDecl:
		add(n.Name)
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *Return:
		add(n.Value)
	case *Throw:
		add(n.Value)
	case *Block:
		for _, s := range n.Stmts {
			add(s)
		}
	case *If:
		add(n.Cond)
		add(n.Consequence)
		add(n.Alternative)

	// Expressions
	case *Ident, *Number, *String, *Bool, *Null, *This, *TemplatePart:
		// No children
	case *Binary:
		add(n.X)
		add(n.Y)
	case *Assign:
		add(n.Target)
		add(n.Value)
	case *Unary:
		add(n.X)
	case *Paren:
		add(n.X)
	case *Call:
		add(n.Fun)
		for _, a := range n.Args {
			add(a)
		}
	case *New:
		add(n.Fun)
		for _, a := range n.Args {
			add(a)
		}
	case *PropertyAccess:
		add(n.X)
		add(n.Name)
	case *ElementAccess:
		add(n.X)
		add(n.Index)
	case *ObjectLiteral:
		for _, e := range n.Elements {
			add(e)
		}
	case *PropertyAssignment:
		add(n.Name)
		add(n.Value)
	case *ComputedName:
		add(n.X)
	case *ShorthandProperty:
		add(n.Name)
	case *SpreadElement:
		add(n.X)
	case *ArrayLiteral:
		for _, e := range n.Elements {
			add(e)
		}
	case *TemplateLiteral:
		add(n.Head)
		for _, s := range n.Spans {
			add(s)
		}
	case *TemplateSpan:
		add(n.X)
		add(n.Literal)
	case *TaggedTemplate:
		add(n.Tag)
		add(n.Template)
	case *FuncLit:
		add(n.Name)
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	}
	return out
}

// isNilNode reports whether n holds a typed nil pointer, as happens when an
// optional field such as FuncLit.Name is passed through an interface.
func isNilNode(n Node) bool {
	switch x := n.(type) {
	case *Ident:
		return x == nil
	case *Block:
		return x == nil
	case *TemplatePart:
		return x == nil
	case *TemplateLiteral:
		return x == nil
	case *VarBinding:
		return x == nil
	}
	return false
}
