// Package ast defines the syntax tree consumed and produced by the lowering
// transformers.
//
// Trees are built by the parser or by the factory package. Every node carries
// a source range and a TransformFlags bitset describing which lowering
// concerns apply to the node itself and to its subtree. Nodes are treated as
// immutable once their flags are computed: transformers build new nodes
// rather than editing existing ones.
package ast

import "github.com/risor-io/lowering/internal/token"

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string

	// TransformFlags returns the classification bits computed for the node.
	TransformFlags() TransformFlags

	setTransformFlags(TransformFlags)
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// ObjectElement is one entry of an object literal: a PropertyAssignment, a
// ShorthandProperty or a SpreadElement.
type ObjectElement interface {
	Node
	objectElement()
}

// PropertyName is the name part of a PropertyAssignment: an Ident, a String,
// a Number or a ComputedName.
type PropertyName interface {
	Node
	propertyName()
}

// Flagged holds the classification bits of a node. It is embedded in every
// node type.
type Flagged struct {
	Flags TransformFlags
}

// TransformFlags returns the classification bits of the node.
func (f *Flagged) TransformFlags() TransformFlags { return f.Flags }

func (f *Flagged) setTransformFlags(flags TransformFlags) { f.Flags = flags }
