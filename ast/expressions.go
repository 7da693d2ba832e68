package ast

import (
	"strings"

	"github.com/risor-io/lowering/internal/token"
)

// Binary is an operator expression where the operator is between the
// operands. Compound assignments such as "a **= b" and "a += b" are Binary
// nodes as well; plain "=" is represented by Assign.
type Binary struct {
	Flagged
	X     Expr           // left operand
	OpPos token.Position // position of operator
	Op    token.Type     // operator: "+", "**", "**=", "===", etc.
	Y     Expr           // right operand
}

func (x *Binary) exprNode() {}

func (x *Binary) Pos() token.Position { return x.X.Pos() }
func (x *Binary) End() token.Position { return x.Y.End() }

func (x *Binary) String() string {
	return x.X.String() + " " + string(x.Op) + " " + x.Y.String()
}

// Assign is a plain assignment expression "target = value".
type Assign struct {
	Flagged
	Target Expr           // Ident, PropertyAccess or ElementAccess
	OpPos  token.Position // position of "="
	Value  Expr
}

func (x *Assign) exprNode() {}

func (x *Assign) Pos() token.Position { return x.Target.Pos() }
func (x *Assign) End() token.Position { return x.Value.End() }

func (x *Assign) String() string {
	return x.Target.String() + " = " + x.Value.String()
}

// Unary is an operator expression where the operator precedes the operand.
// Examples include "!x", "-x" and "typeof x".
type Unary struct {
	Flagged
	OpPos token.Position // position of operator
	Op    token.Type     // operator: "!", "-", "+", "TYPEOF"
	X     Expr           // operand
}

func (x *Unary) exprNode() {}

func (x *Unary) Pos() token.Position { return x.OpPos }
func (x *Unary) End() token.Position { return x.X.End() }

func (x *Unary) String() string {
	if x.Op == token.TYPEOF {
		return "typeof " + x.X.String()
	}
	return string(x.Op) + x.X.String()
}

// Paren is a parenthesized expression.
type Paren struct {
	Flagged
	Lparen token.Position
	X      Expr
	Rparen token.Position
}

func (x *Paren) exprNode() {}

func (x *Paren) Pos() token.Position { return x.Lparen }
func (x *Paren) End() token.Position { return x.Rparen.Advance(1) }

func (x *Paren) String() string { return "(" + x.X.String() + ")" }

// Call is an expression node that describes the invocation of a function.
type Call struct {
	Flagged
	Fun    Expr           // function expression
	Lparen token.Position // position of "("
	Args   []Expr         // function arguments
	Rparen token.Position // position of ")"
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position { return x.Fun.Pos() }
func (x *Call) End() token.Position { return x.Rparen.Advance(1) }

func (x *Call) String() string {
	return x.Fun.String() + "(" + joinExprs(x.Args) + ")"
}

// New is a constructor call "new Fun(args)".
type New struct {
	Flagged
	NewPos token.Position // position of "new" keyword
	Fun    Expr
	Lparen token.Position
	Args   []Expr
	Rparen token.Position
}

func (x *New) exprNode() {}

func (x *New) Pos() token.Position { return x.NewPos }
func (x *New) End() token.Position { return x.Rparen.Advance(1) }

func (x *New) String() string {
	return "new " + x.Fun.String() + "(" + joinExprs(x.Args) + ")"
}

// PropertyAccess is a member access of the form "x.name".
type PropertyAccess struct {
	Flagged
	X      Expr           // object expression
	Period token.Position // position of "."
	Name   *Ident         // property name
}

func (x *PropertyAccess) exprNode() {}

func (x *PropertyAccess) Pos() token.Position { return x.X.Pos() }
func (x *PropertyAccess) End() token.Position { return x.Name.End() }

func (x *PropertyAccess) String() string {
	return x.X.String() + "." + x.Name.Name
}

// ElementAccess is an index expression of the form "x[index]".
type ElementAccess struct {
	Flagged
	X      Expr           // object expression
	Lbrack token.Position // position of "["
	Index  Expr
	Rbrack token.Position // position of "]"
}

func (x *ElementAccess) exprNode() {}

func (x *ElementAccess) Pos() token.Position { return x.X.Pos() }
func (x *ElementAccess) End() token.Position { return x.Rbrack.Advance(1) }

func (x *ElementAccess) String() string {
	return x.X.String() + "[" + x.Index.String() + "]"
}

// TaggedTemplate is a template literal preceded by a tag expression, as in
// "Relay.QL`query { ... }`".
type TaggedTemplate struct {
	Flagged
	Tag      Expr
	Template *TemplateLiteral
}

func (x *TaggedTemplate) exprNode() {}

func (x *TaggedTemplate) Pos() token.Position { return x.Tag.Pos() }
func (x *TaggedTemplate) End() token.Position { return x.Template.End() }

func (x *TaggedTemplate) String() string {
	return x.Tag.String() + x.Template.String()
}

// DottedName returns the dotted form of an expression made only of
// identifiers and property accesses, e.g. "Relay.QL". The second result is
// false for any other expression.
func DottedName(expr Expr) (string, bool) {
	switch x := expr.(type) {
	case *Ident:
		return x.Name, true
	case *PropertyAccess:
		base, ok := DottedName(x.X)
		if !ok {
			return "", false
		}
		return base + "." + x.Name.Name, true
	default:
		return "", false
	}
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}
