package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/risor-io/lowering/internal/token"
)

// Ident is an expression node that refers to a variable by name.
type Ident struct {
	Flagged
	NamePos token.Position // position of identifier
	Name    string         // identifier name
}

func (x *Ident) exprNode()     {}
func (x *Ident) propertyName() {}

func (x *Ident) Pos() token.Position { return x.NamePos }
func (x *Ident) End() token.Position { return x.NamePos.Advance(len(x.Name)) }

func (x *Ident) String() string { return x.Name }

// Number is an expression node that holds a numeric literal.
type Number struct {
	Flagged
	ValuePos token.Position // position of the literal
	Literal  string         // the literal text (e.g., "42", "0x2a", "1e3")
}

func (x *Number) exprNode()     {}
func (x *Number) propertyName() {}

func (x *Number) Pos() token.Position { return x.ValuePos }
func (x *Number) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Number) String() string { return x.Literal }

// String is an expression node that holds a string literal.
type String struct {
	Flagged
	ValuePos token.Position // position of opening quote
	Literal  string         // the raw literal including quotes; empty when synthesized
	Value    string         // the unquoted string value
}

func (x *String) exprNode()     {}
func (x *String) propertyName() {}

func (x *String) Pos() token.Position { return x.ValuePos }
func (x *String) End() token.Position { return x.ValuePos.Advance(len(x.String())) }

func (x *String) String() string {
	if x.Literal != "" {
		return x.Literal
	}
	return strconv.Quote(x.Value)
}

// Bool is an expression node that holds a boolean literal.
type Bool struct {
	Flagged
	ValuePos token.Position // position of "true" or "false"
	Value    bool
}

func (x *Bool) exprNode() {}

func (x *Bool) Pos() token.Position { return x.ValuePos }
func (x *Bool) End() token.Position { return x.ValuePos.Advance(len(x.String())) }

func (x *Bool) String() string { return strconv.FormatBool(x.Value) }

// Null is an expression node that holds a null literal.
type Null struct {
	Flagged
	NullPos token.Position // position of "null" keyword
}

func (x *Null) exprNode() {}

func (x *Null) Pos() token.Position { return x.NullPos }
func (x *Null) End() token.Position { return x.NullPos.Advance(4) } // len("null")

func (x *Null) String() string { return "null" }

// This is an expression node for the "this" keyword.
type This struct {
	Flagged
	ThisPos token.Position
}

func (x *This) exprNode() {}

func (x *This) Pos() token.Position { return x.ThisPos }
func (x *This) End() token.Position { return x.ThisPos.Advance(4) } // len("this")

func (x *This) String() string { return "this" }

// ObjectLiteral is an expression node that builds an object from a list of
// property assignments, shorthand properties and spread elements.
type ObjectLiteral struct {
	Flagged
	Lbrace   token.Position  // position of "{"
	Elements []ObjectElement // elements in source order
	Rbrace   token.Position  // position of "}"
}

func (x *ObjectLiteral) exprNode() {}

func (x *ObjectLiteral) Pos() token.Position { return x.Lbrace }
func (x *ObjectLiteral) End() token.Position { return x.Rbrace.Advance(1) }

func (x *ObjectLiteral) String() string {
	if len(x.Elements) == 0 {
		return "{}"
	}
	items := make([]string, 0, len(x.Elements))
	for _, e := range x.Elements {
		items = append(items, e.String())
	}
	return "{ " + strings.Join(items, ", ") + " }"
}

// HasSpread reports whether any of the first n elements is a SpreadElement.
func (x *ObjectLiteral) HasSpread(n int) bool {
	n = max(0, min(n, len(x.Elements)))
	for _, e := range x.Elements[:n] {
		if _, ok := e.(*SpreadElement); ok {
			return true
		}
	}
	return false
}

// PropertyAssignment is an object literal element of the form "name: value".
type PropertyAssignment struct {
	Flagged
	Name  PropertyName   // Ident, String, Number or ComputedName
	Colon token.Position // position of ":"
	Value Expr           // initializer
}

func (x *PropertyAssignment) objectElement() {}

func (x *PropertyAssignment) Pos() token.Position { return x.Name.Pos() }
func (x *PropertyAssignment) End() token.Position { return x.Value.End() }

func (x *PropertyAssignment) String() string {
	return x.Name.String() + ": " + x.Value.String()
}

// ComputedName is a property name of the form "[expr]".
type ComputedName struct {
	Flagged
	Lbrack token.Position
	X      Expr
	Rbrack token.Position
}

func (x *ComputedName) propertyName() {}

func (x *ComputedName) Pos() token.Position { return x.Lbrack }
func (x *ComputedName) End() token.Position { return x.Rbrack.Advance(1) }

func (x *ComputedName) String() string { return "[" + x.X.String() + "]" }

// ShorthandProperty is an object literal element of the form "{ name }".
type ShorthandProperty struct {
	Flagged
	Name *Ident
}

func (x *ShorthandProperty) objectElement() {}

func (x *ShorthandProperty) Pos() token.Position { return x.Name.Pos() }
func (x *ShorthandProperty) End() token.Position { return x.Name.End() }

func (x *ShorthandProperty) String() string { return x.Name.String() }

// SpreadElement is an object literal element of the form "...expr".
type SpreadElement struct {
	Flagged
	Ellipsis token.Position // position of "..."
	X        Expr           // spread target
}

func (x *SpreadElement) objectElement() {}

func (x *SpreadElement) Pos() token.Position { return x.Ellipsis }
func (x *SpreadElement) End() token.Position { return x.X.End() }

func (x *SpreadElement) String() string { return "..." + x.X.String() }

// ArrayLiteral is an expression node that builds an array.
type ArrayLiteral struct {
	Flagged
	Lbrack   token.Position
	Elements []Expr
	Rbrack   token.Position
}

func (x *ArrayLiteral) exprNode() {}

func (x *ArrayLiteral) Pos() token.Position { return x.Lbrack }
func (x *ArrayLiteral) End() token.Position { return x.Rbrack.Advance(1) }

func (x *ArrayLiteral) String() string {
	items := make([]string, 0, len(x.Elements))
	for _, e := range x.Elements {
		items = append(items, e.String())
	}
	return "[" + strings.Join(items, ", ") + "]"
}

// TemplatePart is one literal segment of a template. Kind is one of
// NO_SUBSTITUTION_TPL, TEMPLATE_HEAD, TEMPLATE_MIDDLE or TEMPLATE_TAIL. The
// range covers the delimiters: a head starts at "`" and ends after "${", a
// middle starts at "}" and ends after "${" and so on.
type TemplatePart struct {
	Flagged
	Kind   token.Type
	From   token.Position
	To     token.Position
	Raw    string // source text between the delimiters
	Cooked string // Raw with escape sequences resolved
}

func (x *TemplatePart) Pos() token.Position { return x.From }
func (x *TemplatePart) End() token.Position { return x.To }

// IsTail reports whether the part closes its template.
func (x *TemplatePart) IsTail() bool {
	return x.Kind == token.TEMPLATE_TAIL || x.Kind == token.NO_SUBSTITUTION_TPL
}

func (x *TemplatePart) String() string {
	switch x.Kind {
	case token.TEMPLATE_HEAD:
		return "`" + x.Raw + "${"
	case token.TEMPLATE_MIDDLE:
		return "}" + x.Raw + "${"
	case token.TEMPLATE_TAIL:
		return "}" + x.Raw + "`"
	default:
		return "`" + x.Raw + "`"
	}
}

// TemplateSpan is a substitution followed by the literal text after it.
type TemplateSpan struct {
	Flagged
	X       Expr
	Literal *TemplatePart // TEMPLATE_MIDDLE or TEMPLATE_TAIL
}

func (x *TemplateSpan) Pos() token.Position { return x.X.Pos() }
func (x *TemplateSpan) End() token.Position { return x.Literal.End() }

func (x *TemplateSpan) String() string { return x.X.String() + x.Literal.String() }

// TemplateLiteral is a template string. When Spans is empty Head is a
// NO_SUBSTITUTION_TPL part.
type TemplateLiteral struct {
	Flagged
	Head  *TemplatePart
	Spans []*TemplateSpan
}

func (x *TemplateLiteral) exprNode() {}

func (x *TemplateLiteral) Pos() token.Position { return x.Head.Pos() }
func (x *TemplateLiteral) End() token.Position {
	if n := len(x.Spans); n > 0 {
		return x.Spans[n-1].End()
	}
	return x.Head.End()
}

// NoSubstitution reports whether the template has no "${...}" spans.
func (x *TemplateLiteral) NoSubstitution() bool { return len(x.Spans) == 0 }

func (x *TemplateLiteral) String() string {
	var out bytes.Buffer
	out.WriteString(x.Head.String())
	for _, span := range x.Spans {
		out.WriteString(span.String())
	}
	return out.String()
}

// FuncLit is a function expression.
type FuncLit struct {
	Flagged
	Func   token.Position // position of "function" keyword
	Name   *Ident         // optional name
	Params []*Ident
	Body   *Block
}

func (x *FuncLit) exprNode() {}

func (x *FuncLit) Pos() token.Position { return x.Func }
func (x *FuncLit) End() token.Position { return x.Body.End() }

func (x *FuncLit) String() string {
	return renderFunction(x.Name, x.Params, x.Body)
}

func renderFunction(name *Ident, params []*Ident, body *Block) string {
	var out bytes.Buffer
	out.WriteString("function")
	if name != nil {
		out.WriteString(" ")
		out.WriteString(name.Name)
	}
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}
	out.WriteString("(")
	out.WriteString(strings.Join(names, ", "))
	out.WriteString(") ")
	out.WriteString(body.String())
	return out.String()
}
