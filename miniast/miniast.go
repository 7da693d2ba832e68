// Package miniast translates a macro call site into the reduced, generic tree
// shape that external macro implementations consume.
//
// Only the node kinds reachable from a tagged template are translated: the
// template literal with its elements, non-computed member access chains and
// identifiers. Interpolated expressions are not translated. Each one becomes
// a Ref node holding an index into View.Refs, so a macro can place the
// original expression in its output without knowing its shape.
package miniast

import (
	"path/filepath"

	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/errz"
)

// Node types produced by Build.
const (
	TaggedTemplateExpression = "TaggedTemplateExpression"
	TemplateLiteral          = "TemplateLiteral"
	TemplateElement          = "TemplateElement"
	MemberExpression         = "MemberExpression"
	Identifier               = "Identifier"
	Ref                      = "Ref"
)

// Node is one element of the reduced tree. Start and End are byte offsets
// into the source file.
type Node struct {
	Type  string `json:"type"`
	Start int    `json:"start"`
	End   int    `json:"end"`

	// TaggedTemplateExpression
	Tag   *Node `json:"tag,omitempty"`
	Quasi *Node `json:"quasi,omitempty"`

	// TemplateLiteral
	Quasis      []*Node `json:"quasis,omitempty"`
	Expressions []*Node `json:"expressions,omitempty"`

	// TemplateElement
	Value *TemplateValue `json:"value,omitempty"`
	Tail  bool           `json:"tail,omitempty"`

	// MemberExpression
	Object   *Node `json:"object,omitempty"`
	Property *Node `json:"property,omitempty"`
	Computed bool  `json:"computed,omitempty"`

	// Identifier
	Name string `json:"name,omitempty"`

	// Ref
	Ref *int `json:"ref,omitempty"`
}

// TemplateValue holds the text of a template element.
type TemplateValue struct {
	Raw    string `json:"raw"`
	Cooked string `json:"cooked"`
}

// View is the reduced tree of one macro call site along with the
// interpolated expressions its Ref nodes point at.
type View struct {
	Root *Node
	Refs []ast.Expr
}

// Request is everything a macro expander receives for one call site.
type Request struct {
	FileName string
	BaseName string
	Site     *ast.TaggedTemplate
	View     *View
}

// NewRequest builds the request for a tagged template in the named file.
// It panics with a contract violation if the tag or template contains a node
// kind that has no reduced form.
func NewRequest(fileName string, site *ast.TaggedTemplate) *Request {
	return &Request{
		FileName: fileName,
		BaseName: filepath.Base(fileName),
		Site:     site,
		View:     Build(site),
	}
}

// Build translates a tagged template into its reduced form.
func Build(site *ast.TaggedTemplate) *View {
	b := &builder{}
	root := b.node(site)
	return &View{Root: root, Refs: b.refs}
}

type builder struct {
	refs []ast.Expr
}

func (b *builder) node(n ast.Node) *Node {
	switch n := n.(type) {
	case *ast.TaggedTemplate:
		return &Node{
			Type:  TaggedTemplateExpression,
			Start: n.Pos().Char,
			End:   n.End().Char,
			Tag:   b.node(n.Tag),
			Quasi: b.node(n.Template),
		}
	case *ast.TemplateLiteral:
		return b.template(n)
	case *ast.PropertyAccess:
		return &Node{
			Type:     MemberExpression,
			Start:    n.Pos().Char,
			End:      n.End().Char,
			Object:   b.node(n.X),
			Property: b.node(n.Name),
		}
	case *ast.Ident:
		return &Node{
			Type:  Identifier,
			Start: n.Pos().Char,
			End:   n.End().Char,
			Name:  n.Name,
		}
	}
	errz.Contractf(n.Pos(), n.End(), "unexpected %s in macro call site", ast.Kind(n))
	return nil
}

func (b *builder) template(n *ast.TemplateLiteral) *Node {
	out := &Node{
		Type:        TemplateLiteral,
		Start:       n.Pos().Char,
		End:         n.End().Char,
		Quasis:      []*Node{},
		Expressions: []*Node{},
	}
	if n.NoSubstitution() {
		// The single element excludes the backquotes.
		out.Quasis = append(out.Quasis, &Node{
			Type:  TemplateElement,
			Start: n.Head.Pos().Char + 1,
			End:   n.Head.End().Char - 1,
			Value: &TemplateValue{Raw: n.Head.Raw, Cooked: n.Head.Cooked},
			Tail:  true,
		})
		return out
	}
	out.Quasis = append(out.Quasis, element(n.Head))
	for _, span := range n.Spans {
		out.Expressions = append(out.Expressions, b.ref(span.X))
		out.Quasis = append(out.Quasis, element(span.Literal))
	}
	return out
}

func (b *builder) ref(x ast.Expr) *Node {
	index := len(b.refs)
	b.refs = append(b.refs, x)
	return &Node{Type: Ref, Start: x.Pos().Char, End: x.End().Char, Ref: &index}
}

func element(part *ast.TemplatePart) *Node {
	return &Node{
		Type:  TemplateElement,
		Start: part.Pos().Char,
		End:   part.End().Char,
		Value: &TemplateValue{Raw: part.Raw, Cooked: part.Cooked},
		Tail:  part.IsTail(),
	}
}
