package ast

import "github.com/risor-io/lowering/internal/token"

// TransformFlags is a bitset summarizing which lowering concerns apply to a
// node itself and, separately, to its subtree.
type TransformFlags uint32

const (
	// Exponentiation marks a node that needs ES7-level lowering: a "**" or
	// "**=" binary expression, or an object literal with a spread element.
	Exponentiation TransformFlags = 1 << iota
	// ContainsExponentiation marks a subtree holding an Exponentiation node.
	ContainsExponentiation
	// Macro marks a tagged template that may be an external macro call.
	Macro
	// ContainsMacro marks a subtree holding a Macro node.
	ContainsMacro
)

// Concern pairs the self bit and subtree bit checked by one transformer.
type Concern struct {
	Self     TransformFlags
	Contains TransformFlags
}

var (
	// ES7 is the concern of the exponentiation and object spread lowering.
	ES7 = Concern{Self: Exponentiation, Contains: ContainsExponentiation}
	// MacroExpansion is the concern of external macro lowering.
	MacroExpansion = Concern{Self: Macro, Contains: ContainsMacro}
)

var concerns = []Concern{ES7, MacroExpansion}

// Classification is the result of Classify.
type Classification int

const (
	// Inert nodes are returned unchanged.
	Inert Classification = iota
	// ContainsDescendant nodes are rebuilt with visited children.
	ContainsDescendant
	// NeedsSelf nodes are dispatched to a lowering routine.
	NeedsSelf
)

func (c Classification) String() string {
	switch c {
	case NeedsSelf:
		return "needs-self"
	case ContainsDescendant:
		return "contains-descendant"
	default:
		return "inert"
	}
}

// Classify reads the precomputed flags of node for the given concern.
func Classify(node Node, c Concern) Classification {
	flags := node.TransformFlags()
	switch {
	case flags&c.Self != 0:
		return NeedsSelf
	case flags&c.Contains != 0:
		return ContainsDescendant
	default:
		return Inert
	}
}

// ComputeFlags sets the flags of node from its own kind and the flags already
// stored on its direct children, and returns them. Children must have been
// computed first.
func ComputeFlags(node Node) TransformFlags {
	flags := selfFlags(node)
	for _, child := range Children(node) {
		childFlags := child.TransformFlags()
		for _, c := range concerns {
			if childFlags&(c.Self|c.Contains) != 0 {
				flags |= c.Contains
			}
		}
	}
	node.setTransformFlags(flags)
	return flags
}

// Annotate computes the flags of every node in the tree rooted at node,
// children before parents. Annotating an annotated tree is a no-op.
func Annotate(node Node) TransformFlags {
	for _, child := range Children(node) {
		Annotate(child)
	}
	return ComputeFlags(node)
}

func selfFlags(node Node) TransformFlags {
	switch n := node.(type) {
	case *Binary:
		if n.Op == token.POW || n.Op == token.POW_EQUALS {
			return Exponentiation
		}
	case *ObjectLiteral:
		if n.HasSpread(len(n.Elements)) {
			return Exponentiation
		}
	case *TaggedTemplate:
		return Macro
	}
	return 0
}
