package ast

import (
	"fmt"
	"strings"
)

// Kind returns the name of the node type, e.g. "Binary" or "ObjectLiteral".
func Kind(node Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", node), "*ast.")
}

// Dump converts a tree into nested maps suitable for JSON encoding. Each map
// has a "kind" key, a "pos" key of the form "line:column" and one key per
// child or attribute.
func Dump(node Node) map[string]any {
	if node == nil || isNilNode(node) {
		return nil
	}
	pos := node.Pos()
	out := map[string]any{
		"kind": Kind(node),
		"pos":  fmt.Sprintf("%d:%d", pos.LineNumber(), pos.ColumnNumber()),
	}
	if flags := node.TransformFlags(); flags != 0 {
		out["flags"] = flags.Names()
	}
	switch n := node.(type) {
	case *SourceFile:
		out["file"] = n.FileName
		out["statements"] = dumpStmts(n.Stmts)
		if len(n.Helpers) > 0 {
			out["helpers"] = n.Helpers
		}
	case *ExprStmt:
		out["expression"] = Dump(n.X)
	case *VarDecl:
		out["declKind"] = strings.ToLower(string(n.Kind))
		var bindings []any
		for _, b := range n.Bindings {
			bindings = append(bindings, Dump(b))
		}
		out["bindings"] = bindings
	case *VarBinding:
		out["name"] = n.Name.Name
		out["value"] = Dump(n.Value)
	case *FuncDecl:
		out["name"] = n.Name.Name
		out["params"] = dumpParams(n.Params)
		out["body"] = Dump(n.Body)
	case *FuncLit:
		if n.Name != nil {
			out["name"] = n.Name.Name
		}
		out["params"] = dumpParams(n.Params)
		out["body"] = Dump(n.Body)
	case *Return:
		out["value"] = Dump(n.Value)
	case *Throw:
		out["value"] = Dump(n.Value)
	case *Block:
		out["statements"] = dumpStmts(n.Stmts)
	case *If:
		out["cond"] = Dump(n.Cond)
		out["then"] = Dump(n.Consequence)
		out["else"] = Dump(n.Alternative)
	case *Ident:
		out["name"] = n.Name
	case *Number:
		out["value"] = n.Literal
	case *String:
		out["value"] = n.Value
	case *Bool:
		out["value"] = n.Value
	case *Null, *This:
	case *Binary:
		out["op"] = string(n.Op)
		out["left"] = Dump(n.X)
		out["right"] = Dump(n.Y)
	case *Assign:
		out["target"] = Dump(n.Target)
		out["value"] = Dump(n.Value)
	case *Unary:
		out["op"] = strings.ToLower(string(n.Op))
		out["operand"] = Dump(n.X)
	case *Paren:
		out["expression"] = Dump(n.X)
	case *Call:
		out["callee"] = Dump(n.Fun)
		out["arguments"] = dumpExprs(n.Args)
	case *New:
		out["callee"] = Dump(n.Fun)
		out["arguments"] = dumpExprs(n.Args)
	case *PropertyAccess:
		out["object"] = Dump(n.X)
		out["name"] = n.Name.Name
	case *ElementAccess:
		out["object"] = Dump(n.X)
		out["index"] = Dump(n.Index)
	case *ObjectLiteral:
		var elems []any
		for _, e := range n.Elements {
			elems = append(elems, Dump(e))
		}
		out["elements"] = elems
	case *PropertyAssignment:
		out["name"] = Dump(n.Name)
		out["value"] = Dump(n.Value)
	case *ComputedName:
		out["expression"] = Dump(n.X)
	case *ShorthandProperty:
		out["name"] = n.Name.Name
	case *SpreadElement:
		out["expression"] = Dump(n.X)
	case *ArrayLiteral:
		out["elements"] = dumpExprs(n.Elements)
	case *TemplateLiteral:
		out["head"] = Dump(n.Head)
		var spans []any
		for _, s := range n.Spans {
			spans = append(spans, Dump(s))
		}
		out["spans"] = spans
	case *TemplateSpan:
		out["expression"] = Dump(n.X)
		out["literal"] = Dump(n.Literal)
	case *TemplatePart:
		out["text"] = n.Cooked
		out["tail"] = n.IsTail()
	case *TaggedTemplate:
		out["tag"] = Dump(n.Tag)
		out["template"] = Dump(n.Template)
	}
	return out
}

// Names returns the names of the bits set in f.
func (f TransformFlags) Names() []string {
	var names []string
	for _, b := range []struct {
		bit  TransformFlags
		name string
	}{
		{Exponentiation, "exponentiation"},
		{ContainsExponentiation, "containsExponentiation"},
		{Macro, "macro"},
		{ContainsMacro, "containsMacro"},
	} {
		if f&b.bit != 0 {
			names = append(names, b.name)
		}
	}
	return names
}

func dumpStmts(stmts []Stmt) []any {
	out := make([]any, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, Dump(s))
	}
	return out
}

func dumpExprs(exprs []Expr) []any {
	out := make([]any, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, Dump(e))
	}
	return out
}

func dumpParams(params []*Ident) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		out = append(out, p.Name)
	}
	return out
}
