package server

import (
	"sort"
	"strings"

	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/protocol"
)

// Navigation item kinds.
const (
	kindScript   = "script"
	kindFunction = "function"
	kindVar      = "var"
	kindLet      = "let"
	kindConst    = "const"
	kindParam    = "parameter"
	kindKeyword  = "keyword"
)

// declaration is a named binding introduced directly in a scope.
type declaration struct {
	name string
	kind string
	node ast.Node
	// body is set for functions and holds the declarations of their scope.
	body *ast.Block
}

// declarations returns the bindings introduced by stmts, looking through
// blocks and if statements but not into function bodies.
func declarations(stmts []ast.Stmt) []declaration {
	var decls []declaration
	var collect func(s ast.Stmt)
	collect = func(s ast.Stmt) {
		switch s := s.(type) {
		case *ast.FuncDecl:
			decls = append(decls, declaration{name: s.Name.Name, kind: kindFunction, node: s, body: s.Body})
		case *ast.VarDecl:
			kind := strings.ToLower(string(s.Kind))
			for _, b := range s.Bindings {
				if fn, ok := b.Value.(*ast.FuncLit); ok {
					decls = append(decls, declaration{name: b.Name.Name, kind: kindFunction, node: b, body: fn.Body})
					continue
				}
				decls = append(decls, declaration{name: b.Name.Name, kind: kind, node: b})
			}
		case *ast.Block:
			for _, inner := range s.Stmts {
				collect(inner)
			}
		case *ast.If:
			collect(s.Consequence)
			if s.Alternative != nil {
				collect(s.Alternative)
			}
		}
	}
	for _, s := range stmts {
		collect(s)
	}
	sort.SliceStable(decls, func(i, j int) bool { return decls[i].name < decls[j].name })
	return decls
}

func (d *document) span(n ast.Node) protocol.TextSpan {
	return protocol.TextSpan{
		Start: d.location(n.Pos().Char),
		End:   d.location(n.End().Char),
	}
}

// navigationBar returns the navigation tree of the document: a "<global>"
// item listing the top level declarations, followed by one item per function
// listing the declarations of its body, indented by nesting depth.
func (d *document) navigationBar() []protocol.NavigationBarItem {
	if d.ast == nil {
		return []protocol.NavigationBarItem{}
	}
	top := declarations(d.ast.Stmts)
	items := []protocol.NavigationBarItem{{
		Text: "<global>",
		Kind: kindScript,
		Spans: []protocol.TextSpan{{
			Start: protocol.Location{Line: 1, Offset: 1},
			End:   d.location(len(d.text)),
		}},
		ChildItems: d.childItems(top),
	}}
	var functions func(decls []declaration, indent int)
	functions = func(decls []declaration, indent int) {
		for _, decl := range decls {
			if decl.body == nil {
				continue
			}
			inner := declarations(decl.body.Stmts)
			items = append(items, protocol.NavigationBarItem{
				Text:       decl.name,
				Kind:       kindFunction,
				Spans:      []protocol.TextSpan{d.span(decl.node)},
				ChildItems: d.childItems(inner),
				Indent:     indent,
			})
			functions(inner, indent+1)
		}
	}
	functions(top, 1)
	return items
}

func (d *document) childItems(decls []declaration) []protocol.NavigationBarItem {
	if len(decls) == 0 {
		return nil
	}
	children := make([]protocol.NavigationBarItem, 0, len(decls))
	for _, decl := range decls {
		children = append(children, protocol.NavigationBarItem{
			Text:  decl.name,
			Kind:  decl.kind,
			Spans: []protocol.TextSpan{d.span(decl.node)},
		})
	}
	return children
}
