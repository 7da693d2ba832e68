package server

import (
	"sort"
	"strings"

	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/internal/token"
	"github.com/risor-io/lowering/protocol"
)

// Globals every script can reference.
var globals = []string{
	"Array", "Boolean", "JSON", "Math", "Number", "Object", "String", "undefined",
}

// Sort groups: document symbols first, then globals, then keywords.
const (
	sortLocal   = "0"
	sortGlobal  = "1"
	sortKeyword = "2"
)

// symbols returns the names bound anywhere in the document, with the kind of
// their first binding.
func (d *document) symbols() map[string]string {
	found := map[string]string{}
	add := func(name, kind string) {
		if name == "" {
			return
		}
		if _, ok := found[name]; !ok {
			found[name] = kind
		}
	}
	if d.ast == nil {
		return found
	}
	for node := range ast.Preorder(d.ast) {
		switch n := node.(type) {
		case *ast.VarDecl:
			for _, b := range n.Bindings {
				if _, ok := b.Value.(*ast.FuncLit); ok {
					add(b.Name.Name, kindFunction)
				} else {
					add(b.Name.Name, strings.ToLower(string(n.Kind)))
				}
			}
		case *ast.FuncDecl:
			add(n.Name.Name, kindFunction)
			for _, p := range n.Params {
				add(p.Name, kindParam)
			}
		case *ast.FuncLit:
			if n.Name != nil {
				add(n.Name.Name, kindFunction)
			}
			for _, p := range n.Params {
				add(p.Name, kindParam)
			}
		case *ast.Assign:
			if id, ok := n.Target.(*ast.Ident); ok {
				add(id.Name, kindVar)
			}
		}
	}
	return found
}

// completions returns the candidates starting with prefix. Document symbols
// shadow globals and keywords of the same name.
func (d *document) completions(prefix string) []protocol.CompletionEntry {
	entries := []protocol.CompletionEntry{}
	seen := map[string]bool{}
	add := func(name, kind, sortText string) {
		if seen[name] || !strings.HasPrefix(name, prefix) {
			return
		}
		seen[name] = true
		entries = append(entries, protocol.CompletionEntry{Name: name, Kind: kind, SortText: sortText})
	}
	for name, kind := range d.symbols() {
		add(name, kind, sortLocal)
	}
	for _, name := range globals {
		add(name, kindVar, sortGlobal)
	}
	for _, word := range token.Keywords() {
		add(word, kindKeyword, sortKeyword)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SortText != entries[j].SortText {
			return entries[i].SortText < entries[j].SortText
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// wordBefore returns the identifier characters immediately before pos.
func (d *document) wordBefore(pos int) string {
	start := pos
	for start > 0 && isIdentChar(d.text[start-1]) {
		start--
	}
	return d.text[start:pos]
}

func isIdentChar(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' ||
		'0' <= ch && ch <= '9' || ch == '_' || ch == '$'
}
