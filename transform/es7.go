package transform

import (
	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/errz"
)

// ES7 lowers the exponentiation operators and object spread.
func ES7(c *Context) func(*ast.SourceFile) *ast.SourceFile {
	t := &es7Transformer{ctx: c}
	return func(file *ast.SourceFile) *ast.SourceFile {
		return VisitEachChild(file, t.visit, c).(*ast.SourceFile)
	}
}

type es7Transformer struct {
	ctx *Context
}

func (t *es7Transformer) visit(node ast.Node) ast.Node {
	switch ast.Classify(node, ast.ES7) {
	case ast.NeedsSelf:
		return t.visitWorker(node)
	case ast.ContainsDescendant:
		return VisitEachChild(node, t.visit, t.ctx)
	default:
		return node
	}
}

func (t *es7Transformer) visitWorker(node ast.Node) ast.Node {
	switch n := node.(type) {
	case *ast.Binary:
		return t.visitBinary(n)
	case *ast.ObjectLiteral:
		return t.visitObjectLiteral(n)
	}
	errz.Contractf(node.Pos(), node.End(), "unexpected %s flagged for exponentiation lowering", ast.Kind(node))
	return nil
}
