package transform

import (
	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/factory"
)

// objectUnit is one argument of the merge call built for an object literal:
// either a single spread target or a run of consecutive non-spread elements.
// Elements are kept as written and lowered when the unit is materialized.
type objectUnit struct {
	spread *ast.SpreadElement
	chunk  []ast.ObjectElement
}

// chunkObjectElements partitions elements in source order. Each spread is
// its own unit and each maximal run of other elements is one chunk.
func chunkObjectElements(elements []ast.ObjectElement) []objectUnit {
	var units []objectUnit
	var chunk []ast.ObjectElement
	for _, e := range elements {
		if s, ok := e.(*ast.SpreadElement); ok {
			if len(chunk) > 0 {
				units = append(units, objectUnit{chunk: chunk})
				chunk = nil
			}
			units = append(units, objectUnit{spread: s})
			continue
		}
		chunk = append(chunk, e)
	}
	if len(chunk) > 0 {
		units = append(units, objectUnit{chunk: chunk})
	}
	return units
}

// visitObjectLiteral lowers an object literal with spread elements into a
// merge call:
//
//	{ a, ...o, b }       => __assign({ a }, o, { b })
//	{ ...o, a, b, ...p } => __assign({}, o, { a, b }, p)
//
// A literal without spread elements is never wrapped.
func (t *es7Transformer) visitObjectLiteral(n *ast.ObjectLiteral) ast.Expr {
	if !n.HasSpread(len(n.Elements)) {
		if n.TransformFlags()&ast.ContainsExponentiation == 0 {
			return n
		}
		return VisitEachChild(n, t.visit, t.ctx).(ast.Expr)
	}
	units := chunkObjectElements(n.Elements)
	args := make([]ast.Expr, 0, len(units)+1)
	if units[0].spread != nil {
		// The merge target must be a fresh object, never the first spread source.
		args = append(args, factory.ObjectLiteral(nil, n.Pos()))
	}
	for _, u := range units {
		if u.spread != nil {
			args = append(args, visitExpr(u.spread.X, t.visit))
			continue
		}
		elems := visitList(u.chunk, t.visit, IsObjectElement)
		args = append(args, factory.ObjectLiteral(elems, u.chunk[0].Pos()))
	}
	t.ctx.RequestEmitHelper(ast.AssignHelperName)
	t.ctx.logger.Debug().
		Str("pos", posString(n)).
		Int("units", len(units)).
		Msg("lowering object spread")
	return factory.Call(factory.Ident(ast.AssignHelperName, n.Pos()), args, n.Pos())
}
