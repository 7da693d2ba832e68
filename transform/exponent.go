package transform

import (
	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/errz"
	"github.com/risor-io/lowering/factory"
	"github.com/risor-io/lowering/internal/token"
)

// visitBinary lowers "**" and "**=". Both operands are lowered first.
func (t *es7Transformer) visitBinary(n *ast.Binary) ast.Expr {
	left := visitExpr(n.X, t.visit)
	right := visitExpr(n.Y, t.visit)
	switch n.Op {
	case token.POW:
		// a ** b => Math.pow(a, b)
		t.ctx.logger.Debug().Str("pos", posString(n)).Msg("lowering exponentiation")
		return mathPow(left, right, n.Pos())
	case token.POW_EQUALS:
		return t.visitExponentiationAssignment(n, left, right)
	}
	errz.Contractf(n.Pos(), n.End(), "unexpected operator %s in exponentiation lowering", n.Op)
	return nil
}

// visitExponentiationAssignment lowers "x **= b". The target is evaluated
// once, so the object and index of a member or element target are captured
// in hoisted temporaries.
func (t *es7Transformer) visitExponentiationAssignment(n *ast.Binary, left, right ast.Expr) ast.Expr {
	var target, value ast.Expr
	switch l := left.(type) {
	case *ast.ElementAccess:
		// a[x] **= b => (_a = a)[_b = x] = Math.pow(_a[_b], b)
		objTemp := t.ctx.CreateTempVariable(true)
		indexTemp := t.ctx.CreateTempVariable(true)
		target = factory.ElementAccess(
			factory.Assign(objTemp, l.X, l.X.Pos()),
			factory.Assign(indexTemp, l.Index, l.Index.Pos()),
			l.Pos(),
		)
		value = factory.ElementAccess(objTemp, indexTemp, l.Pos())
	case *ast.PropertyAccess:
		// a.x **= b => (_a = a).x = Math.pow(_a.x, b)
		objTemp := t.ctx.CreateTempVariable(true)
		target = factory.PropertyAccess(
			factory.Assign(objTemp, l.X, l.X.Pos()),
			l.Name.Name,
			l.Pos(),
		)
		value = factory.PropertyAccess(objTemp, l.Name.Name, l.Pos())
	default:
		// a **= b => a = Math.pow(a, b)
		target = left
		value = left
	}
	t.ctx.logger.Debug().
		Str("pos", posString(n)).
		Str("target", ast.Kind(left)).
		Msg("lowering exponentiation assignment")
	return factory.Assign(target, mathPow(value, right, n.Pos()), n.Pos())
}

func mathPow(x, y ast.Expr, loc token.Position) *ast.Call {
	return factory.Call(
		factory.PropertyAccess(factory.Ident("Math", loc), "pow", loc),
		[]ast.Expr{x, y},
		loc,
	)
}

func posString(n ast.Node) string {
	return errz.LocationFromRange(n.Pos(), n.End(), "").String()
}
