package irgen

import (
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"streamc/internal/ast"
	"streamc/internal/types"
)

// lowerCast lowers an explicit cast along the conversion chain
// Bool -> Bit -> APInt_n -> Int -> Float (spec §4.1), choosing the
// LLVM instruction family the direction and signedness demand.
func (lw *Lowerer) lowerCast(e *ast.CastExpr) value.Value {
	from := e.Operand.Type()
	to := e.Type()
	val := lw.lowerExpr(e.Operand)
	return lw.convert(val, from, to)
}

// convert emits whatever instruction sequence moves val from the
// "from" type's representation to "to"'s (spec §4.1's ConvertibleTo
// relation realized as code). It is used by explicit casts and by
// implicit widening at assignment sites; push and return values are
// not passed through it.
func (lw *Lowerer) convert(val value.Value, from, to *types.Type) value.Value {
	if from == to {
		return val
	}

	fromFloat := isFloatKind(from)
	toFloat := isFloatKind(to)

	switch {
	case fromFloat && toFloat:
		return val // both Float in this lattice; identity

	case !fromFloat && toFloat:
		if isSigned(from) {
			return lw.cur.NewSIToFP(val, llType(to))
		}
		return lw.cur.NewUIToFP(val, llType(to))

	case fromFloat && !toFloat:
		if isSigned(to) {
			return lw.cur.NewFPToSI(val, llType(to))
		}
		return lw.cur.NewFPToUI(val, llType(to))

	default:
		return lw.convertInt(val, from, to)
	}
}

func (lw *Lowerer) convertInt(val value.Value, from, to *types.Type) value.Value {
	fromWidth := bitWidthOf(from)
	toWidth := bitWidthOf(to)
	toLL := llType(to)

	switch {
	case toWidth == fromWidth:
		if it, ok := toLL.(*lltypes.IntType); ok {
			return lw.cur.NewBitCast(val, it)
		}
		return val
	case toWidth > fromWidth:
		if isSigned(from) {
			return lw.cur.NewSExt(val, toLL)
		}
		return lw.cur.NewZExt(val, toLL)
	default:
		return lw.cur.NewTrunc(val, toLL)
	}
}

func bitWidthOf(t *types.Type) int {
	switch t.Kind {
	case types.KindBool, types.KindBit:
		return 1
	case types.KindAPInt:
		return t.Width
	case types.KindInt:
		return 32
	default:
		return 32
	}
}
