package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"streamc/internal/ast"
	"streamc/internal/types"
)

// lowerExpr lowers expr into the current block, returning the SSA
// value it produces (spec §4.3's per-expression lowering table).
func (lw *Lowerer) lowerExpr(expr ast.Expr) value.Value {
	switch e := expr.(type) {
	case *ast.IntLit:
		return constant.NewInt(lltypes.I32, e.Value)
	case *ast.BoolLit:
		if e.Value {
			return constant.NewInt(lltypes.I1, 1)
		}
		return constant.NewInt(lltypes.I1, 0)
	case *ast.FloatLit:
		return constant.NewFloat(lltypes.Float, e.Value)
	case *ast.Ident:
		return lw.lowerIdent(e)
	case *ast.IndexExpr:
		return lw.lowerIndex(e)
	case *ast.UnaryExpr:
		return lw.lowerUnary(e)
	case *ast.BinaryExpr:
		return lw.lowerBinary(e)
	case *ast.LogicalExpr:
		return lw.lowerLogical(e)
	case *ast.CommaExpr:
		lw.lowerExpr(e.Left)
		return lw.lowerExpr(e.Right)
	case *ast.AssignExpr:
		return lw.lowerAssign(e)
	case *ast.PeekExpr:
		return lw.builder.BuildPeek(lw.cur, lw.filterCx, lw.lowerExpr(e.Index))
	case *ast.PopExpr:
		return lw.builder.BuildPop(lw.cur, lw.filterCx)
	case *ast.CallExpr:
		return lw.lowerCall(e)
	case *ast.CastExpr:
		return lw.lowerCast(e)
	case *ast.InitListExpr:
		return lw.lowerInitList(e)
	default:
		panic("irgen: unhandled expression type")
	}
}

func (lw *Lowerer) lowerIdent(e *ast.Ident) value.Value {
	slot, ok := lw.locals[e.Decl]
	if !ok {
		panic("irgen: identifier " + e.Name + " has no stack slot")
	}
	return lw.cur.NewLoad(llType(e.Decl.DeclType()), slot)
}

// lowerAddr resolves expr's assignable storage location, needed by
// assignment and the pre/post increment operators.
func (lw *Lowerer) lowerAddr(expr ast.Expr) value.Value {
	switch e := expr.(type) {
	case *ast.Ident:
		slot, ok := lw.locals[e.Decl]
		if !ok {
			panic("irgen: identifier " + e.Name + " has no stack slot")
		}
		return slot
	case *ast.IndexExpr:
		base := lw.lowerAddr(e.Base)
		idx := lw.lowerExpr(e.Index)
		zero := constant.NewInt(lltypes.I32, 0)
		return lw.cur.NewGetElementPtr(llType(e.Base.Type()), base, zero, idx)
	default:
		panic("irgen: expression is not addressable")
	}
}

func (lw *Lowerer) lowerIndex(e *ast.IndexExpr) value.Value {
	addr := lw.lowerAddr(e)
	return lw.cur.NewLoad(llType(e.Type()), addr)
}

func (lw *Lowerer) lowerUnary(e *ast.UnaryExpr) value.Value {
	switch e.Op {
	case ast.UnaryNeg:
		operand := lw.lowerExpr(e.Operand)
		if isFloatKind(e.Operand.Type()) {
			return lw.cur.NewFNeg(operand)
		}
		return lw.cur.NewSub(constant.NewInt(operand.Type().(*lltypes.IntType), 0), operand)
	case ast.UnaryNot:
		operand := lw.lowerExpr(e.Operand)
		return lw.cur.NewXor(operand, constant.NewInt(lltypes.I1, 1))
	case ast.UnaryBitNot:
		operand := lw.lowerExpr(e.Operand)
		it := operand.Type().(*lltypes.IntType)
		return lw.cur.NewXor(operand, constant.NewInt(it, -1))
	case ast.UnaryPreIncr, ast.UnaryPreDecr, ast.UnaryPostIncr, ast.UnaryPostDecr:
		return lw.lowerIncDec(e)
	default:
		panic("irgen: unhandled unary operator")
	}
}

func (lw *Lowerer) lowerIncDec(e *ast.UnaryExpr) value.Value {
	addr := lw.lowerAddr(e.Operand)
	old := lw.cur.NewLoad(llType(e.Operand.Type()), addr)
	one := constant.NewInt(old.Type().(*lltypes.IntType), 1)
	var updated value.Value
	if e.Op == ast.UnaryPreIncr || e.Op == ast.UnaryPostIncr {
		updated = lw.cur.NewAdd(old, one)
	} else {
		updated = lw.cur.NewSub(old, one)
	}
	lw.cur.NewStore(updated, addr)
	if e.Op == ast.UnaryPreIncr || e.Op == ast.UnaryPreDecr {
		return updated
	}
	return old
}

func (lw *Lowerer) lowerBinary(e *ast.BinaryExpr) value.Value {
	l := lw.lowerExpr(e.Left)
	r := lw.lowerExpr(e.Right)
	flt := isFloatKind(e.Left.Type()) || isFloatKind(e.Right.Type())
	signed := isSigned(e.Left.Type())

	switch e.Op {
	case "+":
		if flt {
			return lw.cur.NewFAdd(l, r)
		}
		return lw.cur.NewAdd(l, r)
	case "-":
		if flt {
			return lw.cur.NewFSub(l, r)
		}
		return lw.cur.NewSub(l, r)
	case "*":
		if flt {
			return lw.cur.NewFMul(l, r)
		}
		return lw.cur.NewMul(l, r)
	case "/":
		if flt {
			return lw.cur.NewFDiv(l, r)
		}
		if signed {
			return lw.cur.NewSDiv(l, r)
		}
		return lw.cur.NewUDiv(l, r)
	case "%":
		if flt {
			return lw.cur.NewFRem(l, r)
		}
		if signed {
			return lw.cur.NewSRem(l, r)
		}
		return lw.cur.NewURem(l, r)
	case "&":
		return lw.cur.NewAnd(l, r)
	case "|":
		return lw.cur.NewOr(l, r)
	case "^":
		return lw.cur.NewXor(l, r)
	case "<<":
		return lw.cur.NewShl(l, r)
	case ">>":
		if signed {
			return lw.cur.NewAShr(l, r)
		}
		return lw.cur.NewLShr(l, r)
	case "==", "!=", "<", "<=", ">", ">=":
		if flt {
			return lw.cur.NewFCmp(fpred(e.Op), l, r)
		}
		return lw.cur.NewICmp(ipred(e.Op, signed), l, r)
	default:
		panic("irgen: unhandled binary operator " + e.Op)
	}
}

func ipred(op string, signed bool) enum.IPred {
	switch op {
	case "==":
		return enum.IPredEQ
	case "!=":
		return enum.IPredNE
	case "<":
		if signed {
			return enum.IPredSLT
		}
		return enum.IPredULT
	case "<=":
		if signed {
			return enum.IPredSLE
		}
		return enum.IPredULE
	case ">":
		if signed {
			return enum.IPredSGT
		}
		return enum.IPredUGT
	case ">=":
		if signed {
			return enum.IPredSGE
		}
		return enum.IPredUGE
	default:
		panic("irgen: unhandled integer relational operator " + op)
	}
}

func fpred(op string) enum.FPred {
	switch op {
	case "==":
		return enum.FPredOEQ
	case "!=":
		return enum.FPredONE
	case "<":
		return enum.FPredOLT
	case "<=":
		return enum.FPredOLE
	case ">":
		return enum.FPredOGT
	case ">=":
		return enum.FPredOGE
	default:
		panic("irgen: unhandled float relational operator " + op)
	}
}

// lowerLogical lowers && / || with full short-circuit control flow: a
// diamond of blocks joined by a PHI node selecting the right-hand
// value only when it was actually evaluated (spec §4.3: "logical &&/||
// lower to a diamond with a PHI, not an unconditional eager eval").
func (lw *Lowerer) lowerLogical(e *ast.LogicalExpr) value.Value {
	l := lw.lowerExpr(e.Left)
	lBlk := lw.cur

	rhsBlk := lw.fn.NewBlock("")
	mergeBlk := lw.fn.NewBlock("")

	if e.Op == "&&" {
		lw.cur.NewCondBr(l, rhsBlk, mergeBlk)
	} else {
		lw.cur.NewCondBr(l, mergeBlk, rhsBlk)
	}

	lw.cur = rhsBlk
	r := lw.lowerExpr(e.Right)
	rBlk := lw.cur
	lw.cur.NewBr(mergeBlk)

	lw.cur = mergeBlk
	phi := lw.cur.NewPhi(
		ir.NewIncoming(l, lBlk),
		ir.NewIncoming(r, rBlk),
	)
	return phi
}

func (lw *Lowerer) lowerAssign(e *ast.AssignExpr) value.Value {
	addr := lw.lowerAddr(e.Target)
	val := lw.lowerExpr(e.Value)
	if e.Op != "" {
		old := lw.cur.NewLoad(llType(e.Target.Type()), addr)
		val = lw.applyCompoundOp(e.Op, old, val, e.Target.Type())
	}
	val = lw.convert(val, e.Value.Type(), e.Target.Type())
	lw.cur.NewStore(val, addr)
	return val
}

func (lw *Lowerer) applyCompoundOp(op string, old, val value.Value, t *types.Type) value.Value {
	flt := isFloatKind(t)
	switch op {
	case "+":
		if flt {
			return lw.cur.NewFAdd(old, val)
		}
		return lw.cur.NewAdd(old, val)
	case "-":
		if flt {
			return lw.cur.NewFSub(old, val)
		}
		return lw.cur.NewSub(old, val)
	case "*":
		if flt {
			return lw.cur.NewFMul(old, val)
		}
		return lw.cur.NewMul(old, val)
	case "/":
		if flt {
			return lw.cur.NewFDiv(old, val)
		}
		if isSigned(t) {
			return lw.cur.NewSDiv(old, val)
		}
		return lw.cur.NewUDiv(old, val)
	case "%":
		if flt {
			return lw.cur.NewFRem(old, val)
		}
		if isSigned(t) {
			return lw.cur.NewSRem(old, val)
		}
		return lw.cur.NewURem(old, val)
	default:
		panic("irgen: unhandled compound-assignment operator " + op)
	}
}

func (lw *Lowerer) lowerCall(e *ast.CallExpr) value.Value {
	fn, ok := lw.funcs[e.Ref.Decl.Name]
	if !ok {
		// Built-ins (println, sqrt, abs, min, max) have no definition
		// in lw.funcs: the call lowers to the zero value of its return
		// type, its arguments are not evaluated, and no call is emitted.
		return zeroValue(e.Ref.Ret)
	}
	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		args[i] = lw.lowerExpr(a)
	}
	return lw.cur.NewCall(fn, args...)
}

func (lw *Lowerer) lowerInitList(e *ast.InitListExpr) value.Value {
	arrT := llType(e.Type())
	slot := lw.cur.NewAlloca(arrT)
	for i, el := range e.Elements {
		v := lw.lowerExpr(el)
		idx := constant.NewInt(lltypes.I32, int64(i))
		zero := constant.NewInt(lltypes.I32, 0)
		addr := lw.cur.NewGetElementPtr(arrT, slot, zero, idx)
		lw.cur.NewStore(v, addr)
	}
	return lw.cur.NewLoad(arrT, slot)
}
