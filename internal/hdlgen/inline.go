package hdlgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// forEachOperand calls visit once per SSA value inst reads. Grounded
// directly on the concrete instruction fields llir/llvm exposes — no
// generic Operands() walk, matching how the teacher's own
// internal/compiler/compiler.go switches on concrete AST node types
// rather than an Accept/Visitor indirection (Design Note 9).
func forEachOperand(inst ir.Instruction, visit func(value.Value)) {
	switch in := inst.(type) {
	case *ir.InstAdd:
		visit(in.X)
		visit(in.Y)
	case *ir.InstSub:
		visit(in.X)
		visit(in.Y)
	case *ir.InstMul:
		visit(in.X)
		visit(in.Y)
	case *ir.InstSDiv:
		visit(in.X)
		visit(in.Y)
	case *ir.InstUDiv:
		visit(in.X)
		visit(in.Y)
	case *ir.InstSRem:
		visit(in.X)
		visit(in.Y)
	case *ir.InstURem:
		visit(in.X)
		visit(in.Y)
	case *ir.InstAnd:
		visit(in.X)
		visit(in.Y)
	case *ir.InstOr:
		visit(in.X)
		visit(in.Y)
	case *ir.InstXor:
		visit(in.X)
		visit(in.Y)
	case *ir.InstShl:
		visit(in.X)
		visit(in.Y)
	case *ir.InstLShr:
		visit(in.X)
		visit(in.Y)
	case *ir.InstAShr:
		visit(in.X)
		visit(in.Y)
	case *ir.InstFAdd:
		visit(in.X)
		visit(in.Y)
	case *ir.InstFSub:
		visit(in.X)
		visit(in.Y)
	case *ir.InstFMul:
		visit(in.X)
		visit(in.Y)
	case *ir.InstFDiv:
		visit(in.X)
		visit(in.Y)
	case *ir.InstFRem:
		visit(in.X)
		visit(in.Y)
	case *ir.InstFNeg:
		visit(in.X)
	case *ir.InstICmp:
		visit(in.X)
		visit(in.Y)
	case *ir.InstFCmp:
		visit(in.X)
		visit(in.Y)
	case *ir.InstLoad:
		visit(in.Src)
	case *ir.InstStore:
		visit(in.Src)
		visit(in.Dst)
	case *ir.InstAlloca:
		// no SSA-value operands; size/type only.
	case *ir.InstGetElementPtr:
		visit(in.Src)
		for _, idx := range in.Indices {
			visit(idx)
		}
	case *ir.InstPhi:
		for _, inc := range in.Incs {
			visit(inc.X)
		}
	case *ir.InstCall:
		for _, a := range in.Args {
			visit(a)
		}
	case *ir.InstTrunc:
		visit(in.From)
	case *ir.InstZExt:
		visit(in.From)
	case *ir.InstSExt:
		visit(in.From)
	case *ir.InstSIToFP:
		visit(in.From)
	case *ir.InstUIToFP:
		visit(in.From)
	case *ir.InstFPToSI:
		visit(in.From)
	case *ir.InstFPToUI:
		visit(in.From)
	case *ir.InstBitCast:
		visit(in.From)
	case *ir.TermRet:
		if in.X != nil {
			visit(in.X)
		}
	case *ir.TermCondBr:
		visit(in.Cond)
	case *ir.TermBr:
		// unconditional; no value operand.
	}
}

// resultOf returns inst's SSA result as a value.Value, or (nil, false)
// for instructions with no result (store, alloca-as-statement aside,
// terminators).
func resultOf(inst ir.Instruction) (value.Value, bool) {
	v, ok := inst.(value.Value)
	if !ok {
		return nil, false
	}
	if _, isStore := inst.(*ir.InstStore); isStore {
		return nil, false
	}
	return v, true
}

// valueName returns the C identifier or literal used to reference v in
// an expression: a literal for constants, the bound local name for
// anything already emitted, or (for an inlinable producer) its
// expression re-rendered in place.
func (e *CEmitter) valueName(v value.Value) string {
	if c, ok := v.(constant.Constant); ok {
		return e.constExpr(c)
	}
	if name, ok := e.names[v.Ident()]; ok {
		return name
	}
	if inst, ok := v.(ir.Instruction); ok {
		if isInlinable(inst, e.useCount) {
			return e.exprOf(inst)
		}
	}
	// Parameter or otherwise-unnamed value: fall back to its mangled
	// LLVM-level identifier.
	name := mangle(v.Ident())
	e.names[v.Ident()] = name
	return name
}

func (e *CEmitter) constExpr(c constant.Constant) string {
	switch cv := c.(type) {
	case *constant.Int:
		return cv.X.String()
	case *constant.Float:
		return cv.X.String()
	default:
		return "0"
	}
}

// bindName assigns inst's result a stable C local name, emitted once
// at its point of definition.
func (e *CEmitter) bindName(inst ir.Instruction) string {
	v, ok := resultOf(inst)
	if !ok {
		return ""
	}
	if name, ok := e.names[v.Ident()]; ok {
		return name
	}
	name := e.anon.next("t")
	e.names[v.Ident()] = name
	return name
}

// phiShadowName is the shadow variable every predecessor block assigns
// before branching into a block headed by a PHI (spec §4.5: "PHI nodes
// lower to a `<value>__PHI_TEMPORARY` shadow variable, assigned by
// every predecessor instead of passed as a basic-block argument — C
// has no SSA phi").
func phiShadowName(name string) string {
	return name + "__PHI_TEMPORARY"
}

// emitInst renders one non-terminator instruction. Inlinable producers
// (spec §4.5's single-use/same-block/non-load-call-phi rule) emit
// nothing here; their expression is rendered lazily at their one use
// site by valueName/exprOf.
func (e *CEmitter) emitInst(inst ir.Instruction) {
	switch in := inst.(type) {
	case *ir.InstStore:
		fmt.Fprintf(&e.bodies, "    %s = %s;\n", e.lvalue(in.Dst), e.valueName(in.Src))
		return
	case *ir.InstAlloca:
		name := e.bindName(inst)
		fmt.Fprintf(&e.bodies, "    %s %s;\n", cType(in.ElemType, e.structNames), name)
		return
	case *ir.InstCall:
		// Calls are never inlined (spec §4.5): side effects must occur
		// exactly once, at their original program point.
		if v, ok := resultOf(inst); ok && v.Type() != lltypes.Void {
			name := e.bindName(inst)
			fmt.Fprintf(&e.bodies, "    %s %s = %s;\n", cType(v.Type(), e.structNames), name, e.exprOf(inst))
		} else {
			fmt.Fprintf(&e.bodies, "    %s;\n", e.exprOf(inst))
		}
		return
	case *ir.InstPhi:
		v := in
		name := e.bindName(v)
		fmt.Fprintf(&e.bodies, "    %s %s = %s;\n", cType(v.Type(), e.structNames), name, phiShadowName(name))
		return
	}

	v, ok := resultOf(inst)
	if !ok {
		return
	}
	if isInlinable(inst, e.useCount) {
		return // rendered lazily at its use site
	}
	name := e.bindName(inst)
	fmt.Fprintf(&e.bodies, "    %s %s = %s;\n", cType(v.Type(), e.structNames), name, e.exprOf(inst))
}

// lvalue renders a store destination: a GEP result dereferences as an
// array index, anything else as a plain pointer dereference.
func (e *CEmitter) lvalue(dst value.Value) string {
	if gep, ok := dst.(*ir.InstGetElementPtr); ok && len(gep.Indices) > 0 {
		idx := gep.Indices[len(gep.Indices)-1]
		return fmt.Sprintf("%s[%s]", e.valueName(gep.Src), e.valueName(idx))
	}
	return "*" + e.valueName(dst)
}

// exprOf renders inst as a C expression, recursively inlining operands
// that are themselves single-use producers in the same block.
func (e *CEmitter) exprOf(inst ir.Instruction) string {
	signed := func(t lltypes.Type) bool {
		it, ok := t.(*lltypes.IntType)
		return ok && it.BitSize > 1 // bit-vectors of width 1 (Bool/Bit) are unsigned
	}
	// maskOdd wraps an unsigned expression whose bit width isn't a
	// native C size with an explicit `& ((1<<w)-1)` mask (spec §4.5:
	// "odd-width integers are masked after every operation that could
	// overflow their declared width, since the C type backing them is
	// always rounded up").
	maskOdd := func(expr string, t lltypes.Type) string {
		it, ok := t.(*lltypes.IntType)
		if !ok {
			return expr
		}
		w := int(it.BitSize)
		if w == roundedWidth(w) {
			return expr
		}
		return fmt.Sprintf("((%s) & ((1ULL<<%d)-1))", expr, w)
	}

	switch in := inst.(type) {
	case *ir.InstAdd:
		return maskOdd(fmt.Sprintf("(%s + %s)", e.valueName(in.X), e.valueName(in.Y)), in.Type())
	case *ir.InstSub:
		return maskOdd(fmt.Sprintf("(%s - %s)", e.valueName(in.X), e.valueName(in.Y)), in.Type())
	case *ir.InstMul:
		return maskOdd(fmt.Sprintf("(%s * %s)", e.valueName(in.X), e.valueName(in.Y)), in.Type())
	case *ir.InstSDiv:
		return fmt.Sprintf("((%s)(int64_t)%s / (int64_t)%s)", cType(in.Type(), e.structNames), e.valueName(in.X), e.valueName(in.Y))
	case *ir.InstUDiv:
		return fmt.Sprintf("(%s / %s)", e.valueName(in.X), e.valueName(in.Y))
	case *ir.InstSRem:
		return fmt.Sprintf("((%s)(int64_t)%s %% (int64_t)%s)", cType(in.Type(), e.structNames), e.valueName(in.X), e.valueName(in.Y))
	case *ir.InstURem:
		return fmt.Sprintf("(%s %% %s)", e.valueName(in.X), e.valueName(in.Y))
	case *ir.InstAnd:
		return fmt.Sprintf("(%s & %s)", e.valueName(in.X), e.valueName(in.Y))
	case *ir.InstOr:
		return fmt.Sprintf("(%s | %s)", e.valueName(in.X), e.valueName(in.Y))
	case *ir.InstXor:
		return fmt.Sprintf("(%s ^ %s)", e.valueName(in.X), e.valueName(in.Y))
	case *ir.InstShl:
		return maskOdd(fmt.Sprintf("(%s << %s)", e.valueName(in.X), e.valueName(in.Y)), in.Type())
	case *ir.InstLShr:
		return fmt.Sprintf("(%s >> %s)", e.valueName(in.X), e.valueName(in.Y))
	case *ir.InstAShr:
		// unsigned storage with a signed escape hatch for arithmetic
		// shift-right (spec §4.5: ">> on a signed-semantics value casts
		// to a same-width signed type first, then back").
		return fmt.Sprintf("((%s)((int64_t)%s >> %s))", cType(in.Type(), e.structNames), e.valueName(in.X), e.valueName(in.Y))
	case *ir.InstFAdd:
		return fmt.Sprintf("(%s + %s)", e.valueName(in.X), e.valueName(in.Y))
	case *ir.InstFSub:
		return fmt.Sprintf("(%s - %s)", e.valueName(in.X), e.valueName(in.Y))
	case *ir.InstFMul:
		return fmt.Sprintf("(%s * %s)", e.valueName(in.X), e.valueName(in.Y))
	case *ir.InstFDiv:
		return fmt.Sprintf("(%s / %s)", e.valueName(in.X), e.valueName(in.Y))
	case *ir.InstFRem:
		return fmt.Sprintf("fmod(%s, %s)", e.valueName(in.X), e.valueName(in.Y))
	case *ir.InstFNeg:
		return fmt.Sprintf("(-%s)", e.valueName(in.X))
	case *ir.InstICmp:
		return fmt.Sprintf("(%s %s %s)", e.valueName(in.X), icmpOp(in.Pred, signed(in.X.Type())), e.valueName(in.Y))
	case *ir.InstFCmp:
		return fmt.Sprintf("(%s %s %s)", e.valueName(in.X), fcmpOp(in.Pred), e.valueName(in.Y))
	case *ir.InstLoad:
		return "*" + e.valueName(in.Src)
	case *ir.InstGetElementPtr:
		if len(in.Indices) > 0 {
			idx := in.Indices[len(in.Indices)-1]
			return fmt.Sprintf("(&%s[%s])", e.valueName(in.Src), e.valueName(idx))
		}
		return e.valueName(in.Src)
	case *ir.InstCall:
		args := make([]string, len(in.Args))
		for i, a := range in.Args {
			args[i] = e.valueName(a)
		}
		return fmt.Sprintf("%s(%s)", mangle(in.Callee.Ident()), joinArgs(args))
	case *ir.InstTrunc:
		return fmt.Sprintf("((%s)%s)", cType(in.To, e.structNames), e.valueName(in.From))
	case *ir.InstZExt:
		return fmt.Sprintf("((%s)%s)", cType(in.To, e.structNames), e.valueName(in.From))
	case *ir.InstSExt:
		return fmt.Sprintf("((%s)(int64_t)%s)", cType(in.To, e.structNames), e.valueName(in.From))
	case *ir.InstSIToFP:
		return fmt.Sprintf("((%s)(int64_t)%s)", cType(in.To, e.structNames), e.valueName(in.From))
	case *ir.InstUIToFP:
		return fmt.Sprintf("((%s)%s)", cType(in.To, e.structNames), e.valueName(in.From))
	case *ir.InstFPToSI:
		return fmt.Sprintf("((%s)(int64_t)%s)", cType(in.To, e.structNames), e.valueName(in.From))
	case *ir.InstFPToUI:
		return fmt.Sprintf("((%s)%s)", cType(in.To, e.structNames), e.valueName(in.From))
	case *ir.InstBitCast:
		// FP<->int reinterpretation goes through a single-field union
		// temporary (spec §4.5: "bitcast between float and integer
		// representations is emitted as a union, never a pointer cast,
		// to stay alias-rule-clean in the HLS front end").
		return e.bitcastExpr(in)
	default:
		return "0"
	}
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}

func icmpOp(pred enum.IPred, signed bool) string {
	switch pred {
	case enum.IPredEQ:
		return "=="
	case enum.IPredNE:
		return "!="
	case enum.IPredSLT, enum.IPredULT:
		return "<"
	case enum.IPredSLE, enum.IPredULE:
		return "<="
	case enum.IPredSGT, enum.IPredUGT:
		return ">"
	case enum.IPredSGE, enum.IPredUGE:
		return ">="
	default:
		return "=="
	}
}

func fcmpOp(pred enum.FPred) string {
	switch pred {
	case enum.FPredOEQ:
		return "=="
	case enum.FPredONE:
		return "!="
	case enum.FPredOLT:
		return "<"
	case enum.FPredOLE:
		return "<="
	case enum.FPredOGT:
		return ">"
	case enum.FPredOGE:
		return ">="
	default:
		return "=="
	}
}

// bitcastExpr emits a named union temporary, assigns the source field,
// and reads back the destination field — the classic C idiom for a
// bit-preserving float/int reinterpretation.
func (e *CEmitter) bitcastExpr(in *ir.InstBitCast) string {
	fromT := cType(in.From.Type(), e.structNames)
	toT := cType(in.To, e.structNames)
	tmp := e.anon.next("u_bitcast_")
	fmt.Fprintf(&e.bodies, "    union { %s a; %s b; } %s; %s.a = %s;\n", fromT, toT, tmp, tmp, e.valueName(in.From))
	return tmp + ".b"
}
