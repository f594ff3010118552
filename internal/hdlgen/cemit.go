package hdlgen

import (
	"fmt"
	"strings"

	"github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// CEmitter walks one SSA module and renders it as HLS-ready C source
// (spec §4.5's "C-syntax lowering"). Job-local like every other
// component: one CEmitter per compilation, per spec §5.
type CEmitter struct {
	header strings.Builder // type/function-pointer/global declarations
	bodies strings.Builder // function bodies, emitted after all declarations

	names       map[string]string // SSA value -> chosen C identifier, memoized across one function
	structNames map[lltypes.Type]string
	anon        anonCounter

	useCount map[value.Value]int // operand references to this value within the function being emitted; see countUses for how cross-block uses count
}

// NewCEmitter creates an empty emitter.
func NewCEmitter() *CEmitter {
	return &CEmitter{structNames: make(map[lltypes.Type]string)}
}

// EmitModule renders every function in m, declarations first then
// bodies (spec §4.5's "Ordering guarantees... declarations emitted
// strictly before uses; emission accumulates into two buffers (header,
// bodies) concatenated at the end").
func (e *CEmitter) EmitModule(m *ir.Module) string {
	e.header.WriteString("#include <stdint.h>\n\n")
	for _, t := range m.TypeDefs {
		e.declareStruct(t)
	}
	for _, f := range m.Funcs {
		e.emitSignature(f)
	}
	e.header.WriteString("\n")
	for _, f := range m.Funcs {
		e.emitFunc(f)
	}
	return e.header.String() + "\n" + e.bodies.String()
}

func (e *CEmitter) declareStruct(t lltypes.Type) {
	st, ok := t.(*lltypes.StructType)
	if !ok {
		return
	}
	if _, exists := e.structNames[t]; exists {
		return
	}
	name := e.anon.next("l_struct_")
	e.structNames[t] = name
	fmt.Fprintf(&e.header, "struct %s {\n", name)
	for i, f := range st.Fields {
		fmt.Fprintf(&e.header, "    %s f%d;\n", cType(f, e.structNames), i)
	}
	e.header.WriteString("};\n\n")
}

func (e *CEmitter) emitSignature(f *ir.Func) string {
	sig := e.signature(f)
	fmt.Fprintf(&e.header, "%s;\n", sig)
	return sig
}

func (e *CEmitter) signature(f *ir.Func) string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s %s", cType(p.Type(), e.structNames), mangle(p.Name()))
	}
	return fmt.Sprintf("%s %s(%s)", cType(f.Sig.RetType, e.structNames), mangle(f.Name()), strings.Join(params, ", "))
}

// emitFunc renders one function's body. Instruction inlining (spec
// §4.5) folds a single-use, same-block, non-load/call/PHI/terminator
// instruction directly into its one use's expression instead of
// binding it to a named C local.
func (e *CEmitter) emitFunc(f *ir.Func) {
	e.names = make(map[string]string)
	e.useCount = countUses(f)

	fmt.Fprintf(&e.bodies, "%s {\n", e.signature(f))
	for _, b := range f.Blocks {
		fmt.Fprintf(&e.bodies, "%s:\n", mangle(blockLabel(b)))
		for _, inst := range b.Insts {
			e.emitInst(inst)
		}
		e.emitTerm(b.Term)
	}
	e.bodies.WriteString("}\n\n")
}

func blockLabel(b *ir.Block) string {
	if b.LocalName != "" {
		return b.LocalName
	}
	return fmt.Sprintf("bb%p", b)
}

// countUses records, per value, how many instruction operands
// reference it — the "result has one use" half of the inlining test.
// A use outside the value's defining block counts twice, so a value
// whose one use sits in another block is never treated as single-use.
func countUses(f *ir.Func) map[value.Value]int {
	defBlock := make(map[value.Value]*ir.Block)
	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			if v, ok := inst.(value.Value); ok {
				defBlock[v] = b
			}
		}
	}
	uses := make(map[value.Value]int)
	for _, b := range f.Blocks {
		visit := func(v value.Value) {
			uses[v]++
			if db, ok := defBlock[v]; ok && db != b {
				uses[v]++
			}
		}
		for _, inst := range b.Insts {
			forEachOperand(inst, visit)
		}
		if b.Term != nil {
			forEachOperand(b.Term, visit)
		}
	}
	return uses
}

// isInlinable reports whether inst's single result may be folded into
// its use expression rather than bound to a C temporary (spec §4.5).
func isInlinable(inst ir.Instruction, uses map[value.Value]int) bool {
	v, ok := inst.(value.Value)
	if !ok {
		return false
	}
	switch inst.(type) {
	case *ir.InstLoad, *ir.InstCall, *ir.InstPhi:
		return false
	default:
		return uses[v] == 1
	}
}

// emitTerm renders a block terminator, assigning any successor block's
// PHI shadow variables immediately before the branch (spec §4.5: each
// predecessor assigns `<value>__PHI_TEMPORARY` for every PHI headed by
// the block it is jumping to).
func (e *CEmitter) emitTerm(term ir.Terminator) {
	switch t := term.(type) {
	case *ir.TermRet:
		if t.X == nil {
			e.bodies.WriteString("    return;\n")
			return
		}
		fmt.Fprintf(&e.bodies, "    return %s;\n", e.valueName(t.X))
	case *ir.TermBr:
		e.assignPhiShadows(t.Target, t.Parent)
		fmt.Fprintf(&e.bodies, "    goto %s;\n", mangle(blockLabel(t.Target)))
	case *ir.TermCondBr:
		cond := e.valueName(t.Cond)
		e.assignPhiShadows(t.TargetTrue, t.Parent)
		e.assignPhiShadows(t.TargetFalse, t.Parent)
		fmt.Fprintf(&e.bodies, "    if (%s) goto %s; else goto %s;\n",
			cond, mangle(blockLabel(t.TargetTrue)), mangle(blockLabel(t.TargetFalse)))
	default:
		e.bodies.WriteString("    return;\n")
	}
}

// assignPhiShadows writes `<phi>__PHI_TEMPORARY = <incoming>;` for
// every PHI at the head of target whose incoming block is pred.
func (e *CEmitter) assignPhiShadows(target, pred *ir.Block) {
	if target == nil || pred == nil {
		return
	}
	for _, inst := range target.Insts {
		phi, ok := inst.(*ir.InstPhi)
		if !ok {
			break // PHIs are always grouped at a block's head
		}
		for _, inc := range phi.Incs {
			if inc.Pred == pred {
				name := e.bindName(phi)
				fmt.Fprintf(&e.bodies, "    %s = %s;\n", phiShadowName(name), e.valueName(inc.X))
				break
			}
		}
	}
}
