package irgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"streamc/internal/ast"
	"streamc/internal/diag"
	"streamc/internal/types"
)

// Lowerer holds the per-job state C3 needs while translating one
// type-checked Program into an *ir.Module (spec §4.3). It is job-local
// like Analyzer (spec §5): never shared across concurrent jobs.
type Lowerer struct {
	module  *ir.Module
	builder TargetFragmentBuilder
	report  *diag.Report

	funcs map[string]*ir.Func

	// per-function lowering state, reset at the start of each function
	cur      *ir.Block
	fn       *ir.Func
	locals   map[ast.Decl]value.Value // alloca'd stack slots for mutable locals
	retType  *types.Type
	filterCx *FilterContext

	breakTargets    []*ir.Block
	continueTargets []*ir.Block
}

// NewLowerer creates a Lowerer that will use builder to realize
// streaming primitives. Passing nil installs the reference
// sequentialChannelBuilder, suitable for the interpreter-style lowering
// C3 itself is tested against.
func NewLowerer(builder TargetFragmentBuilder) *Lowerer {
	if builder == nil {
		builder = &sequentialChannelBuilder{}
	}
	return &Lowerer{
		module:  ir.NewModule(),
		builder: builder,
		report:  &diag.Report{},
		funcs:   make(map[string]*ir.Func),
		locals:  make(map[ast.Decl]value.Value),
	}
}

// Lower translates every function and filter work-block in prog into
// the module, returning it alongside the accumulated diagnostic report
// (spec §4.3: "Lowering is total: every construct accepted by C2 has a
// defined lowering").
func (lw *Lowerer) Lower(prog *ast.Program) (*ir.Module, *diag.Report) {
	for _, f := range prog.Functions {
		if f.Builtin {
			continue
		}
		lw.declareFunc(f)
	}
	for _, f := range prog.Functions {
		if !f.Builtin {
			lw.lowerFunc(f)
		}
	}
	for _, f := range prog.Filters {
		lw.lowerFilter(f)
	}
	return lw.module, lw.report
}

func (lw *Lowerer) declareFunc(f *ast.FunctionDecl) *ir.Func {
	params := make([]*ir.Param, len(f.Params))
	for i, p := range f.Params {
		params[i] = ir.NewParam(p.Name, llType(p.Resolved))
	}
	fn := lw.module.NewFunc(f.Name, llType(f.Resolved), params...)
	lw.funcs[f.Name] = fn
	return fn
}

func (lw *Lowerer) lowerFunc(f *ast.FunctionDecl) {
	fn := lw.funcs[f.Name]
	lw.fn = fn
	lw.retType = f.Resolved
	lw.locals = make(map[ast.Decl]value.Value)
	lw.breakTargets = nil
	lw.continueTargets = nil

	entry := fn.NewBlock("entry")
	lw.cur = entry
	for i, p := range f.Params {
		slot := entry.NewAlloca(llType(p.Resolved))
		entry.NewStore(fn.Params[i], slot)
		lw.locals[p] = slot
	}

	lw.lowerStmts(f.Body)
	lw.terminateFallthrough()
}

// lowerFilter lowers a single work block of a filter into a dedicated
// function named "<filter>_<block>" (spec §4.3's per-block lowering).
// No call site to these functions is emitted.
func (lw *Lowerer) lowerFilter(f *ast.FilterDecl) {
	for name, wb := range map[string]*ast.WorkBlock{"init": f.Init, "prework": f.Prework, "work": f.Work} {
		if wb == nil {
			continue
		}
		lw.lowerWorkBlock(f, name, wb)
	}
}

func (lw *Lowerer) lowerWorkBlock(f *ast.FilterDecl, name string, wb *ast.WorkBlock) {
	fnName := fmt.Sprintf("%s_%s", f.Name, name)
	fn := lw.module.NewFunc(fnName, lltypes.Void)
	lw.funcs[fnName] = fn
	lw.fn = fn
	lw.retType = nil
	lw.locals = make(map[ast.Decl]value.Value)
	lw.breakTargets = nil
	lw.continueTargets = nil

	entry := fn.NewBlock("entry")
	lw.cur = entry

	lw.filterCx = &FilterContext{Func: fn}
	if f.ResolvedInput != nil && f.ResolvedInput.Kind != types.KindVoid {
		windowLen := wb.ResolvedPeek
		if windowLen < 1 {
			windowLen = 1
		}
		lw.filterCx.InParam = entry.NewAlloca(lltypes.NewArray(uint64(windowLen), llType(f.ResolvedInput)))
		lw.filterCx.InCursor = entry.NewAlloca(lltypes.I32)
		entry.NewStore(constant.NewInt(lltypes.I32, 0), lw.filterCx.InCursor)
	}
	if f.ResolvedOutput != nil && f.ResolvedOutput.Kind != types.KindVoid {
		windowLen := wb.ResolvedPush
		if windowLen < 1 {
			windowLen = 1
		}
		lw.filterCx.OutParam = entry.NewAlloca(lltypes.NewArray(uint64(windowLen), llType(f.ResolvedOutput)))
		lw.filterCx.OutCursor = entry.NewAlloca(lltypes.I32)
		entry.NewStore(constant.NewInt(lltypes.I32, 0), lw.filterCx.OutCursor)
	}
	for _, v := range f.Vars {
		slot := entry.NewAlloca(llType(v.Resolved))
		if v.Init != nil {
			entry.NewStore(lw.lowerExpr(v.Init), slot)
		}
		lw.locals[v] = slot
	}
	for _, p := range f.Params {
		slot := entry.NewAlloca(llType(p.Resolved))
		lw.locals[p] = slot
	}

	lw.lowerStmts(wb.Body)
	lw.terminateFallthrough()
	lw.filterCx = nil
}

// terminateFallthrough closes the current block with a return when the
// statement walk left it unterminated (e.g. a body with no explicit
// trailing return, or an empty body).
func (lw *Lowerer) terminateFallthrough() {
	if lw.cur.Term != nil {
		return
	}
	if lw.retType == nil || lw.retType.Kind == types.KindVoid {
		lw.cur.NewRet(nil)
		return
	}
	lw.cur.NewRet(zeroValue(lw.retType))
}

func zeroValue(t *types.Type) constant.Constant {
	lt := llType(t)
	switch it := lt.(type) {
	case *lltypes.IntType:
		return constant.NewInt(it, 0)
	case *lltypes.FloatType:
		return constant.NewFloat(it, 0)
	default:
		return constant.NewZeroInitializer(lt)
	}
}
