// Package sema implements C2, the semantic analyser: it walks the AST
// once, resolving names and assigning a Type to every expression (spec
// §4.2). Where the teacher dispatches through an Accept/Visitor pair
// per node, every pass here is a single type switch over the concrete
// ast node types (Design Note 9).
package sema

import (
	"fmt"

	"streamc/internal/ast"
	"streamc/internal/diag"
	"streamc/internal/types"
)

// Analyzer holds all job-local mutable state for one semantic-analysis
// pass: the type interner, the function/struct registries, the scope
// stack, and the diagnostic report being accumulated. Per spec §5, one
// Analyzer serves exactly one compilation job.
type Analyzer struct {
	in     *types.Interner
	report diag.Report

	structs   map[string]*ast.StructDecl
	functions map[string][]*ast.FunctionDecl // grouped by name for overload resolution
	streams   map[string]ast.StreamDecl

	scopes *scopeStack

	// loopDepth tracks for-loop nesting so break/continue outside a
	// loop is rejected without a dedicated diag.Kind (treated like any
	// other NotAnLValue-class structural misuse — see analyzeStmt).
	loopDepth int

	// curFilterInput/curFilterOutput/curFilterStateful/curFilterStateVars
	// describe the filter whose work blocks are currently being
	// analysed, so peek/pop/push and the stateless-write check (spec
	// §4.2) can see it without threading it through every call.
	curFilterInput     *types.Type
	curFilterOutput    *types.Type
	curFilterStateful  bool
	curFilterStateVars map[*ast.VariableDecl]bool

	// curPeekRate is the enclosing work block's resolved peek rate, so
	// typePeek can bound-check a peek(i) call site's index against it
	// (spec §4.2: "peek(i) requires i be a constant non-negative integer
	// < peek_rate"). -1 outside of any work block.
	curPeekRate int
}

// NewAnalyzer creates an Analyzer bound to the given type interner.
func NewAnalyzer(in *types.Interner) *Analyzer {
	a := &Analyzer{
		in:        in,
		structs:   make(map[string]*ast.StructDecl),
		functions: make(map[string][]*ast.FunctionDecl),
		streams:   make(map[string]ast.StreamDecl),
		scopes:    newScopeStack(),
		curPeekRate: -1,
	}
	a.registerBuiltins()
	return a
}

// Analyze walks prog once, mutating every Expr's ResolvedType and every
// Ident's Decl in place. It returns prog (for chaining) and the
// accumulated diagnostic report; a report with HasErrors() == true
// means the program was rejected (spec §4.2's "Returns Ok or a list of
// diagnostic reports").
func (a *Analyzer) Analyze(prog *ast.Program) (*ast.Program, *diag.Report) {
	for _, s := range prog.Structs {
		a.registerStruct(s)
	}
	for _, f := range prog.Functions {
		a.registerFunction(f)
	}
	for _, s := range prog.StreamDecls() {
		a.streams[s.DeclName()] = s
	}

	for _, f := range prog.Functions {
		if !f.Builtin {
			a.analyzeFunctionBody(f)
		}
	}
	for _, f := range prog.Filters {
		a.analyzeFilter(f)
	}
	for _, p := range prog.Pipelines {
		a.analyzePipelineBody(p)
	}
	for _, sj := range prog.SplitJoins {
		a.analyzeSplitJoinBody(sj)
	}

	return prog, &a.report
}

func (a *Analyzer) errorf(kind diag.Kind, pos ast.Pos, format string, args ...interface{}) {
	a.report.Add(&diag.Diagnostic{
		Kind:     kind,
		Severity: diag.SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

func (a *Analyzer) warnf(kind diag.Kind, pos ast.Pos, format string, args ...interface{}) {
	a.report.Add(&diag.Diagnostic{
		Kind:     kind,
		Severity: diag.SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// resolveType turns a parser-delivered TypeExpr into a canonical
// *types.Type (C1's responsibility, invoked here at every declaration
// site: spec §4.1 is "consulted by all others").
func (a *Analyzer) resolveType(te *ast.TypeExpr) *types.Type {
	if te == nil {
		return a.in.Void()
	}
	if te.ArrayOf != nil {
		elem := a.resolveType(te.ArrayOf)
		length, ok := foldInt(te.ArrayLen)
		if !ok {
			a.errorf(diag.NonConstantArraySize, te.Pos, "array length must be a compile-time constant")
			return elem
		}
		if length <= 0 {
			a.errorf(diag.NonConstantArraySize, te.Pos, "array length must be positive, got %d", length)
			return elem
		}
		return a.in.Array(elem, uint32(length))
	}
	if te.APIntWidth > 0 {
		return a.in.APInt(te.APIntWidth, te.APIntSigned)
	}
	switch te.Name {
	case "void":
		return a.in.Void()
	case "bit":
		return a.in.Bit()
	case "boolean", "bool":
		return a.in.Bool()
	case "int":
		return a.in.Int()
	case "float":
		return a.in.Float()
	case "long double":
		a.warnf(diag.UnsupportedForHardware, te.Pos,
			"%q exceeds the HDL backend's supported floating-point width and will be narrowed to single precision", te.Name)
		return a.in.LongDouble()
	case "complex":
		return a.in.Complex()
	default:
		if sd, ok := a.structs[te.Name]; ok {
			return sd.DeclType()
		}
		a.errorf(diag.UndeclaredName, te.Pos, "undeclared type %q", te.Name)
		return a.in.Int()
	}
}

func (a *Analyzer) registerStruct(s *ast.StructDecl) {
	fields := make([]types.Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		fields = append(fields, types.Field{Name: f.Name, Type: a.resolveType(f.TypeName)})
	}
	s.Resolved = a.in.Struct(s.Name, fields)
	a.structs[s.Name] = s
}

func (a *Analyzer) registerFunction(f *ast.FunctionDecl) {
	for _, p := range f.Params {
		p.Resolved = a.resolveType(p.TypeName)
	}
	f.Resolved = a.resolveType(f.ReturnType)
	a.functions[f.Name] = append(a.functions[f.Name], f)
}

// registerBuiltins pre-registers the built-in functions spec §4.2
// names (println and math intrinsics).
func (a *Analyzer) registerBuiltins() {
	mk := func(name string, ret *types.Type, params ...*types.Type) *ast.FunctionDecl {
		ps := make([]*ast.ParameterDecl, len(params))
		for i, p := range params {
			ps[i] = &ast.ParameterDecl{DeclBase: ast.DeclBase{Name: fmt.Sprintf("a%d", i), Resolved: p}}
		}
		return &ast.FunctionDecl{
			DeclBase: ast.DeclBase{Name: name, Resolved: ret},
			Params:   ps,
			Builtin:  true,
		}
	}
	reg := func(fd *ast.FunctionDecl) {
		a.functions[fd.Name] = append(a.functions[fd.Name], fd)
	}
	reg(mk("println", a.in.Void(), a.in.Int()))
	reg(mk("println", a.in.Void(), a.in.Float()))
	reg(mk("println", a.in.Void(), a.in.Bool()))
	reg(mk("sqrt", a.in.Float(), a.in.Float()))
	reg(mk("abs", a.in.Int(), a.in.Int()))
	reg(mk("abs", a.in.Float(), a.in.Float()))
	reg(mk("min", a.in.Int(), a.in.Int(), a.in.Int()))
	reg(mk("max", a.in.Int(), a.in.Int(), a.in.Int()))
}

