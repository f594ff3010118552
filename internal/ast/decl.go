package ast

import "streamc/internal/types"

// Decl is any named entity a scope can bind (spec §3's abstract
// Declaration record). Variants: Variable, Parameter, Filter,
// Pipeline, SplitJoin, Function.
type Decl interface {
	Position() Pos
	DeclName() string
	IsConstant() bool
	DeclType() *types.Type
}

// DeclBase factors the fields every Decl carries.
type DeclBase struct {
	Pos      Pos
	Name     string
	Constant bool
	Resolved *types.Type
}

func (d *DeclBase) Position() Pos           { return d.Pos }
func (d *DeclBase) DeclName() string        { return d.Name }
func (d *DeclBase) IsConstant() bool        { return d.Constant }
func (d *DeclBase) DeclType() *types.Type   { return d.Resolved }

// TypeExpr is the pre-resolution, parser-delivered spelling of a type
// (spec §6's scalar/array/struct source syntax). C1/C2 resolve it to a
// canonical *types.Type.
type TypeExpr struct {
	Pos Pos

	// Scalar name: "bit", "boolean", "int", "float", "complex", or a
	// user struct name. Empty when ArrayOf is set.
	Name string

	// APInt width, parsed from a `int<n>` style annotation; 0 when not
	// an explicit-width integer.
	APIntWidth  int
	APIntSigned bool

	ArrayOf  *TypeExpr // non-nil for `T[N]`
	ArrayLen Expr      // constant-expression array length, paired with ArrayOf
}

// VariableDecl is a `let`-style local or filter-state variable
// declaration.
type VariableDecl struct {
	DeclBase
	TypeName *TypeExpr // nil when the type is inferred from Init
	Init     Expr      // may be nil
}

// ParameterDecl is a filter/pipeline/splitjoin/function parameter.
type ParameterDecl struct {
	DeclBase
	TypeName *TypeExpr
}

// FunctionDecl is a built-in or user-declared function (spec §3).
type FunctionDecl struct {
	DeclBase
	Params     []*ParameterDecl
	ReturnType *TypeExpr
	Body       []Stmt // nil for built-ins
	Builtin    bool
}

// StreamDecl is the common shape of Filter/Pipeline/SplitJoin
// declarations (spec §6's `T1 -> T2 {pipeline|splitjoin|filter} NAME(params) {...}`).
type StreamDecl interface {
	Decl
	StreamInputType() *TypeExpr
	StreamOutputType() *TypeExpr
	StreamParams() []*ParameterDecl
}

// FilterDecl is a leaf stream declaration with up to three work
// blocks (spec §3's WorkBlock, §6's `filter` syntax).
type FilterDecl struct {
	DeclBase
	InputType  *TypeExpr
	OutputType *TypeExpr
	Params     []*ParameterDecl
	Stateful   bool
	Vars       []*VariableDecl // filter-scope state, persists across work invocations iff Stateful
	Init       *WorkBlock      // runs once
	Prework    *WorkBlock      // runs once, after Init, before steady state
	Work       *WorkBlock      // the steady-state work block; required

	ResolvedInput  *types.Type // filled in by C2
	ResolvedOutput *types.Type
}

func (f *FilterDecl) StreamInputType() *TypeExpr        { return f.InputType }
func (f *FilterDecl) StreamOutputType() *TypeExpr       { return f.OutputType }
func (f *FilterDecl) StreamParams() []*ParameterDecl    { return f.Params }

// PipelineDecl is a serial composition of child streams (spec §3, §4.4).
type PipelineDecl struct {
	DeclBase
	InputType  *TypeExpr
	OutputType *TypeExpr
	Params     []*ParameterDecl
	Body       []Stmt // AddStmt list (and local var decls feeding constant args)
	Anonymous  bool   // inline body nested in an enclosing add (SPEC_FULL.md §3)

	ResolvedInput  *types.Type
	ResolvedOutput *types.Type
}

func (p *PipelineDecl) StreamInputType() *TypeExpr     { return p.InputType }
func (p *PipelineDecl) StreamOutputType() *TypeExpr    { return p.OutputType }
func (p *PipelineDecl) StreamParams() []*ParameterDecl { return p.Params }

// SplitJoinDecl is a parallel composition with one split and one join
// (spec §3, §4.4).
type SplitJoinDecl struct {
	DeclBase
	InputType  *TypeExpr
	OutputType *TypeExpr
	Params     []*ParameterDecl
	Body       []Stmt // SplitStmt, AddStmt..., JoinStmt
	Anonymous  bool

	ResolvedInput  *types.Type
	ResolvedOutput *types.Type
}

func (s *SplitJoinDecl) StreamInputType() *TypeExpr     { return s.InputType }
func (s *SplitJoinDecl) StreamOutputType() *TypeExpr    { return s.OutputType }
func (s *SplitJoinDecl) StreamParams() []*ParameterDecl { return s.Params }
