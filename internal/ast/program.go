package ast

// StructDecl is a lexically declared struct type (spec §6: "Structs:
// declared lexically").
type StructDecl struct {
	DeclBase
	Fields []*ParameterDecl // reused shape: name + TypeName
}

func (s *StructDecl) StreamInputType() *TypeExpr     { return nil }
func (s *StructDecl) StreamOutputType() *TypeExpr    { return nil }
func (s *StructDecl) StreamParams() []*ParameterDecl { return nil }

// Program is the top-level unit a parser delivers: every struct,
// function, and stream declaration in one source file, plus the name
// of the top-level `void -> void` pipeline that streamgraph.Build
// elaborates (spec §4.4).
type Program struct {
	Structs    []*StructDecl
	Functions  []*FunctionDecl
	Filters    []*FilterDecl
	Pipelines  []*PipelineDecl
	SplitJoins []*SplitJoinDecl

	TopLevel string // name of the entry pipeline
}

// StreamDecls returns every named stream declaration (filter, pipeline,
// splitjoin) in the program, keyed by name — the lookup table C4 uses
// to resolve an AddStmt's StreamName.
func (p *Program) StreamDecls() map[string]StreamDecl {
	out := make(map[string]StreamDecl, len(p.Filters)+len(p.Pipelines)+len(p.SplitJoins))
	for _, f := range p.Filters {
		out[f.Name] = f
	}
	for _, pl := range p.Pipelines {
		out[pl.Name] = pl
	}
	for _, sj := range p.SplitJoins {
		out[sj.Name] = sj
	}
	return out
}
