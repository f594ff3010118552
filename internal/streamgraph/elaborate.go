package streamgraph

import (
	"fmt"

	"github.com/google/uuid"

	"streamc/internal/ast"
	"streamc/internal/diag"
	"streamc/internal/types"
)

// Graph is C4's output: the root node of the elaborated stream graph;
// the diagnostic report is returned beside it by Build (spec
// §4.4's "produce a directed acyclic graph of filter instances with
// all channels labelled by element type and multiplicity").
type Graph struct {
	Root Node
}

// Builder elaborates one program's top-level pipeline into a Graph.
// Like Analyzer and Lowerer it is job-local (spec §5): one Builder per
// compilation, no shared mutable state across jobs.
type Builder struct {
	streams map[string]ast.StreamDecl
	report  diag.Report
}

// NewBuilder creates a Builder over prog's named stream declarations.
func NewBuilder(prog *ast.Program) *Builder {
	return &Builder{streams: prog.StreamDecls()}
}

// Build elaborates prog.TopLevel — a `void -> void` pipeline — into a
// Graph, recursively expanding every Pipeline/SplitJoin/Filter it
// references (spec §4.4). When integerOnly is set (driver.Options.
// TargetHDLIntegerOnly), every filter instance's input/output element
// type is checked against the integer-only HDL flow and a Float
// reaching the backend is reported as UnsupportedForHardware (spec
// §4.1).
func Build(prog *ast.Program, integerOnly bool) (*Graph, *diag.Report) {
	b := NewBuilder(prog)
	sd, ok := b.streams[prog.TopLevel]
	if !ok {
		b.report.Add(diag.NewInternal(ast.Pos{}, "streamgraph: top-level stream %q not found", prog.TopLevel))
		return nil, &b.report
	}
	root := b.elaborate(sd, nil)
	if root != nil {
		ComputeMultiplicities(root, &b.report)
		if integerOnly {
			checkIntegerOnlyHDL(root, &b.report)
		}
	}
	return &Graph{Root: root}, &b.report
}

// checkIntegerOnlyHDL walks every filter instance reachable from root
// and reports UnsupportedForHardware for any whose resolved input or
// output element type is Float (spec §4.1: "Error UnsupportedForHardware
// if element type is Float and the HDL backend was requested for
// integer-only flows").
func checkIntegerOnlyHDL(n Node, report *diag.Report) {
	switch node := n.(type) {
	case *FilterInstance:
		name := "<anonymous>"
		if node.Decl != nil {
			name = node.Decl.Name
		}
		if isFloatElem(node.InputType()) || isFloatElem(node.OutputType()) {
			report.Add(&diag.Diagnostic{
				Kind:     diag.UnsupportedForHardware,
				Severity: diag.SeverityError,
				Message:  fmt.Sprintf("filter %q has a floating-point element type, unsupported under an integer-only HDL flow", name),
			})
		}
	case *PipelineNode:
		for _, c := range node.Children {
			checkIntegerOnlyHDL(c, report)
		}
	case *SplitJoinNode:
		if isFloatElem(node.InputType()) || isFloatElem(node.OutputType()) {
			report.Add(&diag.Diagnostic{
				Kind:     diag.UnsupportedForHardware,
				Severity: diag.SeverityError,
				Message:  "splitjoin has a floating-point element type, unsupported under an integer-only HDL flow",
			})
		}
		for _, b := range node.Branches {
			checkIntegerOnlyHDL(b, report)
		}
	}
}

func isFloatElem(t *types.Type) bool {
	return t != nil && t.Kind == types.KindFloat
}

// bindings maps a stream's formal parameter name to the resolved
// constant argument supplied at its instantiation site (spec §4.4's
// per-add constant substitution — the step sema's const_fold.go
// explicitly defers for "once streamgraph substitutes a caller-
// provided constant argument").
type bindings map[string]int64

func (b *Builder) elaborate(sd ast.StreamDecl, args bindings) Node {
	switch decl := sd.(type) {
	case *ast.FilterDecl:
		return b.elaborateFilter(decl, args)
	case *ast.PipelineDecl:
		return b.elaboratePipeline(decl, args)
	case *ast.SplitJoinDecl:
		return b.elaborateSplitJoin(decl, args)
	default:
		b.report.Add(diag.NewInternal(sd.Position(), "streamgraph: unhandled stream declaration type %T", sd))
		return nil
	}
}

func (b *Builder) elaborateFilter(f *ast.FilterDecl, args bindings) *FilterInstance {
	peek, pop, push := 0, 0, 0
	if f.Work != nil {
		peek = evalRate(f.Work.PeekRate, args, f.Work.ResolvedPeek)
		pop = evalRate(f.Work.PopRate, args, f.Work.ResolvedPop)
		push = evalRate(f.Work.PushRate, args, f.Work.ResolvedPush)
	}

	argVals := make([]int64, len(f.Params))
	for i, p := range f.Params {
		argVals[i] = args[p.Name]
	}

	return &FilterInstance{
		ID:       uuid.New(),
		Decl:     f,
		Args:     argVals,
		PeekRate: peek,
		PopRate:  pop,
		PushRate: push,
	}
}

// evalRate returns the work block's effective rate: resolved is
// sema's already-folded value when the rate expression didn't depend
// on any filter parameter (the common case); when it did (the
// parameter was unresolvable at sema time), expr is re-evaluated here
// against this instantiation's concrete argument bindings.
func evalRate(expr ast.Expr, args bindings, resolved int) int {
	if expr == nil {
		return resolved
	}
	if v, ok := evalConst(expr, args); ok {
		return int(v)
	}
	return resolved
}

func (b *Builder) elaboratePipeline(p *ast.PipelineDecl, args bindings) *PipelineNode {
	node := &PipelineNode{}
	var prev Node
	for _, stmt := range p.Body {
		add, ok := stmt.(*ast.AddStmt)
		if !ok {
			continue
		}
		child := b.elaborateAdd(add, args)
		if child == nil {
			continue
		}
		if prev != nil && prev.OutputType() != child.InputType() {
			b.report.Add(&diag.Diagnostic{
				Kind:     diag.PipelineTypeMismatch,
				Severity: diag.SeverityError,
				Message:  "adjacent pipeline children have mismatched types",
				Pos:      add.Pos,
			})
		}
		node.Children = append(node.Children, child)
		prev = child
	}
	return node
}

func (b *Builder) elaborateSplitJoin(sj *ast.SplitJoinDecl, args bindings) *SplitJoinNode {
	node := &SplitJoinNode{}
	for _, stmt := range sj.Body {
		switch s := stmt.(type) {
		case *ast.SplitStmt:
			node.Split = &SplitNode{
				Elem:   sj.ResolvedInput,
				Policy: s.Policy,
			}
			for _, w := range s.Weights {
				v, _ := evalConst(w, args)
				node.Split.Weights = append(node.Split.Weights, int(v))
			}
		case *ast.JoinStmt:
			node.Join = &JoinNode{Elem: sj.ResolvedOutput}
			for _, w := range s.Weights {
				v, _ := evalConst(w, args)
				node.Join.Weights = append(node.Join.Weights, int(v))
			}
		case *ast.AddStmt:
			child := b.elaborateAdd(s, args)
			if child == nil {
				continue
			}
			if node.Split != nil && node.Split.Elem != child.InputType() {
				b.report.Add(&diag.Diagnostic{
					Kind:     diag.PipelineTypeMismatch,
					Severity: diag.SeverityError,
					Message:  "splitjoin branch input type does not match the split's element type",
					Pos:      s.Pos,
				})
			}
			node.Branches = append(node.Branches, child)
		}
	}
	if node.Split != nil {
		node.Split.Branches = len(node.Branches)
		if len(node.Split.Weights) == 0 {
			for range node.Branches {
				node.Split.Weights = append(node.Split.Weights, 1)
			}
		} else if len(node.Split.Weights) != len(node.Branches) {
			b.report.Add(&diag.Diagnostic{
				Kind:     diag.UnschedulableGraph,
				Severity: diag.SeverityError,
				Message: fmt.Sprintf(
					"split declares %d weight(s) but the splitjoin has %d branch(es)",
					len(node.Split.Weights), len(node.Branches)),
			})
		}
	}
	if node.Join != nil {
		if len(node.Join.Weights) == 0 {
			for range node.Branches {
				node.Join.Weights = append(node.Join.Weights, 1)
			}
		} else if len(node.Join.Weights) != len(node.Branches) {
			b.report.Add(&diag.Diagnostic{
				Kind:     diag.UnschedulableGraph,
				Severity: diag.SeverityError,
				Message: fmt.Sprintf(
					"join declares %d weight(s) but the splitjoin has %d branch(es)",
					len(node.Join.Weights), len(node.Branches)),
			})
		}
	}
	return node
}

// elaborateAdd resolves one AddStmt to a child Node: either a named
// stream declaration (instantiated with this call site's constant
// arguments bound to its formal parameters) or an inline anonymous
// body (SPEC_FULL.md §3).
func (b *Builder) elaborateAdd(add *ast.AddStmt, callerArgs bindings) Node {
	argVals := make([]int64, len(add.Args))
	for i, a := range add.Args {
		v, _ := evalConst(a, callerArgs)
		argVals[i] = v
	}

	if add.Anonymous != nil {
		newArgs := bindArgs(add.Anonymous.StreamParams(), argVals)
		return b.elaborate(add.Anonymous, newArgs)
	}

	sd, ok := b.streams[add.StreamName]
	if !ok {
		b.report.Add(&diag.Diagnostic{
			Kind:     diag.UndeclaredName,
			Severity: diag.SeverityError,
			Message:  "undeclared stream \"" + add.StreamName + "\"",
			Pos:      add.Pos,
		})
		return nil
	}
	newArgs := bindArgs(sd.StreamParams(), argVals)
	return b.elaborate(sd, newArgs)
}

func bindArgs(params []*ast.ParameterDecl, vals []int64) bindings {
	out := make(bindings, len(params))
	for i, p := range params {
		if i < len(vals) {
			out[p.Name] = vals[i]
		}
	}
	return out
}
