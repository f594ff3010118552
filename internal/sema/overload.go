package sema

import (
	"streamc/internal/ast"
	"streamc/internal/diag"
	"streamc/internal/types"
)

// resolveCall implements spec §4.2's overload resolution: collect every
// candidate named call.Callee with arity == len(call.Args), score each
// by the number of argument types that match exactly versus those that
// only convert, and require a strict best match.
func (a *Analyzer) resolveCall(call *ast.CallExpr, argTypes []*types.Type) *types.Type {
	candidates := a.functions[call.Callee]
	var arityMatched []*ast.FunctionDecl
	for _, c := range candidates {
		if len(c.Params) == len(call.Args) {
			arityMatched = append(arityMatched, c)
		}
	}
	if len(arityMatched) == 0 {
		if len(candidates) == 0 {
			a.errorf(diag.UndeclaredName, call.Pos, "undeclared function %q", call.Callee)
		} else {
			a.errorf(diag.ArityMismatch, call.Pos, "%q takes no overload with %d argument(s)", call.Callee, len(call.Args))
		}
		return a.in.Int()
	}

	type scored struct {
		fn    *ast.FunctionDecl
		exact int
		ok    bool // every argument at least converts
	}
	var best []scored
	bestExact := -1
	for _, c := range arityMatched {
		exact := 0
		ok := true
		for i, p := range c.Params {
			at := argTypes[i]
			pt := p.Resolved
			switch {
			case at == pt:
				exact++
			case a.in.ConvertibleTo(at, pt):
				// conversion only, no exact-match credit
			default:
				ok = false
			}
		}
		if !ok {
			continue
		}
		sc := scored{fn: c, exact: exact, ok: ok}
		if exact > bestExact {
			bestExact = exact
			best = []scored{sc}
		} else if exact == bestExact {
			best = append(best, sc)
		}
	}

	if len(best) == 0 {
		a.errorf(diag.TypeMismatch, call.Pos, "no overload of %q accepts the given argument types", call.Callee)
		return a.in.Int()
	}
	if len(best) > 1 {
		a.errorf(diag.Ambiguous, call.Pos, "call to %q is ambiguous among %d equally-good overloads", call.Callee, len(best))
		return a.in.Int()
	}

	chosen := best[0].fn
	params := make([]*types.Type, len(chosen.Params))
	for i, p := range chosen.Params {
		params[i] = p.Resolved
	}
	call.Ref = &ast.FunctionReference{Decl: chosen, Params: params, Ret: chosen.Resolved}
	return chosen.Resolved
}
