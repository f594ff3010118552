package ast

// WorkBlock is the triple (peek_rate, pop_rate, push_rate) plus a
// statement list (spec §3). Rate fields are nil when the source left
// the rate clause out; SPEC_FULL.md §4.2 documents the default applied
// in that case. Invariant enforced by C2: when both PeekRate and
// PopRate are given, PeekRate >= PopRate (spec §3).
type WorkBlock struct {
	Pos Pos

	PeekRate Expr // constant-expression; nil if omitted
	PopRate  Expr
	PushRate Expr

	// ResolvedPeek/Pop/Push are the constant-folded rate values filled
	// in by C2 (spec §4.2's constant folding), in elements per firing.
	ResolvedPeek int
	ResolvedPop  int
	ResolvedPush int

	Body []Stmt
}
