package eqgraph

import (
	"strings"

	"github.com/mcrl2-tools/alphacore/process"
)

// EliminateTrivial collapses chains of alias equations -- P = Q where Q is
// itself a bare process call with no arguments -- down to their final
// non-trivial target (spec section 8 Scenario 5: P=Q; Q=R; R=a.R reduces
// to R alone). It returns the surviving equations plus the resolved
// substitution map so the caller can rewrite the initial expression and
// any external references the same way.
//
// A self-referential or mutually-aliasing chain (P=Q; Q=P) is left
// untouched: there is no well-founded target to collapse to, and the
// cycle is already captured correctly by the recursive semantics of
// call.
func EliminateTrivial(eqns []*process.Equation) ([]*process.Equation, map[process.PID]process.PID) {
	alias := make(map[process.PID]process.PID)
	for _, eq := range eqns {
		if call, ok := eq.Body.(*process.Call); ok && len(call.Args) == 0 {
			alias[eq.PID] = call.PID
		}
	}

	resolved := make(map[process.PID]process.PID)
	for p := range alias {
		target, ok := resolveAlias(alias, p, map[process.PID]bool{})
		if ok {
			resolved[p] = target
		}
	}

	var kept []*process.Equation
	for _, eq := range eqns {
		if _, eliminated := resolved[eq.PID]; eliminated {
			continue
		}
		eq.Body = rewriteCalls(eq.Body, resolved)
		kept = append(kept, eq)
	}
	return kept, resolved
}

// resolveAlias follows the alias chain starting at p to its first
// non-aliased target, returning false if the chain cycles back on itself
// before reaching one.
func resolveAlias(alias map[process.PID]process.PID, p process.PID, seen map[process.PID]bool) (process.PID, bool) {
	cur := p
	for {
		next, ok := alias[cur]
		if !ok {
			if cur == p {
				return process.PID{}, false
			}
			return cur, true
		}
		if seen[cur] {
			return process.PID{}, false
		}
		seen[cur] = true
		cur = next
	}
}

func rewriteCalls(e process.Expr, resolved map[process.PID]process.PID) process.Expr {
	if len(resolved) == 0 {
		return e
	}
	for from, to := range resolved {
		e = process.ReplacePID(e, from, to)
	}
	return e
}

// callCounts tallies, for every PID, how many times it is invoked (via
// call or call_assign) across all of eqns plus the given extra roots
// (typically the initial expression).
func callCounts(eqns []*process.Equation, extraRoots ...process.Expr) map[process.PID]int {
	counts := make(map[process.PID]int)
	count := func(e process.Expr) {
		process.Walk(e, func(n process.Expr) {
			switch c := n.(type) {
			case *process.Call:
				counts[c.PID]++
			case *process.CallAssign:
				counts[c.PID]++
			}
		})
	}
	for _, eq := range eqns {
		count(eq.Body)
	}
	for _, root := range extraRoots {
		count(root)
	}
	return counts
}

// EliminateSingleUsage inlines every equation that is called exactly once
// across the remaining equations and the initial expression, and that is
// not itself recursive (inlining a self-call would not terminate). Per
// spec section 4.4 this runs with lowerbound=1 (only usage-count-1
// candidates). Candidates are taken one at a time in sortPIDs order, not
// in dependency order, and
// the call counts are recomputed over the equations still present after
// every inline, so the loop ends only once no non-recursive equation is
// called exactly once.
//
// Because process.DataExpr only carries opaque raw text (Raw string) and
// never a parsed term, there is no substitution to perform on formal
// parameters here: inlining is purely structural, replacing the call site
// with the callee's body as-is. A real data-expression substitution step
// would run here in a full implementation; this is noted as a
// placeholder rather than attempted against an opaque representation.
func EliminateSingleUsage(eqns []*process.Equation, initial process.Expr, cls *Classification) ([]*process.Equation, process.Expr) {
	byPID := make(map[process.PID]*process.Equation, len(eqns))
	var order []process.PID
	for _, eq := range eqns {
		byPID[eq.PID] = eq
		order = append(order, eq.PID)
	}
	sortPIDs(order)

	for {
		var remaining []*process.Equation
		for _, pid := range order {
			if eq, ok := byPID[pid]; ok {
				remaining = append(remaining, eq)
			}
		}
		counts := callCounts(remaining, initial)
		var target process.PID
		found := false
		for _, pid := range order {
			if _, ok := byPID[pid]; !ok {
				continue
			}
			if cls != nil && cls.IsRecursive(pid) {
				continue
			}
			if counts[pid] == 1 {
				target = pid
				found = true
				break
			}
		}
		if !found {
			break
		}

		inlinee := byPID[target]
		delete(byPID, target)
		for _, pid := range order {
			eq, ok := byPID[pid]
			if !ok {
				continue
			}
			eq.Body = inlineCall(eq.Body, target, inlinee.Body)
		}
		initial = inlineCall(initial, target, inlinee.Body)
	}

	var out []*process.Equation
	for _, pid := range order {
		if eq, ok := byPID[pid]; ok {
			out = append(out, eq)
		}
	}
	return out, initial
}

func inlineCall(e process.Expr, target process.PID, body process.Expr) process.Expr {
	return process.Transform(e, func(child process.Expr) process.Expr {
		switch call := child.(type) {
		case *process.Call:
			if call.PID.Equal(target) {
				return body
			}
		case *process.CallAssign:
			if call.PID.Equal(target) {
				return body
			}
		}
		return child
	})
}

// EliminateUnused drops every equation not reachable from initial,
// following call/call_assign edges through g.
func EliminateUnused(g *Graph, eqns []*process.Equation, initial process.Expr) []*process.Equation {
	seeds := process.FindProcessIdentifiers(initial)
	reachable := make(map[process.PID]bool)
	for _, pid := range Reachable(g, seeds) {
		reachable[pid] = true
	}
	var out []*process.Equation
	for _, eq := range eqns {
		if reachable[eq.PID] {
			out = append(out, eq)
		}
	}
	return out
}

// MergeDuplicates finds equivalent equations (spec section 8 Scenario 6)
// and rewrites all call sites of the losing PID to the winning one, using
// partition refinement: start from the coarsest sound partition -- one
// block per distinct formal-parameter signature (arity and sorts, spec
// section 4.4) -- then repeatedly split each block by the (already-merged)
// identity of every PID its body calls, until no block splits further.
// This is the standard bisimulation-partition-refinement idiom, applied
// here over equation bodies rather than automaton states.
//
// Seeding from formal signatures rather than raw body text matters: two
// equations that call different, not-yet-merged PIDs can still be
// duplicates of each other once those callees are merged in turn (spec
// section 8 Scenario 6's S/S2, whose bodies name T/T1 respectively). A
// first round keyed on unrewritten body text would put S and S2 in
// singleton blocks before T and T1 are ever found equivalent, and the
// refinement can only ever split a block, never reunite two PIDs that
// started in different ones -- so that round-one text match would make
// them permanently unmergeable. Keying round one on formal signature
// instead keeps S and S2 (and T and T1) in the same starting block, and
// the call-target refinement below still separates genuinely different
// bodies within that block as usual.
//
// Within a surviving equivalence class the PID that sorts first under
// sortPIDs (interned name ID, then signature) is kept; the rest are
// eliminated and every
// remaining reference to them rewritten to the survivor.
func MergeDuplicates(eqns []*process.Equation, initial process.Expr) ([]*process.Equation, process.Expr) {
	byPID := make(map[process.PID]*process.Equation, len(eqns))
	var pids []process.PID
	for _, eq := range eqns {
		byPID[eq.PID] = eq
		pids = append(pids, eq.PID)
	}
	sortPIDs(pids)

	formalGroups := make(map[string][]process.PID)
	for _, p := range pids {
		key := formalSignature(byPID[p])
		formalGroups[key] = append(formalGroups[key], p)
	}
	canon := make(map[process.PID]process.PID, len(pids))
	for _, group := range formalGroups {
		sortPIDs(group)
		rep := group[0]
		for _, p := range group {
			canon[p] = rep
		}
	}

	type blockKey struct {
		block process.PID
		body  string
	}

	for {
		groups := make(map[blockKey][]process.PID)
		for _, p := range pids {
			key := blockKey{block: canon[p], body: bodySignature(byPID[p].Body, canon)}
			groups[key] = append(groups[key], p)
		}
		changed := false
		next := make(map[process.PID]process.PID, len(canon))
		for _, group := range groups {
			sortPIDs(group)
			rep := group[0]
			for _, p := range group {
				next[p] = rep
				if canon[p] != rep {
					changed = true
				}
			}
		}
		canon = next
		if !changed {
			break
		}
	}

	resolved := make(map[process.PID]process.PID)
	for p, rep := range canon {
		if !p.Equal(rep) {
			resolved[p] = rep
		}
	}

	var out []*process.Equation
	for _, p := range pids {
		if _, eliminated := resolved[p]; eliminated {
			continue
		}
		eq := byPID[p]
		eq.Body = rewriteCalls(eq.Body, resolved)
		out = append(out, eq)
	}
	return out, rewriteCalls(initial, resolved)
}

// formalSignature renders an equation's formal-parameter list as an
// arity-and-sorts string (spec section 4.4): two equations with a
// different parameter count or a different sort in any position can
// never be the same equation, whatever their current bodies look like.
func formalSignature(eq *process.Equation) string {
	var b strings.Builder
	for i, v := range eq.Formal {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(v.Sort)
	}
	return b.String()
}

// bodySignature renders e as a canonical string, with every call/
// call_assign target replaced by its current equivalence-class
// representative in canon, so that two bodies calling different-but-
// already-merged PIDs compare equal.
func bodySignature(e process.Expr, canon map[process.PID]process.PID) string {
	rewritten := process.Transform(e, func(child process.Expr) process.Expr {
		switch n := child.(type) {
		case *process.Call:
			if rep, ok := canon[n.PID]; ok {
				cp := *n
				cp.PID = rep
				return &cp
			}
		case *process.CallAssign:
			if rep, ok := canon[n.PID]; ok {
				cp := *n
				cp.PID = rep
				return &cp
			}
		}
		return child
	})
	return process.Describe(rewritten)
}
