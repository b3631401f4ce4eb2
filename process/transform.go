package process

import "github.com/mcrl2-tools/alphacore/ident"

// Transform is the single generic traversal helper referenced by spec
// section 9's "Generic traversal" design note: it rebuilds e by applying f
// to every immediate child and reassembling the same kind of node around
// the results. f is applied bottom-up: children are transformed first,
// then the rebuilt node is itself passed through f.
//
// This replaces the CRTP "builder" classes of the original implementation
// with a plain function plus a type switch, which is the idiomatic Go
// substitute spec section 9 calls for.
func Transform(e Expr, f func(Expr) Expr) Expr {
	var rebuilt Expr
	switch n := e.(type) {
	case Delta, TauExpr, *Action, *Call, *CallAssign:
		rebuilt = e
	case *Sum:
		rebuilt = &Sum{Vars: n.Vars, Body: Transform(n.Body, f)}
	case *SumQuantified:
		rebuilt = &SumQuantified{Vars: n.Vars, Cond: n.Cond, Body: Transform(n.Body, f)}
	case *At:
		rebuilt = &At{Body: Transform(n.Body, f), Time: n.Time}
	case *IfThen:
		rebuilt = &IfThen{Cond: n.Cond, Body: Transform(n.Body, f)}
	case *IfThenElse:
		rebuilt = &IfThenElse{Cond: n.Cond, Then: Transform(n.Then, f), Else: Transform(n.Else, f)}
	case *Choice:
		rebuilt = &Choice{Left: Transform(n.Left, f), Right: Transform(n.Right, f)}
	case *Seq:
		rebuilt = &Seq{Left: Transform(n.Left, f), Right: Transform(n.Right, f)}
	case *BoundedInit:
		rebuilt = &BoundedInit{Left: Transform(n.Left, f), Right: Transform(n.Right, f)}
	case *Stochastic:
		rebuilt = &Stochastic{Vars: n.Vars, Dist: n.Dist, Body: Transform(n.Body, f)}
	case *Merge:
		rebuilt = &Merge{Left: Transform(n.Left, f), Right: Transform(n.Right, f)}
	case *LeftMerge:
		rebuilt = &LeftMerge{Left: Transform(n.Left, f), Right: Transform(n.Right, f)}
	case *Sync:
		rebuilt = &Sync{Left: Transform(n.Left, f), Right: Transform(n.Right, f)}
	case *Block:
		rebuilt = &Block{H: n.H, Body: Transform(n.Body, f)}
	case *Hide:
		rebuilt = &Hide{I: n.I, Body: Transform(n.Body, f)}
	case *Rename:
		rebuilt = &Rename{R: n.R, Body: Transform(n.Body, f)}
	case *Comm:
		rebuilt = &Comm{C: n.C, Body: Transform(n.Body, f)}
	case *Allow:
		rebuilt = &Allow{V: n.V, Body: Transform(n.Body, f)}
	default:
		rebuilt = e
	}
	return f(rebuilt)
}

// Walk visits every node in e, bottom-up, without rebuilding anything; a
// read-only counterpart to Transform used by analyses (e.g.
// FindProcessIdentifiers) that do not need to produce a new tree.
func Walk(e Expr, visit func(Expr)) {
	Transform(e, func(n Expr) Expr {
		visit(n)
		return n
	})
}

// FindProcessIdentifiers returns every distinct PID referenced by a call
// or call_assign within e, in first-encountered order. Used by package
// eqgraph to seed reachability analysis from an initial expression (spec
// section 4.4).
func FindProcessIdentifiers(e Expr) []PID {
	seen := make(map[PID]bool)
	var out []PID
	Walk(e, func(n Expr) {
		var pid PID
		switch c := n.(type) {
		case *Call:
			pid = c.PID
		case *CallAssign:
			pid = c.PID
		default:
			return
		}
		if !seen[pid] {
			seen[pid] = true
			out = append(out, pid)
		}
	})
	return out
}

// FindActionLabels returns every distinct action-name ID that occurs
// syntactically as an Action leaf within e.
func FindActionLabels(e Expr) []ident.ID {
	seen := make(map[ident.ID]bool)
	var out []ident.ID
	Walk(e, func(n Expr) {
		a, ok := n.(*Action)
		if !ok {
			return
		}
		if !seen[a.Label] {
			seen[a.Label] = true
			out = append(out, a.Label)
		}
	})
	return out
}

// ReplacePID returns a copy of e with every call/call_assign to from
// rewritten to call to, leaving actual arguments untouched. Used by
// eqgraph's duplicate-equation merging and single-usage elimination to
// retarget callers after an equation is removed.
func ReplacePID(e Expr, from, to PID) Expr {
	return Transform(e, func(n Expr) Expr {
		switch c := n.(type) {
		case *Call:
			if c.PID.Equal(from) {
				return &Call{PID: to, Args: c.Args}
			}
		case *CallAssign:
			if c.PID.Equal(from) {
				return &CallAssign{PID: to, Assignments: c.Assignments}
			}
		}
		return n
	})
}
