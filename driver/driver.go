// Package driver orchestrates the alphabet-reduction pipeline (spec
// section 4.6): preprocess, classify, reduce via the push rewriters,
// simplify, and emit a rewritten process.Spec. It is the single entry
// point a caller (the CLI in cmd/alphacore, or an embedder) uses instead
// of wiring the manalg/allowset/alphabet/eqgraph/push packages by hand.
//
// The orchestration shape -- configure, run a sequence of fixed stages,
// return a result plus an accumulated log -- mirrors doctor/engine.go's
// Query function, generalised from "one refactoring over a Go AST" to
// "one reduction pass over a process specification".
package driver

import (
	"sort"

	"github.com/mcrl2-tools/alphacore/alphabet"
	"github.com/mcrl2-tools/alphacore/allowset"
	"github.com/mcrl2-tools/alphacore/diagnostic"
	"github.com/mcrl2-tools/alphacore/eqgraph"
	"github.com/mcrl2-tools/alphacore/ident"
	"github.com/mcrl2-tools/alphacore/manalg"
	"github.com/mcrl2-tools/alphacore/process"
	"github.com/mcrl2-tools/alphacore/push"
)

// Options tunes the driver's behaviour (spec section 4.6 / section 5).
type Options struct {
	// Debug keeps equations unreachable from Initial instead of pruning
	// them during preprocessing (spec section 4.6 step 1).
	Debug bool

	// DuplicateMergeThreshold is the equation-count ceiling below which
	// the final duplicate-equation merge pass runs (spec section 4.6
	// step 4, section 5's "tunable threshold, default 1000"). Zero means
	// use the default.
	DuplicateMergeThreshold int
}

func (o Options) threshold() int {
	if o.DuplicateMergeThreshold > 0 {
		return o.DuplicateMergeThreshold
	}
	return 1000
}

// Run executes the full pipeline over spec and returns the rewritten
// specification and the accumulated diagnostic log. On a fatal error
// (spec section 7: UndefinedIdentifier, StructuralError, UnsupportedNode)
// it returns the error and whatever log entries were recorded before the
// abort.
func Run(spec *process.Spec, tbl *ident.Table, opts Options) (*process.Spec, *diagnostic.Log, error) {
	log := &diagnostic.Log{}

	eqns, initial := preprocess(spec.Equations, spec.Initial, opts.Debug)

	graph := eqgraph.Build(eqns)
	cls := eqgraph.Classify(graph, eqns)
	log.Info("classified %d equation(s) into %d strongly connected component(s); pCRL: %v", len(eqns), len(cls.SCCs()), cls.IsPCRL())
	alphaTable := alphabet.Compute(eqns)

	eqnMap := make(map[process.PID]*process.Equation, len(eqns))
	for _, eq := range eqns {
		eqnMap[eq.PID] = eq
	}

	ctx := push.NewContext(eqnMap, tbl, alphaTable, log)
	_, reduced, err := reduce(ctx, initial)
	if err != nil {
		return nil, log, err
	}

	if ctx.Unresolved > 0 {
		log.Info("%d equation(s) were finalised against a provisional alphabet during recursive push; recomputing alphabets over the reduced equation set", ctx.Unresolved)
	}

	allEqns := make([]*process.Equation, 0, len(ctx.Eqns))
	for _, eq := range ctx.Eqns {
		allEqns = append(allEqns, eq)
	}
	sortEqns(tbl, allEqns)

	allEqns, reduced = simplify(allEqns, reduced, opts.threshold())

	// Recompute the alphabet table over the fully simplified equation set.
	// The resulting table is discarded: the emitted Spec carries no
	// alphabets, and expressions built during the push pass from a
	// Context.Unresolved placeholder alpha are not revisited.
	alphabet.Compute(allEqns)

	out := &process.Spec{
		DataSpec:        spec.DataSpec,
		Actions:         spec.Actions,
		Globals:         spec.Globals,
		Equations:       allEqns,
		Initial:         reduced,
		LinStrategy:     spec.LinStrategy,
		RewriteStrategy: spec.RewriteStrategy,
	}
	return out, log, nil
}

// preprocess implements spec section 4.6 step 1: fold zero-argument
// call_assign nodes into plain calls (the only substitution possible
// without a data-rewriting engine, since process.DataExpr carries only
// opaque raw text), then prune equations unreachable from initial unless
// debug mode asks to keep them.
func preprocess(eqns []*process.Equation, initial process.Expr, debug bool) ([]*process.Equation, process.Expr) {
	foldedInitial := foldEmptyCallAssign(initial)
	folded := make([]*process.Equation, len(eqns))
	for i, eq := range eqns {
		folded[i] = &process.Equation{PID: eq.PID, Formal: eq.Formal, Body: foldEmptyCallAssign(eq.Body)}
	}

	if debug {
		return folded, foldedInitial
	}

	g := eqgraph.Build(folded)
	seeds := process.FindProcessIdentifiers(foldedInitial)
	reachable := make(map[process.PID]bool)
	for _, pid := range eqgraph.Reachable(g, seeds) {
		reachable[pid] = true
	}
	var kept []*process.Equation
	for _, eq := range folded {
		if reachable[eq.PID] {
			kept = append(kept, eq)
		}
	}
	return kept, foldedInitial
}

func foldEmptyCallAssign(e process.Expr) process.Expr {
	return process.Transform(e, func(n process.Expr) process.Expr {
		if c, ok := n.(*process.CallAssign); ok && len(c.Assignments) == 0 {
			return &process.Call{PID: c.PID}
		}
		return n
	})
}

// reduce implements spec section 4.6 step 3: if the expression under
// consideration is itself a restriction operator, hand it straight to the
// matching push_* rewriter; otherwise recurse structurally, looking for
// restriction operators nested anywhere inside, exactly the "driving
// builder" spec section 4.6 describes. Once a push_* call is made, that
// rewriter handles everything beneath it (including further nested
// restrictions), so reduce never needs to recurse into a push_* result.
func reduce(ctx *push.Context, x process.Expr) (manalg.MANS, process.Expr, error) {
	switch n := x.(type) {
	case *process.Block:
		return push.PushBlock(ctx, manalg.NewActionSet(n.H...), n.Body)
	case *process.Hide:
		return push.PushHide(ctx, manalg.NewActionSet(n.I...), n.Body)
	case *process.Comm:
		return push.PushComm(ctx, toCommSet(n.C), n.Body)
	case *process.Allow:
		return push.PushAllow(ctx, allowset.New(toMANS(n.V), false, manalg.ActionSet{}), n.Body)
	case *process.Sum:
		alpha, body, err := reduce(ctx, n.Body)
		return alpha, &process.Sum{Vars: n.Vars, Body: body}, err
	case *process.SumQuantified:
		alpha, body, err := reduce(ctx, n.Body)
		return alpha, &process.SumQuantified{Vars: n.Vars, Cond: n.Cond, Body: body}, err
	case *process.At:
		alpha, body, err := reduce(ctx, n.Body)
		return alpha, &process.At{Body: body, Time: n.Time}, err
	case *process.IfThen:
		alpha, body, err := reduce(ctx, n.Body)
		return alpha, &process.IfThen{Cond: n.Cond, Body: body}, err
	case *process.IfThenElse:
		alphaT, then, err := reduce(ctx, n.Then)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		alphaE, els, err := reduce(ctx, n.Else)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.SetUnion(alphaT, alphaE), &process.IfThenElse{Cond: n.Cond, Then: then, Else: els}, nil
	case *process.Choice:
		alphaL, l, err := reduce(ctx, n.Left)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		alphaR, r, err := reduce(ctx, n.Right)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.SetUnion(alphaL, alphaR), &process.Choice{Left: l, Right: r}, nil
	case *process.Seq:
		alphaL, l, err := reduce(ctx, n.Left)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		alphaR, r, err := reduce(ctx, n.Right)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.SetUnion(alphaL, alphaR), &process.Seq{Left: l, Right: r}, nil
	case *process.BoundedInit:
		alphaL, l, err := reduce(ctx, n.Left)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		alphaR, r, err := reduce(ctx, n.Right)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.SetUnion(alphaL, alphaR), &process.BoundedInit{Left: l, Right: r}, nil
	case *process.Stochastic:
		alpha, body, err := reduce(ctx, n.Body)
		return alpha, &process.Stochastic{Vars: n.Vars, Dist: n.Dist, Body: body}, err
	case *process.Rename:
		alpha, body, err := reduce(ctx, n.Body)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		r := manalg.NewRenameMap(n.R)
		return manalg.Rename(r, alpha), &process.Rename{R: n.R, Body: body}, nil
	case *process.Merge:
		alphaL, l, err := reduce(ctx, n.Left)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		alphaR, r, err := reduce(ctx, n.Right)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.Merge(alphaL, alphaR), &process.Merge{Left: l, Right: r}, nil
	case *process.LeftMerge:
		alphaL, l, err := reduce(ctx, n.Left)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		alphaR, r, err := reduce(ctx, n.Right)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.Merge(alphaL, alphaR), &process.LeftMerge{Left: l, Right: r}, nil
	case *process.Sync:
		alphaL, l, err := reduce(ctx, n.Left)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		alphaR, r, err := reduce(ctx, n.Right)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.Sync(alphaL, alphaR), &process.Sync{Left: l, Right: r}, nil
	default:
		return alphabet.Of(x, ctx.Alpha), x, nil
	}
}

// simplify implements spec section 4.6 step 4: trivial-equation chain
// elimination, single-usage inlining, unused-equation pruning, and,
// below threshold, duplicate-equation merging, run in that fixed order.
func simplify(eqns []*process.Equation, initial process.Expr, threshold int) ([]*process.Equation, process.Expr) {
	eqns, aliases := eqgraph.EliminateTrivial(eqns)
	for from, to := range aliases {
		initial = process.ReplacePID(initial, from, to)
	}

	g := eqgraph.Build(eqns)
	cls := eqgraph.Classify(g, eqns)
	eqns, initial = eqgraph.EliminateSingleUsage(eqns, initial, cls)

	g = eqgraph.Build(eqns)
	eqns = eqgraph.EliminateUnused(g, eqns, initial)

	if len(eqns) < threshold {
		eqns, initial = eqgraph.MergeDuplicates(eqns, initial)
	}
	return eqns, initial
}

func sortEqns(tbl *ident.Table, eqns []*process.Equation) {
	sort.Slice(eqns, func(i, j int) bool {
		a, b := eqns[i].PID, eqns[j].PID
		if a.Name != b.Name {
			return tbl.Less(a.Name, b.Name)
		}
		return a.Signature < b.Signature
	})
}

func toCommSet(rules []process.CommRuleExpr) manalg.CommSet {
	var c manalg.CommSet
	for _, r := range rules {
		c.Rules = append(c.Rules, manalg.CommRule{Lhs: manalg.NewMAN(r.Lhs...), Rhs: r.Rhs, IsTau: r.IsTau})
	}
	return c
}

func toMANS(v [][]ident.ID) manalg.MANS {
	out := manalg.Empty()
	for _, names := range v {
		out = out.With(manalg.NewMAN(names...))
	}
	return out
}
