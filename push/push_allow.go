package push

import (
	"github.com/mcrl2-tools/alphacore/allowset"
	"github.com/mcrl2-tools/alphacore/ident"
	"github.com/mcrl2-tools/alphacore/manalg"
	"github.com/mcrl2-tools/alphacore/process"
)

// PushAllow implements push_allow(V, x) (spec section 4.5): it rewrites x
// into an expression equivalent to allow(V, x) with the allow operator
// pushed as far inward as the structural rules permit, returning the
// rewritten expression's alphabet alongside it.
func PushAllow(ctx *Context, v allowset.AS, x process.Expr) (manalg.MANS, process.Expr, error) {
	switch n := x.(type) {
	case process.Delta:
		return manalg.Empty(), x, nil
	case process.TauExpr:
		return manalg.TauOnly(), x, nil
	case *process.Action:
		man := manalg.NewMAN(n.Label)
		if v.Contains(man) {
			return manalg.NewMANS(man), x, nil
		}
		return manalg.Empty(), process.Delta{}, nil
	case *process.Call:
		return ctx.pushAllowCall(v, n.PID, n.Args)
	case *process.CallAssign:
		alpha, expr, err := ctx.pushAllowCall(v, n.PID, nil)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		call := expr.(*process.Call)
		return alpha, &process.CallAssign{PID: call.PID, Assignments: n.Assignments}, nil
	case *process.Sum:
		alpha, body, err := PushAllow(ctx, v, n.Body)
		return alpha, &process.Sum{Vars: n.Vars, Body: body}, err
	case *process.SumQuantified:
		alpha, body, err := PushAllow(ctx, v, n.Body)
		return alpha, &process.SumQuantified{Vars: n.Vars, Cond: n.Cond, Body: body}, err
	case *process.At:
		alpha, body, err := PushAllow(ctx, v, n.Body)
		return alpha, &process.At{Body: body, Time: n.Time}, err
	case *process.IfThen:
		alpha, body, err := PushAllow(ctx, v, n.Body)
		return alpha, &process.IfThen{Cond: n.Cond, Body: body}, err
	case *process.IfThenElse:
		alphaT, then, err := PushAllow(ctx, v, n.Then)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		alphaE, els, err := PushAllow(ctx, v, n.Else)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.SetUnion(alphaT, alphaE), &process.IfThenElse{Cond: n.Cond, Then: then, Else: els}, nil
	case *process.Choice:
		alphaL, l, err := PushAllow(ctx, v, n.Left)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		alphaR, r, err := PushAllow(ctx, v, n.Right)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.SetUnion(alphaL, alphaR), &process.Choice{Left: l, Right: r}, nil
	case *process.Seq:
		alphaL, l, err := PushAllow(ctx, v, n.Left)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		alphaR, r, err := PushAllow(ctx, v, n.Right)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.SetUnion(alphaL, alphaR), &process.Seq{Left: l, Right: r}, nil
	case *process.BoundedInit:
		alphaL, l, err := PushAllow(ctx, v, n.Left)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		alphaR, r, err := PushAllow(ctx, v, n.Right)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.SetUnion(alphaL, alphaR), &process.BoundedInit{Left: l, Right: r}, nil
	case *process.Stochastic:
		alpha, body, err := PushAllow(ctx, v, n.Body)
		return alpha, &process.Stochastic{Vars: n.Vars, Dist: n.Dist, Body: body}, err
	case *process.Block:
		alpha, body, err := PushAllow(ctx, v, n.Body)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		h := manalg.NewActionSet(n.H...)
		newAlpha := manalg.Block(h, alpha, false)
		return newAlpha, &process.Block{H: n.H, Body: body}, nil
	case *process.Hide:
		vPrime := allowset.HideInverse(manalg.NewActionSet(n.I...), v)
		alpha, body, err := PushAllow(ctx, vPrime, n.Body)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		i := manalg.NewActionSet(n.I...)
		return manalg.Hide(i, alpha), &process.Hide{I: n.I, Body: body}, nil
	case *process.Rename:
		r := manalg.NewRenameMap(n.R)
		vPrime := allowset.RenameInverse(r, v)
		alpha, body, err := PushAllow(ctx, vPrime, n.Body)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.Rename(r, alpha), &process.Rename{R: n.R, Body: body}, nil
	case *process.Comm:
		c := toCommSet(n.C)
		vPrime := allowset.CommInverse(c, v)
		alpha, body, err := PushAllow(ctx, vPrime, n.Body)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		combined := &process.Comm{C: n.C, Body: body}
		newAlpha, wrapped := applyAllow(v, manalg.Comm(c, alpha), combined)
		return newAlpha, wrapped, nil
	case *process.Allow:
		vPrime := allowset.Allow(toMANS(n.V), v)
		alpha, body, err := PushAllow(ctx, vPrime, n.Body)
		return alpha, body, err
	case *process.Merge:
		return ctx.pushAllowCombine(v, n.Left, n.Right, manalg.Merge, func(l, r process.Expr) process.Expr { return &process.Merge{Left: l, Right: r} })
	case *process.LeftMerge:
		return ctx.pushAllowCombine(v, n.Left, n.Right, manalg.Merge, func(l, r process.Expr) process.Expr { return &process.LeftMerge{Left: l, Right: r} })
	case *process.Sync:
		return ctx.pushAllowCombine(v, n.Left, n.Right, manalg.Sync, func(l, r process.Expr) process.Expr { return &process.Sync{Left: l, Right: r} })
	default:
		return manalg.Empty(), x, nil
	}
}

func (ctx *Context) pushAllowCall(v allowset.AS, p process.PID, args []process.DataExpr) (manalg.MANS, process.Expr, error) {
	alpha, expr, entry, ok := ctx.lookup(ctx.allowMemo, v.Key(), p, "allow")
	if ok {
		return alpha, expr, nil
	}

	eq, err := ctx.equation(p)
	if err != nil {
		return manalg.Empty(), nil, err
	}
	alpha, body, err := PushAllow(ctx, v, eq.Body)
	if err != nil {
		return manalg.Empty(), nil, err
	}
	expr = ctx.finish(entry, eq.Formal, body, alpha)
	return alpha, expr, nil
}

func (ctx *Context) pushAllowCombine(v allowset.AS, left, right process.Expr, combine func(a, b manalg.MANS) manalg.MANS, build func(l, r process.Expr) process.Expr) (manalg.MANS, process.Expr, error) {
	vSub := allowset.Subsets(v)
	alphaL, l, err := PushAllow(ctx, vSub, left)
	if err != nil {
		return manalg.Empty(), nil, err
	}
	vArrow := allowset.LeftArrow(v, alphaL)
	alphaR, r, err := PushAllow(ctx, vArrow, right)
	if err != nil {
		return manalg.Empty(), nil, err
	}
	alpha := combine(alphaL, alphaR)
	expr := build(l, r)
	newAlpha, wrapped := applyAllow(v, alpha, expr)
	return newAlpha, wrapped, nil
}

// applyAllow is apply_allow(V) (spec section 4.5): it restricts alpha to
// what V actually admits and, when the restriction had a real effect,
// wraps expr in allow(restricted, _) -- the freshly intersected multi-action
// set, never V's raw, unintersected A -- so the wrapped allow cannot name a
// multi-action expr does not actually produce. mCRL2 forbids an allow set
// containing only tau, so when the restricted alphabet is exactly {tau}
// expr is wrapped in an allow naming one non-tau element of V's A
// instead; if V's A has no non-tau element, expr is left unwrapped.
func applyAllow(v allowset.AS, alpha manalg.MANS, expr process.Expr) (manalg.MANS, process.Expr) {
	restricted := allowset.Intersect(v, alpha)
	if manalg.Equal(restricted, alpha) {
		return restricted, expr
	}
	if isTauOnly(restricted) {
		if pick, ok := pickNonTau(v.A); ok {
			return restricted, &process.Allow{V: [][]ident.ID{manToIDs(pick)}, Body: expr}
		}
		return restricted, expr
	}
	return restricted, &process.Allow{V: mansToLiteral(restricted), Body: expr}
}

func isTauOnly(s manalg.MANS) bool {
	elems := s.Elements()
	return len(elems) == 1 && elems[0].IsTau()
}

func pickNonTau(s manalg.MANS) (manalg.MAN, bool) {
	for _, m := range s.Elements() {
		if !m.IsTau() {
			return m, true
		}
	}
	return manalg.MAN{}, false
}
