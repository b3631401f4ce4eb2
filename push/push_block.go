package push

import (
	"github.com/mcrl2-tools/alphacore/allowset"
	"github.com/mcrl2-tools/alphacore/ident"
	"github.com/mcrl2-tools/alphacore/manalg"
	"github.com/mcrl2-tools/alphacore/process"
)

// PushBlock implements push_block(H, x) (spec section 4.5): it rewrites x
// into an expression equivalent to block(H, x) with the block operator
// distributed as far inward as possible.
func PushBlock(ctx *Context, h manalg.ActionSet, x process.Expr) (manalg.MANS, process.Expr, error) {
	switch n := x.(type) {
	case process.Delta:
		return manalg.Empty(), x, nil
	case process.TauExpr:
		return manalg.TauOnly(), x, nil
	case *process.Action:
		if h.Contains(n.Label) {
			return manalg.Empty(), process.Delta{}, nil
		}
		return manalg.NewMANS(manalg.NewMAN(n.Label)), x, nil
	case *process.Call:
		return ctx.pushBlockCall(h, n.PID)
	case *process.CallAssign:
		alpha, expr, err := ctx.pushBlockCall(h, n.PID)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		if call, ok := expr.(*process.Call); ok {
			return alpha, &process.CallAssign{PID: call.PID, Assignments: n.Assignments}, nil
		}
		return alpha, expr, nil
	case *process.Sum:
		alpha, body, err := PushBlock(ctx, h, n.Body)
		return alpha, &process.Sum{Vars: n.Vars, Body: body}, err
	case *process.SumQuantified:
		alpha, body, err := PushBlock(ctx, h, n.Body)
		return alpha, &process.SumQuantified{Vars: n.Vars, Cond: n.Cond, Body: body}, err
	case *process.At:
		alpha, body, err := PushBlock(ctx, h, n.Body)
		return alpha, &process.At{Body: body, Time: n.Time}, err
	case *process.IfThen:
		alpha, body, err := PushBlock(ctx, h, n.Body)
		return alpha, &process.IfThen{Cond: n.Cond, Body: body}, err
	case *process.IfThenElse:
		alphaT, then, err := PushBlock(ctx, h, n.Then)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		alphaE, els, err := PushBlock(ctx, h, n.Else)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.SetUnion(alphaT, alphaE), &process.IfThenElse{Cond: n.Cond, Then: then, Else: els}, nil
	case *process.Choice:
		alphaL, l, err := PushBlock(ctx, h, n.Left)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		alphaR, r, err := PushBlock(ctx, h, n.Right)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.SetUnion(alphaL, alphaR), &process.Choice{Left: l, Right: r}, nil
	case *process.Seq:
		alphaL, l, err := PushBlock(ctx, h, n.Left)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		alphaR, r, err := PushBlock(ctx, h, n.Right)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.SetUnion(alphaL, alphaR), &process.Seq{Left: l, Right: r}, nil
	case *process.BoundedInit:
		alphaL, l, err := PushBlock(ctx, h, n.Left)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		alphaR, r, err := PushBlock(ctx, h, n.Right)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.SetUnion(alphaL, alphaR), &process.BoundedInit{Left: l, Right: r}, nil
	case *process.Stochastic:
		alpha, body, err := PushBlock(ctx, h, n.Body)
		return alpha, &process.Stochastic{Vars: n.Vars, Dist: n.Dist, Body: body}, err
	case *process.Block:
		return PushBlock(ctx, h.Union(manalg.NewActionSet(n.H...)), n.Body)
	case *process.Hide:
		i := manalg.NewActionSet(n.I...)
		alpha, body, err := PushBlock(ctx, h.Difference(i), n.Body)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.Hide(i, alpha), &process.Hide{I: n.I, Body: body}, nil
	case *process.Rename:
		r := manalg.NewRenameMap(n.R)
		hPrime := renameInverseSet(r, h)
		alpha, body, err := PushBlock(ctx, hPrime, n.Body)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.Rename(r, alpha), &process.Rename{R: n.R, Body: body}, nil
	case *process.Comm:
		hA, hC := partitionByCommSet(h, n.C)
		alpha, body, err := PushBlock(ctx, hC, n.Body)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		c := toCommSet(n.C)
		commAlpha := manalg.Comm(c, alpha)
		blockedAlpha := manalg.Block(hA, commAlpha, false)
		wrapped := &process.Block{H: hA.IDs(), Body: &process.Comm{C: n.C, Body: body}}
		return blockedAlpha, wrapped, nil
	case *process.Allow:
		blocked := allowset.Block(h, allowset.New(toMANS(n.V), false, manalg.ActionSet{}))
		return PushAllow(ctx, blocked, n.Body)
	case *process.Merge:
		return ctx.pushBlockCombine(h, n.Left, n.Right, manalg.Merge, func(l, r process.Expr) process.Expr { return &process.Merge{Left: l, Right: r} })
	case *process.LeftMerge:
		return ctx.pushBlockCombine(h, n.Left, n.Right, manalg.Merge, func(l, r process.Expr) process.Expr { return &process.LeftMerge{Left: l, Right: r} })
	case *process.Sync:
		return ctx.pushBlockCombine(h, n.Left, n.Right, manalg.Sync, func(l, r process.Expr) process.Expr { return &process.Sync{Left: l, Right: r} })
	default:
		return manalg.Empty(), x, nil
	}
}

func (ctx *Context) pushBlockCall(h manalg.ActionSet, p process.PID) (manalg.MANS, process.Expr, error) {
	alpha, expr, entry, ok := ctx.lookup(ctx.blockMemo, h.Key(), p, "block")
	if ok {
		return alpha, expr, nil
	}
	eq, err := ctx.equation(p)
	if err != nil {
		return manalg.Empty(), nil, err
	}
	alpha, body, err := PushBlock(ctx, h, eq.Body)
	if err != nil {
		return manalg.Empty(), nil, err
	}
	expr = ctx.finish(entry, eq.Formal, body, alpha)
	return alpha, expr, nil
}

func (ctx *Context) pushBlockCombine(h manalg.ActionSet, left, right process.Expr, combine func(a, b manalg.MANS) manalg.MANS, build func(l, r process.Expr) process.Expr) (manalg.MANS, process.Expr, error) {
	alphaL, l, err := PushBlock(ctx, h, left)
	if err != nil {
		return manalg.Empty(), nil, err
	}
	alphaR, r, err := PushBlock(ctx, h, right)
	if err != nil {
		return manalg.Empty(), nil, err
	}
	return combine(alphaL, alphaR), build(l, r), nil
}

func renameInverseSet(r manalg.RenameMap, s manalg.ActionSet) manalg.ActionSet {
	var ids []ident.ID
	for _, id := range s.IDs() {
		ids = append(ids, r.PreimageOf(id)...)
	}
	return manalg.NewActionSet(ids...)
}

// partitionByCommSet splits h into hA (names mentioned by some rule of c,
// either on the lhs or as the rhs) and hC (the rest), the partition
// push_block's comm rule (spec section 4.5) needs to decide which part of
// the block set must stay outside the communication operator.
func partitionByCommSet(h manalg.ActionSet, c []process.CommRuleExpr) (hA, hC manalg.ActionSet) {
	mentioned := manalg.NewActionSet()
	for _, rule := range c {
		mentioned = mentioned.Union(manalg.NewActionSet(rule.Lhs...))
		mentioned = mentioned.Union(manalg.NewActionSet(rule.Rhs))
	}
	var aIDs, cIDs []ident.ID
	for _, id := range h.IDs() {
		if mentioned.Contains(id) {
			aIDs = append(aIDs, id)
		} else {
			cIDs = append(cIDs, id)
		}
	}
	return manalg.NewActionSet(aIDs...), manalg.NewActionSet(cIDs...)
}
