package push

import (
	"github.com/mcrl2-tools/alphacore/alphabet"
	"github.com/mcrl2-tools/alphacore/manalg"
	"github.com/mcrl2-tools/alphacore/process"
)

// PushHide implements push_hide(I, x) (spec section 4.5). Unlike the
// other three rewriters it does not distribute into sum, at, choice, seq,
// if_then, if_then_else, sync, merge, left_merge, bounded_init, or
// stochastic -- doing so would break the alphabet contract the downstream
// linearisation step relies on -- so those node kinds are returned
// wrapped in a plain hide(I, x) with x left untouched, and only
// block/hide/rename/comm/allow/call descend further.
func PushHide(ctx *Context, i manalg.ActionSet, x process.Expr) (manalg.MANS, process.Expr, error) {
	switch n := x.(type) {
	case process.Delta:
		return manalg.Empty(), x, nil
	case process.TauExpr:
		return manalg.TauOnly(), x, nil
	case *process.Action:
		if i.Contains(n.Label) {
			return manalg.TauOnly(), process.TauExpr{}, nil
		}
		return manalg.NewMANS(manalg.NewMAN(n.Label)), x, nil
	case *process.Call:
		return ctx.pushHideCall(i, n.PID)
	case *process.CallAssign:
		alpha, expr, err := ctx.pushHideCall(i, n.PID)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		if call, ok := expr.(*process.Call); ok {
			return alpha, &process.CallAssign{PID: call.PID, Assignments: n.Assignments}, nil
		}
		return alpha, expr, nil
	case *process.Hide:
		innerI := manalg.NewActionSet(n.I...)
		alpha, body, err := PushHide(ctx, i.Union(innerI), n.Body)
		return alpha, &process.Hide{I: n.I, Body: body}, err
	case *process.Block:
		alpha, body, err := PushHide(ctx, i, n.Body)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		h := manalg.NewActionSet(n.H...)
		return manalg.Hide(i, manalg.Block(h, alpha, false)), &process.Block{H: n.H, Body: body}, nil
	case *process.Rename:
		r := manalg.NewRenameMap(n.R)
		alpha, body, err := PushHide(ctx, i, n.Body)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.Hide(i, manalg.Rename(r, alpha)), &process.Rename{R: n.R, Body: body}, nil
	case *process.Comm:
		c := toCommSet(n.C)
		alpha, body, err := PushHide(ctx, i, n.Body)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.Hide(i, manalg.Comm(c, alpha)), &process.Comm{C: n.C, Body: body}, nil
	case *process.Allow:
		v := toMANS(n.V)
		alpha, body, err := PushHide(ctx, i, n.Body)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		return manalg.Hide(i, manalg.Allow(v, alpha, false)), &process.Allow{V: n.V, Body: body}, nil
	default:
		plain := alphabet.Of(x, ctx.Alpha)
		return manalg.Hide(i, plain), &process.Hide{I: i.IDs(), Body: x}, nil
	}
}

func (ctx *Context) pushHideCall(i manalg.ActionSet, p process.PID) (manalg.MANS, process.Expr, error) {
	alpha, expr, entry, ok := ctx.lookup(ctx.hideMemo, i.Key(), p, "hide")
	if ok {
		return alpha, expr, nil
	}
	eq, err := ctx.equation(p)
	if err != nil {
		return manalg.Empty(), nil, err
	}
	alpha, body, err := PushHide(ctx, i, eq.Body)
	if err != nil {
		return manalg.Empty(), nil, err
	}
	expr = ctx.finish(entry, eq.Formal, body, alpha)
	return alpha, expr, nil
}
