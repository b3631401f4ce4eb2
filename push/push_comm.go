package push

import (
	"fmt"

	"github.com/mcrl2-tools/alphacore/alphabet"
	"github.com/mcrl2-tools/alphacore/manalg"
	"github.com/mcrl2-tools/alphacore/process"
)

// PushComm implements push_comm(C, x) (spec section 4.5). It is
// deliberately the least aggressive of the four rewriters: communication
// only ever resolves at a parallel-composition boundary, so push_comm
// only actively transforms merge (splitting C across the two operands
// when no rule straddles both) and call (descending into equation bodies
// so recursive specifications are reached at all). Every other node kind
// is left as-is with comm(C, _) wrapped around it unchanged, matching
// spec section 4.5's "otherwise wrap comm(C, _) at the outer level" --
// including sync and left_merge, which the spec text names only merge
// for splitting, so they take the conservative wrapped path too.
func PushComm(ctx *Context, c manalg.CommSet, x process.Expr) (manalg.MANS, process.Expr, error) {
	switch n := x.(type) {
	case *process.Call:
		return ctx.pushCommCall(c, n.PID)
	case *process.CallAssign:
		alpha, expr, err := ctx.pushCommCall(c, n.PID)
		if err != nil {
			return manalg.Empty(), nil, err
		}
		if call, ok := expr.(*process.Call); ok {
			return alpha, &process.CallAssign{PID: call.PID, Assignments: n.Assignments}, nil
		}
		return alpha, expr, nil
	case *process.Merge:
		return ctx.pushCommMerge(c, n.Left, n.Right)
	default:
		plain := alphabet.Of(x, ctx.Alpha)
		return manalg.Comm(c, plain), &process.Comm{C: fromCommSet(c), Body: x}, nil
	}
}

func (ctx *Context) pushCommCall(c manalg.CommSet, p process.PID) (manalg.MANS, process.Expr, error) {
	alpha, expr, entry, ok := ctx.lookup(ctx.commMemo, commSetKey(c), p, "comm")
	if ok {
		return alpha, expr, nil
	}
	eq, err := ctx.equation(p)
	if err != nil {
		return manalg.Empty(), nil, err
	}
	alpha, body, err := PushComm(ctx, c, eq.Body)
	if err != nil {
		return manalg.Empty(), nil, err
	}
	expr = ctx.finish(entry, eq.Formal, body, alpha)
	return alpha, expr, nil
}

// pushCommMerge splits c into the rules whose lhs lies entirely within
// the left operand's alphabet only (c_l), the right's only (c_r), and the
// rest (c_both: within both, within neither, or straddling), per spec section 4.5's "C splits iff
// every rule's lhs can be assigned to exactly one operand's alphabet."
func (ctx *Context) pushCommMerge(c manalg.CommSet, left, right process.Expr) (manalg.MANS, process.Expr, error) {
	alphaL := alphabet.Of(left, ctx.Alpha)
	alphaR := alphabet.Of(right, ctx.Alpha)

	var cl, cr, cBoth manalg.CommSet
	for _, rule := range c.Rules {
		inL := lhsWithinAlphabet(rule.Lhs, alphaL)
		inR := lhsWithinAlphabet(rule.Lhs, alphaR)
		switch {
		case inL && !inR:
			cl.Rules = append(cl.Rules, rule)
		case inR && !inL:
			cr.Rules = append(cr.Rules, rule)
		default:
			cBoth.Rules = append(cBoth.Rules, rule)
		}
	}

	alphaLPrime, l, err := PushComm(ctx, cl, left)
	if err != nil {
		return manalg.Empty(), nil, err
	}
	alphaRPrime, r, err := PushComm(ctx, cr, right)
	if err != nil {
		return manalg.Empty(), nil, err
	}
	merged := manalg.Merge(alphaLPrime, alphaRPrime)
	expr := process.Expr(&process.Merge{Left: l, Right: r})
	if len(cBoth.Rules) == 0 {
		return merged, expr, nil
	}
	return manalg.Comm(cBoth, merged), &process.Comm{C: fromCommSet(cBoth), Body: expr}, nil
}

// lhsWithinAlphabet reports whether every action name in lhs occurs
// somewhere in alpha's support, the membership test pushCommMerge uses to
// decide which operand a rule belongs to.
func lhsWithinAlphabet(lhs manalg.MAN, alpha manalg.MANS) bool {
	support := manalg.NewActionSet()
	for _, m := range alpha.Elements() {
		support = support.Union(manalg.NewActionSet(m.Names()...))
	}
	for _, name := range lhs.Names() {
		if !support.Contains(name) {
			return false
		}
	}
	return true
}

func commSetKey(c manalg.CommSet) string {
	var key string
	for _, rule := range c.Rules {
		key += rule.Lhs.Key() + "=>"
		if rule.IsTau {
			key += "tau"
		} else {
			key += fmt.Sprintf("%d", rule.Rhs)
		}
		key += ";"
	}
	return key
}

func fromCommSet(c manalg.CommSet) []process.CommRuleExpr {
	var out []process.CommRuleExpr
	for _, rule := range c.Rules {
		out = append(out, process.CommRuleExpr{Lhs: manToIDs(rule.Lhs), Rhs: rule.Rhs, IsTau: rule.IsTau})
	}
	return out
}
