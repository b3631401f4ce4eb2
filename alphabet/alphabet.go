// Package alphabet implements the alphabet calculator (spec section 4.3):
// given a process expression and an equation context, it computes an
// over-approximation of the multi-action names the expression can
// perform.
//
// The fixpoint loop below follows the same "for (changes occur) { ... }"
// shape as the teacher package's reaching-definitions and live-variable
// analyses (analysis/dataflow/reaching.go, live.go): iterate every
// equation in a fixed order, recompute its body's value against the
// current table, and keep going until nothing changes. There it is GEN and
// KILL bitsets over statements converging to IN/OUT; here it is a
// structural evaluation of a process body converging to a multi-action
// name set per PID.
package alphabet

import (
	"fmt"
	"sort"

	"github.com/mcrl2-tools/alphacore/ident"
	"github.com/mcrl2-tools/alphacore/manalg"
	"github.com/mcrl2-tools/alphacore/process"
)

// ErrUnsupportedNode is returned by Intersection when it encounters a
// block, hide, rename, comm, or allow node (spec section 4.3 / 7).
var ErrUnsupportedNode = fmt.Errorf("alphabet: unsupported node for alphabet_intersection: %w", process.ErrUnsupportedNode)

// Table is the per-PID alphabet cache built by a fixpoint over the
// equation dependency graph (spec section 4.3). It is scoped to one driver
// invocation (spec section 5).
type Table struct {
	eqnByPID map[process.PID]*process.Equation
	alpha    map[process.PID]manalg.MANS
}

// Compute runs the alphabet fixpoint over every equation in eqns and
// returns a Table from which Of(pid) answers in O(1).
//
// Per spec section 4.3: alpha[p] starts at the empty set for every PID and
// is repeatedly recomputed from the current table until no value changes;
// termination follows because the MANS lattice under subset order has
// finite height bounded by the number of distinct action names.
func Compute(eqns []*process.Equation) *Table {
	t := &Table{
		eqnByPID: make(map[process.PID]*process.Equation, len(eqns)),
		alpha:    make(map[process.PID]manalg.MANS, len(eqns)),
	}
	var pids []process.PID
	for _, eq := range eqns {
		t.eqnByPID[eq.PID] = eq
		t.alpha[eq.PID] = manalg.Empty()
		pids = append(pids, eq.PID)
	}
	sortPIDs(pids)

	for {
		changed := false
		for _, pid := range pids {
			eq := t.eqnByPID[pid]
			next := t.body(eq.Body, nil, nil)
			old := t.alpha[pid]
			if !manalg.Equal(old, next) {
				t.alpha[pid] = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return t
}

// Of returns the fixpoint alphabet computed for pid. It returns the empty
// set for any PID not present in the equations Compute was given.
func (t *Table) Of(pid process.PID) manalg.MANS {
	return t.alpha[pid]
}

func sortPIDs(pids []process.PID) {
	sort.Slice(pids, func(i, j int) bool {
		if pids[i].Name != pids[j].Name {
			return pids[i].Name < pids[j].Name
		}
		return pids[i].Signature < pids[j].Signature
	})
}

// Bounded computes alphabet_bounded(x, A, eqns) (spec section 4.3): a
// top-down variant of Of that discards any combined multi-action, as soon
// as it is formed at a merge/sync/left_merge node, unless it is a
// sub-multiset of some element of A -- the same pruning Of's internal
// combine step already performs for the plain alphabet computation, here
// driven by a caller-supplied envelope instead of an internal unbounded
// one. The spec names AS as the return type for this operation, but since
// mCRL2's actual top-down pruning only ever narrows a MANS (it does not
// need the subset-closure or inner-hidden-names machinery allowset.AS
// carries), this returns the pruned MANS directly; a caller that needs an
// AS can wrap the result with allowset.New.
func Bounded(e process.Expr, t *Table, allowedEnvelope manalg.MANS) manalg.MANS {
	return t.body(e, allowedEnvelope.Elements(), nil)
}

// Of computes the alphabet of a standalone expression against a fixed,
// already-converged Table -- the plain `alphabet` entry point of spec
// section 4.3. Cycles through `call` are resolved via the Table, which was
// already brought to its fixpoint by Compute.
func Of(e process.Expr, t *Table) manalg.MANS {
	return t.body(e, nil, nil)
}

// body implements the structural rules of spec section 4.3 for a single
// process-expression node, given the current best-known per-PID alphabets
// in t.alpha. busy tracks PIDs currently being expanded on this call stack
// so that a cyclic reference returns the empty set for that sub-term (spec
// section 4.3's "Cycle handling"), letting the outer fixpoint iteration
// lift the value on a later pass.
//
// allowed and limit implement the length-bounded / allowed-filtered
// variant (spec section 4.3): at every merge/sync/left_merge node, a
// combined MAN is dropped if it exceeds limit in cardinality or is not a
// sub-multiset of some element of allowed. A nil allowed/zero limit means
// "unbounded".
func (t *Table) body(e process.Expr, allowed []manalg.MAN, limit *int) manalg.MANS {
	return t.bodyBusy(e, allowed, limit, map[process.PID]bool{})
}

func (t *Table) bodyBusy(e process.Expr, allowed []manalg.MAN, limit *int, busy map[process.PID]bool) manalg.MANS {
	switch n := e.(type) {
	case process.Delta:
		return manalg.Empty()
	case process.TauExpr:
		return manalg.TauOnly()
	case *process.Action:
		return manalg.NewMANS(manalg.NewMAN(n.Label))
	case *process.Call:
		return t.ofCall(n.PID, busy)
	case *process.CallAssign:
		return t.ofCall(n.PID, busy)
	case *process.Sum:
		return t.bodyBusy(n.Body, allowed, limit, busy)
	case *process.SumQuantified:
		return t.bodyBusy(n.Body, allowed, limit, busy)
	case *process.At:
		return t.bodyBusy(n.Body, allowed, limit, busy)
	case *process.IfThen:
		return t.bodyBusy(n.Body, allowed, limit, busy)
	case *process.IfThenElse:
		return manalg.SetUnion(t.bodyBusy(n.Then, allowed, limit, busy), t.bodyBusy(n.Else, allowed, limit, busy))
	case *process.Choice:
		return manalg.SetUnion(t.bodyBusy(n.Left, allowed, limit, busy), t.bodyBusy(n.Right, allowed, limit, busy))
	case *process.Seq:
		return manalg.SetUnion(t.bodyBusy(n.Left, allowed, limit, busy), t.bodyBusy(n.Right, allowed, limit, busy))
	case *process.BoundedInit:
		return manalg.SetUnion(t.bodyBusy(n.Left, allowed, limit, busy), t.bodyBusy(n.Right, allowed, limit, busy))
	case *process.Stochastic:
		return t.bodyBusy(n.Body, allowed, limit, busy)
	case *process.Merge:
		return t.combine(n.Left, n.Right, allowed, limit, busy, manalg.Merge)
	case *process.LeftMerge:
		return t.combine(n.Left, n.Right, allowed, limit, busy, manalg.Merge)
	case *process.Sync:
		return t.combine(n.Left, n.Right, allowed, limit, busy, manalg.Sync)
	case *process.Block:
		return manalg.Block(manalg.NewActionSet(n.H...), t.bodyBusy(n.Body, nil, nil, busy), false)
	case *process.Hide:
		return manalg.Hide(manalg.NewActionSet(n.I...), t.bodyBusy(n.Body, nil, nil, busy))
	case *process.Rename:
		return manalg.Rename(manalg.NewRenameMap(n.R), t.bodyBusy(n.Body, nil, nil, busy))
	case *process.Comm:
		return manalg.Comm(toCommSet(n.C), t.bodyBusy(n.Body, nil, nil, busy))
	case *process.Allow:
		return manalg.Allow(toMANS(n.V), t.bodyBusy(n.Body, nil, nil, busy), false)
	default:
		return manalg.Empty()
	}
}

func (t *Table) ofCall(pid process.PID, busy map[process.PID]bool) manalg.MANS {
	if busy[pid] {
		return manalg.Empty()
	}
	if a, ok := t.alpha[pid]; ok {
		return a
	}
	return manalg.Empty()
}

func (t *Table) combine(l, r process.Expr, allowed []manalg.MAN, limit *int, busy map[process.PID]bool, op func(a, b manalg.MANS) manalg.MANS) manalg.MANS {
	al := t.bodyBusy(l, allowed, limit, busy)
	ar := t.bodyBusy(r, allowed, limit, busy)
	combined := op(al, ar)
	return pruneBounded(combined, allowed, limit)
}

// pruneBounded drops MANs exceeding limit in cardinality, or not a
// sub-multiset of some element of allowed, implementing the length-bounded
// / allowed-filtered variant used by alphabet_bounded during the push
// pass (spec section 4.3).
func pruneBounded(s manalg.MANS, allowed []manalg.MAN, limit *int) manalg.MANS {
	if allowed == nil && limit == nil {
		return s
	}
	out := manalg.Empty()
	for _, m := range s.Elements() {
		if limit != nil && m.Len() > *limit {
			continue
		}
		if allowed != nil {
			fits := false
			for _, a := range allowed {
				if manalg.Includes(a, m) {
					fits = true
					break
				}
			}
			if !fits {
				continue
			}
		}
		out = out.With(m)
	}
	return out
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

// Intersection computes alphabet_intersection (spec section 4.3): the
// alphabet of e intersected with allowed at every node, failing fast with
// ErrUnsupportedNode if e contains a block, hide, rename, comm, or allow
// anywhere in its tree.
func Intersection(e process.Expr, t *Table, allowed manalg.MANS) (manalg.MANS, error) {
	var err error
	result := intersection(e, t, allowed, map[process.PID]bool{}, &err)
	if err != nil {
		return manalg.Empty(), err
	}
	return result, nil
}

func intersection(e process.Expr, t *Table, allowed manalg.MANS, busy map[process.PID]bool, err *error) manalg.MANS {
	if *err != nil {
		return manalg.Empty()
	}
	switch n := e.(type) {
	case *process.Block, *process.Hide, *process.Rename, *process.Comm, *process.Allow:
		*err = ErrUnsupportedNode
		return manalg.Empty()
	case process.Delta:
		return manalg.Empty()
	case process.TauExpr:
		return allowIfPresent(manalg.TauOnly(), allowed)
	case *process.Action:
		return allowIfPresent(manalg.NewMANS(manalg.NewMAN(n.Label)), allowed)
	case *process.Call:
		return allowIfPresent(t.ofCall(n.PID, busy), allowed)
	case *process.CallAssign:
		return allowIfPresent(t.ofCall(n.PID, busy), allowed)
	case *process.Sum:
		return intersection(n.Body, t, allowed, busy, err)
	case *process.SumQuantified:
		return intersection(n.Body, t, allowed, busy, err)
	case *process.At:
		return intersection(n.Body, t, allowed, busy, err)
	case *process.IfThen:
		return intersection(n.Body, t, allowed, busy, err)
	case *process.IfThenElse:
		return manalg.SetUnion(intersection(n.Then, t, allowed, busy, err), intersection(n.Else, t, allowed, busy, err))
	case *process.Choice:
		return manalg.SetUnion(intersection(n.Left, t, allowed, busy, err), intersection(n.Right, t, allowed, busy, err))
	case *process.Seq:
		return manalg.SetUnion(intersection(n.Left, t, allowed, busy, err), intersection(n.Right, t, allowed, busy, err))
	case *process.BoundedInit:
		return manalg.SetUnion(intersection(n.Left, t, allowed, busy, err), intersection(n.Right, t, allowed, busy, err))
	case *process.Stochastic:
		return intersection(n.Body, t, allowed, busy, err)
	case *process.Merge, *process.LeftMerge, *process.Sync:
		l, r := childrenOf(n)
		combined := manalg.Merge(intersection(l, t, manalg.Empty(), busy, err), intersection(r, t, manalg.Empty(), busy, err))
		return allowIfPresent(combined, allowed)
	default:
		return manalg.Empty()
	}
}

func childrenOf(e process.Expr) (process.Expr, process.Expr) {
	switch n := e.(type) {
	case *process.Merge:
		return n.Left, n.Right
	case *process.LeftMerge:
		return n.Left, n.Right
	case *process.Sync:
		return n.Left, n.Right
	}
	return process.Delta{}, process.Delta{}
}

func allowIfPresent(s manalg.MANS, allowed manalg.MANS) manalg.MANS {
	if allowed.IsEmpty() {
		return s
	}
	out := manalg.Empty()
	for _, m := range s.Elements() {
		if allowed.Contains(m) {
			out = out.With(m)
		}
	}
	return out
}
