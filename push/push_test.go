package push

import (
	"testing"

	"github.com/mcrl2-tools/alphacore/alphabet"
	"github.com/mcrl2-tools/alphacore/allowset"
	"github.com/mcrl2-tools/alphacore/diagnostic"
	"github.com/mcrl2-tools/alphacore/ident"
	"github.com/mcrl2-tools/alphacore/manalg"
	"github.com/mcrl2-tools/alphacore/process"
)

func newContext(t *testing.T, eqns map[process.PID]*process.Equation, tbl *ident.Table) *Context {
	t.Helper()
	var list []*process.Equation
	for _, eq := range eqns {
		list = append(list, eq)
	}
	table := alphabet.Compute(list)
	return NewContext(eqns, tbl, table, &diagnostic.Log{})
}

func TestPushAllowFiltersChoiceBranch(t *testing.T) {
	tbl := ident.NewTable()
	a, b := tbl.Intern("a"), tbl.Intern("b")

	x := &process.Choice{Left: &process.Action{Label: a}, Right: &process.Action{Label: b}}
	v := allowset.New(manalg.NewMANS(manalg.NewMAN(a)), false, manalg.ActionSet{})

	ctx := newContext(t, map[process.PID]*process.Equation{}, tbl)
	alpha, expr, err := PushAllow(ctx, v, x)
	if err != nil {
		t.Fatalf("PushAllow: %v", err)
	}
	if alpha.Len() != 1 || !alpha.Contains(manalg.NewMAN(a)) {
		t.Errorf("alpha = %v, want {{a}}", alpha.Elements())
	}
	choice, ok := expr.(*process.Choice)
	if !ok {
		t.Fatalf("expr is %T, want *Choice", expr)
	}
	if _, ok := choice.Right.(process.Delta); !ok {
		t.Errorf("blocked branch should become delta, got %T", choice.Right)
	}
}

func TestPushAllowOnRecursiveCallTerminates(t *testing.T) {
	tbl := ident.NewTable()
	a := tbl.Intern("a")
	p := process.PID{Name: tbl.Intern("P")}

	eqns := map[process.PID]*process.Equation{
		p: {PID: p, Body: &process.Seq{Left: &process.Action{Label: a}, Right: &process.Call{PID: p}}},
	}
	v := allowset.New(manalg.NewMANS(manalg.NewMAN(a)), false, manalg.ActionSet{})
	ctx := newContext(t, eqns, tbl)

	alpha, expr, err := PushAllow(ctx, v, &process.Call{PID: p})
	if err != nil {
		t.Fatalf("PushAllow: %v", err)
	}
	call, ok := expr.(*process.Call)
	if !ok {
		t.Fatalf("expr is %T, want *Call", expr)
	}
	if call.PID.Equal(p) {
		t.Errorf("expected a fresh specialised PID, got the original P back")
	}
	fresh, ok := ctx.Eqns[call.PID]
	if !ok {
		t.Fatalf("no equation emitted for %v", call.PID)
	}
	if !alpha.Contains(manalg.NewMAN(a)) {
		t.Errorf("alpha = %v, want it to contain {a}", alpha.Elements())
	}
	if _, ok := fresh.Body.(*process.Seq); !ok {
		t.Errorf("fresh equation body is %T, want *Seq", fresh.Body)
	}
}

func TestPushBlockTurnsBlockedActionIntoDelta(t *testing.T) {
	tbl := ident.NewTable()
	a, b := tbl.Intern("a"), tbl.Intern("b")
	x := &process.Choice{Left: &process.Action{Label: a}, Right: &process.Action{Label: b}}
	h := manalg.NewActionSet(b)

	ctx := newContext(t, map[process.PID]*process.Equation{}, tbl)
	alpha, expr, err := PushBlock(ctx, h, x)
	if err != nil {
		t.Fatalf("PushBlock: %v", err)
	}
	if alpha.Len() != 1 || !alpha.Contains(manalg.NewMAN(a)) {
		t.Errorf("alpha = %v, want {{a}}", alpha.Elements())
	}
	choice := expr.(*process.Choice)
	if _, ok := choice.Right.(process.Delta); !ok {
		t.Errorf("b branch should become delta once b is blocked")
	}
}

func TestPushHideDoesNotDistributeIntoChoice(t *testing.T) {
	tbl := ident.NewTable()
	a, b := tbl.Intern("a"), tbl.Intern("b")
	x := &process.Choice{Left: &process.Action{Label: a}, Right: &process.Action{Label: b}}
	i := manalg.NewActionSet(a)

	ctx := newContext(t, map[process.PID]*process.Equation{}, tbl)
	_, expr, err := PushHide(ctx, i, x)
	if err != nil {
		t.Fatalf("PushHide: %v", err)
	}
	hide, ok := expr.(*process.Hide)
	if !ok {
		t.Fatalf("expr is %T, want *Hide (choice must not be distributed into)", expr)
	}
	if hide.Body != x {
		t.Errorf("hide should wrap the original choice untouched")
	}
}

func TestPushHideRewritesActionDirectly(t *testing.T) {
	tbl := ident.NewTable()
	a := tbl.Intern("a")
	i := manalg.NewActionSet(a)
	ctx := newContext(t, map[process.PID]*process.Equation{}, tbl)

	alpha, expr, err := PushHide(ctx, i, &process.Action{Label: a})
	if err != nil {
		t.Fatalf("PushHide: %v", err)
	}
	if _, ok := expr.(process.TauExpr); !ok {
		t.Errorf("hiding a's own action should yield tau directly, got %T", expr)
	}
	if !manalg.Equal(alpha, manalg.TauOnly()) {
		t.Errorf("alpha = %v, want {tau}", alpha.Elements())
	}
}

func TestPushCommSplitsRulesAcrossMergeOperands(t *testing.T) {
	tbl := ident.NewTable()
	a, b, c, d := tbl.Intern("a"), tbl.Intern("b"), tbl.Intern("c"), tbl.Intern("d")
	// merge(a, d): comm rule a|b->c only concerns the left operand's
	// alphabet, so it must be classified into C_l and pushed left.
	x := &process.Merge{Left: &process.Action{Label: a}, Right: &process.Action{Label: d}}
	c1 := manalg.CommSet{Rules: []manalg.CommRule{{Lhs: manalg.NewMAN(a, b), Rhs: c}}}

	ctx := newContext(t, map[process.PID]*process.Equation{}, tbl)
	_, expr, err := PushComm(ctx, c1, x)
	if err != nil {
		t.Fatalf("PushComm: %v", err)
	}
	merge, ok := expr.(*process.Merge)
	if !ok {
		t.Fatalf("expr is %T, want *Merge (rule does not straddle)", expr)
	}
	if _, ok := merge.Left.(*process.Action); !ok {
		t.Errorf("left operand should remain a bare action since C_l's rule could not fire without b, got %T", merge.Left)
	}
}
