package allowset

import (
	"testing"

	"github.com/mcrl2-tools/alphacore/ident"
	"github.com/mcrl2-tools/alphacore/manalg"
)

// Scenario 1 (spec section 8): allow({a, a|b}, a || b) should leave
// {{a},{a,b}} as the admitted alphabet -- a and a|b are already exactly
// what the parallel composition can produce, so nothing is pruned.
func TestAllowScenario1(t *testing.T) {
	tbl := ident.NewTable()
	a := tbl.Intern("a")
	b := tbl.Intern("b")

	alphabetOfAB := manalg.Merge(manalg.NewMANS(manalg.NewMAN(a)), manalg.NewMANS(manalg.NewMAN(b)))
	v := manalg.NewMANS(manalg.NewMAN(a), manalg.NewMAN(a, b))

	x := New(v, false, manalg.ActionSet{})
	got := Intersect(x, alphabetOfAB)

	want := manalg.NewMANS(manalg.NewMAN(a), manalg.NewMAN(a, b))
	if !manalg.Equal(got, want) {
		t.Errorf("Intersect(allow(V), alphabet(a||b)) = %v, want %v", got.Elements(), want.Elements())
	}
}

func TestContainsAlwaysAdmitsTau(t *testing.T) {
	x := Empty()
	if !x.Contains(manalg.Tau) {
		t.Errorf("the empty AS must still admit tau")
	}
}

func TestSubsetsClosureAdmitsSubMultisets(t *testing.T) {
	tbl := ident.NewTable()
	a := tbl.Intern("a")
	b := tbl.Intern("b")

	x := New(manalg.NewMANS(manalg.NewMAN(a, b)), false, manalg.ActionSet{})
	if x.Contains(manalg.NewMAN(a)) {
		t.Errorf("without IncludeSubsets, {a} should not be admitted by allow({a,b})")
	}

	sub := Subsets(x)
	if !sub.Contains(manalg.NewMAN(a)) {
		t.Errorf("Subsets(allow({a,b})) must admit the sub-multiset {a}")
	}
}

func TestBlockHidesFromInnerSetWhenSubsetClosed(t *testing.T) {
	tbl := ident.NewTable()
	a := tbl.Intern("a")
	c := tbl.Intern("c")

	x := AS{A: manalg.NewMANS(manalg.NewMAN(a)), IncludeSubsets: true, I: manalg.NewActionSet(c)}
	blocked := Block(manalg.NewActionSet(c), x)
	if blocked.I.Contains(c) {
		t.Errorf("blocking c must remove it from the inner-hidden set")
	}
}
