package alphabet

import (
	"testing"

	"github.com/mcrl2-tools/alphacore/ident"
	"github.com/mcrl2-tools/alphacore/manalg"
	"github.com/mcrl2-tools/alphacore/process"
)

func TestFixpointOverRecursiveEquation(t *testing.T) {
	tbl := ident.NewTable()
	a := tbl.Intern("a")
	p := process.PID{Name: tbl.Intern("P")}

	// P = a . P
	eq := &process.Equation{PID: p, Body: &process.Seq{
		Left:  &process.Action{Label: a},
		Right: &process.Call{PID: p},
	}}

	table := Compute([]*process.Equation{eq})
	got := table.Of(p)
	want := manalg.NewMANS(manalg.NewMAN(a))
	if !manalg.Equal(got, want) {
		t.Errorf("alphabet(P) = %v, want {{a}}", got.Elements())
	}
}

func TestFixpointOverMutualRecursion(t *testing.T) {
	tbl := ident.NewTable()
	a := tbl.Intern("a")
	b := tbl.Intern("b")
	p := process.PID{Name: tbl.Intern("P")}
	q := process.PID{Name: tbl.Intern("Q")}

	// P = a . Q;  Q = b . P
	eqP := &process.Equation{PID: p, Body: &process.Seq{Left: &process.Action{Label: a}, Right: &process.Call{PID: q}}}
	eqQ := &process.Equation{PID: q, Body: &process.Seq{Left: &process.Action{Label: b}, Right: &process.Call{PID: p}}}

	table := Compute([]*process.Equation{eqP, eqQ})
	wantP := manalg.NewMANS(manalg.NewMAN(a), manalg.NewMAN(b))
	if !manalg.Equal(table.Of(p), wantP) {
		t.Errorf("alphabet(P) = %v, want {{a},{b}}", table.Of(p).Elements())
	}
}

// Scenario 2 (spec section 8): alphabet(block({c}, a || (b || c))) must
// equal {{a},{b},{a,b}}.
func TestBlockNodeAlphabet(t *testing.T) {
	tbl := ident.NewTable()
	a := tbl.Intern("a")
	b := tbl.Intern("b")
	c := tbl.Intern("c")

	expr := &process.Block{
		H: []ident.ID{c},
		Body: &process.Merge{
			Left: &process.Action{Label: a},
			Right: &process.Merge{
				Left:  &process.Action{Label: b},
				Right: &process.Action{Label: c},
			},
		},
	}

	table := Compute(nil)
	got := Of(expr, table)
	want := manalg.NewMANS(manalg.NewMAN(a), manalg.NewMAN(b), manalg.NewMAN(a, b))
	if !manalg.Equal(got, want) {
		t.Errorf("alphabet(block({c}, a||(b||c))) = %v, want %v", got.Elements(), want.Elements())
	}
}

func TestIntersectionRejectsRestrictionNodes(t *testing.T) {
	tbl := ident.NewTable()
	c := tbl.Intern("c")
	expr := &process.Hide{I: []ident.ID{c}, Body: process.TauExpr{}}

	table := Compute(nil)
	_, err := Intersection(expr, table, manalg.Empty())
	if err != ErrUnsupportedNode {
		t.Errorf("Intersection(hide(...)) error = %v, want ErrUnsupportedNode", err)
	}
}
