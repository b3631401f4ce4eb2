package driver

import (
	"testing"

	"github.com/mcrl2-tools/alphacore/alphabet"
	"github.com/mcrl2-tools/alphacore/ident"
	"github.com/mcrl2-tools/alphacore/manalg"
	"github.com/mcrl2-tools/alphacore/process"
)

func TestRunAllowOnMergeLeavesMinimalAllowInPlace(t *testing.T) {
	tbl := ident.NewTable()
	a, b := tbl.Intern("a"), tbl.Intern("b")

	initial := &process.Allow{
		V:    [][]ident.ID{{a}, {a, b}},
		Body: &process.Merge{Left: &process.Action{Label: a}, Right: &process.Action{Label: b}},
	}
	spec := &process.Spec{Initial: initial}

	out, log, err := Run(spec, tbl, Options{})
	if err != nil {
		t.Fatalf("Run: %v (log: %v)", err, log.Entries)
	}
	if _, ok := out.Initial.(*process.Allow); !ok {
		t.Fatalf("expected the allow to survive (restriction was already minimal), got %T", out.Initial)
	}
}

func TestRunPushesBlockThroughNestedMerge(t *testing.T) {
	tbl := ident.NewTable()
	a, b, c := tbl.Intern("a"), tbl.Intern("b"), tbl.Intern("c")

	initial := &process.Block{
		H: []ident.ID{c},
		Body: &process.Merge{
			Left:  &process.Action{Label: a},
			Right: &process.Merge{Left: &process.Action{Label: b}, Right: &process.Action{Label: c}},
		},
	}
	spec := &process.Spec{Initial: initial}

	out, log, err := Run(spec, tbl, Options{})
	if err != nil {
		t.Fatalf("Run: %v (log: %v)", err, log.Entries)
	}

	for _, label := range process.FindActionLabels(out.Initial) {
		if label == c {
			t.Errorf("blocked action c survived in the reduced initial expression")
		}
	}

	want := manalg.Merge(manalg.NewMANS(manalg.NewMAN(a)), manalg.NewMANS(manalg.NewMAN(b)))
	table := alphabet.Compute(out.Equations)
	got := alphabet.Of(out.Initial, table)
	if !manalg.Equal(got, want) {
		t.Errorf("alphabet = %v, want %v", got.Elements(), want.Elements())
	}
}

func TestRunEliminatesTrivialAliasChain(t *testing.T) {
	tbl := ident.NewTable()
	a := tbl.Intern("a")
	p := process.PID{Name: tbl.Intern("P")}
	q := process.PID{Name: tbl.Intern("Q")}
	r := process.PID{Name: tbl.Intern("R")}

	spec := &process.Spec{
		Equations: []*process.Equation{
			{PID: p, Body: &process.Call{PID: q}},
			{PID: q, Body: &process.Call{PID: r}},
			{PID: r, Body: &process.Seq{Left: &process.Action{Label: a}, Right: &process.Call{PID: r}}},
		},
		Initial: &process.Call{PID: p},
	}

	out, log, err := Run(spec, tbl, Options{})
	if err != nil {
		t.Fatalf("Run: %v (log: %v)", err, log.Entries)
	}
	if len(out.Equations) != 1 || !out.Equations[0].PID.Equal(r) {
		t.Fatalf("equations = %v, want only R", out.Equations)
	}
	call, ok := out.Initial.(*process.Call)
	if !ok || !call.PID.Equal(r) {
		t.Fatalf("initial = %#v, want call(R)", out.Initial)
	}
}

func TestRunOnEmptySpecIsIdentity(t *testing.T) {
	tbl := ident.NewTable()
	spec := &process.Spec{Initial: process.Delta{}}

	out, log, err := Run(spec, tbl, Options{})
	if err != nil {
		t.Fatalf("Run: %v (log: %v)", err, log.Entries)
	}
	if _, ok := out.Initial.(process.Delta); !ok {
		t.Errorf("initial = %#v, want delta unchanged", out.Initial)
	}
	if len(out.Equations) != 0 {
		t.Errorf("equations = %v, want none", out.Equations)
	}
}
