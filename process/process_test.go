package process

import (
	"testing"

	"github.com/mcrl2-tools/alphacore/ident"
)

func TestFindProcessIdentifiers(t *testing.T) {
	tbl := ident.NewTable()
	p := PID{Name: tbl.Intern("P")}
	q := PID{Name: tbl.Intern("Q")}

	expr := &Choice{
		Left:  &Call{PID: p},
		Right: &Seq{Left: &Call{PID: q}, Right: &Call{PID: p}},
	}

	got := FindProcessIdentifiers(expr)
	if len(got) != 2 {
		t.Fatalf("FindProcessIdentifiers = %v, want 2 distinct PIDs", got)
	}
	if got[0] != p || got[1] != q {
		t.Errorf("FindProcessIdentifiers = %v, want [P, Q] in encounter order", got)
	}
}

func TestReplacePID(t *testing.T) {
	tbl := ident.NewTable()
	p := PID{Name: tbl.Intern("P")}
	r := PID{Name: tbl.Intern("R")}

	expr := &Choice{Left: &Call{PID: p}, Right: &Call{PID: p}}
	out := ReplacePID(expr, p, r)

	for _, pid := range FindProcessIdentifiers(out) {
		if pid != r {
			t.Errorf("ReplacePID left a reference to %v, want only R", pid)
		}
	}
}

func TestTransformRebuildsStructurally(t *testing.T) {
	tbl := ident.NewTable()
	a := tbl.Intern("a")
	expr := &Seq{Left: &Action{Label: a}, Right: Delta{}}

	count := 0
	process := func(n Expr) Expr {
		count++
		return n
	}
	Transform(expr, process)
	if count < 3 {
		t.Errorf("Transform visited %d nodes, want at least 3 (Action, Delta, Seq)", count)
	}
}
