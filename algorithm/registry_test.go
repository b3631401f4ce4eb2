package algorithm

import (
	"testing"

	"github.com/mcrl2-tools/alphacore/diagnostic"
	"github.com/mcrl2-tools/alphacore/ident"
	"github.com/mcrl2-tools/alphacore/process"
)

func TestAllMatchesSpecOrderAndByIndex(t *testing.T) {
	entries := All()
	if len(entries) != 13 {
		t.Fatalf("len(All()) = %d, want 13", len(entries))
	}
	name, fn, ok := ByIndex(0)
	if !ok || name != "alphabet-reduce" || fn == nil {
		t.Errorf("ByIndex(0) = (%q, %v, %v), want (\"alphabet-reduce\", non-nil, true)", name, fn, ok)
	}
	if _, _, ok := ByIndex(len(entries)); ok {
		t.Errorf("ByIndex(len) should be out of range")
	}
}

func TestByNameFindsEveryRegisteredAlgorithm(t *testing.T) {
	for _, e := range All() {
		if _, ok := ByName(e.Name); !ok {
			t.Errorf("ByName(%q) not found", e.Name)
		}
	}
	if _, ok := ByName("not-a-real-algorithm"); ok {
		t.Errorf("ByName found a nonexistent algorithm")
	}
}

func TestAnonimyzeIsDeterministicAcrossRuns(t *testing.T) {
	tbl := ident.NewTable()
	aAct := tbl.Intern("send")
	p := process.PID{Name: tbl.Intern("Sender")}
	spec := &process.Spec{
		Equations: []*process.Equation{{PID: p, Body: &process.Action{Label: aAct}}},
		Initial:   &process.Call{PID: p},
	}
	fn, _ := ByName("anonimyze")

	res1, err := fn(spec, tbl, &diagnostic.Log{})
	if err != nil {
		t.Fatalf("anonimyze: %v", err)
	}
	name1 := tbl.Name(res1.Spec.Equations[0].PID.Name)

	tbl2 := ident.NewTable()
	aAct2 := tbl2.Intern("send")
	p2 := process.PID{Name: tbl2.Intern("Sender")}
	spec2 := &process.Spec{
		Equations: []*process.Equation{{PID: p2, Body: &process.Action{Label: aAct2}}},
		Initial:   &process.Call{PID: p2},
	}
	res2, err := fn(spec2, tbl2, &diagnostic.Log{})
	if err != nil {
		t.Fatalf("anonimyze: %v", err)
	}
	name2 := tbl2.Name(res2.Spec.Equations[0].PID.Name)

	if name1 != name2 {
		t.Errorf("anonimyze produced %q and %q for isomorphic specs, want matching deterministic names", name1, name2)
	}
	if name1 != "p0" {
		t.Errorf("anonimyze PID name = %q, want \"p0\" (sole PID)", name1)
	}
}

func TestProcessInfoReportsCounts(t *testing.T) {
	tbl := ident.NewTable()
	a := tbl.Intern("a")
	p := process.PID{Name: tbl.Intern("P")}
	spec := &process.Spec{
		Equations: []*process.Equation{{PID: p, Body: &process.Action{Label: a}}},
		Initial:   &process.Call{PID: p},
	}
	fn, _ := ByName("process-info")
	res, err := fn(spec, tbl, &diagnostic.Log{})
	if err != nil {
		t.Fatalf("process-info: %v", err)
	}
	if res.Report == "" {
		t.Errorf("process-info produced no report")
	}
}
