package manalg

import (
	"testing"

	"github.com/mcrl2-tools/alphacore/ident"
)

func ids(t *ident.Table, names ...string) []ident.ID {
	out := make([]ident.ID, len(names))
	for i, n := range names {
		out[i] = t.Intern(n)
	}
	return out
}

func TestUnionAndDifference(t *testing.T) {
	tbl := ident.NewTable()
	a, b := ids(tbl, "a", "b")

	ab := NewMAN(a, b)
	aa := NewMAN(a, a)

	if got := Union(NewMAN(a), NewMAN(b)); !got.Equal(ab) {
		t.Errorf("Union(a,b) = %v, want %v", got, ab)
	}
	if got := Difference(aa, NewMAN(a)); !got.Equal(NewMAN(a)) {
		t.Errorf("Difference(aa,a) = %v, want {a}", got)
	}
	if got := Difference(NewMAN(a), NewMAN(a, a)); !got.IsTau() {
		t.Errorf("Difference should saturate at zero, got %v", got)
	}
}

func TestConcatAndMerge(t *testing.T) {
	tbl := ident.NewTable()
	a, b := ids(tbl, "a", "b")

	A := NewMANS(NewMAN(a))
	B := NewMANS(NewMAN(b))

	concat := Concat(A, B)
	if !concat.Contains(NewMAN(a, b)) || concat.Len() != 1 {
		t.Errorf("Concat({a},{b}) = %v, want {{a,b}}", concat.Elements())
	}

	merge := Merge(A, B)
	want := NewMANS(NewMAN(a), NewMAN(b), NewMAN(a, b))
	if !Equal(merge, want) {
		t.Errorf("Merge({a},{b}) = %v, want %v", merge.Elements(), want.Elements())
	}
}

// Scenario 2 (spec section 8): block({c}, a || (b || c)) must leave {a},
// {b}, {a,b} as the resulting alphabet.
func TestBlockAbsorbsParallelComposition(t *testing.T) {
	tbl := ident.NewTable()
	names := ids(tbl, "a", "b", "c")
	a, b, c := names[0], names[1], names[2]

	abc := Merge(Merge(NewMANS(NewMAN(a)), NewMANS(NewMAN(b))), NewMANS(NewMAN(c)))

	h := NewActionSet(c)
	got := Block(h, abc, false)
	want := NewMANS(NewMAN(a), NewMAN(b), NewMAN(a, b))
	if !Equal(got, want) {
		t.Errorf("Block({c}, alphabet) = %v, want %v", got.Elements(), want.Elements())
	}
}

// Scenario 3 (spec section 8): rename_inverse(rho, V) with
// rho = {a->b, c->d}, V = {b, bb} must equal {a, b, aa, ab, bb}.
func TestRenameInverseScenario3(t *testing.T) {
	tbl := ident.NewTable()
	a := tbl.Intern("a")
	b := tbl.Intern("b")
	c := tbl.Intern("c")
	d := tbl.Intern("d")

	rho := NewRenameMap(map[ident.ID]ident.ID{a: b, c: d})
	V := NewMANS(NewMAN(b), NewMAN(b, b))

	got := RenameInverse(rho, V, false)
	want := NewMANS(NewMAN(a), NewMAN(b), NewMAN(a, a), NewMAN(a, b), NewMAN(b, b))
	if !Equal(got, want) {
		t.Errorf("RenameInverse(rho, V) = %v, want %v", got.Elements(), want.Elements())
	}
}

// Scenario 4 (spec section 8): comm_inverse({a|b -> c}, {c}) must equal
// {{a,b}, {c}}.
func TestCommInverseScenario4(t *testing.T) {
	tbl := ident.NewTable()
	a := tbl.Intern("a")
	b := tbl.Intern("b")
	c := tbl.Intern("c")

	rule := CommRule{Lhs: NewMAN(a, b), Rhs: c}
	C := CommSet{Rules: []CommRule{rule}}
	V := NewMANS(NewMAN(c))

	got := CommInverse(C, V, false)
	want := NewMANS(NewMAN(a, b), NewMAN(c))
	if !Equal(got, want) {
		t.Errorf("CommInverse(C, {c}) = %v, want %v", got.Elements(), want.Elements())
	}
}

func TestCommSynchronizes(t *testing.T) {
	tbl := ident.NewTable()
	a := tbl.Intern("a")
	b := tbl.Intern("b")
	c := tbl.Intern("c")

	rule := CommRule{Lhs: NewMAN(a, b), Rhs: c}
	C := CommSet{Rules: []CommRule{rule}}
	A := NewMANS(NewMAN(a, b), NewMAN(a))

	got := Comm(C, A)
	if !got.Contains(NewMAN(c)) {
		t.Errorf("Comm should synchronize {a,b} into {c}, got %v", got.Elements())
	}
	if !got.Contains(NewMAN(a)) {
		t.Errorf("Comm must not drop unmatched MANs, got %v", got.Elements())
	}
}

func TestAllowExactAndSubsets(t *testing.T) {
	tbl := ident.NewTable()
	a := tbl.Intern("a")
	b := tbl.Intern("b")

	A := NewMANS(NewMAN(a, b))
	V := NewMANS(NewMAN(a), NewMAN(a, b))

	exact := Allow(V, A, false)
	if exact.Len() != 1 || !exact.Contains(NewMAN(a, b)) {
		t.Errorf("Allow without subsets = %v, want {{a,b}}", exact.Elements())
	}

	withSubsets := Allow(V, A, true)
	want := NewMANS(NewMAN(a), NewMAN(a, b))
	if !Equal(withSubsets, want) {
		t.Errorf("Allow with subsets = %v, want %v", withSubsets.Elements(), want.Elements())
	}
}

func TestRemoveSubsets(t *testing.T) {
	tbl := ident.NewTable()
	a := tbl.Intern("a")
	b := tbl.Intern("b")

	s := NewMANS(NewMAN(a), NewMAN(a, b))
	got := RemoveSubsets(s)
	if got.Len() != 1 || !got.Contains(NewMAN(a, b)) {
		t.Errorf("RemoveSubsets = %v, want {{a,b}}", got.Elements())
	}
}
