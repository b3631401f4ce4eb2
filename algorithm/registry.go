// Package algorithm maps the CLI-visible algorithm names (spec section 6)
// to runnable implementations built from packages manalg, allowset,
// alphabet, eqgraph, push, and driver. It generalises
// doctor.GetAllRefactorings/doctor.GetRefactoring (doctor/engine.go) from
// "one short name per Go refactoring" to "one short name per
// alphabet-reduction algorithm", adding the index-based lookup
// (--number=N) spec section 6 asks for that the teacher's registry never
// needed.
package algorithm

import (
	"fmt"
	"sort"

	"github.com/mcrl2-tools/alphacore/alphabet"
	"github.com/mcrl2-tools/alphacore/diagnostic"
	"github.com/mcrl2-tools/alphacore/driver"
	"github.com/mcrl2-tools/alphacore/eqgraph"
	"github.com/mcrl2-tools/alphacore/ident"
	"github.com/mcrl2-tools/alphacore/manalg"
	"github.com/mcrl2-tools/alphacore/process"
)

// Result is what an algorithm produces: a rewritten specification for the
// algorithms that mutate the process graph, a plain-text report for the
// read-only ones (process-info, process-scc), or both.
type Result struct {
	Spec   *process.Spec
	Report string
}

// Func runs one named algorithm against spec, using tbl to resolve and
// allocate identifiers, logging warnings to log.
type Func func(spec *process.Spec, tbl *ident.Table, log *diagnostic.Log) (Result, error)

// Entry is one registry slot: a stable name and the implementation. Its
// --number index is its position in names below, not a field.
type Entry struct {
	Name string
	Run  Func
}

// names is spec section 6's exact `--algorithm=NAME` enumeration, in
// declaration order; order is also the --number=N index.
var names = []string{
	"alphabet-reduce",
	"alphabet",
	"alphabet-efficient",
	"alphabet-new",
	"alphabet-bounded",
	"process-scc",
	"eliminate-trivial-equations",
	"eliminate-single-usage-equations",
	"eliminate-unused-equations",
	"join-bisimilar-equations",
	"process-info",
	"remove-data-parameters",
	"anonimyze",
}

var registry = map[string]Func{
	"alphabet-reduce":                   runAlphabetReduce,
	"alphabet":                          runAlphabet,
	"alphabet-efficient":                runAlphabet,
	"alphabet-new":                      runAlphabet,
	"alphabet-bounded":                  runAlphabetBounded,
	"process-scc":                       runProcessSCC,
	"eliminate-trivial-equations":       runEliminateTrivial,
	"eliminate-single-usage-equations":  runEliminateSingleUsage,
	"eliminate-unused-equations":        runEliminateUnused,
	"join-bisimilar-equations":          runJoinBisimilar,
	"process-info":                      runProcessInfo,
	"remove-data-parameters":            runRemoveDataParameters,
	"anonimyze":                         runAnonimyze,
}

// All returns every registered algorithm, in spec section 6's declared
// order (the order --print-algorithms lists them in, and the order
// --number=N indexes into).
func All() []Entry {
	out := make([]Entry, len(names))
	for i, n := range names {
		out[i] = Entry{Name: n, Run: registry[n]}
	}
	return out
}

// ByName returns the algorithm registered under name, or false if there is
// none.
func ByName(name string) (Func, bool) {
	f, ok := registry[name]
	return f, ok
}

// ByIndex returns the algorithm at position n in All()'s order, or false
// if n is out of range.
func ByIndex(n int) (string, Func, bool) {
	if n < 0 || n >= len(names) {
		return "", nil, false
	}
	return names[n], registry[names[n]], true
}

func runAlphabetReduce(spec *process.Spec, tbl *ident.Table, log *diagnostic.Log) (Result, error) {
	out, runLog, err := driver.Run(spec, tbl, driver.Options{})
	log.Entries = append(log.Entries, runLog.Entries...)
	if err != nil {
		return Result{}, err
	}
	return Result{Spec: out}, nil
}

// runAlphabet backs alphabet, alphabet-efficient, and alphabet-new. Spec
// section 4.3 states all three compute the same result, differing only in
// an internal caching strategy; package alphabet already unifies that
// strategy behind a single fixpoint Table (see alphabet.Compute's doc
// comment), so the three CLI names share one implementation here.
func runAlphabet(spec *process.Spec, tbl *ident.Table, log *diagnostic.Log) (Result, error) {
	table := alphabet.Compute(spec.Equations)
	a := alphabet.Of(spec.Initial, table)
	return Result{Spec: spec, Report: formatMANS(tbl, a)}, nil
}

// runAlphabetBounded reports alphabet_bounded(initial, alphabet(initial),
// eqns): the CLI has no separate syntax for an external envelope V (spec
// section 6's surface never grew one), so the bound is taken to be the
// expression's own unrestricted alphabet, which makes the bounded and
// unbounded results agree and exercises the pruning machinery without
// fabricating CLI surface the spec does not define.
func runAlphabetBounded(spec *process.Spec, tbl *ident.Table, log *diagnostic.Log) (Result, error) {
	table := alphabet.Compute(spec.Equations)
	envelope := alphabet.Of(spec.Initial, table)
	bounded := alphabet.Bounded(spec.Initial, table, envelope)
	return Result{Spec: spec, Report: formatMANS(tbl, bounded)}, nil
}

func runProcessSCC(spec *process.Spec, tbl *ident.Table, log *diagnostic.Log) (Result, error) {
	g := eqgraph.Build(spec.Equations)
	sccs := eqgraph.Tarjan(g)
	var report string
	for i, scc := range sccs {
		report += fmt.Sprintf("scc %d (recursive=%v):", i, scc.Recursive)
		for _, pid := range scc.PIDs {
			report += " " + tbl.Name(pid.Name)
		}
		report += "\n"
	}
	return Result{Spec: spec, Report: report}, nil
}

func runEliminateTrivial(spec *process.Spec, tbl *ident.Table, log *diagnostic.Log) (Result, error) {
	eqns, aliases := eqgraph.EliminateTrivial(spec.Equations)
	initial := spec.Initial
	for from, to := range aliases {
		initial = process.ReplacePID(initial, from, to)
	}
	return Result{Spec: withEquations(spec, eqns, initial)}, nil
}

func runEliminateSingleUsage(spec *process.Spec, tbl *ident.Table, log *diagnostic.Log) (Result, error) {
	g := eqgraph.Build(spec.Equations)
	cls := eqgraph.Classify(g, spec.Equations)
	eqns, initial := eqgraph.EliminateSingleUsage(spec.Equations, spec.Initial, cls)
	return Result{Spec: withEquations(spec, eqns, initial)}, nil
}

func runEliminateUnused(spec *process.Spec, tbl *ident.Table, log *diagnostic.Log) (Result, error) {
	g := eqgraph.Build(spec.Equations)
	eqns := eqgraph.EliminateUnused(g, spec.Equations, spec.Initial)
	return Result{Spec: withEquations(spec, eqns, spec.Initial)}, nil
}

func runJoinBisimilar(spec *process.Spec, tbl *ident.Table, log *diagnostic.Log) (Result, error) {
	eqns, initial := eqgraph.MergeDuplicates(spec.Equations, spec.Initial)
	return Result{Spec: withEquations(spec, eqns, initial)}, nil
}

func runProcessInfo(spec *process.Spec, tbl *ident.Table, log *diagnostic.Log) (Result, error) {
	g := eqgraph.Build(spec.Equations)
	seeds := process.FindProcessIdentifiers(spec.Initial)
	reachable := eqgraph.Reachable(g, seeds)
	cls := eqgraph.Classify(g, spec.Equations)
	table := alphabet.Compute(spec.Equations)
	initialAlpha := alphabet.Of(spec.Initial, table)

	report := fmt.Sprintf(
		"equations: %d\nreachable from initial: %d\nstrongly connected components: %d\npCRL: %v\nactions in initial's alphabet: %d\n",
		len(spec.Equations), len(reachable), len(cls.SCCs()), cls.IsPCRL(), initialAlpha.Len(),
	)
	return Result{Spec: spec, Report: report}, nil
}

// runRemoveDataParameters drops every formal parameter, actual argument,
// and named assignment from the specification. Since process.DataExpr
// only ever carries opaque raw text (spec section 1 excludes the data
// rewriter from this core's scope), there is no substitution to perform
// first -- unlike the original tool's lpsparelm, which proves parameters
// unused via the data semantics before removing them, this is a blunt
// structural strip, documented as a simplification in DESIGN.md.
func runRemoveDataParameters(spec *process.Spec, tbl *ident.Table, log *diagnostic.Log) (Result, error) {
	strip := func(e process.Expr) process.Expr {
		return process.Transform(e, func(n process.Expr) process.Expr {
			switch c := n.(type) {
			case *process.Call:
				if len(c.Args) == 0 {
					return n
				}
				return &process.Call{PID: c.PID}
			case *process.CallAssign:
				return &process.Call{PID: c.PID}
			}
			return n
		})
	}
	eqns := make([]*process.Equation, len(spec.Equations))
	for i, eq := range spec.Equations {
		eqns[i] = &process.Equation{PID: eq.PID, Body: strip(eq.Body)}
	}
	return Result{Spec: withEquations(spec, eqns, strip(spec.Initial))}, nil
}

// runAnonimyze renames every process identifier and action label to a
// deterministic p0, p1, ... / a0, a1, ... scheme, sorted by original name
// to keep the renaming stable across runs (SPEC_FULL.md's supplemental
// feature, mirroring the original tool's standalone anonymisation pass).
func runAnonimyze(spec *process.Spec, tbl *ident.Table, log *diagnostic.Log) (Result, error) {
	pidNames := map[ident.ID]bool{}
	actionNames := map[ident.ID]bool{}
	for _, eq := range spec.Equations {
		pidNames[eq.PID.Name] = true
		for _, label := range process.FindActionLabels(eq.Body) {
			actionNames[label] = true
		}
	}
	for _, label := range process.FindActionLabels(spec.Initial) {
		actionNames[label] = true
	}

	pidRename := anonRenameMap(tbl, pidNames, "p")
	actionRename := anonRenameMap(tbl, actionNames, "a")

	renamePID := func(p process.PID) process.PID {
		if fresh, ok := pidRename[p.Name]; ok {
			return process.PID{Name: fresh, Signature: p.Signature}
		}
		return p
	}
	rewrite := func(e process.Expr) process.Expr {
		return process.Transform(e, func(n process.Expr) process.Expr {
			switch c := n.(type) {
			case *process.Action:
				if fresh, ok := actionRename[c.Label]; ok {
					return &process.Action{Label: fresh, Args: c.Args}
				}
			case *process.Call:
				return &process.Call{PID: renamePID(c.PID), Args: c.Args}
			case *process.CallAssign:
				return &process.CallAssign{PID: renamePID(c.PID), Assignments: c.Assignments}
			}
			return n
		})
	}

	eqns := make([]*process.Equation, len(spec.Equations))
	for i, eq := range spec.Equations {
		eqns[i] = &process.Equation{PID: renamePID(eq.PID), Formal: eq.Formal, Body: rewrite(eq.Body)}
	}
	return Result{Spec: withEquations(spec, eqns, rewrite(spec.Initial))}, nil
}

func anonRenameMap(tbl *ident.Table, names map[ident.ID]bool, prefix string) map[ident.ID]ident.ID {
	ids := make([]ident.ID, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	tbl.SortIDs(ids)
	out := make(map[ident.ID]ident.ID, len(ids))
	for i, id := range ids {
		out[id] = tbl.Intern(fmt.Sprintf("%s%d", prefix, i))
	}
	return out
}

func withEquations(spec *process.Spec, eqns []*process.Equation, initial process.Expr) *process.Spec {
	return &process.Spec{
		DataSpec:        spec.DataSpec,
		Actions:         spec.Actions,
		Globals:         spec.Globals,
		Equations:       eqns,
		Initial:         initial,
		LinStrategy:     spec.LinStrategy,
		RewriteStrategy: spec.RewriteStrategy,
	}
}

func formatMANS(tbl *ident.Table, s manalg.MANS) string {
	elems := s.Elements()
	names := make([]string, 0, len(elems))
	for _, m := range elems {
		if m.IsTau() {
			names = append(names, "tau")
			continue
		}
		var parts []string
		for _, name := range m.Names() {
			for i := 0; i < m.Count(name); i++ {
				parts = append(parts, tbl.Name(name))
			}
		}
		sort.Strings(parts)
		joined := parts[0]
		for _, p := range parts[1:] {
			joined += "|" + p
		}
		names = append(names, joined)
	}
	sort.Strings(names)
	out := "{"
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out + "}"
}
