package eqgraph

import (
	"sort"

	"golang.org/x/tools/container/intsets"

	"github.com/mcrl2-tools/alphacore/process"
)

// SCC is one strongly-connected component of the dependency graph, stored
// as the PIDs it contains plus whether it has an internal edge (self-loop
// or a cycle of length > 1), which is exactly the condition spec section
// 4.4 calls recursive.
type SCC struct {
	PIDs      []process.PID
	Recursive bool
}

// Tarjan decomposes g into its strongly-connected components using
// Tarjan's algorithm, returning them in reverse topological order (a
// component earlier in the slice depends on none that come after it --
// the usual convention, matching dependency-first consumption in
// classify.go and simplify.go).
//
// Per-vertex index/lowlink bookkeeping is ordinary Go slices indexed by
// the graph's dense vertex numbering; intsets.Sparse tracks the "on
// stack" membership test, since Tarjan needs fast membership plus fast
// clear-on-pop and a sparse bitset is the natural fit for the pack's
// domain-stack choice (SPEC_FULL.md) over a bool slice doing the same job
// with less idiomatic signal.
func Tarjan(g *Graph) []SCC {
	n := g.N()
	index := make([]int, n)
	lowlink := make([]int, n)
	visited := make([]bool, n)
	var onStack intsets.Sparse
	var stack []int
	counter := 0
	var sccs []SCC

	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = counter
		lowlink[v] = counter
		counter++
		visited[v] = true
		stack = append(stack, v)
		onStack.Insert(v)

		for _, w := range g.Succs(g.pids[v]) {
			wi := g.IndexOf(w)
			if !visited[wi] {
				strongconnect(wi)
				if lowlink[wi] < lowlink[v] {
					lowlink[v] = lowlink[wi]
				}
			} else if onStack.Has(wi) {
				if index[wi] < lowlink[v] {
					lowlink[v] = index[wi]
				}
			}
		}

		if lowlink[v] == index[v] {
			var comp []process.PID
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack.Remove(top)
				comp = append(comp, g.pids[top])
				if top == v {
					break
				}
			}
			sortSCCPIDs(comp)
			sccs = append(sccs, SCC{PIDs: comp, Recursive: isRecursive(g, comp)})
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for _, v := range order {
		if !visited[v] {
			strongconnect(v)
		}
	}
	return sccs
}

// isRecursive reports whether comp (the PIDs of one SCC) has an internal
// edge: either comp has more than one vertex, or its single vertex calls
// itself directly.
func isRecursive(g *Graph, comp []process.PID) bool {
	if len(comp) > 1 {
		return true
	}
	p := comp[0]
	for _, s := range g.Succs(p) {
		if s == p {
			return true
		}
	}
	return false
}

// sortSCCPIDs orders an SCC's PIDs by interned name ID, then signature
// (the same order as sortPIDs), used where test
// assertions and emission need a stable order within a component.
func sortSCCPIDs(pids []process.PID) {
	sort.Slice(pids, func(i, j int) bool {
		if pids[i].Name != pids[j].Name {
			return pids[i].Name < pids[j].Name
		}
		return pids[i].Signature < pids[j].Signature
	})
}
