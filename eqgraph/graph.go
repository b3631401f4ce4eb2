// Package eqgraph provides graph utilities over the process-equation
// dependency graph (spec section 4.4): strongly-connected-component
// decomposition, reachability from an initial expression, pCRL/mCRL and
// recursive/non-recursive classification, and the trivial-equation,
// single-usage, unused-equation, and duplicate-equation elimination
// passes that simplify an equation set before and after the push
// rewriters run.
//
// The dependency graph itself is represented the way the teacher
// package's control-flow graph is (extras/cfg/cfg.go): an adjacency map
// keyed by vertex, built by one scan over the input, with no explicit
// edge objects.
package eqgraph

import (
	"sort"

	"github.com/mcrl2-tools/alphacore/process"
)

// Graph is the PID dependency graph: an edge pid -> callee exists iff
// callee is invoked (via call or call_assign) somewhere in pid's equation
// body.
type Graph struct {
	pids  []process.PID
	index map[process.PID]int
	succs map[process.PID][]process.PID
}

// Build constructs the dependency graph for eqns, scanning each equation
// body for calls exactly once. The PIDs of eqns are ordered by sortPIDs
// (interned name ID, which is interning order rather than alphabetical
// order of the names, then signature) for a stable iteration order;
// callees without an equation follow in the order they are first met.
func Build(eqns []*process.Equation) *Graph {
	g := &Graph{index: make(map[process.PID]int), succs: make(map[process.PID][]process.PID)}
	for _, eq := range eqns {
		g.addVertex(eq.PID)
	}
	sortPIDs(g.pids)
	for i, p := range g.pids {
		g.index[p] = i
	}
	for _, eq := range eqns {
		for _, callee := range process.FindProcessIdentifiers(eq.Body) {
			g.addVertex(callee)
			g.succs[eq.PID] = append(g.succs[eq.PID], callee)
		}
	}
	return g
}

func (g *Graph) addVertex(p process.PID) {
	if _, ok := g.index[p]; ok {
		return
	}
	g.index[p] = len(g.pids)
	g.pids = append(g.pids, p)
}

func sortPIDs(pids []process.PID) {
	sort.Slice(pids, func(i, j int) bool {
		if pids[i].Name != pids[j].Name {
			return pids[i].Name < pids[j].Name
		}
		return pids[i].Signature < pids[j].Signature
	})
}

// PIDs returns every vertex in g, in the stable construction order.
func (g *Graph) PIDs() []process.PID {
	return g.pids
}

// Succs returns the distinct PIDs directly called from p's body, in the
// order they are first met.
func (g *Graph) Succs(p process.PID) []process.PID {
	return g.succs[p]
}

// IndexOf returns p's dense vertex index, used by the Tarjan and
// reachability algorithms below to work over small integers instead of
// PID values directly.
func (g *Graph) IndexOf(p process.PID) int {
	return g.index[p]
}

// N returns the number of vertices in g.
func (g *Graph) N() int {
	return len(g.pids)
}
