package eqgraph

import (
	"golang.org/x/tools/container/intsets"

	"github.com/mcrl2-tools/alphacore/process"
)

// Reachable computes the set of PIDs reachable from seeds by following
// call/call_assign edges in g, used to find every equation the initial
// expression can eventually invoke (spec section 4.4's unused-equation
// elimination) and, during the push pass, which equations a rewritten
// expression still needs.
//
// The visited set is an intsets.Sparse over g's dense vertex numbering and
// the frontier a FIFO slice of vertex numbers: a plain worklist BFS, same
// shape as the teacher's successor
// walks in extras/cfg, but over PID indices instead of *cfg.BasicBlock.
func Reachable(g *Graph, seeds []process.PID) []process.PID {
	var visited intsets.Sparse
	var frontier []int
	for _, s := range seeds {
		idx := g.IndexOf(s)
		if visited.Insert(idx) {
			frontier = append(frontier, idx)
		}
	}

	for len(frontier) > 0 {
		v := frontier[0]
		frontier = frontier[1:]
		for _, w := range g.Succs(g.pids[v]) {
			wi := g.IndexOf(w)
			if visited.Insert(wi) {
				frontier = append(frontier, wi)
			}
		}
	}

	out := make([]process.PID, 0, visited.Len())
	for i := 0; i < g.N(); i++ {
		if visited.Has(i) {
			out = append(out, g.pids[i])
		}
	}
	return out
}
