package eqgraph

import "github.com/mcrl2-tools/alphacore/process"

// Classification records, per PID, whether its equation is recursive
// (spec section 4.4: it belongs to a non-trivial SCC, or its body calls
// itself directly) and whether the whole specification is pCRL -- built
// entirely from the pCRL process-expression kinds (no merge, block, hide,
// rename, comm, or allow anywhere in any equation body passed to Classify).
type Classification struct {
	recursive map[process.PID]bool
	sccOf     map[process.PID]int
	sccs      []SCC
	isPCRL    bool
}

// Classify runs Tarjan's algorithm over g and separately walks every
// equation body to decide the pCRL/mCRL split.
func Classify(g *Graph, eqns []*process.Equation) *Classification {
	sccs := Tarjan(g)
	c := &Classification{
		recursive: make(map[process.PID]bool),
		sccOf:     make(map[process.PID]int),
		sccs:      sccs,
		isPCRL:    true,
	}
	for i, scc := range sccs {
		for _, p := range scc.PIDs {
			c.recursive[p] = scc.Recursive
			c.sccOf[p] = i
		}
	}
	for _, eq := range eqns {
		if !isPCRLBody(eq.Body) {
			c.isPCRL = false
			break
		}
	}
	return c
}

// IsRecursive reports whether pid's equation participates in a cycle,
// directly or through mutual recursion.
func (c *Classification) IsRecursive(pid process.PID) bool {
	return c.recursive[pid]
}

// SCCs returns the strongly-connected components discovered, in reverse
// topological order.
func (c *Classification) SCCs() []SCC {
	return c.sccs
}

// SameSCC reports whether a and b belong to the same strongly-connected
// component.
func (c *Classification) SameSCC(a, b process.PID) bool {
	ia, oka := c.sccOf[a]
	ib, okb := c.sccOf[b]
	return oka && okb && ia == ib
}

// IsPCRL reports whether every equation examined by Classify is built
// purely from pCRL process expressions: no merge, left_merge, sync,
// block, hide, rename, comm, or allow anywhere in any body. mCRL2's push
// rewriters only need to run over the non-pCRL fragment; a pure-pCRL
// specification is already in normal form with respect to alphabet
// reduction.
func (c *Classification) IsPCRL() bool {
	return c.isPCRL
}

func isPCRLBody(e process.Expr) bool {
	switch n := e.(type) {
	case process.Delta, process.TauExpr, *process.Action, *process.Call, *process.CallAssign:
		return true
	case *process.Sum:
		return isPCRLBody(n.Body)
	case *process.SumQuantified:
		return isPCRLBody(n.Body)
	case *process.At:
		return isPCRLBody(n.Body)
	case *process.IfThen:
		return isPCRLBody(n.Body)
	case *process.IfThenElse:
		return isPCRLBody(n.Then) && isPCRLBody(n.Else)
	case *process.Choice:
		return isPCRLBody(n.Left) && isPCRLBody(n.Right)
	case *process.Seq:
		return isPCRLBody(n.Left) && isPCRLBody(n.Right)
	case *process.BoundedInit:
		return isPCRLBody(n.Left) && isPCRLBody(n.Right)
	case *process.Stochastic:
		return isPCRLBody(n.Body)
	default:
		// Merge, LeftMerge, Sync, Block, Hide, Rename, Comm, Allow.
		return false
	}
}
