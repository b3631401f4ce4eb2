// Package allowset implements the allow-set lattice (spec section 4.2):
// the AS value that flows top-down through the push rewriters,
// representing (possibly infinitely many) multi-action names as a finite
// set A combined with a subset-closure flag and an inner-hidden-names set
// I, per spec section 3's "A . I*" encoding.
package allowset

import (
	"strconv"
	"strings"

	"github.com/mcrl2-tools/alphacore/ident"
	"github.com/mcrl2-tools/alphacore/manalg"
)

// AS is the triple (A, IncludeSubsets, I) from spec section 3. The
// constructors below all re-establish the invariant that no element of A
// contains a name from I, by hiding I out of every element on
// construction.
type AS struct {
	A              manalg.MANS
	IncludeSubsets bool
	I              manalg.ActionSet
}

// New builds an AS from a raw MANS and inner-hidden set, re-establishing
// the "A disjoint from I" invariant.
func New(a manalg.MANS, includeSubsets bool, i manalg.ActionSet) AS {
	return AS{A: manalg.Hide(i, a), IncludeSubsets: includeSubsets, I: i}
}

// Empty returns the AS admitting nothing but tau.
func Empty() AS {
	return AS{}
}

// IsEmpty reports whether x admits nothing beyond the implicit tau.
func (x AS) IsEmpty() bool {
	return x.A.IsEmpty()
}

// Contains reports whether alpha is a member of the (possibly infinite)
// set x denotes: hide(x.I, alpha) must be in x.A, exactly or as a subset
// when IncludeSubsets is set, or alpha must itself be tau.
func (x AS) Contains(alpha manalg.MAN) bool {
	if alpha.IsTau() {
		return true
	}
	hidden := manalg.Hide(x.I, manalg.NewMANS(alpha)).Elements()[0]
	if x.A.Contains(hidden) {
		return true
	}
	if !x.IncludeSubsets {
		return false
	}
	for _, a := range x.A.Elements() {
		if manalg.Includes(a, hidden) {
			return true
		}
	}
	return false
}

// Intersect returns the members of b accepted by x.Contains, always
// preserving a tau element if b has one (tau is implicitly allowed by
// every AS, spec section 8's boundary behaviour).
func Intersect(x AS, b manalg.MANS) manalg.MANS {
	out := manalg.Empty()
	for _, m := range b.Elements() {
		if x.Contains(m) {
			out = out.With(m)
		}
	}
	return out
}

// Block applies a block restriction H to x. When IncludeSubsets is set, H
// is hidden out of both A and I (a blocked name simply vanishes from
// consideration); otherwise H is dropped from A by the ordinary block rule
// and hidden from I.
func Block(h manalg.ActionSet, x AS) AS {
	if x.IncludeSubsets {
		return New(manalg.Hide(h, x.A), true, x.I.Difference(h))
	}
	return New(manalg.Block(h, x.A, false), false, x.I.Difference(h))
}

// HideInverse merges iPrime into x.I and closes A under the
// rename-inverse-style preimage of iPrime (an action hidden downstream may
// or may not have been hidden already, so every combination must be
// admitted upstream).
func HideInverse(iPrime manalg.ActionSet, x AS) AS {
	newI := unionActionSets(x.I, iPrime)
	// Closing A: for every a in iPrime, each element of A must be allowed
	// whether or not an occurrence of a was already hidden out of it. This
	// mirrors rename_inverse with a the identity map restricted to iPrime,
	// plus the option of zero occurrences (a itself, folded in by hideMAN
	// already having removed it -- so A needs no further expansion beyond
	// re-disjointing it from the enlarged I).
	return New(x.A, x.IncludeSubsets, newI)
}

// RenameInverse applies manalg.RenameInverse to both A and I.
func RenameInverse(r manalg.RenameMap, x AS) AS {
	newA := manalg.RenameInverse(r, x.A, x.IncludeSubsets)
	newI := renameInverseActionSet(r, x.I)
	return New(newA, x.IncludeSubsets, newI)
}

// CommInverse applies manalg.CommInverse to A, and the action-level
// analogue to I (every name in I that appears as some rule's Rhs also
// admits that rule's Lhs names as hidden).
func CommInverse(c manalg.CommSet, x AS) AS {
	newA := manalg.CommInverse(c, x.A, x.IncludeSubsets)
	newI := x.I
	for _, rule := range c.Rules {
		if rule.IsTau || !x.I.Contains(rule.Rhs) {
			continue
		}
		newI = unionActionSets(newI, manalg.NewActionSet(rule.Lhs.Names()...))
	}
	return New(newA, x.IncludeSubsets, newI)
}

// Allow intersects v with x, producing a fresh exact AS (no subset
// closure, no inner-hidden names) holding exactly the admitted members of
// v -- this is the AS produced at an `allow(V, _)` node during push_allow.
func Allow(v manalg.MANS, x AS) AS {
	return New(Intersect(x, v), false, manalg.ActionSet{})
}

// LeftArrow adjusts x.A by manalg.LeftArrow(x.A, b) when x is not
// subset-closed, keeping x.I unchanged and propagating the envelope computed for the left operand of
// a parallel composition into the restriction used for the right operand
// (spec section 4.2).
func LeftArrow(x AS, b manalg.MANS) AS {
	if x.IncludeSubsets {
		return x
	}
	return AS{A: manalg.LeftArrow(x.A, b), IncludeSubsets: x.IncludeSubsets, I: x.I}
}

// subsetsBudget bounds the cost of RemoveSubsets inside Subsets, per spec
// section 5's memory-model guidance ("may short-circuit allow-set subsets
// computations beyond a tunable size").
const subsetsBudget = 1000

// Subsets sets IncludeSubsets and, when A is small enough, compacts A by
// removing elements already dominated by a superset -- since IncludeSubsets
// makes every subset of an element implicitly allowed anyway.
func Subsets(x AS) AS {
	a := x.A
	if a.Len() <= subsetsBudget {
		a = manalg.RemoveSubsets(a)
	}
	return AS{A: a, IncludeSubsets: true, I: x.I}
}

func unionActionSets(a, b manalg.ActionSet) manalg.ActionSet {
	return a.Union(b)
}

func renameInverseActionSet(r manalg.RenameMap, s manalg.ActionSet) manalg.ActionSet {
	var ids []ident.ID
	for _, id := range s.IDs() {
		ids = append(ids, r.PreimageOf(id)...)
	}
	return manalg.NewActionSet(ids...)
}

// Key returns a string uniquely identifying x, suitable for use as the
// restriction component of a (restriction, pid) memoisation key in the
// push rewriters (spec section 4.5). It encodes IncludeSubsets, then A's
// elements, then I; comparing two keys as strings does not order AS values
// by any of these components.
func (x AS) Key() string {
	var sb strings.Builder
	if x.IncludeSubsets {
		sb.WriteByte('1')
	} else {
		sb.WriteByte('0')
	}
	sb.WriteByte('|')
	for _, m := range x.A.Elements() {
		sb.WriteString(m.Key())
		sb.WriteByte(';')
	}
	sb.WriteByte('|')
	for _, id := range x.I.IDs() {
		sb.WriteString(strconv.Itoa(int(id)))
		sb.WriteByte(';')
	}
	return sb.String()
}
