package manalg

import (
	"sort"

	"github.com/mcrl2-tools/alphacore/ident"
)

// CommRule is a single communication rule lhs -> rhs (spec section 3). Lhs
// is a non-empty multiset of action names; Rhs is the resulting action
// name, or the tau marker when IsTau is set (a communication that
// synchronizes to the silent step).
type CommRule struct {
	Lhs   MAN
	Rhs   ident.ID
	IsTau bool
}

// CommSet is a finite set of communication rules. A well-formed CommSet
// never has an action appear on both some rule's Lhs and some rule's Rhs
// (spec section 3); this invariant is what lets Comm converge in a single
// pass over each rule instead of needing a general fixpoint.
type CommSet struct {
	Rules []CommRule
}

// sortedRules returns c's rules in a deterministic order (by Lhs, then
// Rhs), independent of slice construction order, per spec section 5's
// determinism requirement.
func (c CommSet) sortedRules() []CommRule {
	out := append([]CommRule(nil), c.Rules...)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Lhs.Equal(out[j].Lhs) {
			return out[i].Lhs.Less(out[j].Lhs)
		}
		return out[i].Rhs < out[j].Rhs
	})
	return out
}

// Comm sequentially applies each rule in C: for every MAN currently in the
// growing result, if the rule's Lhs is contained in the MAN, a new MAN is
// emitted with Lhs removed and Rhs inserted (unless Rhs is tau), and added
// to the result.
func Comm(c CommSet, a MANS) MANS {
	result := a.clone()
	for _, rule := range c.sortedRules() {
		for _, m := range result.Elements() {
			if !Includes(m, rule.Lhs) {
				continue
			}
			next := Difference(m, rule.Lhs)
			if !rule.IsTau {
				next = Union(next, NewMAN(rule.Rhs))
			}
			result.byKey[next.Key()] = next
		}
	}
	return result
}

// CommInverse computes a pre-image of A under C: for every rule lhs -> a,
// for every MAN containing n copies of a, and for k = 1..n, a MAN is
// generated with k copies of a removed and k copies of lhs's multiset
// inserted. Tau-producing rules contribute the k=1 case only, since a MAN
// carries no explicit tau-occurrence count to range k over.
func CommInverse(c CommSet, a MANS, includeSubsets bool) MANS {
	out := a.clone()
	for _, rule := range c.sortedRules() {
		if rule.IsTau {
			for _, m := range a.Elements() {
				next := Union(m, rule.Lhs)
				out.byKey[next.Key()] = next
			}
			continue
		}
		for _, m := range a.Elements() {
			n := m.Count(rule.Rhs)
			for k := 1; k <= n; k++ {
				next := Difference(m, NewMAN(repeatID(rule.Rhs, k)...))
				next = Union(next, NewMAN(repeatID2(rule.Lhs, k)...))
				out.byKey[next.Key()] = next
			}
		}
	}
	if includeSubsets {
		out = RemoveSubsets(out)
	}
	return out
}

func repeatID(id ident.ID, k int) []ident.ID {
	out := make([]ident.ID, k)
	for i := range out {
		out[i] = id
	}
	return out
}

// repeatID2 returns k copies of every occurrence in lhs (i.e. lhs's
// multiset scaled by k).
func repeatID2(lhs MAN, k int) []ident.ID {
	var out []ident.ID
	for _, e := range lhs.entries {
		for i := 0; i < e.count*k; i++ {
			out = append(out, e.name)
		}
	}
	return out
}

// Allow filters V down to the MANs that A actually permits: v is kept iff
// some alpha in A equals v exactly, or (when includeSubsets) v is a
// sub-multiset of some alpha in A.
func Allow(v, a MANS, includeSubsets bool) MANS {
	out := MANS{byKey: make(map[string]MAN)}
	for _, candidate := range v.byKey {
		if a.Contains(candidate) {
			out.byKey[candidate.Key()] = candidate
			continue
		}
		if includeSubsets {
			for _, alpha := range a.byKey {
				if Includes(alpha, candidate) {
					out.byKey[candidate.Key()] = candidate
					break
				}
			}
		}
	}
	return out
}

// FilterCommSet keeps only the rules of c whose Lhs is contained in some
// MAN of a. Used to restrict a communication set to the portion relevant
// to an alphabet before pushing it further (spec section 4.1).
func FilterCommSet(c CommSet, a MANS) CommSet {
	var out CommSet
	for _, rule := range c.sortedRules() {
		for _, m := range a.byKey {
			if Includes(m, rule.Lhs) {
				out.Rules = append(out.Rules, rule)
				break
			}
		}
	}
	return out
}
