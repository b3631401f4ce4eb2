package manalg

import "sort"

// MANS is a finite set of multi-action names. The zero value is the empty
// set. Invariant: no two elements are MAN-equal (enforced by the
// constructors and mutators below, which dedupe via Key()).
type MANS struct {
	byKey map[string]MAN
}

// NewMANS builds a MANS from a list of MANs, deduplicating.
func NewMANS(mans ...MAN) MANS {
	s := MANS{byKey: make(map[string]MAN, len(mans))}
	for _, m := range mans {
		s.byKey[m.Key()] = m
	}
	return s
}

// Empty returns the empty MANS ({} — the empty alphabet, distinct from the
// singleton set containing only tau).
func Empty() MANS { return MANS{} }

// TauOnly returns the MANS containing exactly the silent action, {tau}.
func TauOnly() MANS { return NewMANS(Tau) }

// IsEmpty reports whether s has no elements.
func (s MANS) IsEmpty() bool { return len(s.byKey) == 0 }

// Len returns the number of distinct MANs in s.
func (s MANS) Len() int { return len(s.byKey) }

// Contains reports whether m is an element of s (exact MAN equality).
func (s MANS) Contains(m MAN) bool {
	_, ok := s.byKey[m.Key()]
	return ok
}

// Elements returns the members of s in canonical (MAN.Less) order, giving
// the stable iteration order spec section 5 requires.
func (s MANS) Elements() []MAN {
	out := make([]MAN, 0, len(s.byKey))
	for _, m := range s.byKey {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// With returns s with m added (no-op if already present).
func (s MANS) With(m MAN) MANS {
	out := s.clone()
	out.byKey[m.Key()] = m
	return out
}

func (s MANS) clone() MANS {
	out := MANS{byKey: make(map[string]MAN, len(s.byKey))}
	for k, v := range s.byKey {
		out.byKey[k] = v
	}
	return out
}

// SetUnion returns the union of a and b.
func SetUnion(a, b MANS) MANS {
	out := a.clone()
	for k, v := range b.byKey {
		out.byKey[k] = v
	}
	return out
}

// SetDifference returns the elements of a not present in b.
func SetDifference(a, b MANS) MANS {
	out := MANS{byKey: make(map[string]MAN)}
	for k, v := range a.byKey {
		if _, in := b.byKey[k]; !in {
			out.byKey[k] = v
		}
	}
	return out
}

// Equal reports whether a and b contain the same MANs.
func Equal(a, b MANS) bool {
	if len(a.byKey) != len(b.byKey) {
		return false
	}
	for k := range a.byKey {
		if _, ok := b.byKey[k]; !ok {
			return false
		}
	}
	return true
}

// Concat returns { union(alpha, beta) | alpha in A, beta in B }.
func Concat(a, b MANS) MANS {
	out := MANS{byKey: make(map[string]MAN)}
	for _, alpha := range a.byKey {
		for _, beta := range b.byKey {
			m := Union(alpha, beta)
			out.byKey[m.Key()] = m
		}
	}
	return out
}

// Sync is an alias of Concat, used at `sync` expression nodes (spec
// section 4.1).
func Sync(a, b MANS) MANS { return Concat(a, b) }

// Merge returns A ∪ B ∪ Concat(A, B), the alphabet of `l || r` given the
// alphabets of l and r.
func Merge(a, b MANS) MANS {
	return SetUnion(SetUnion(a, b), Concat(a, b))
}

// LeftArrow returns A ∪ { alpha \ beta | beta in B, alpha in A, beta
// subseteq alpha, alpha \ beta != tau }. It computes the restriction set
// propagated to the right operand of a parallel composition (spec section
// 4.1): actions B may already have contributed get subtracted out of A's
// multi-actions before recursing into the right-hand side.
func LeftArrow(a, b MANS) MANS {
	out := a.clone()
	for _, alpha := range a.byKey {
		for _, beta := range b.byKey {
			if !Includes(alpha, beta) {
				continue
			}
			diff := Difference(alpha, beta)
			if diff.IsTau() {
				continue
			}
			out.byKey[diff.Key()] = diff
		}
	}
	return out
}

// RemoveSubsets drops any MAN in s that is a proper multiset-subset of
// another MAN in s, keeping only the maximal elements.
func RemoveSubsets(s MANS) MANS {
	elems := s.Elements()
	out := MANS{byKey: make(map[string]MAN)}
	for i, a := range elems {
		dominated := false
		for j, b := range elems {
			if i == j {
				continue
			}
			if a.Len() < b.Len() && Includes(b, a) {
				dominated = true
				break
			}
		}
		if !dominated {
			out.byKey[a.Key()] = a
		}
	}
	return out
}
