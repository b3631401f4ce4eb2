// Package manalg implements the multi-action-name algebra (spec section
// 4.1): pure value-level operations on multi-action names (MANs) and sets
// of them (MANS). A MAN is a finite multiset of action names; the empty
// MAN denotes the silent action tau. Multiplicities saturate at zero on
// subtraction and never overflow in practice (process equations have a
// bounded, small number of syntactic action names).
package manalg

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mcrl2-tools/alphacore/ident"
)

// entry is one action name and its multiplicity within a MAN.
type entry struct {
	name  ident.ID
	count int
}

// MAN is a finite multiset of action names, held as a canonically sorted
// (by name) slice of nonzero-count entries. Two MANs are equal iff their
// entries slices are equal, which makes MAN usable as a map key via Key().
type MAN struct {
	entries []entry
}

// Tau is the empty multi-action name (the silent step).
var Tau = MAN{}

// NewMAN builds a MAN from a multiset of action name IDs, collapsing
// duplicates into multiplicities and sorting canonically.
func NewMAN(names ...ident.ID) MAN {
	counts := make(map[ident.ID]int, len(names))
	for _, n := range names {
		counts[n]++
	}
	return manFromCounts(counts)
}

func manFromCounts(counts map[ident.ID]int) MAN {
	m := MAN{}
	for n, c := range counts {
		if c > 0 {
			m.entries = append(m.entries, entry{n, c})
		}
	}
	sort.Slice(m.entries, func(i, j int) bool { return m.entries[i].name < m.entries[j].name })
	return m
}

// IsTau reports whether this MAN is the silent action (no actions at all).
func (m MAN) IsTau() bool { return len(m.entries) == 0 }

// Len returns the total number of action occurrences (cardinality) in m,
// counting multiplicities.
func (m MAN) Len() int {
	n := 0
	for _, e := range m.entries {
		n += e.count
	}
	return n
}

// Names returns the set of distinct action names occurring in m.
func (m MAN) Names() []ident.ID {
	out := make([]ident.ID, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.name
	}
	return out
}

// Count returns the multiplicity of name within m.
func (m MAN) Count(name ident.ID) int {
	for _, e := range m.entries {
		if e.name == name {
			return e.count
		}
	}
	return 0
}

// Equal reports whether m and other contain exactly the same multiset.
func (m MAN) Equal(other MAN) bool {
	if len(m.entries) != len(other.entries) {
		return false
	}
	for i := range m.entries {
		if m.entries[i] != other.entries[i] {
			return false
		}
	}
	return true
}

// Less gives the canonical total order over MANs used for map keys and
// deterministic iteration (spec section 5): MANs with fewer distinct action
// names first, then lexicographic by (name, count) pairs.
func (m MAN) Less(other MAN) bool {
	if len(m.entries) != len(other.entries) {
		return len(m.entries) < len(other.entries)
	}
	for i := range m.entries {
		if m.entries[i].name != other.entries[i].name {
			return m.entries[i].name < other.entries[i].name
		}
		if m.entries[i].count != other.entries[i].count {
			return m.entries[i].count < other.entries[i].count
		}
	}
	return false
}

// Key returns a string uniquely identifying this MAN's multiset, suitable
// for use as a Go map key (MAN holds a slice, so it is not itself
// comparable).
func (m MAN) Key() string {
	var sb strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(e.name)))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(e.count))
	}
	return sb.String()
}

// Includes reports whether m contains at least as many occurrences of
// every action name as other (multiset containment, other subset-of m).
func Includes(m, other MAN) bool {
	for _, e := range other.entries {
		if m.Count(e.name) < e.count {
			return false
		}
	}
	return true
}

// Union returns the multiset sum of a and b.
func Union(a, b MAN) MAN {
	counts := toCounts(a)
	for _, e := range b.entries {
		counts[e.name] += e.count
	}
	return manFromCounts(counts)
}

// Difference returns a with every occurrence in b removed, saturating at
// zero per action name (never negative multiplicities).
func Difference(a, b MAN) MAN {
	counts := toCounts(a)
	for _, e := range b.entries {
		if counts[e.name] <= e.count {
			delete(counts, e.name)
		} else {
			counts[e.name] -= e.count
		}
	}
	return manFromCounts(counts)
}

func toCounts(m MAN) map[ident.ID]int {
	counts := make(map[ident.ID]int, len(m.entries))
	for _, e := range m.entries {
		counts[e.name] = e.count
	}
	return counts
}

// String renders m in mCRL2's multi-action shape, with interned name IDs in
// place of names: "tau" for the empty MAN, or its name IDs joined with "|",
// repeated per multiplicity (e.g. "0|0|1").
func (m MAN) String() string {
	if m.IsTau() {
		return "tau"
	}
	var parts []string
	for _, e := range m.entries {
		for i := 0; i < e.count; i++ {
			parts = append(parts, strconv.Itoa(int(e.name)))
		}
	}
	return strings.Join(parts, "|")
}
