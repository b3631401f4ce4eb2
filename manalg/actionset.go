package manalg

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/mcrl2-tools/alphacore/ident"
)

// ActionSet is a finite set of action names, backed by a bitset indexed by
// ident.ID. Block sets, hide sets, and an allow-set's inner-hidden-names
// set I (spec section 3) are all ActionSets. The representation and the
// union/difference idiom below are lifted directly from the teacher
// package's GEN/KILL/IN/OUT dataflow bitsets (analysis/dataflow), applied
// here to action names instead of control-flow blocks.
type ActionSet struct {
	bits *bitset.BitSet
}

// NewActionSet builds an ActionSet containing the given action name IDs.
func NewActionSet(ids ...ident.ID) ActionSet {
	bs := new(bitset.BitSet)
	for _, id := range ids {
		bs.Set(uint(id))
	}
	return ActionSet{bits: bs}
}

// Contains reports whether id is a member of s.
func (s ActionSet) Contains(id ident.ID) bool {
	if s.bits == nil {
		return false
	}
	return s.bits.Test(uint(id))
}

// IsEmpty reports whether s has no members.
func (s ActionSet) IsEmpty() bool {
	return s.bits == nil || s.bits.Count() == 0
}

// Union returns the set union of s and other.
func (s ActionSet) Union(other ActionSet) ActionSet {
	if s.bits == nil {
		return other.clone()
	}
	if other.bits == nil {
		return s.clone()
	}
	return ActionSet{bits: s.bits.Union(other.bits)}
}

// Difference returns the members of s not in other.
func (s ActionSet) Difference(other ActionSet) ActionSet {
	if s.bits == nil || other.bits == nil {
		return s.clone()
	}
	return ActionSet{bits: s.bits.Difference(other.bits)}
}

// Intersects reports whether s and other share any member; used by the
// block operator's "drop MANs whose support intersects H" rule.
func (s ActionSet) Intersects(other ActionSet) bool {
	if s.bits == nil || other.bits == nil {
		return false
	}
	return s.bits.IntersectionCardinality(other.bits) > 0
}

func (s ActionSet) clone() ActionSet {
	if s.bits == nil {
		return ActionSet{}
	}
	return ActionSet{bits: s.bits.Clone()}
}

// IDs returns the members of s in ascending ID order.
func (s ActionSet) IDs() []ident.ID {
	if s.bits == nil {
		return nil
	}
	var out []ident.ID
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		out = append(out, ident.ID(i))
	}
	return out
}

// Key returns a string uniquely identifying s's membership, suitable for
// use as part of a memoisation key (push_block and push_hide index their
// caches by an ActionSet rather than a full allowset.AS).
func (s ActionSet) Key() string {
	var sb strings.Builder
	for _, id := range s.IDs() {
		sb.WriteString(strconv.Itoa(int(id)))
		sb.WriteByte(';')
	}
	return sb.String()
}

// manSupport returns the ActionSet of distinct action names occurring in m.
func manSupport(m MAN) ActionSet {
	return NewActionSet(m.Names()...)
}

// Hide removes every occurrence of a name in names from every MAN in s.
// Elements may collapse to tau (which remains distinct from the empty
// alphabet — Hide never removes tau from the resulting set).
func Hide(names ActionSet, s MANS) MANS {
	out := MANS{byKey: make(map[string]MAN)}
	for _, m := range s.byKey {
		h := hideMAN(names, m)
		out.byKey[h.Key()] = h
	}
	return out
}

func hideMAN(names ActionSet, m MAN) MAN {
	counts := make(map[ident.ID]int, len(m.entries))
	for _, e := range m.entries {
		if !names.Contains(e.name) {
			counts[e.name] = e.count
		}
	}
	return manFromCounts(counts)
}

// Block removes MANs blocked by H. When includeSubsets is true, names in H
// are subtracted from each MAN's support (a partial match still passes,
// minus the blocked names); otherwise any MAN whose support intersects H
// is dropped outright. Either way, a MAN that would collapse below tau is
// normalized to tau rather than removed (block never eliminates the
// implicit silent step).
func Block(h ActionSet, s MANS, includeSubsets bool) MANS {
	out := MANS{byKey: make(map[string]MAN)}
	for _, m := range s.byKey {
		if includeSubsets {
			b := hideMAN(h, m)
			out.byKey[b.Key()] = b
		} else if !manSupport(m).Intersects(h) {
			out.byKey[m.Key()] = m
		}
	}
	return out
}

// RenameMap is a finite (possibly non-injective on its range) map of
// action-name IDs. Constructed explicitly rather than as a bare
// map[ident.ID]ident.ID so RenameInverse can be computed without scanning
// every action name in scope on each call.
type RenameMap struct {
	fwd map[ident.ID]ident.ID
	inv map[ident.ID][]ident.ID
}

// NewRenameMap builds a RenameMap from source/target pairs.
func NewRenameMap(pairs map[ident.ID]ident.ID) RenameMap {
	r := RenameMap{fwd: make(map[ident.ID]ident.ID, len(pairs)), inv: make(map[ident.ID][]ident.ID)}
	for src, dst := range pairs {
		r.fwd[src] = dst
		r.inv[dst] = append(r.inv[dst], src)
	}
	return r
}

// Apply renames id per the map, or returns id unchanged if it is not a
// rename source.
func (r RenameMap) Apply(id ident.ID) ident.ID {
	if dst, ok := r.fwd[id]; ok {
		return dst
	}
	return id
}

// IsSource reports whether id is renamed by r.
func (r RenameMap) IsSource(id ident.ID) bool {
	_, ok := r.fwd[id]
	return ok
}

// PreimageOf returns every id with Apply(id) == target, including target
// itself when target is not itself a rename source (spec section 4.1's
// "{a | R(a)=b} ∪ ({b} if b is not a source of R)").
func (r RenameMap) PreimageOf(target ident.ID) []ident.ID {
	out := append([]ident.ID(nil), r.inv[target]...)
	if !r.IsSource(target) {
		out = append(out, target)
	}
	return out
}

// Rename applies r pointwise to every MAN in s.
func Rename(r RenameMap, s MANS) MANS {
	out := MANS{byKey: make(map[string]MAN)}
	for _, m := range s.byKey {
		counts := make(map[ident.ID]int)
		for _, e := range m.entries {
			counts[r.Apply(e.name)] += e.count
		}
		rm := manFromCounts(counts)
		out.byKey[rm.Key()] = rm
	}
	return out
}

// RenameInverse computes the preimage of s under r: for every action name
// b appearing in a MAN, substitute the set of its preimages under r,
// taking the Cartesian product across the MAN's positions. When
// includeSubsets is true the result is additionally closed under
// RemoveSubsets to keep the (potentially combinatorial) blow-up bounded,
// matching AS.rename_inverse's use at the allow-set layer.
func RenameInverse(r RenameMap, s MANS, includeSubsets bool) MANS {
	out := MANS{byKey: make(map[string]MAN)}
	for _, m := range s.byKey {
		for _, pre := range renameInverseMAN(r, m) {
			out.byKey[pre.Key()] = pre
		}
	}
	if includeSubsets {
		out = RemoveSubsets(out)
	}
	return out
}

// renameInverseMAN expands a single MAN into every MAN that renames to it,
// by Cartesian product over each occurrence's preimage choices.
func renameInverseMAN(r RenameMap, m MAN) []MAN {
	results := []map[ident.ID]int{{}}
	// Expand occurrence-by-occurrence (not entry-by-entry) so repeated
	// action names correctly multiply out independent preimage choices.
	for _, e := range m.entries {
		choices := r.PreimageOf(e.name)
		sort.Slice(choices, func(i, j int) bool { return choices[i] < choices[j] })
		for occ := 0; occ < e.count; occ++ {
			var next []map[ident.ID]int
			for _, base := range results {
				for _, c := range choices {
					n := cloneCounts(base)
					n[c]++
					next = append(next, n)
				}
			}
			results = next
		}
	}
	out := make([]MAN, 0, len(results))
	for _, counts := range results {
		out = append(out, manFromCounts(counts))
	}
	return out
}

func cloneCounts(m map[ident.ID]int) map[ident.ID]int {
	out := make(map[ident.ID]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
