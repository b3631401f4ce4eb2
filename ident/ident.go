// Package ident provides an interned string identifier shared by action
// names and process identifiers throughout the alphabet-reduction core.
//
// Interning gives every distinct name a single canonical ID, so sets of
// names can be represented as bitsets and integer sets (see package manalg
// and package eqgraph) instead of comparing strings on every operation.
package ident

import "sort"

// ID identifies an interned string. IDs are assigned densely starting at 0
// by a Table, so the zero value is the ID of the first name interned.
type ID int

// Table interns strings to IDs and back. A Table is not safe for concurrent
// use; the alphabet-reduction core is single-threaded (spec section 5) and
// each driver invocation owns exactly one Table.
type Table struct {
	byName map[string]ID
	names  []string
}

// NewTable returns an empty interning table.
func NewTable() *Table {
	return &Table{byName: make(map[string]ID)}
}

// Intern returns the ID for name, allocating a new one if name has not been
// seen before.
func (t *Table) Intern(name string) ID {
	if id, ok := t.byName[name]; ok {
		return id
	}
	id := ID(len(t.names))
	t.byName[name] = id
	t.names = append(t.names, name)
	return id
}

// Lookup returns the ID already assigned to name, and whether one exists.
func (t *Table) Lookup(name string) (ID, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// Name returns the string an ID was interned from. It panics if id was
// never returned by this Table's Intern.
func (t *Table) Name(id ID) string {
	return t.names[id]
}

// Len returns the number of distinct names interned so far.
func (t *Table) Len() int {
	return len(t.names)
}

// Less reports whether a's name sorts lexicographically before b's name.
// Used to establish the stable, deterministic iteration order spec section
// 5 requires of fixpoint computations.
func (t *Table) Less(a, b ID) bool {
	return t.names[a] < t.names[b]
}

// SortIDs sorts ids in place by underlying name, lexicographically.
func (t *Table) SortIDs(ids []ID) {
	sort.Slice(ids, func(i, j int) bool { return t.Less(ids[i], ids[j]) })
}
