// Package push implements the push rewriters (spec section 4.5):
// push_allow, push_block, push_hide, and push_comm, the mutually
// recursive transformations that move a restriction operator (allow,
// block, hide, or comm) down through a process expression until it meets
// the calls and actions it actually constrains, generating specialised
// equations along the way.
//
// The memoisation and fresh-equation bookkeeping below mirrors the
// teacher package's SearchEngine-style caches (doctor/search.go's
// methodDeclsMatchingSig cache) generalised to a three-state status
// machine, since a plain "already visited" boolean cannot express the
// "currently being computed, return a placeholder" case a recursive
// equation forces.
package push

import (
	"fmt"

	"github.com/mcrl2-tools/alphacore/alphabet"
	"github.com/mcrl2-tools/alphacore/diagnostic"
	"github.com/mcrl2-tools/alphacore/ident"
	"github.com/mcrl2-tools/alphacore/manalg"
	"github.com/mcrl2-tools/alphacore/process"
)

// status is the unknown/busy/finished machine spec section 4.5 describes.
type status int

const (
	unknown status = iota
	busy
	finished
)

type memoEntry struct {
	state    status
	freshPID process.PID
	alpha    manalg.MANS
}

// Context carries everything the push rewriters thread through their
// recursion: the equation store being grown with specialised equations,
// the plain (pre-push) alphabet table used by decisions that need to know
// what a sub-expression can do before any restriction is applied, the
// diagnostic sink, and the four independent memo tables (spec section
// 4.5's "an alphabet cache indexed by (restriction, pid)").
type Context struct {
	Eqns  map[process.PID]*process.Equation
	Table *ident.Table
	Alpha *alphabet.Table
	Log   *diagnostic.Log

	allowMemo map[string]*memoEntry
	blockMemo map[string]*memoEntry
	hideMemo  map[string]*memoEntry
	commMemo  map[string]*memoEntry

	names    map[string]bool
	counters map[string]int

	// Unresolved counts the busy-state placeholders returned during this
	// Context's lifetime. A nonzero count after a push pass means some
	// alpha used during the pass was an approximation made while its own
	// equation's recursion was still in flight. No later pass revisits the
	// expressions or equations built from such an approximation; the
	// driver only logs the count.
	Unresolved int
}

// NewContext builds a Context over the given mutable equation store. eqns
// is copied by reference: push functions append to it directly, so the
// caller sees every specialised equation generated.
func NewContext(eqns map[process.PID]*process.Equation, tbl *ident.Table, alphaTable *alphabet.Table, log *diagnostic.Log) *Context {
	names := make(map[string]bool, len(eqns))
	for p := range eqns {
		names[pidNameKey(tbl, p)] = true
	}
	return &Context{
		Eqns:      eqns,
		Table:     tbl,
		Alpha:     alphaTable,
		Log:       log,
		allowMemo: make(map[string]*memoEntry),
		blockMemo: make(map[string]*memoEntry),
		hideMemo:  make(map[string]*memoEntry),
		commMemo:  make(map[string]*memoEntry),
		names:     names,
		counters:  make(map[string]int),
	}
}

func pidNameKey(tbl *ident.Table, p process.PID) string {
	return tbl.Name(p.Name) + "\x00" + p.Signature
}

// freshPID allocates "base_kind_N" for increasing N, skipping any name
// already present in the equation store (spec section 4.5's fresh-
// equation naming rule).
func (c *Context) freshPID(base process.PID, kind string) process.PID {
	baseName := c.Table.Name(base.Name)
	counterKey := baseName + "\x00" + kind
	for {
		c.counters[counterKey]++
		candidate := fmt.Sprintf("%s_%s_%d", baseName, kind, c.counters[counterKey])
		key := candidate + "\x00" + base.Signature
		if c.names[key] {
			continue
		}
		c.names[key] = true
		id := c.Table.Intern(candidate)
		return process.PID{Name: id, Signature: base.Signature}
	}
}

func pidKey(p process.PID) string {
	return fmt.Sprintf("%d/%s", p.Name, p.Signature)
}

// lookup resolves (restrictionKey, p) against memo, returning a cached
// result if finished, a busy placeholder if the entry is mid-recursion,
// or creating a fresh busy entry that the caller must finish and store
// via finish.
//
// It returns either a cached (alpha, expr) pair usable immediately, with a
// nil entry and ok == true, or a fresh entry to finish later, with ok ==
// false. It returns no error; an undefined PID is reported by the caller's
// later equation lookup.
func (c *Context) lookup(memo map[string]*memoEntry, restrictionKey string, p process.PID, kind string) (manalg.MANS, process.Expr, *memoEntry, bool) {
	key := restrictionKey + "|" + pidKey(p)
	if e, ok := memo[key]; ok {
		switch e.state {
		case finished:
			return e.alpha, &process.Call{PID: e.freshPID}, nil, true
		case busy:
			c.Unresolved++
			c.Log.Warn("push_%s: recursive reference to %s resolved with a deferred placeholder", kind, c.Table.Name(p.Name))
			return manalg.Empty(), &process.Call{PID: e.freshPID}, nil, true
		}
	}
	e := &memoEntry{state: busy, freshPID: c.freshPID(p, kind)}
	memo[key] = e
	return manalg.MANS{}, nil, e, false
}

func (c *Context) finish(e *memoEntry, formal []process.Var, body process.Expr, alpha manalg.MANS) process.Expr {
	e.state = finished
	e.alpha = alpha
	c.Eqns[e.freshPID] = &process.Equation{PID: e.freshPID, Formal: formal, Body: body}
	return &process.Call{PID: e.freshPID}
}

func (c *Context) equation(p process.PID) (*process.Equation, error) {
	eq, ok := c.Eqns[p]
	if !ok {
		return nil, process.NewUndefinedIdentifierError(p)
	}
	return eq, nil
}

// manToIDs expands m into a flat occurrence list (each name repeated by
// its multiplicity), the literal form process.Allow.V and process.Block.H
// use.
func manToIDs(m manalg.MAN) []ident.ID {
	var out []ident.ID
	for _, name := range m.Names() {
		for i := 0; i < m.Count(name); i++ {
			out = append(out, name)
		}
	}
	return out
}

func toCommSet(rules []process.CommRuleExpr) manalg.CommSet {
	var c manalg.CommSet
	for _, r := range rules {
		c.Rules = append(c.Rules, manalg.CommRule{Lhs: manalg.NewMAN(r.Lhs...), Rhs: r.Rhs, IsTau: r.IsTau})
	}
	return c
}

func toMANS(v [][]ident.ID) manalg.MANS {
	out := manalg.Empty()
	for _, names := range v {
		out = out.With(manalg.NewMAN(names...))
	}
	return out
}

func mansToLiteral(s manalg.MANS) [][]ident.ID {
	elems := s.Elements()
	out := make([][]ident.ID, 0, len(elems))
	for _, m := range elems {
		if m.IsTau() {
			continue
		}
		out = append(out, manToIDs(m))
	}
	return out
}
