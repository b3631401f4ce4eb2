// Package process defines the process-expression and process-equation data
// model (spec section 3): the variant tree of process expressions, process
// identifiers, equations, and the overall process specification that the
// alphabet-reduction core rewrites in place.
package process

import (
	"github.com/mcrl2-tools/alphacore/ident"
)

// PID is a process identifier: a name paired with an ordered list of
// sort-expression tokens (spec section 3). The signature is opaque at this
// layer -- it is carried through untouched -- but two PIDs are equal iff
// both the name and every signature token match.
// Signature is an opaque, already-joined sort-signature token (e.g.
// "Nat,Bool"), kept as a single comparable string rather than a slice so
// that PID stays usable as a map key throughout the core.
type PID struct {
	Name      ident.ID
	Signature string
}

// Equal reports whether p and other name the same process with the same
// signature.
func (p PID) Equal(other PID) bool {
	return p == other
}

// Var is a formal or bound parameter: a name and an opaque sort token.
type Var struct {
	Name ident.ID
	Sort string
}

// DataExpr is an opaque data-expression term (spec section 1 excludes data
// rewriting from the core's scope). The core only ever copies these
// verbatim between expressions; it never inspects their structure.
type DataExpr struct {
	Raw string
}

// Assignment binds a formal parameter name to a data expression, used by
// CallAssign.
type Assignment struct {
	Name  ident.ID
	Value DataExpr
}

// Expr is any process-expression node (spec section 3). Implementations
// are the package-level struct types below (Delta, TauExpr, Action, Call, ...).
// There is deliberately no open class hierarchy (spec section 9's "Generic
// traversal" design note): the Transform function provides the one place that
// knows how to recurse into every variant.
type Expr interface {
	isExpr()
}

// Delta is the deadlock process, "delta".
type Delta struct{}

// TauExpr is the silent-step process, "tau". Named TauExpr (not Tau) to
// avoid colliding with manalg.Tau in code that imports both packages.
type TauExpr struct{}

// Action is a single action with a label and opaque data arguments.
type Action struct {
	Label ident.ID
	Args  []DataExpr
}

// Call instantiates an equation by positional actual parameters.
type Call struct {
	PID  PID
	Args []DataExpr
}

// CallAssign instantiates an equation with named assignments.
type CallAssign struct {
	PID         PID
	Assignments []Assignment
}

// Sum is existential quantification over a list of bound variables.
type Sum struct {
	Vars []Var
	Body Expr
}

// SumQuantified is a variant of Sum with an explicit quantifier condition,
// used by the stochastic-process extensions of mCRL2.
type SumQuantified struct {
	Vars []Var
	Cond DataExpr
	Body Expr
}

// At attaches a timestamp to a process.
type At struct {
	Body Expr
	Time DataExpr
}

// IfThen is a guarded process (no else branch).
type IfThen struct {
	Cond DataExpr
	Body Expr
}

// IfThenElse is a two-branch conditional process.
type IfThenElse struct {
	Cond DataExpr
	Then Expr
	Else Expr
}

// Choice is nondeterministic choice, "l + r".
type Choice struct {
	Left, Right Expr
}

// Seq is sequential composition, "l . r".
type Seq struct {
	Left, Right Expr
}

// BoundedInit is bounded initialization, "l >> r".
type BoundedInit struct {
	Left, Right Expr
}

// Stochastic is a stochastic operator binding vars with a distribution.
type Stochastic struct {
	Vars []Var
	Dist DataExpr
	Body Expr
}

// Merge is parallel composition, "l || r".
type Merge struct {
	Left, Right Expr
}

// LeftMerge is the left-merge operator, "l ||_ r".
type LeftMerge struct {
	Left, Right Expr
}

// Sync is the synchronization operator, "l | r".
type Sync struct {
	Left, Right Expr
}

// Block restricts away action names in H, "block(H, body)".
type Block struct {
	H    []ident.ID
	Body Expr
}

// Hide renames action names in I to tau, "hide(I, body)".
type Hide struct {
	I    []ident.ID
	Body Expr
}

// Rename applies a rename map to action names, "rename(R, body)".
type Rename struct {
	R    map[ident.ID]ident.ID
	Body Expr
}

// CommRuleExpr is the surface-syntax form of a communication rule
// (mirroring manalg.CommRule, but carrying raw action-name IDs rather than
// an already-built MAN, since a process expression's comm/allow operators
// are written before any MAN canonicalisation happens).
type CommRuleExpr struct {
	Lhs   []ident.ID
	Rhs   ident.ID
	IsTau bool
}

// Comm restricts via a communication set, "comm(C, body)".
type Comm struct {
	C    []CommRuleExpr
	Body Expr
}

// Allow restricts to an explicit multi-action-name set, "allow(V, body)".
type Allow struct {
	V    [][]ident.ID
	Body Expr
}

func (Delta) isExpr()         {}
func (TauExpr) isExpr()       {}
func (*Action) isExpr()       {}
func (*Call) isExpr()         {}
func (*CallAssign) isExpr()   {}
func (*Sum) isExpr()          {}
func (*SumQuantified) isExpr() {}
func (*At) isExpr()           {}
func (*IfThen) isExpr()       {}
func (*IfThenElse) isExpr()   {}
func (*Choice) isExpr()       {}
func (*Seq) isExpr()          {}
func (*BoundedInit) isExpr()  {}
func (*Stochastic) isExpr()   {}
func (*Merge) isExpr()        {}
func (*LeftMerge) isExpr()    {}
func (*Sync) isExpr()         {}
func (*Block) isExpr()        {}
func (*Hide) isExpr()         {}
func (*Rename) isExpr()       {}
func (*Comm) isExpr()         {}
func (*Allow) isExpr()        {}

// Equation is a process equation, pid(formals) = body (spec section 3).
type Equation struct {
	PID    PID
	Formal []Var
	Body   Expr
}

// DataDecl, ActionDecl, and GlobalDecl are carried through unchanged by
// the alphabet layer (spec section 3: "the other fields are carried
// through"); their contents are opaque here.
type DataDecl struct{ Raw string }
type ActionDecl struct {
	Name      ident.ID
	Signature []string
}
type GlobalDecl struct{ Raw string }

// Spec is a full process specification (spec section 3).
type Spec struct {
	DataSpec  []DataDecl
	Actions   []ActionDecl
	Globals   []GlobalDecl
	Equations []*Equation
	Initial   Expr

	// LinStrategy and RewriteStrategy are opaque passthrough tokens (spec
	// section 6 / SPEC_FULL.md's supplemental features): the core never
	// interprets them, only carries them through to the emitted output.
	LinStrategy     string
	RewriteStrategy string
}

// EquationByPID returns a lookup table from PID to its equation, built
// once per driver invocation.
func (s *Spec) EquationByPID() map[PID]*Equation {
	out := make(map[PID]*Equation, len(s.Equations))
	for _, eq := range s.Equations {
		out[eq.PID] = eq
	}
	return out
}
