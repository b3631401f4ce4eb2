package process

import (
	"encoding/json"
	"fmt"

	"github.com/mcrl2-tools/alphacore/ident"
)

// This file gives process.Spec a JSON encoding. Spec section 1's Non-goals
// put the textual mCRL2 surface grammar out of scope for this core -- that
// is a parser-collaborator's job -- but the driver still needs something
// concrete to read and write when run standalone from cmd/alphacore, the
// same way cmd/godoctor/main.go's "-format json" flag gives its CLI a
// self-contained wire format (encoding/json) instead of requiring a full
// Go source round-trip for every invocation. Names are written as
// strings and re-interned into the ident.Table supplied at decode time,
// so a JSON document is portable across runs without leaking a Table's
// internal numbering.

type pidJSON struct {
	Name string `json:"name"`
	Sig  string `json:"sig,omitempty"`
}

type varJSON struct {
	Name string `json:"name"`
	Sort string `json:"sort,omitempty"`
}

type assignJSON struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type commRuleJSON struct {
	Lhs []string `json:"lhs"`
	Rhs string   `json:"rhs"`
	Tau bool     `json:"tau,omitempty"`
}

type exprJSON struct {
	Kind   string          `json:"kind"`
	Label  string          `json:"label,omitempty"`
	Args   []string        `json:"args,omitempty"`
	PID    *pidJSON        `json:"pid,omitempty"`
	Assign []assignJSON    `json:"assign,omitempty"`
	Vars   []varJSON       `json:"vars,omitempty"`
	Cond   string          `json:"cond,omitempty"`
	Time   string          `json:"time,omitempty"`
	Dist   string          `json:"dist,omitempty"`
	Body   json.RawMessage `json:"body,omitempty"`
	Then   json.RawMessage `json:"then,omitempty"`
	Else   json.RawMessage `json:"else,omitempty"`
	Left   json.RawMessage `json:"left,omitempty"`
	Right  json.RawMessage `json:"right,omitempty"`
	H      []string        `json:"h,omitempty"`
	I      []string        `json:"i,omitempty"`
	R      map[string]string `json:"r,omitempty"`
	Rules  []commRuleJSON  `json:"rules,omitempty"`
	V      [][]string      `json:"v,omitempty"`
}

// EncodeExpr renders e as a json.RawMessage, resolving every ident.ID
// against tbl to a stable string.
func EncodeExpr(e Expr, tbl *ident.Table) (json.RawMessage, error) {
	var j exprJSON
	switch n := e.(type) {
	case Delta:
		j.Kind = "delta"
	case TauExpr:
		j.Kind = "tau"
	case *Action:
		j.Kind = "action"
		j.Label = tbl.Name(n.Label)
		j.Args = encodeDataExprs(n.Args)
	case *Call:
		j.Kind = "call"
		pid := encodePIDNamed(n.PID, tbl)
		j.PID = &pid
		j.Args = encodeDataExprs(n.Args)
	case *CallAssign:
		j.Kind = "call_assign"
		pid := encodePIDNamed(n.PID, tbl)
		j.PID = &pid
		for _, a := range n.Assignments {
			j.Assign = append(j.Assign, assignJSON{Name: tbl.Name(a.Name), Value: a.Value.Raw})
		}
	case *Sum:
		j.Kind = "sum"
		j.Vars = encodeVars(n.Vars, tbl)
		return wrapBody(&j, "body", n.Body, tbl)
	case *SumQuantified:
		j.Kind = "sum_q"
		j.Vars = encodeVars(n.Vars, tbl)
		j.Cond = n.Cond.Raw
		return wrapBody(&j, "body", n.Body, tbl)
	case *At:
		j.Kind = "at"
		j.Time = n.Time.Raw
		return wrapBody(&j, "body", n.Body, tbl)
	case *IfThen:
		j.Kind = "if_then"
		j.Cond = n.Cond.Raw
		return wrapBody(&j, "body", n.Body, tbl)
	case *IfThenElse:
		j.Kind = "if_then_else"
		j.Cond = n.Cond.Raw
		return wrapTwo(&j, "then", n.Then, "else", n.Else, tbl)
	case *Choice:
		j.Kind = "choice"
		return wrapTwo(&j, "left", n.Left, "right", n.Right, tbl)
	case *Seq:
		j.Kind = "seq"
		return wrapTwo(&j, "left", n.Left, "right", n.Right, tbl)
	case *BoundedInit:
		j.Kind = "bounded_init"
		return wrapTwo(&j, "left", n.Left, "right", n.Right, tbl)
	case *Stochastic:
		j.Kind = "stochastic"
		j.Vars = encodeVars(n.Vars, tbl)
		j.Dist = n.Dist.Raw
		return wrapBody(&j, "body", n.Body, tbl)
	case *Merge:
		j.Kind = "merge"
		return wrapTwo(&j, "left", n.Left, "right", n.Right, tbl)
	case *LeftMerge:
		j.Kind = "left_merge"
		return wrapTwo(&j, "left", n.Left, "right", n.Right, tbl)
	case *Sync:
		j.Kind = "sync"
		return wrapTwo(&j, "left", n.Left, "right", n.Right, tbl)
	case *Block:
		j.Kind = "block"
		j.H = encodeIDs(n.H, tbl)
		return wrapBody(&j, "body", n.Body, tbl)
	case *Hide:
		j.Kind = "hide"
		j.I = encodeIDs(n.I, tbl)
		return wrapBody(&j, "body", n.Body, tbl)
	case *Rename:
		j.Kind = "rename"
		j.R = make(map[string]string, len(n.R))
		for from, to := range n.R {
			j.R[tbl.Name(from)] = tbl.Name(to)
		}
		return wrapBody(&j, "body", n.Body, tbl)
	case *Comm:
		j.Kind = "comm"
		for _, r := range n.C {
			rj := commRuleJSON{Rhs: tbl.Name(r.Rhs), Tau: r.IsTau}
			for _, id := range r.Lhs {
				rj.Lhs = append(rj.Lhs, tbl.Name(id))
			}
			j.Rules = append(j.Rules, rj)
		}
		return wrapBody(&j, "body", n.Body, tbl)
	case *Allow:
		j.Kind = "allow"
		for _, man := range n.V {
			var names []string
			for _, id := range man {
				names = append(names, tbl.Name(id))
			}
			j.V = append(j.V, names)
		}
		return wrapBody(&j, "body", n.Body, tbl)
	default:
		return nil, fmt.Errorf("process: EncodeExpr: unsupported node %T", e)
	}
	return json.Marshal(j)
}

func wrapBody(j *exprJSON, field string, body Expr, tbl *ident.Table) (json.RawMessage, error) {
	raw, err := EncodeExpr(body, tbl)
	if err != nil {
		return nil, err
	}
	switch field {
	case "body":
		j.Body = raw
	}
	return json.Marshal(j)
}

func wrapTwo(j *exprJSON, leftField string, left Expr, rightField string, right Expr, tbl *ident.Table) (json.RawMessage, error) {
	l, err := EncodeExpr(left, tbl)
	if err != nil {
		return nil, err
	}
	r, err := EncodeExpr(right, tbl)
	if err != nil {
		return nil, err
	}
	if leftField == "then" {
		j.Then, j.Else = l, r
	} else {
		j.Left, j.Right = l, r
	}
	return json.Marshal(j)
}

func encodeDataExprs(args []DataExpr) []string {
	if len(args) == 0 {
		return nil
	}
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.Raw
	}
	return out
}

func encodeVars(vars []Var, tbl *ident.Table) []varJSON {
	if len(vars) == 0 {
		return nil
	}
	out := make([]varJSON, len(vars))
	for i, v := range vars {
		out[i] = varJSON{Name: tbl.Name(v.Name), Sort: v.Sort}
	}
	return out
}

func encodeIDs(ids []ident.ID, tbl *ident.Table) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = tbl.Name(id)
	}
	return out
}

func encodePIDNamed(p PID, tbl *ident.Table) pidJSON {
	return pidJSON{Name: tbl.Name(p.Name), Sig: p.Signature}
}

// DecodeExpr parses raw into an Expr, interning every name it encounters
// into tbl.
func DecodeExpr(raw json.RawMessage, tbl *ident.Table) (Expr, error) {
	var j exprJSON
	if err := json.Unmarshal(raw, &j); err != nil {
		return nil, err
	}
	switch j.Kind {
	case "delta":
		return Delta{}, nil
	case "tau":
		return TauExpr{}, nil
	case "action":
		return &Action{Label: tbl.Intern(j.Label), Args: decodeDataExprs(j.Args)}, nil
	case "call":
		return &Call{PID: decodePID(j.PID, tbl), Args: decodeDataExprs(j.Args)}, nil
	case "call_assign":
		ca := &CallAssign{PID: decodePID(j.PID, tbl)}
		for _, a := range j.Assign {
			ca.Assignments = append(ca.Assignments, Assignment{Name: tbl.Intern(a.Name), Value: DataExpr{Raw: a.Value}})
		}
		return ca, nil
	case "sum":
		body, err := DecodeExpr(j.Body, tbl)
		if err != nil {
			return nil, err
		}
		return &Sum{Vars: decodeVars(j.Vars, tbl), Body: body}, nil
	case "sum_q":
		body, err := DecodeExpr(j.Body, tbl)
		if err != nil {
			return nil, err
		}
		return &SumQuantified{Vars: decodeVars(j.Vars, tbl), Cond: DataExpr{Raw: j.Cond}, Body: body}, nil
	case "at":
		body, err := DecodeExpr(j.Body, tbl)
		if err != nil {
			return nil, err
		}
		return &At{Body: body, Time: DataExpr{Raw: j.Time}}, nil
	case "if_then":
		body, err := DecodeExpr(j.Body, tbl)
		if err != nil {
			return nil, err
		}
		return &IfThen{Cond: DataExpr{Raw: j.Cond}, Body: body}, nil
	case "if_then_else":
		then, err := DecodeExpr(j.Then, tbl)
		if err != nil {
			return nil, err
		}
		els, err := DecodeExpr(j.Else, tbl)
		if err != nil {
			return nil, err
		}
		return &IfThenElse{Cond: DataExpr{Raw: j.Cond}, Then: then, Else: els}, nil
	case "choice", "seq", "bounded_init", "merge", "left_merge", "sync":
		left, err := DecodeExpr(j.Left, tbl)
		if err != nil {
			return nil, err
		}
		right, err := DecodeExpr(j.Right, tbl)
		if err != nil {
			return nil, err
		}
		switch j.Kind {
		case "choice":
			return &Choice{Left: left, Right: right}, nil
		case "seq":
			return &Seq{Left: left, Right: right}, nil
		case "bounded_init":
			return &BoundedInit{Left: left, Right: right}, nil
		case "merge":
			return &Merge{Left: left, Right: right}, nil
		case "left_merge":
			return &LeftMerge{Left: left, Right: right}, nil
		default:
			return &Sync{Left: left, Right: right}, nil
		}
	case "stochastic":
		body, err := DecodeExpr(j.Body, tbl)
		if err != nil {
			return nil, err
		}
		return &Stochastic{Vars: decodeVars(j.Vars, tbl), Dist: DataExpr{Raw: j.Dist}, Body: body}, nil
	case "block":
		body, err := DecodeExpr(j.Body, tbl)
		if err != nil {
			return nil, err
		}
		return &Block{H: decodeIDs(j.H, tbl), Body: body}, nil
	case "hide":
		body, err := DecodeExpr(j.Body, tbl)
		if err != nil {
			return nil, err
		}
		return &Hide{I: decodeIDs(j.I, tbl), Body: body}, nil
	case "rename":
		body, err := DecodeExpr(j.Body, tbl)
		if err != nil {
			return nil, err
		}
		r := make(map[ident.ID]ident.ID, len(j.R))
		for from, to := range j.R {
			r[tbl.Intern(from)] = tbl.Intern(to)
		}
		return &Rename{R: r, Body: body}, nil
	case "comm":
		body, err := DecodeExpr(j.Body, tbl)
		if err != nil {
			return nil, err
		}
		var rules []CommRuleExpr
		for _, rj := range j.Rules {
			rule := CommRuleExpr{Rhs: tbl.Intern(rj.Rhs), IsTau: rj.Tau}
			for _, name := range rj.Lhs {
				rule.Lhs = append(rule.Lhs, tbl.Intern(name))
			}
			rules = append(rules, rule)
		}
		return &Comm{C: rules, Body: body}, nil
	case "allow":
		body, err := DecodeExpr(j.Body, tbl)
		if err != nil {
			return nil, err
		}
		var v [][]ident.ID
		for _, names := range j.V {
			var ids []ident.ID
			for _, name := range names {
				ids = append(ids, tbl.Intern(name))
			}
			v = append(v, ids)
		}
		return &Allow{V: v, Body: body}, nil
	default:
		return nil, fmt.Errorf("process: DecodeExpr: unknown kind %q", j.Kind)
	}
}

func decodeDataExprs(args []string) []DataExpr {
	if len(args) == 0 {
		return nil
	}
	out := make([]DataExpr, len(args))
	for i, a := range args {
		out[i] = DataExpr{Raw: a}
	}
	return out
}

func decodeVars(vars []varJSON, tbl *ident.Table) []Var {
	if len(vars) == 0 {
		return nil
	}
	out := make([]Var, len(vars))
	for i, v := range vars {
		out[i] = Var{Name: tbl.Intern(v.Name), Sort: v.Sort}
	}
	return out
}

func decodeIDs(names []string, tbl *ident.Table) []ident.ID {
	if len(names) == 0 {
		return nil
	}
	out := make([]ident.ID, len(names))
	for i, n := range names {
		out[i] = tbl.Intern(n)
	}
	return out
}

func decodePID(j *pidJSON, tbl *ident.Table) PID {
	if j == nil {
		return PID{}
	}
	return PID{Name: tbl.Intern(j.Name), Signature: j.Sig}
}

type specJSON struct {
	Equations       []equationJSON `json:"equations"`
	Initial         json.RawMessage `json:"initial"`
	LinStrategy     string          `json:"lin_strategy,omitempty"`
	RewriteStrategy string          `json:"rewrite_strategy,omitempty"`
}

type equationJSON struct {
	PID    pidJSON         `json:"pid"`
	Formal []varJSON       `json:"formal,omitempty"`
	Body   json.RawMessage `json:"body"`
}

// EncodeSpec renders spec as a self-contained JSON document. DataSpec,
// Actions, and Globals are opaque to the core (spec section 3) and are not
// round-tripped by this encoding; a caller embedding the core alongside a
// real parser is expected to carry those through separately.
func EncodeSpec(spec *Spec, tbl *ident.Table) ([]byte, error) {
	sj := specJSON{LinStrategy: spec.LinStrategy, RewriteStrategy: spec.RewriteStrategy}
	for _, eq := range spec.Equations {
		body, err := EncodeExpr(eq.Body, tbl)
		if err != nil {
			return nil, err
		}
		sj.Equations = append(sj.Equations, equationJSON{
			PID:    encodePIDNamed(eq.PID, tbl),
			Formal: encodeVars(eq.Formal, tbl),
			Body:   body,
		})
	}
	initial, err := EncodeExpr(spec.Initial, tbl)
	if err != nil {
		return nil, err
	}
	sj.Initial = initial
	return json.MarshalIndent(sj, "", "  ")
}

// DecodeSpec parses data into a Spec, interning every name into tbl.
func DecodeSpec(data []byte, tbl *ident.Table) (*Spec, error) {
	var sj specJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return nil, err
	}
	spec := &Spec{LinStrategy: sj.LinStrategy, RewriteStrategy: sj.RewriteStrategy}
	for _, eqj := range sj.Equations {
		body, err := DecodeExpr(eqj.Body, tbl)
		if err != nil {
			return nil, err
		}
		spec.Equations = append(spec.Equations, &Equation{
			PID:    PID{Name: tbl.Intern(eqj.PID.Name), Signature: eqj.PID.Sig},
			Formal: decodeVars(eqj.Formal, tbl),
			Body:   body,
		})
	}
	initial, err := DecodeExpr(sj.Initial, tbl)
	if err != nil {
		return nil, err
	}
	spec.Initial = initial
	return spec, nil
}
