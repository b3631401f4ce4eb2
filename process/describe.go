package process

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mcrl2-tools/alphacore/ident"
)

// Describe renders e as a canonical string: two expressions produce equal
// strings iff they are structurally identical, including action labels,
// process-identifier names, and opaque data-expression text. It is used
// by eqgraph's duplicate-equation merging (spec section 4.4) to detect
// syntactically identical equation bodies, and is not meant for display.
func Describe(e Expr) string {
	var b strings.Builder
	describe(e, &b)
	return b.String()
}

func describe(e Expr, b *strings.Builder) {
	switch n := e.(type) {
	case Delta:
		b.WriteString("delta")
	case TauExpr:
		b.WriteString("tau")
	case *Action:
		fmt.Fprintf(b, "act(%d", n.Label)
		describeDataExprs(n.Args, b)
		b.WriteByte(')')
	case *Call:
		fmt.Fprintf(b, "call(%s", describePID(n.PID))
		describeDataExprs(n.Args, b)
		b.WriteByte(')')
	case *CallAssign:
		fmt.Fprintf(b, "call_assign(%s", describePID(n.PID))
		assigns := append([]Assignment(nil), n.Assignments...)
		sort.Slice(assigns, func(i, j int) bool { return assigns[i].Name < assigns[j].Name })
		for _, a := range assigns {
			fmt.Fprintf(b, ",%d=%s", a.Name, a.Value.Raw)
		}
		b.WriteByte(')')
	case *Sum:
		fmt.Fprintf(b, "sum(%s,", describeVars(n.Vars))
		describe(n.Body, b)
		b.WriteByte(')')
	case *SumQuantified:
		fmt.Fprintf(b, "sum_q(%s,%s,", describeVars(n.Vars), n.Cond.Raw)
		describe(n.Body, b)
		b.WriteByte(')')
	case *At:
		b.WriteString("at(")
		describe(n.Body, b)
		fmt.Fprintf(b, ",%s)", n.Time.Raw)
	case *IfThen:
		fmt.Fprintf(b, "if(%s,", n.Cond.Raw)
		describe(n.Body, b)
		b.WriteByte(')')
	case *IfThenElse:
		fmt.Fprintf(b, "ifelse(%s,", n.Cond.Raw)
		describe(n.Then, b)
		b.WriteByte(',')
		describe(n.Else, b)
		b.WriteByte(')')
	case *Choice:
		describeBinary("choice", n.Left, n.Right, b)
	case *Seq:
		describeBinary("seq", n.Left, n.Right, b)
	case *BoundedInit:
		describeBinary("binit", n.Left, n.Right, b)
	case *Stochastic:
		fmt.Fprintf(b, "stoch(%s,%s,", describeVars(n.Vars), n.Dist.Raw)
		describe(n.Body, b)
		b.WriteByte(')')
	case *Merge:
		describeBinary("merge", n.Left, n.Right, b)
	case *LeftMerge:
		describeBinary("lmerge", n.Left, n.Right, b)
	case *Sync:
		describeBinary("sync", n.Left, n.Right, b)
	case *Block:
		fmt.Fprintf(b, "block(%s,", describeIDs(n.H))
		describe(n.Body, b)
		b.WriteByte(')')
	case *Hide:
		fmt.Fprintf(b, "hide(%s,", describeIDs(n.I))
		describe(n.Body, b)
		b.WriteByte(')')
	case *Rename:
		fmt.Fprintf(b, "rename(%s,", describeRenameMap(n.R))
		describe(n.Body, b)
		b.WriteByte(')')
	case *Comm:
		fmt.Fprintf(b, "comm(%s,", describeCommRules(n.C))
		describe(n.Body, b)
		b.WriteByte(')')
	case *Allow:
		fmt.Fprintf(b, "allow(%s,", describeMANSLiteral(n.V))
		describe(n.Body, b)
		b.WriteByte(')')
	default:
		b.WriteString("?")
	}
}

func describePID(p PID) string {
	return fmt.Sprintf("%d/%s", p.Name, p.Signature)
}

func describeDataExprs(args []DataExpr, b *strings.Builder) {
	for _, a := range args {
		b.WriteByte(',')
		b.WriteString(a.Raw)
	}
}

func describeVars(vars []Var) string {
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = fmt.Sprintf("%d:%s", v.Name, v.Sort)
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

func describeIDs(ids []ident.ID) string {
	sorted := append([]ident.ID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ";")
}

func describeRenameMap(r map[ident.ID]ident.ID) string {
	keys := make([]ident.ID, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%d->%d", k, r[k])
	}
	return strings.Join(parts, ";")
}

func describeCommRules(rules []CommRuleExpr) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = fmt.Sprintf("%s=>%d(%v)", describeIDs(r.Lhs), r.Rhs, r.IsTau)
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

func describeMANSLiteral(v [][]ident.ID) string {
	parts := make([]string, len(v))
	for i, man := range v {
		parts[i] = describeIDs(man)
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

func describeBinary(op string, l, r Expr, b *strings.Builder) {
	b.WriteString(op)
	b.WriteByte('(')
	describe(l, b)
	b.WriteByte(',')
	describe(r, b)
	b.WriteByte(')')
}
