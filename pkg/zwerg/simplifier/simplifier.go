// Package simplifier rewrites a parse tree into an equivalent but
// smaller one before the compiler lowers it to an operator graph:
// nested CAT/ALT/OR are flattened, NOP children are dropped, and
// singleton CAT/ALT/OR nodes collapse to their one child. Simplify is
// idempotent: running it twice produces the same tree as running it
// once.
package simplifier

import "github.com/dwgrep/zwerg/pkg/zwerg/tree"

// Simplify returns a rewritten copy of n. n itself is not mutated.
func Simplify(n *tree.Node) *tree.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case tree.KindCat:
		return simplifyFlatten(n, tree.KindCat, true)
	case tree.KindAlt:
		return simplifyFlatten(n, tree.KindAlt, false)
	case tree.KindOr:
		return simplifyFlatten(n, tree.KindOr, false)
	case tree.KindScope:
		// A Scope's body is kept even when it simplifies to Nop: the
		// binding's value expression still must run once per candidate.
		bind := Simplify(n.Children[0])
		body := Simplify(n.Children[1])
		return &tree.Node{Kind: tree.KindScope, Pos: n.Pos, Children: []*tree.Node{bind, body}}
	case tree.KindIfElse:
		out := &tree.Node{Kind: tree.KindIfElse, Pos: n.Pos, Cond: Simplify(n.Cond), Then: Simplify(n.Then)}
		if n.Else != nil {
			out.Else = Simplify(n.Else)
		}
		return out
	case tree.KindBlock:
		return &tree.Node{Kind: tree.KindBlock, Pos: n.Pos, Body: Simplify(n.Body)}
	case tree.KindCapture, tree.KindCloseStar, tree.KindClosePlus, tree.KindSubxEval,
		tree.KindPredNot:
		return &tree.Node{Kind: n.Kind, Pos: n.Pos, Name: n.Name, Children: []*tree.Node{Simplify(n.Children[0])}}
	case tree.KindAssert:
		out := &tree.Node{Kind: tree.KindAssert, Pos: n.Pos, Name: n.Name, Negate: n.Negate}
		if len(n.Children) == 1 {
			out.Children = []*tree.Node{Simplify(n.Children[0])}
		}
		return out
	case tree.KindBind:
		return &tree.Node{Kind: tree.KindBind, Pos: n.Pos, Name: n.Name, Children: []*tree.Node{Simplify(n.Children[0])}}
	case tree.KindFormat:
		parts := make([]tree.FormatPart, len(n.FormatParts))
		for i, part := range n.FormatParts {
			parts[i] = part
			if part.Expr != nil {
				parts[i].Expr = Simplify(part.Expr)
			}
		}
		return &tree.Node{Kind: tree.KindFormat, Pos: n.Pos, FormatParts: parts}
	default:
		// CONST, STR, READ, FBUILTIN, EMPTYLIST, NOP have no children
		// to descend into. PredAnd/PredOr/PredSubxCompare are not
		// produced by the parser (see DESIGN.md) and fall through here
		// too; a shallow copy is harmless since nothing builds them.
		cp := *n
		return &cp
	}
}

// simplifyFlatten rewrites an n-ary node of the given kind: children of
// the same kind are inlined, NOPs are dropped when dropNop is set (safe
// for CAT, where NOP is the identity; ALT and OR give NOP semantic
// weight as a genuine empty-result branch and must keep it), and a
// single surviving child collapses the node away entirely.
func simplifyFlatten(n *tree.Node, kind tree.Kind, dropNop bool) *tree.Node {
	var flat []*tree.Node
	for _, c := range n.Children {
		sc := Simplify(c)
		if dropNop && sc.Kind == tree.KindNop {
			continue
		}
		if sc.Kind == kind {
			flat = append(flat, sc.Children...)
		} else {
			flat = append(flat, sc)
		}
	}
	if len(flat) == 0 {
		return &tree.Node{Kind: tree.KindNop, Pos: n.Pos}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &tree.Node{Kind: kind, Pos: n.Pos, Children: flat}
}
