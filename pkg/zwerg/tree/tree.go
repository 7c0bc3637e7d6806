// Package tree implements the parse tree the parser builds and the
// simplifier rewrites before the compiler lowers it to an operator
// graph.
package tree

import "github.com/dwgrep/zwerg/pkg/zwerg/lexer"

// Kind is a parse-tree node's variety, named directly after the query
// constructs it represents.
type Kind int

const (
	KindCat       Kind = iota // sequential composition: A B
	KindAlt                   // `,`-joined alternation: (A, B, ...)
	KindOr                    // `||`-joined alternation: A || B
	KindCapture               // [A]
	KindSubxEval              // a parenthesized sub-expression used as a predicate operand
	KindCloseStar             // postfix A*
	KindClosePlus             // postfix A+
	KindAssert                // a predicate applied as a filter: A?(pred) style nodes below it
	KindPredAnd
	KindPredOr
	KindPredNot
	KindPredSubxAny     // not built by the parser: ?(A) / !(A) parse to a KindAssert with one child
	KindPredSubxCompare // ?(A == B) style; not built by the parser
	KindConst           // integer literal
	KindStr             // string literal
	KindFormat          // format-string literal with embedded expressions
	KindBind            // let NAME := A
	KindRead            // a bare NAME reference to a let-bound variable
	KindScope           // the body of a `let` (A;B desugars to Scope{Bind, B})
	KindBlock           // { A } closure literal
	KindIfElse          // if COND then A [else B] end
	KindFBuiltin        // a bare builtin/operator name: add, eq, dup, ...
	KindEmptyList       // []
	KindNop             // the empty query, or a BLOCK with an empty body
)

// FormatPart mirrors op.FormatPart at the tree level: a literal run, or
// an embedded expression node.
type FormatPart struct {
	Literal string
	Expr    *Node
}

// Node is one parse-tree node. Not every field is meaningful for every
// Kind; see the comment on each Kind above for which fields it uses.
type Node struct {
	Kind Kind
	Pos  int

	Children []*Node // CAT (2+), ALT (2+), PredAnd/Or (2), Not (1), CloseStar/Plus (1), Capture (1), SubxEval (1), Assert (0 or 1: see Negate)

	// CONST
	ConstDomain lexer.Domain
	ConstValue  uint64

	// STR
	StrValue string

	// FORMAT
	FormatParts []FormatPart

	// BIND / READ / FBUILTIN / ASSERT
	Name string

	// ASSERT: Negate distinguishes `!NAME`/`!(expr)` from `?NAME`/`?(expr)`.
	// A node with Name set and no Children is a named-builtin predicate
	// sigil (`?eq`); a node with one Child and no Name is a subx-any
	// predicate (`?(expr)`).
	Negate bool

	// BIND's value expression, and SCOPE's body (BIND is Children[0],
	// body is Children[1] when Kind == KindScope and the scope has a
	// binding; a let-less `;`-joined sequence just uses KindCat).
	// IFELSE
	Cond *Node
	Then *Node
	Else *Node // nil: no else clause

	// BLOCK
	Body *Node
}

// NewCat builds a KindCat node, flattening any already-CAT children so
// the simplifier doesn't have to re-discover nested CATs the parser
// itself could have avoided creating.
func NewCat(pos int, children ...*Node) *Node {
	var flat []*Node
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.Kind == KindCat {
			flat = append(flat, c.Children...)
		} else {
			flat = append(flat, c)
		}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Node{Kind: KindCat, Pos: pos, Children: flat}
}
