// Package compiler lowers a simplified parse tree into an operator
// graph: a bottom-up walk that threads a layout.Layout accumulator and
// a lexical-scoping environment (let bindings, closure upvalue
// capture) alongside the tree, in the style of a classic
// closure-converting compiler pass.
package compiler

import (
	"fmt"

	"github.com/dwgrep/zwerg/pkg/zwerg/builtin"
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/op"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
	"github.com/dwgrep/zwerg/pkg/zwerg/tree"
	"github.com/dwgrep/zwerg/pkg/zwerg/value"
)

// Error is a CompileError: a name that doesn't resolve, or a builtin
// used in a form (exec/predicate) it doesn't support.
type Error struct {
	Pos     int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("compile error at byte %d: %s", e.Pos, e.Message)
}

// Compiler lowers one query's tree against a fixed Vocabulary.
type Compiler struct {
	Vocab *builtin.Vocabulary
}

func New(vocab *builtin.Vocabulary) *Compiler {
	return &Compiler{Vocab: vocab}
}

// Program is the compiled form of one query: a root operator ready to
// be driven via its Layout-sized Scon, plus the Origin a Result installs
// the initial stack into.
type Program struct {
	Layout *layout.Layout
	Entry  *op.Origin
	Root   op.Operator
}

// Compile lowers a simplified tree into a ready-to-run Program.
func (c *Compiler) Compile(n *tree.Node) (*Program, error) {
	l := layout.New()
	ly := &layer{layout: l}
	entry := op.NewOrigin(l)
	root, err := c.compile(n, ly, nil, entry)
	if err != nil {
		return nil, err
	}
	return &Program{Layout: l, Entry: entry, Root: root}, nil
}

// envEntry is one `let`-bound name visible at some point in the tree.
// layer identifies which closure nesting level declared it; resolving
// a read from a deeper layer triggers capture (see materialize).
type envEntry struct {
	name   string
	layer  *layer
	loc    layout.Location
	parent *envEntry
}

type prologueBind struct {
	idx int
	loc layout.Location
}

// layer is one closure nesting level: the top-level query is layer 0
// (parent nil), and each BLOCK literal compiles its body in a fresh
// child layer. layout is mutable so IfElse can temporarily swap in a
// branch layout (Layout.Branch/Merge) while compiling Then/Else without
// introducing a new closure boundary.
type layer struct {
	parent *layer
	layout *layout.Layout

	// captureLocs are the Locations (in parent.layout) this layer's
	// LexClosure must read at construction time to build Upvalues, in
	// the same order their ReadUpvalue Idx refers to.
	captureLocs []layout.Location
	// prologueBinds materialize captured upvalues into local slots so
	// nested closures can capture them again by Location; built once,
	// right before compiling this layer's body finishes.
	prologueBinds []prologueBind
	memo          map[*envEntry]layout.Location
}

func newLayer(parent *layer) *layer {
	return &layer{parent: parent, layout: layout.New(), memo: map[*envEntry]layout.Location{}}
}

// materialize returns a Location in ly.layout holding e's current
// value, capturing it (and, transitively, any intermediate layer it
// must pass through) if e was declared in an ancestor layer.
func (c *Compiler) materialize(ly *layer, e *envEntry) layout.Location {
	if e.layer == ly {
		return e.loc
	}
	if loc, ok := ly.memo[e]; ok {
		return loc
	}
	parentLoc := c.materialize(ly.parent, e)
	idx := len(ly.captureLocs)
	ly.captureLocs = append(ly.captureLocs, parentLoc)
	localLoc := ly.layout.Reserve()
	ly.prologueBinds = append(ly.prologueBinds, prologueBind{idx: idx, loc: localLoc})
	ly.memo[e] = localLoc
	return localLoc
}

func lookupEnv(env *envEntry, name string) (*envEntry, bool) {
	for e := env; e != nil; e = e.parent {
		if e.name == name {
			return e, true
		}
	}
	return nil, false
}

// deferredOp lets the compiler hand a closure body its eventual
// prologue chain before that chain's final shape (which depends on
// captures discovered while compiling the body) is known. Every method
// delegates to target, set once compilation of the body that consumes
// it has finished discovering its captures, and always before any
// Next/StateCon call reaches it at evaluation time.
type deferredOp struct{ target op.Operator }

func (d *deferredOp) Name() string            { return d.target.Name() }
func (d *deferredOp) StateCon(s *layout.Scon) { d.target.StateCon(s) }
func (d *deferredOp) StateDes(s *layout.Scon) { d.target.StateDes(s) }
func (d *deferredOp) Next(s *layout.Scon) (*stack.Stack, bool) {
	return d.target.Next(s)
}

func (c *Compiler) compile(n *tree.Node, ly *layer, env *envEntry, up op.Operator) (op.Operator, error) {
	switch n.Kind {
	case tree.KindNop:
		return &op.Nop{Up: up}, nil

	case tree.KindConst:
		return &op.Const{Up: up, Val: value.NewConst(domainValue(n), 0)}, nil

	case tree.KindStr:
		return &op.Const{Up: up, Val: value.NewString(n.StrValue, 0)}, nil

	case tree.KindEmptyList:
		return &op.EmptyList{Up: up}, nil

	case tree.KindCat:
		cur := up
		for _, child := range n.Children {
			next, err := c.compile(child, ly, env, cur)
			if err != nil {
				return nil, err
			}
			cur = next
		}
		return cur, nil

	case tree.KindAlt:
		branches, err := c.compileBranches(n.Children, ly, env)
		if err != nil {
			return nil, err
		}
		return op.NewAlt(ly.layout, up, branches), nil

	case tree.KindOr:
		branches, err := c.compileBranches(n.Children, ly, env)
		if err != nil {
			return nil, err
		}
		return op.NewOr(ly.layout, up, branches), nil

	case tree.KindCapture:
		sub, err := c.compileBranch(n.Children[0], ly, env)
		if err != nil {
			return nil, err
		}
		return op.NewCapture(ly.layout, up, sub), nil

	case tree.KindCloseStar, tree.KindClosePlus:
		sub, err := c.compileBranch(n.Children[0], ly, env)
		if err != nil {
			return nil, err
		}
		return op.NewClosure(ly.layout, up, sub, n.Kind == tree.KindClosePlus), nil

	case tree.KindFormat:
		parts := make([]op.FormatPart, len(n.FormatParts))
		for i, p := range n.FormatParts {
			if p.Expr == nil {
				parts[i] = op.FormatPart{Literal: p.Literal}
				continue
			}
			sub, err := c.compileBranch(p.Expr, ly, env)
			if err != nil {
				return nil, err
			}
			parts[i] = op.FormatPart{Expr: &sub}
		}
		return op.NewFormat(ly.layout, up, parts), nil

	case tree.KindAssert:
		pred, err := c.compilePredicate(n, ly, env)
		if err != nil {
			return nil, err
		}
		return &op.Assert{Up: up, Pred: pred}, nil

	case tree.KindIfElse:
		return c.compileIfElse(n, ly, env, up)

	case tree.KindScope:
		return c.compileScope(n, ly, env, up)

	case tree.KindBlock:
		return c.compileBlock(n, ly, env, up)

	case tree.KindFBuiltin, tree.KindRead:
		return c.compileName(n, ly, env, up)

	default:
		return nil, &Error{Pos: n.Pos, Message: fmt.Sprintf("internal: tree kind %d has no compiled form", n.Kind)}
	}
}

func (c *Compiler) compileBranch(n *tree.Node, ly *layer, env *envEntry) (op.Branch, error) {
	entry := op.NewOrigin(ly.layout)
	root, err := c.compile(n, ly, env, entry)
	if err != nil {
		return op.Branch{}, err
	}
	return op.Branch{Origin: entry, Root: root}, nil
}

func (c *Compiler) compileBranches(nodes []*tree.Node, ly *layer, env *envEntry) ([]op.Branch, error) {
	out := make([]op.Branch, len(nodes))
	for i, n := range nodes {
		b, err := c.compileBranch(n, ly, env)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// compileName resolves a bare identifier: a let-bound variable takes
// priority over a vocabulary builtin of the same name, matching
// ordinary lexical shadowing.
func (c *Compiler) compileName(n *tree.Node, ly *layer, env *envEntry, up op.Operator) (op.Operator, error) {
	if e, ok := lookupEnv(env, n.Name); ok {
		loc := c.materialize(ly, e)
		return op.NewRead(up, loc), nil
	}
	if n.Name == "apply" {
		return op.NewApply(ly.layout, up), nil
	}
	b, ok := c.Vocab.Lookup(n.Name)
	if !ok {
		return nil, &Error{Pos: n.Pos, Message: fmt.Sprintf("unknown name %q", n.Name)}
	}
	return b.BuildExec(ly.layout, up), nil
}

func (c *Compiler) compileScope(n *tree.Node, ly *layer, env *envEntry, up op.Operator) (op.Operator, error) {
	bindNode := n.Children[0]
	bodyNode := n.Children[1]

	varLoc := ly.layout.Reserve()
	valueBranch, err := c.compileBranch(bindNode.Children[0], ly, env)
	if err != nil {
		return nil, err
	}
	bindOp := op.NewBind(ly.layout, up, valueBranch, varLoc)

	newEnv := &envEntry{name: bindNode.Name, layer: ly, loc: varLoc, parent: env}
	return c.compile(bodyNode, ly, newEnv, bindOp)
}

// compileBlock lowers a `{ ... }` literal to a LexClosure: a fresh
// layer holds the body's own Layout (slot 0 reserved for upvalues per
// op.ReserveUpvalSlot's convention), compiled against a deferredOp
// placeholder so the prologue chain materializing this layer's captures
// can be built only once every capture the body needed has surfaced.
func (c *Compiler) compileBlock(n *tree.Node, ly *layer, env *envEntry, up op.Operator) (op.Operator, error) {
	child := newLayer(ly)
	op.ReserveUpvalSlot(child.layout)
	entry := op.NewOrigin(child.layout)

	head := &deferredOp{}
	bodyRoot, err := c.compile(n.Body, child, env, head)
	if err != nil {
		return nil, err
	}

	chain := op.Operator(entry)
	for _, pb := range child.prologueBinds {
		o := op.NewOrigin(child.layout)
		chain = op.NewBind(child.layout, chain, op.Branch{Origin: o, Root: &op.ReadUpvalue{Up: o, Idx: pb.idx}}, pb.loc)
	}
	head.target = chain

	return &op.LexClosure{
		Up:          up,
		Root:        bodyRoot,
		BodyLayout:  child.layout,
		Entry:       entry,
		CaptureLocs: child.captureLocs,
	}, nil
}

func (c *Compiler) compileIfElse(n *tree.Node, ly *layer, env *envEntry, up op.Operator) (op.Operator, error) {
	cond, err := c.compileCondPredicate(n.Cond, ly, env)
	if err != nil {
		return nil, err
	}

	base := ly.layout
	thenLayout := base.Branch()
	ly.layout = thenLayout
	thenBranch, err := c.compileBranch(n.Then, ly, env)
	ly.layout = base
	if err != nil {
		return nil, err
	}

	var elseBranch *op.Branch
	if n.Else != nil {
		elseLayout := base.Branch()
		ly.layout = elseLayout
		eb, err := c.compileBranch(n.Else, ly, env)
		ly.layout = base
		if err != nil {
			return nil, err
		}
		elseBranch = &eb
		base.Merge(thenLayout, elseLayout)
	} else {
		base.Merge(thenLayout)
	}

	return op.NewIfElse(base, up, cond, thenBranch, elseBranch), nil
}

// compileCondPredicate turns an arbitrary expression used as an
// if/then/else condition into a Predicate: Yes iff the expression
// produces at least one solution against the candidate stack, the same
// subx-any semantics `?(expr)` uses (see DESIGN.md).
func (c *Compiler) compileCondPredicate(n *tree.Node, ly *layer, env *envEntry) (op.Predicate, error) {
	sub, err := c.compileBranch(n, ly, env)
	if err != nil {
		return nil, err
	}
	return op.NewSubxAny(ly.layout, sub, false), nil
}

// compilePredicate lowers an ASSERT node (`?NAME`, `!NAME`, `?(expr)`,
// `!(expr)`) to a Predicate.
func (c *Compiler) compilePredicate(n *tree.Node, ly *layer, env *envEntry) (op.Predicate, error) {
	if n.Name != "" {
		b, ok := c.Vocab.Lookup(n.Name)
		if !ok {
			return nil, &Error{Pos: n.Pos, Message: fmt.Sprintf("unknown predicate %q", n.Name)}
		}
		pred, ok := b.BuildPred(ly.layout)
		if !ok {
			return nil, &Error{Pos: n.Pos, Message: fmt.Sprintf("builtin %q has no predicate form", n.Name)}
		}
		if n.Negate {
			return &op.Not{P: pred}, nil
		}
		return pred, nil
	}
	sub, err := c.compileBranch(n.Children[0], ly, env)
	if err != nil {
		return nil, err
	}
	return op.NewSubxAny(ly.layout, sub, n.Negate), nil
}
