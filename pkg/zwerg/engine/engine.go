// Package engine is the query engine's public surface: Vocabulary,
// Query (parse once) and Result (drive many times), wrapping the
// lexer/parser/simplifier/compiler/op pipeline behind plain Go errors.
package engine

import (
	"bytes"

	"github.com/dwgrep/zwerg/pkg/zwerg/builtin"
	"github.com/dwgrep/zwerg/pkg/zwerg/compiler"
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/parser"
	"github.com/dwgrep/zwerg/pkg/zwerg/simplifier"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
	"github.com/dwgrep/zwerg/pkg/zwerg/value"
)

// Vocabulary re-exports builtin.Vocabulary: the plug-in surface external
// collaborators (an ELF/DWARF vocabulary, or any other domain) extend
// with their own builtins before compiling a Query.
type Vocabulary = builtin.Vocabulary

// Core returns a fresh Vocabulary with every builtin this module ships:
// arithmetic, comparison, stack-shuffling and string/sequence
// operations. Callers Merge their own vocabularies on top of it.
func Core() *Vocabulary { return builtin.Core() }

// Query is a successfully parsed and compiled program, ready to run
// against any number of input stacks via NewResult.
type Query struct {
	prog *compiler.Program
}

// Parse lexes, parses, simplifies and compiles src against vocab.
// Returns a *parser.Error, *compiler.Error, or a plain lexer error on
// failure — all satisfy the standard error interface.
func Parse(src string, vocab *Vocabulary) (*Query, error) {
	tr, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	simplified := simplifier.Simplify(tr)
	prog, err := compiler.New(vocab).Compile(simplified)
	if err != nil {
		return nil, err
	}
	return &Query{prog: prog}, nil
}

// Result drives one Query's operator graph against one initial stack.
// A Result is single-use in the sense that it owns one Scon for its
// whole lifetime; running the same Query again means calling NewResult
// again, which allocates a fresh Scon — queries are safe to run
// concurrently this way since the operator graph itself is read-only
// and shared.
type Result struct {
	q    *Query
	scon *layout.Scon
	diag bytes.Buffer
	done bool
}

// NewResult begins evaluating q against the empty stack, seeded with
// any initial values in seed (pushed bottom-to-top).
func NewResult(q *Query, seed ...value.Value) *Result {
	scon := layout.NewScon(q.prog.Layout)
	r := &Result{q: q, scon: scon}
	scon.SetDiag(&r.diag)
	q.prog.Root.StateCon(scon)
	stk := stack.New()
	for _, v := range seed {
		stk.Push(v)
	}
	q.prog.Entry.Set(scon, stk)
	return r
}

// Next pulls the next result stack, or reports exhaustion (false). Once
// exhausted, Next always returns false until the Result is dropped;
// there is no rewind.
func (r *Result) Next() (*stack.Stack, bool) {
	if r.done {
		return nil, false
	}
	out, ok := r.q.prog.Root.Next(r.scon)
	if !ok {
		r.done = true
		return nil, false
	}
	return out, true
}

// Diagnostics returns the runtime diagnostics (ArithmeticError,
// TypeError, FormatError, PredicateFailure) reported so far by this
// Result's Scon, one line per occurrence, matching spec.md section 7's
// skip-and-continue policy: these never stop iteration, they only
// accumulate here for the caller to report however it likes.
func (r *Result) Diagnostics() string { return r.diag.String() }

// Close tears down this Result's state container in LIFO order,
// releasing any resources its operators hold (open sub-iterators,
// visited-sets). Safe to call multiple times.
func (r *Result) Close() {
	if r.scon == nil {
		return
	}
	r.q.prog.Root.StateDes(r.scon)
	r.scon.Close()
	r.scon = nil
}

