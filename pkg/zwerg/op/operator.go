// Package op implements the operator graph that a compiled query lowers
// to: a DAG of pull-based nodes, each resumable via a slot in a
// layout.Scon, with a single sink (the query's root) that a Result
// drives by repeated calls to Next. There are no goroutines anywhere in
// this package — every operator that needs to remember "where it got
// to" does so explicitly in its state slot, per spec.md section 5.
package op

import (
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
)

// Operator is one node of the operator graph. Operators are built once,
// at compile time, and shared by every concurrently-open Result for a
// given Query; all per-evaluation mutable state lives in the Scon the
// caller passes to every call, never in the Operator value itself.
type Operator interface {
	// Name returns a short, stable name used in diagnostics and docs.
	Name() string
	// StateCon constructs this operator's state slot(s) in s. Called
	// once, top-down over the graph, before the first Next call.
	StateCon(s *layout.Scon)
	// StateDes destroys this operator's state slot(s) in s. Called once
	// the graph (or the branch it belongs to) is being torn down.
	StateDes(s *layout.Scon)
	// Next pulls the next result stack from this operator, or reports
	// exhaustion (false). An operator that owns an upstream operator
	// drives it via its own Next calls internally.
	Next(s *layout.Scon) (*stack.Stack, bool)
}

// Predicate is the narrower interface used by assert-style nodes
// (ASSERT, and/or/not, subx_any/subx_compare, pos): given a candidate
// stack, it reports Yes/No/Fail without consuming or transforming it.
type Predicate interface {
	Name() string
	StateCon(s *layout.Scon)
	StateDes(s *layout.Scon)
	Eval(s *layout.Scon, stk *stack.Stack) PredResult
}

// PredResult is the three-valued result of evaluating a Predicate:
// Yes/No decide whether ASSERT lets the candidate through; Fail means
// the predicate itself could not be evaluated (e.g. a builtin predicate
// hit a TypeError) and is reported as a PredicateFailure diagnostic,
// then treated the same as No (skip-and-continue, per spec.md section 7).
type PredResult int

const (
	PredNo PredResult = iota
	PredYes
	PredFail
)
