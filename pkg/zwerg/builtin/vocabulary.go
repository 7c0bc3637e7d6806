// Package builtin implements the plug-in interface vocabularies use to
// extend the query language, plus the core vocabulary (arithmetic,
// comparison, stack-shuffling, and sequence/string builtins) that is
// always available.
package builtin

import (
	"fmt"

	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/op"
)

// Case is one overload of a Builtin: Selector/Mask identify the stack
// shapes it applies to (see op.OverloadCase), and at least one of
// BuildExec/BuildPred is non-nil depending on whether this overload can
// run as a value-producing operator, a predicate, or (commonly) both.
type Case struct {
	Selector  uint32
	Mask      uint32
	BuildExec func(l *layout.Layout, up op.Operator) op.Operator
	BuildPred func(l *layout.Layout) op.Predicate
}

// Builtin is one name in a Vocabulary. A name may resolve to several
// Cases distinguished by stack shape (e.g. `add` over two Consts vs
// over two Strings); BuildExec below picks among them at compile time
// via op.Overload, or wires the lone case directly when there is only
// one and it applies regardless of stack shape (Mask == 0).
type Builtin struct {
	Name string
	Doc  string
	// Prototype is a short human-readable stack-effect signature shown
	// by `dwgrep tools docs`, e.g. "(Const, Const) -> Const".
	Prototype string
	Cases     []Case
}

// BuildExec lowers b to an operator chained onto up, dispatching among
// b's Cases by stack-type profile when it has more than one.
func (b *Builtin) BuildExec(l *layout.Layout, up op.Operator) op.Operator {
	if len(b.Cases) == 1 && b.Cases[0].Mask == 0 {
		return b.Cases[0].BuildExec(l, up)
	}
	cases := make([]op.OverloadCase, 0, len(b.Cases))
	for _, c := range b.Cases {
		if c.BuildExec == nil {
			continue
		}
		entry := op.NewOrigin(l)
		cases = append(cases, op.OverloadCase{
			Selector: c.Selector,
			Mask:     c.Mask,
			Entry:    entry,
			Root:     c.BuildExec(l, entry),
		})
	}
	return op.NewOverload(l, up, b.Name, cases)
}

// BuildPred lowers b to a predicate usable directly after `?`/`!`, if
// any of its cases support that form. When more than one case has a
// predicate form they are OR'd together (the predicate succeeds if any
// applicable overload's condition does).
func (b *Builtin) BuildPred(l *layout.Layout) (op.Predicate, bool) {
	var preds []op.Predicate
	for _, c := range b.Cases {
		if c.BuildPred != nil {
			preds = append(preds, c.BuildPred(l))
		}
	}
	if len(preds) == 0 {
		return nil, false
	}
	p := preds[0]
	for _, next := range preds[1:] {
		p = &op.PredOr{A: p, B: next}
	}
	return p, true
}

// Vocabulary is a name -> Builtin map, the plug-in surface vocabularies
// (ELF/DWARF and others outside this module) extend with their own
// builtins, merged with the core vocabulary at Query compile time.
type Vocabulary struct {
	byName map[string]*Builtin
}

func NewVocabulary() *Vocabulary {
	return &Vocabulary{byName: map[string]*Builtin{}}
}

// Add registers b under its own name. Re-adding the same name appends
// its Cases to the existing Builtin instead of erroring, so a
// vocabulary is free to add its own overloads of a core name (e.g. a
// DWARF vocabulary adding a `length` case over a DIE list) — but a
// Case whose Selector/Mask already has a registered case is rejected,
// matching spec.md section 4.7's overload-table merge check.
func (v *Vocabulary) Add(b *Builtin) error {
	existing, ok := v.byName[b.Name]
	if !ok {
		cp := *b
		cp.Cases = append([]Case(nil), b.Cases...)
		v.byName[b.Name] = &cp
		return nil
	}
	for _, newCase := range b.Cases {
		for _, old := range existing.Cases {
			if old.Selector&old.Mask&newCase.Mask == newCase.Selector&old.Mask&newCase.Mask {
				return fmt.Errorf("builtin %q: overload selector collides with an existing case", b.Name)
			}
		}
	}
	existing.Cases = append(existing.Cases, b.Cases...)
	return nil
}

// Lookup returns the Builtin registered under name, if any.
func (v *Vocabulary) Lookup(name string) (*Builtin, bool) {
	b, ok := v.byName[name]
	return b, ok
}

// Merge folds other into v, applying the same collision check as Add
// for every name present in both.
func (v *Vocabulary) Merge(other *Vocabulary) error {
	for _, b := range other.byName {
		if err := v.Add(b); err != nil {
			return fmt.Errorf("merging vocabulary: %w", err)
		}
	}
	return nil
}

// Names returns every registered builtin name, used by `dwgrep tools
// docs` to enumerate the vocabulary.
func (v *Vocabulary) Names() []string {
	out := make([]string, 0, len(v.byName))
	for name := range v.byName {
		out = append(out, name)
	}
	return out
}
