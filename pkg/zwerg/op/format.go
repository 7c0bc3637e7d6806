package op

import (
	"github.com/dwgrep/zwerg/pkg/zwerg/layout"
	"github.com/dwgrep/zwerg/pkg/zwerg/stack"
	"github.com/dwgrep/zwerg/pkg/zwerg/value"
)

// FormatPart is one piece of a format string: either a literal run of
// text, or an embedded sub-expression (a "stringer") whose solutions'
// top value is rendered with Show(brief=true) and spliced in. The
// simplifier keeps every FORMAT node (it only simplifies the embedded
// expressions), so Format also evaluates formats made of literal parts
// alone.
type FormatPart struct {
	Literal string
	Expr    *Branch
}

type formatState struct {
	queue []*stack.Stack
}

// Format implements format-string literals (`"a %( expr %) b"`): each
// embedded sub-expression must leave exactly one value on its inner
// stack. Zero or more than one is a FormatError, reported via the
// diagnostics sink and skipping that candidate entirely, rather than
// silently taking the top value or fanning out a cartesian product.
type Format struct {
	loc   layout.Location
	Up    Operator
	Parts []FormatPart
}

func NewFormat(l *layout.Layout, up Operator, parts []FormatPart) *Format {
	return &Format{loc: l.Reserve(), Up: up, Parts: parts}
}

func (f *Format) Name() string { return "format" }

func (f *Format) StateCon(s *layout.Scon) {
	f.Up.StateCon(s)
	for _, p := range f.Parts {
		if p.Expr != nil {
			p.Expr.stateCon(s)
		}
	}
	layout.Construct(s, f.loc, &formatState{})
}

func (f *Format) StateDes(s *layout.Scon) {
	layout.Destroy(s, f.loc)
	for i := len(f.Parts) - 1; i >= 0; i-- {
		if p := f.Parts[i].Expr; p != nil {
			p.stateDes(s)
		}
	}
	f.Up.StateDes(s)
}

func (f *Format) Next(s *layout.Scon) (*stack.Stack, bool) {
	st, _ := layout.Get[*formatState](s, f.loc)
	for {
		if len(st.queue) > 0 {
			out := st.queue[0]
			st.queue = st.queue[1:]
			return out, true
		}

		upStk, ok := f.Up.Next(s)
		if !ok {
			return nil, false
		}
		if str, ok := f.render(s, upStk); ok {
			out := upStk.Clone()
			out.Push(value.NewString(str, 0))
			st.queue = append(st.queue, out)
		}
	}
}

// render renders upStk against every part, or reports false if any
// embedded sub-expression fails to leave exactly one value.
func (f *Format) render(s *layout.Scon, upStk *stack.Stack) (string, bool) {
	var acc string
	for _, part := range f.Parts {
		if part.Expr == nil {
			acc += part.Literal
			continue
		}

		part.Expr.Origin.Set(s, upStk.Clone())
		r, ok := part.Expr.Root.Next(s)
		if !ok {
			s.Diag().Write([]byte("format error: format: sub-expression left no value\n"))
			return "", false
		}
		if r.Size() == 0 {
			s.Diag().Write([]byte("format error: format: sub-expression left an empty stack\n"))
			drainFormat(part.Expr.Root, s)
			return "", false
		}
		piece := r.Top().Show(true)
		if _, ok := part.Expr.Root.Next(s); ok {
			s.Diag().Write([]byte("format error: format: sub-expression left more than one value\n"))
			drainFormat(part.Expr.Root, s)
			return "", false
		}
		acc += piece
	}
	return acc, true
}

// drainFormat exhausts a sub-expression whose value count was already
// found to be wrong, so its state container is clean before the next
// candidate reuses it.
func drainFormat(root Operator, s *layout.Scon) {
	for {
		if _, ok := root.Next(s); !ok {
			return
		}
	}
}
