// Package layout implements the per-execution state container described
// by spec.md sections 3 and 4.6: every operator in a query's operator
// graph is assigned a slot in one shared buffer at compile time, so that
// a Result never allocates per-operator state on the heap at evaluation
// time beyond the slot's own contents.
package layout

// Location identifies one operator's reserved slot in a Layout/Scon
// pair. The original's Location is (offset, size, alignment) into a raw
// byte buffer; since Go's Scon holds a slice of interface{} rather than
// raw bytes, a Location only needs a slot index — size/alignment
// bookkeeping has no Go equivalent worth reimplementing with unsafe
// pointer arithmetic (see DESIGN.md).
type Location struct {
	slot int
}

// Layout accumulates slot reservations while the compiler lowers a
// simplified tree into an operator graph. One Layout is built per Query
// and shared by every operator in its graph.
type Layout struct {
	next int
}

// New returns an empty layout.
func New() *Layout { return &Layout{} }

// Reserve allocates a fresh slot for one operator's state.
func (l *Layout) Reserve() Location {
	loc := Location{slot: l.next}
	l.next++
	return loc
}

// Size returns the number of slots reserved so far; NewScon uses this to
// size the state container.
func (l *Layout) Size() int { return l.next }

// Branch returns a child layout that starts reserving slots from the
// same offset as l's current frontier. Used to lower mutually exclusive
// alternatives (if/then/else's then/else branches, §4.6.11) so they
// reuse the same slot range instead of each claiming disjoint space.
// Call Merge once every branch has finished reserving.
func (l *Layout) Branch() *Layout {
	return &Layout{next: l.next}
}

// Merge advances l past the largest of the given branches, implementing
// the "alternatives share space via a union rule" policy of spec.md
// section 3.
func (l *Layout) Merge(branches ...*Layout) {
	max := l.next
	for _, b := range branches {
		if b.next > max {
			max = b.next
		}
	}
	l.next = max
}
