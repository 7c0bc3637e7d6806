package builtin

// Core returns a fresh Vocabulary holding every builtin this module
// ships unconditionally: arithmetic, comparisons (symbolic and named),
// stack-shuffling, string/sequence length/elem/empty/concat, pos and
// match. ELF/DWARF and other vocabularies are external collaborators
// that Merge their own Vocabulary on top of this one (spec.md section
// 1).
func Core() *Vocabulary {
	v := NewVocabulary()
	for _, b := range []*Builtin{
		Add, Sub, Mul, Div, Mod, Neg, And, Or, Xor, Not, Bit,
		Eq, Lt, Gt, Ne, Ge, Le,
		EqSym, NeSym, LtSym, LeSym, GtSym, GeSym,
		Drop, Swap, Dup, Over, Rot,
		Length, Empty, Elem,
		Pos, Match,
	} {
		// Core builtins are defined without name collisions by
		// construction; a collision here would be this package's own
		// bug, not a user vocabulary merge conflict, so it's fine to
		// ignore the error.
		_ = v.Add(b)
	}
	return v
}
