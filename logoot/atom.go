package logoot

import "fmt"

// Atom is the indivisible unit of document content: one character tagged
// with a Position and a Lamport-style clock. Two Atoms compare by Position
// only; Clock is informational and never participates in ordering. Atoms
// are immutable once created.
type Atom struct {
	Position Position
	Clock    uint64
	Val      rune
}

// Compare returns -1, 0 or +1 as a sorts before, equal to, or after other,
// by Position alone.
func (a Atom) Compare(other Atom) int {
	return a.Position.Compare(other.Position)
}

// Between mints a fresh Atom holding val, positioned strictly between left
// and right according to alloc. left and right must already be adjacent
// Atoms in a Document (left.Position < right.Position).
func Between(val rune, site int64, left, right Atom, alloc *PositionAllocator) (Atom, error) {
	pos, err := alloc.Allocate(site, left.Position, right.Position)
	if err != nil {
		return Atom{}, err
	}
	return Atom{Position: pos, Clock: 0, Val: val}, nil
}

func (a Atom) String() string {
	return fmt.Sprintf("Atom(%v, clock=%d, %q)", a.Position, a.Clock, a.Val)
}
