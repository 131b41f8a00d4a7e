/*
Package logoot provides a Logoot-style sequence CRDT: a replicated document
that converges across sites under arbitrary network delay and reordering,
without central coordination.

Each visible character is stored as an Atom tagged with a Position, a dense,
totally ordered identifier. Two replicas can independently allocate a fresh
Position strictly between any two existing Positions, so local edits never
need to wait on a remote site to pick a slot.
*/
package logoot

import "fmt"

// PageMin and PageMax are the reserved floor and ceiling of the digit space.
// They are never valid user-visible digits; they only appear as the digit of
// a sentinel Atom's single Identifier, or as virtual bounds during
// allocation.
const (
	PageMin uint64 = 0
	PageMax uint64 = ^uint64(0)
)

// Identifier is one site-tagged digit in a Position. The digit occupies the
// open interval (PageMin, PageMax) for every user-visible Identifier.
type Identifier struct {
	Digit uint64
	Site  int64
}

// Compare returns -1, 0 or +1 as id sorts before, equal to, or after other.
// Order is lexicographic on (Digit, Site).
func (id Identifier) Compare(other Identifier) int {
	if id.Digit < other.Digit {
		return -1
	}
	if id.Digit > other.Digit {
		return +1
	}
	if id.Site < other.Site {
		return -1
	}
	if id.Site > other.Site {
		return +1
	}
	return 0
}

// Equal reports whether id and other have the same digit and site.
func (id Identifier) Equal(other Identifier) bool {
	return id.Compare(other) == 0
}

func (id Identifier) String() string {
	return fmt.Sprintf("(%d@%d)", id.Digit, id.Site)
}
