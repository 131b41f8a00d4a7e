package logoot

import (
	"fmt"
	"strings"
)

// Position is a non-empty, dense, totally ordered sequence of Identifiers
// locating an Atom in a Document. Conceptually a fractional number in a
// radix-PageMax system where each digit is tagged with the site that
// introduced it.
//
// Order is element-wise Identifier compare; on equal prefixes, the shorter
// sequence sorts first. This ordering is total, dense (a third Position
// always exists strictly between any two distinct ones, see
// PositionAllocator), and stable across replicas: it depends only on
// content, never on arrival order.
type Position []Identifier

// Compare returns -1, 0 or +1 as p sorts before, equal to, or after other.
func (p Position) Compare(other Position) int {
	n := len(p)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		if c := p[i].Compare(other[i]); c != 0 {
			return c
		}
	}
	if len(p) < len(other) {
		return -1
	}
	if len(p) > len(other) {
		return +1
	}
	return 0
}

// Less reports whether p sorts strictly before other.
func (p Position) Less(other Position) bool {
	return p.Compare(other) < 0
}

// Equal reports whether p and other are the same sequence of Identifiers.
func (p Position) Equal(other Position) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if !p[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Len returns the number of Identifiers in p.
func (p Position) Len() int { return len(p) }

// At returns the i-th Identifier in p.
func (p Position) At(i int) Identifier { return p[i] }

func (p Position) String() string {
	parts := make([]string, len(p))
	for i, id := range p {
		parts[i] = id.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (p Position) validate() error {
	if len(p) == 0 {
		return fmt.Errorf("%w: empty position", ErrMalformedAtom)
	}
	return nil
}
