package logoot

import "sort"

// Document is a single-writer, ordered multiset of Atoms, bounded by two
// virtual sentinel Atoms that are never visible to callers. It maps
// offsets (local, used by InsertAt/DeleteAt) to Positions (remote, used by
// ApplyRemoteInsert/ApplyRemoteDelete) and back.
//
// Concurrency is provided by queueing inbound operations to a single owning
// task (see package replica); Document itself holds no internal lock.
type Document struct {
	site  int64
	atoms []Atom // sorted by Position; atoms[0] and atoms[len-1] are sentinels
	alloc *PositionAllocator
}

// NewDocument creates a Document owned by site, with only the two
// sentinels. If alloc is nil, a time-seeded PositionAllocator is used.
// site must not be -1: that value is reserved to mean "no site assigned
// yet" (spec.md §6), never a real site tag.
func NewDocument(site int64, alloc *PositionAllocator) *Document {
	if site == -1 {
		panic(contractViolation("NewDocument: site -1 is reserved for \"unassigned\""))
	}
	if alloc == nil {
		alloc = NewPositionAllocator()
	}
	vmin := Atom{Position: Position{{Digit: PageMin, Site: site}}}
	vmax := Atom{Position: Position{{Digit: PageMax, Site: site}}}
	return &Document{
		site:  site,
		atoms: []Atom{vmin, vmax},
		alloc: alloc,
	}
}

// Site returns the replica's site tag.
func (d *Document) Site() int64 { return d.site }

// VisibleLen returns the number of non-sentinel Atoms.
func (d *Document) VisibleLen() int { return len(d.atoms) - 2 }

// Content concatenates the Val of every non-sentinel Atom, in Position
// order.
func (d *Document) Content() string {
	runes := make([]rune, d.VisibleLen())
	for i, atom := range d.atoms[1 : len(d.atoms)-1] {
		runes[i] = atom.Val
	}
	return string(runes)
}

// Atoms returns a copy of the full sorted Atom sequence, including the two
// sentinels at either end. Intended for diagnostics and tests; callers
// should prefer Content/VisibleLen for normal use.
func (d *Document) Atoms() []Atom {
	atoms := make([]Atom, len(d.atoms))
	copy(atoms, d.atoms)
	return atoms
}

// search returns the index of the Atom with the given Position, and
// whether it was found. If not found, the index is where it would be
// inserted to keep d.atoms sorted.
func (d *Document) search(pos Position) (int, bool) {
	i := sort.Search(len(d.atoms), func(i int) bool {
		return !d.atoms[i].Position.Less(pos)
	})
	if i < len(d.atoms) && d.atoms[i].Position.Equal(pos) {
		return i, true
	}
	return i, false
}

// insertAtIndex splices atom into d.atoms at slice index i.
func (d *Document) insertAtIndex(atom Atom, i int) {
	d.atoms = append(d.atoms, Atom{})
	copy(d.atoms[i+1:], d.atoms[i:])
	d.atoms[i] = atom
}

// InsertAt performs a local insertion at visible offset. Let L be the atom
// just before visible offset offset (the sentinel at index 0 if
// offset == 0), R be the atom currently at visible offset offset (the last
// sentinel if offset == VisibleLen()). A fresh Atom is minted strictly
// between L and R and spliced into the sorted sequence, so it ends up at
// visible offset offset; it is returned for emission to the
// ReplicationAdapter.
func (d *Document) InsertAt(offset int, ch rune) (Atom, error) {
	if offset < 0 || offset > d.VisibleLen() {
		return Atom{}, ErrOutOfRange
	}
	left, right := d.atoms[offset], d.atoms[offset+1]
	atom, err := Between(ch, d.site, left, right, d.alloc)
	if err != nil {
		return Atom{}, err
	}
	if !left.Position.Less(atom.Position) || !atom.Position.Less(right.Position) {
		panic(contractViolation("InsertAt: allocated position %v not strictly between %v and %v", atom.Position, left.Position, right.Position))
	}
	d.insertAtIndex(atom, offset+1)
	return atom, nil
}

// DeleteAt removes the Atom at visible offset (sentinels excluded) and
// returns it for emission. Returns ErrOutOfRange if offset is not within
// [0, VisibleLen()).
func (d *Document) DeleteAt(offset int) (Atom, error) {
	if offset < 0 || offset >= d.VisibleLen() {
		return Atom{}, ErrOutOfRange
	}
	idx := offset + 1
	atom := d.atoms[idx]
	d.atoms = append(d.atoms[:idx], d.atoms[idx+1:]...)
	return atom, nil
}

// ApplyRemoteInsert locates the insertion point for a by binary search on
// Position and splices it in. Returns ErrDuplicate, with no state change,
// if an Atom with this Position already exists. Otherwise returns the
// visible offset where a now appears.
func (d *Document) ApplyRemoteInsert(a Atom) (int, error) {
	if err := a.Position.validate(); err != nil {
		return 0, err
	}
	i, found := d.search(a.Position)
	if found {
		return 0, ErrDuplicate
	}
	d.insertAtIndex(a, i)
	return i - 1, nil
}

// ApplyRemoteDelete locates a by binary search on Position and removes it.
// Returns ErrNotFound, with no state change, if no Atom with this Position
// exists. Otherwise returns the pre-deletion visible offset.
func (d *Document) ApplyRemoteDelete(a Atom) (int, error) {
	i, found := d.search(a.Position)
	if !found {
		return 0, ErrNotFound
	}
	offset := i - 1
	d.atoms = append(d.atoms[:i], d.atoms[i+1:]...)
	return offset, nil
}
