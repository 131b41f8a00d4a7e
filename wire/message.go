/*
Package wire defines the replication protocol's wire message shapes and
their length-delimited binary encoding (spec.md §6).

The peer transport itself — the socket accept loop, peer discovery, retry
policy — is out of scope; this package only pins down what a frame looks
like on the wire, the way a real transport (external to this repo) would
need to encode and decode it.
*/
package wire

import (
	"fmt"

	"github.com/markrepedersen/liveshare/logoot"
)

// Tag identifies which of the four message variants a frame carries.
type Tag byte

const (
	// TagLocalInsertRequest carries a UI-originated insertion request.
	TagLocalInsertRequest Tag = iota + 1
	// TagLocalDeleteRequest carries a UI-originated deletion request.
	TagLocalDeleteRequest
	// TagRemoteInsert carries a peer-originated Atom to insert.
	TagRemoteInsert
	// TagRemoteDelete carries a peer-originated Atom to delete.
	TagRemoteDelete
)

func (t Tag) String() string {
	switch t {
	case TagLocalInsertRequest:
		return "LocalInsertRequest"
	case TagLocalDeleteRequest:
		return "LocalDeleteRequest"
	case TagRemoteInsert:
		return "RemoteInsert"
	case TagRemoteDelete:
		return "RemoteDelete"
	default:
		return fmt.Sprintf("Tag(%d)", byte(t))
	}
}

// Identifier is the wire shape of logoot.Identifier.
type Identifier struct {
	Digit uint64
	Site  int64
}

// Atom is the wire shape of logoot.Atom: a Position (sequence of
// Identifiers), a Clock, and a Val pinned to the 32-bit Unicode scalar
// value, per spec.md §6.
type Atom struct {
	Position []Identifier
	Clock    uint64
	Val      rune
}

// FromAtom converts a logoot.Atom to its wire shape. site is unused today
// (Position already carries per-digit site tags) but kept as an explicit
// parameter to mirror logoot.Between's signature and leave room for a
// transport that wants to stamp an envelope-level origin site.
func FromAtom(a logoot.Atom, _ int64) Atom {
	ids := make([]Identifier, len(a.Position))
	for i, id := range a.Position {
		ids[i] = Identifier{Digit: id.Digit, Site: id.Site}
	}
	return Atom{Position: ids, Clock: a.Clock, Val: a.Val}
}

// ToAtom converts a wire Atom back to logoot.Atom, rejecting malformed
// input per spec.md §7: an empty Position, or a non-sentinel Position whose
// first digit is PageMin or PageMax.
func (a Atom) ToAtom() (logoot.Atom, error) {
	if len(a.Position) == 0 {
		return logoot.Atom{}, fmt.Errorf("%w: empty position", logoot.ErrMalformedAtom)
	}
	first := a.Position[0].Digit
	if first == logoot.PageMin || first == logoot.PageMax {
		return logoot.Atom{}, fmt.Errorf("%w: first digit %d is a reserved sentinel value", logoot.ErrMalformedAtom, first)
	}
	pos := make(logoot.Position, len(a.Position))
	for i, id := range a.Position {
		pos[i] = logoot.Identifier{Digit: id.Digit, Site: id.Site}
	}
	return logoot.Atom{Position: pos, Clock: a.Clock, Val: a.Val}, nil
}

// LocalInsertRequest is a UI → node request to insert ch at (line, column).
// Lines/columns are a display projection computed by the UI; the core
// itself never stores them (spec.md §9).
type LocalInsertRequest struct {
	Ch     rune
	Line   uint32
	Column uint32
}

// LocalDeleteRequest is a UI → node request to delete at (line, column).
type LocalDeleteRequest struct {
	Line   uint32
	Column uint32
}

// Message is a tagged union over the four wire variants from spec.md §6.
// Exactly the field matching Tag is meaningful; callers should use the
// NewXxx constructors rather than populating Message directly.
type Message struct {
	Tag Tag

	LocalInsert LocalInsertRequest
	LocalDelete LocalDeleteRequest
	RemoteAtom  Atom
}

// NewLocalInsertRequest builds a LocalInsertRequest message.
func NewLocalInsertRequest(ch rune, line, column uint32) Message {
	return Message{Tag: TagLocalInsertRequest, LocalInsert: LocalInsertRequest{Ch: ch, Line: line, Column: column}}
}

// NewLocalDeleteRequest builds a LocalDeleteRequest message.
func NewLocalDeleteRequest(line, column uint32) Message {
	return Message{Tag: TagLocalDeleteRequest, LocalDelete: LocalDeleteRequest{Line: line, Column: column}}
}

// NewRemoteInsert builds a RemoteInsert message carrying a.
func NewRemoteInsert(a logoot.Atom, site int64) Message {
	return Message{Tag: TagRemoteInsert, RemoteAtom: FromAtom(a, site)}
}

// NewRemoteDelete builds a RemoteDelete message carrying a.
func NewRemoteDelete(a logoot.Atom, site int64) Message {
	return Message{Tag: TagRemoteDelete, RemoteAtom: FromAtom(a, site)}
}
