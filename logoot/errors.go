package logoot

import (
	"errors"

	"golang.org/x/xerrors"
)

// Errors returned by Document and PositionAllocator operations. Check with
// errors.Is; ErrContractViolation additionally wraps diagnostic context via
// golang.org/x/xerrors, since it always signals a programmer error rather
// than a recoverable runtime condition.
var (
	// ErrOutOfRange is returned by InsertAt/DeleteAt when offset falls
	// outside [0, VisibleLen()] (insert) or [0, VisibleLen()) (delete).
	// Document state is unchanged.
	ErrOutOfRange = errors.New("logoot: offset out of range")

	// ErrDuplicate is returned by ApplyRemoteInsert when an Atom with an
	// identical Position already exists. The operation is idempotent: no
	// state change occurs.
	ErrDuplicate = errors.New("logoot: atom already present")

	// ErrNotFound is returned by ApplyRemoteDelete when no Atom with the
	// given Position exists yet. The caller may re-deliver the operation
	// once the matching insert arrives.
	ErrNotFound = errors.New("logoot: atom not found")

	// ErrMalformedAtom signals a wire Atom with an empty Position, or a
	// non-sentinel Position whose first digit is PageMin or PageMax.
	ErrMalformedAtom = errors.New("logoot: malformed atom")

	// ErrContractViolation signals a programmer error: the caller violated
	// a documented precondition (e.g. calling Allocate with before >= after).
	// It is never recoverable; callers should treat it as fatal for the
	// offending task.
	ErrContractViolation = errors.New("logoot: contract violation")
)

// contractViolation wraps ErrContractViolation with xerrors.Errorf so the
// panic or log line carries a frame, not just a bare sentinel.
func contractViolation(format string, args ...interface{}) error {
	return xerrors.Errorf(format+": %w", append(args, ErrContractViolation)...)
}
