/*
Package replica wires a logoot.Document to a logoot.ReplicationAdapter: it
applies local edits synchronously and drains peer operations in a single
background goroutine, so Document itself never needs to be safe for
concurrent use (spec.md §5).
*/
package replica

import (
	"context"
	"errors"
	"log"

	"github.com/markrepedersen/liveshare/logoot"
)

// Replica owns a Document and the adapter it replicates through. All
// exported methods except Run are meant to be called from a single
// goroutine (typically the one driving the UI); Run itself is meant to run
// in its own goroutine for the replica's lifetime.
type Replica struct {
	doc     *logoot.Document
	adapter logoot.ReplicationAdapter

	// Logger receives one line per applied or skipped remote operation.
	// Defaults to log.Default() style output via log.Printf when nil.
	Logger *log.Logger
}

// New returns a Replica backed by doc and adapter. doc's site must match
// the site the adapter emits operations on behalf of.
func New(doc *logoot.Document, adapter logoot.ReplicationAdapter) *Replica {
	return &Replica{doc: doc, adapter: adapter}
}

// Document returns the underlying Document, mainly for read-only access
// (Content, VisibleLen) from the owning goroutine.
func (r *Replica) Document() *logoot.Document {
	return r.doc
}

// InsertAt performs a local insertion and broadcasts it to peers. The
// Document is mutated before the broadcast is attempted; if EmitInsert
// fails (e.g. ctx cancelled), the local edit is NOT rolled back; the caller
// owns retrying the broadcast out of band since the alternative is an edit
// that silently vanishes from the local view.
func (r *Replica) InsertAt(ctx context.Context, offset int, ch rune) error {
	atom, err := r.doc.InsertAt(offset, ch)
	if err != nil {
		return err
	}
	return r.adapter.EmitInsert(ctx, atom)
}

// DeleteAt performs a local deletion and broadcasts it to peers.
func (r *Replica) DeleteAt(ctx context.Context, offset int) error {
	atom, err := r.doc.DeleteAt(offset)
	if err != nil {
		return err
	}
	return r.adapter.EmitDelete(ctx, atom)
}

// Run drains the adapter's Inbound channel and applies each RemoteOp to the
// Document, until ctx is cancelled or Inbound is closed. ErrDuplicate and
// ErrNotFound are expected outcomes of concurrent editing (spec.md §7) and
// are logged, not returned; any other error aborts the loop.
func (r *Replica) Run(ctx context.Context) error {
	for {
		select {
		case op, ok := <-r.adapter.Inbound():
			if !ok {
				return nil
			}
			if err := r.apply(op); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *Replica) apply(op logoot.RemoteOp) error {
	var err error
	switch op.Kind {
	case logoot.RemoteOpInsert:
		_, err = r.doc.ApplyRemoteInsert(op.Atom)
	case logoot.RemoteOpDelete:
		_, err = r.doc.ApplyRemoteDelete(op.Atom)
	default:
		r.logf("replica: ignoring unknown op kind %v", op.Kind)
		return nil
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, logoot.ErrDuplicate), errors.Is(err, logoot.ErrNotFound):
		r.logf("replica: skipping %v %v: %v", op.Kind, op.Atom, err)
		return nil
	default:
		return err
	}
}

func (r *Replica) logf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
