package logoot

import "context"

// OpKind distinguishes the two kinds of RemoteOp a ReplicationAdapter can
// deliver.
type OpKind int

const (
	// RemoteOpInsert carries an Atom to be applied with ApplyRemoteInsert.
	RemoteOpInsert OpKind = iota
	// RemoteOpDelete carries an Atom to be applied with ApplyRemoteDelete.
	RemoteOpDelete
)

func (k OpKind) String() string {
	switch k {
	case RemoteOpInsert:
		return "insert"
	case RemoteOpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// RemoteOp is one inbound operation delivered by a ReplicationAdapter.
type RemoteOp struct {
	Kind OpKind
	Atom Atom
}

// ReplicationAdapter is the narrow contract between the core and the peer
// transport. The transport itself (socket accept loop, framing, peer
// discovery, retries) is out of scope for this package; it is an external
// collaborator that implements this interface.
//
// The adapter is responsible for reliable, at-least-once delivery per peer.
// It must never duplicate a locally originated Atom back to its own
// source — or, if it does, Document's ApplyRemoteInsert idempotence
// absorbs it harmlessly.
type ReplicationAdapter interface {
	// EmitInsert broadcasts a locally originated insertion to peers.
	EmitInsert(ctx context.Context, a Atom) error
	// EmitDelete broadcasts a locally originated deletion to peers.
	EmitDelete(ctx context.Context, a Atom) error
	// Inbound returns the channel of operations delivered by peers. It is
	// closed when the adapter shuts down.
	Inbound() <-chan RemoteOp
}

// ChannelAdapter is an in-memory ReplicationAdapter built from two
// channels: Outbound, written by EmitInsert/EmitDelete; and inbound, read
// by Inbound. It has no notion of "peers" of its own — wiring two
// ChannelAdapters' Outbound/inbound channels together (see Link) is enough
// to simulate a pair of directly connected replicas, which is what the
// demo and the convergence tests in this repo use it for.
type ChannelAdapter struct {
	Outbound chan RemoteOp
	inbound  chan RemoteOp
}

// NewChannelAdapter returns a ChannelAdapter with the given channel
// capacity (0 for unbuffered).
func NewChannelAdapter(capacity int) *ChannelAdapter {
	return &ChannelAdapter{
		Outbound: make(chan RemoteOp, capacity),
		inbound:  make(chan RemoteOp, capacity),
	}
}

// EmitInsert writes a to Outbound, or returns ctx.Err() if ctx is done
// first.
func (c *ChannelAdapter) EmitInsert(ctx context.Context, a Atom) error {
	return c.emit(ctx, RemoteOp{Kind: RemoteOpInsert, Atom: a})
}

// EmitDelete writes a to Outbound, or returns ctx.Err() if ctx is done
// first.
func (c *ChannelAdapter) EmitDelete(ctx context.Context, a Atom) error {
	return c.emit(ctx, RemoteOp{Kind: RemoteOpDelete, Atom: a})
}

func (c *ChannelAdapter) emit(ctx context.Context, op RemoteOp) error {
	select {
	case c.Outbound <- op:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Inbound returns the channel Deliver writes to.
func (c *ChannelAdapter) Inbound() <-chan RemoteOp {
	return c.inbound
}

// Deliver hands a peer-originated operation to this adapter's Inbound
// channel, or returns ctx.Err() if ctx is done first.
func (c *ChannelAdapter) Deliver(ctx context.Context, op RemoteOp) error {
	select {
	case c.inbound <- op:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the inbound channel, signaling any Replica reading from
// Inbound to stop.
func (c *ChannelAdapter) Close() {
	close(c.inbound)
}

// Link wires a's Outbound directly into b's inbound, and b's Outbound into
// a's inbound, simulating two directly connected replicas. It returns a
// cancel function that stops the forwarding goroutines.
func Link(a, b *ChannelAdapter) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	go forward(ctx, a.Outbound, b)
	go forward(ctx, b.Outbound, a)
	return cancel
}

func forward(ctx context.Context, from <-chan RemoteOp, to *ChannelAdapter) {
	for {
		select {
		case op, ok := <-from:
			if !ok {
				return
			}
			if to.Deliver(ctx, op) != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
