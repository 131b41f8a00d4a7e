package replica_test

import (
	"context"
	"testing"
	"time"

	"github.com/markrepedersen/liveshare/logoot"
	"github.com/markrepedersen/liveshare/replica"
	"github.com/stretchr/testify/require"
)

func TestInsertAtBroadcasts(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	doc := logoot.NewDocument(1, logoot.NewPositionAllocatorWithSeed(1))
	adapter := logoot.NewChannelAdapter(4)
	r := replica.New(doc, adapter)

	require.NoError(t, r.InsertAt(ctx, 0, 'a'))
	require.Equal(t, "a", doc.Content())

	select {
	case op := <-adapter.Outbound:
		require.Equal(t, logoot.RemoteOpInsert, op.Kind)
		require.Equal(t, byte('a'), byte(op.Atom.Val))
	case <-ctx.Done():
		t.Fatal("timed out waiting for broadcast insert")
	}
}

func TestDeleteAtBroadcasts(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	doc := logoot.NewDocument(1, logoot.NewPositionAllocatorWithSeed(1))
	adapter := logoot.NewChannelAdapter(4)
	r := replica.New(doc, adapter)

	require.NoError(t, r.InsertAt(ctx, 0, 'a'))
	<-adapter.Outbound

	require.NoError(t, r.DeleteAt(ctx, 0))
	require.Equal(t, "", doc.Content())

	select {
	case op := <-adapter.Outbound:
		require.Equal(t, logoot.RemoteOpDelete, op.Kind)
	case <-ctx.Done():
		t.Fatal("timed out waiting for broadcast delete")
	}
}

func TestRunAppliesInboundOps(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	docA := logoot.NewDocument(1, logoot.NewPositionAllocatorWithSeed(1))
	docB := logoot.NewDocument(2, logoot.NewPositionAllocatorWithSeed(2))
	adapterA := logoot.NewChannelAdapter(4)
	adapterB := logoot.NewChannelAdapter(4)
	stop := logoot.Link(adapterA, adapterB)
	defer stop()

	replicaA := replica.New(docA, adapterA)
	replicaB := replica.New(docB, adapterB)

	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()
	go replicaB.Run(runCtx)

	require.NoError(t, replicaA.InsertAt(ctx, 0, 'h'))
	require.NoError(t, replicaA.InsertAt(ctx, 1, 'i'))

	require.Eventually(t, func() bool {
		return docB.Content() == "hi"
	}, time.Second, 5*time.Millisecond)
}

func TestRunSkipsDuplicateInsertWithoutError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	doc := logoot.NewDocument(1, logoot.NewPositionAllocatorWithSeed(1))
	atom, err := doc.InsertAt(0, 'a')
	require.NoError(t, err)

	adapter := logoot.NewChannelAdapter(1)
	r := replica.New(doc, adapter)
	require.NoError(t, adapter.Deliver(ctx, logoot.RemoteOp{Kind: logoot.RemoteOpInsert, Atom: atom}))
	adapter.Close()

	require.NoError(t, r.Run(ctx))
	require.Equal(t, "a", doc.Content())
}

func TestRunStopsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	doc := logoot.NewDocument(1, logoot.NewPositionAllocatorWithSeed(1))
	adapter := logoot.NewChannelAdapter(1)
	r := replica.New(doc, adapter)

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
