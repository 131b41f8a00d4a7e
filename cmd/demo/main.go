// This demo walks through two in-process replicas editing the same
// document concurrently, out of order, and converging.
//
// Unlike the teacher's HTTP demo server (which fronted several browser
// tabs through a shared-state web page), there is no network or UI layer
// here: both sites live in this process, linked directly through a pair of
// ChannelAdapters, so the whole exchange can be narrated to a terminal.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/markrepedersen/liveshare/bootstrap"
	"github.com/markrepedersen/liveshare/logoot"
	"github.com/markrepedersen/liveshare/replica"
)

var (
	seedA = flag.Int64("seed_a", 0, "allocator seed for site A, 0 to pick one randomly")
	seedB = flag.Int64("seed_b", 0, "allocator seed for site B, 0 to pick one randomly")
)

func main() {
	flag.Parse()

	siteA := bootstrap.AssignSiteID()
	siteB := bootstrap.AssignSiteID()
	log.Printf("site A = %d, site B = %d", siteA, siteB)

	allocA := seededOrFresh(*seedA)
	allocB := seededOrFresh(*seedB)

	docA := logoot.NewDocument(siteA, allocA)
	docB := logoot.NewDocument(siteB, allocB)

	adapterA := logoot.NewChannelAdapter(16)
	adapterB := logoot.NewChannelAdapter(16)
	stop := logoot.Link(adapterA, adapterB)
	defer stop()

	replicaA := replica.New(docA, adapterA)
	replicaB := replica.New(docB, adapterB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go replicaA.Run(ctx)
	go replicaB.Run(ctx)

	log.Println("A inserts \"ab\"")
	mustInsertString(ctx, replicaA, "ab")
	waitUntilConverged(docA, docB)
	log.Printf("A: %q  B: %q", docA.Content(), docB.Content())

	log.Println("A inserts 'X' at offset 1, B inserts 'Y' at offset 1, concurrently")
	if err := replicaA.InsertAt(ctx, 1, 'X'); err != nil {
		log.Fatalf("A insert: %v", err)
	}
	if err := replicaB.InsertAt(ctx, 1, 'Y'); err != nil {
		log.Fatalf("B insert: %v", err)
	}
	waitUntilConverged(docA, docB)
	log.Printf("A: %q  B: %q (converged: %v)", docA.Content(), docB.Content(), docA.Content() == docB.Content())

	log.Println("B deletes the character at offset 0")
	if err := replicaB.DeleteAt(ctx, 0); err != nil {
		log.Fatalf("B delete: %v", err)
	}
	waitUntilConverged(docA, docB)
	log.Printf("A: %q  B: %q (converged: %v)", docA.Content(), docB.Content(), docA.Content() == docB.Content())
}

func seededOrFresh(seed int64) *logoot.PositionAllocator {
	if seed == 0 {
		return logoot.NewPositionAllocator()
	}
	return logoot.NewPositionAllocatorWithSeed(seed)
}

func mustInsertString(ctx context.Context, r *replica.Replica, s string) {
	for i, ch := range s {
		if err := r.InsertAt(ctx, i, ch); err != nil {
			log.Fatalf("insert %q at %d: %v", ch, i, err)
		}
	}
}

// waitUntilConverged polls until both replicas report the same content, or
// gives up after a short grace period. The demo links replicas with
// in-process forwarding goroutines, not a real network, so convergence here
// takes microseconds; the timeout only guards against a programming bug.
func waitUntilConverged(a, b *logoot.Document) {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if a.Content() == b.Content() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	log.Printf("warning: replicas did not converge within timeout (A=%q B=%q)", a.Content(), b.Content())
}
