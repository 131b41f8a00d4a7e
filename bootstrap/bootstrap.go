/*
Package bootstrap assigns a process-lifetime site identity: the int64 site
tag that every Identifier a replica allocates is stamped with (spec.md §2).

Grounded on the teacher's randomMAC/randomUUIDv1 pair (rlist.go), which
mints a UUIDv1 from a crypto/rand-sourced MAC address so that two processes
started at the same instant on different machines still never collide.
Logoot's site tag is a plain int64 rather than a uuid.UUID, so the UUID is
folded down with hash/fnv after generation.
*/
package bootstrap

import (
	"crypto/rand"
	"fmt"
	"hash/fnv"
	"io"

	"github.com/google/uuid"
)

// randomMAC returns a random MAC address, overridable in tests the way the
// teacher's getMAC package variable is.
var randomMAC = func() []byte {
	mac := make([]byte, 6)
	if _, err := io.ReadFull(rand.Reader, mac); err != nil {
		panic("bootstrap: reading random MAC: " + err.Error())
	}
	return mac
}

// randomUUIDv1 creates a UUIDv1 using the local timestamp as its lower bits
// and a random MAC as its node ID, so two sites started in the same
// nanosecond on different machines still get distinct UUIDs.
func randomUUIDv1() uuid.UUID {
	uuid.SetNodeID(randomMAC())
	id, err := uuid.NewUUID()
	if err != nil {
		panic(fmt.Sprintf("bootstrap: creating UUIDv1: %v", err))
	}
	return id
}

// AssignSiteID mints a fresh site identity for this process: a UUIDv1,
// folded to an int64 via FNV-1a. -1 is reserved to mean "no site assigned
// yet" (spec.md §6), so it is never returned, even on the 1-in-2^64 FNV
// collision that would otherwise produce it.
func AssignSiteID() int64 {
	id := randomUUIDv1()
	return foldUUID(id)
}

func foldUUID(id uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write(id[:])
	site := int64(h.Sum64())
	if site == -1 {
		site = 1
	}
	return site
}
