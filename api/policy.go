// File: api/policy.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pluggable dequeue-policy contract. Which packet goes out next (FIFO,
// fair queueing, priority bands) is a policy decision; the scheduling
// core only needs push/pop/len.

package api

// DequeuePolicy is the ordered backing store of a transmit queue.
// Implementations need no internal locking: the owning queue serializes
// all calls under its own lock.
type DequeuePolicy interface {
	// Push appends a packet according to the policy's ordering.
	Push(p Packet)

	// Pop removes and returns the next packet the policy selects.
	// Pure selection: no side effects beyond removal.
	Pop() (Packet, bool)

	// Len returns the number of packets currently held.
	Len() int
}
