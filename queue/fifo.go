// File: queue/fifo.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Default FIFO dequeue policy over eapache's ring-backed queue.
// The owning TxQueue serializes all calls under its lock, so the policy
// itself carries no synchronization.

package queue

import (
	eq "github.com/eapache/queue"

	"github.com/momentics/hioload-txq/api"
)

// FIFO dequeues packets in arrival order.
type FIFO struct {
	ring *eq.Queue
}

// NewFIFO creates an empty FIFO policy.
func NewFIFO() *FIFO {
	return &FIFO{ring: eq.New()}
}

// Push appends a packet at the tail.
func (f *FIFO) Push(p api.Packet) {
	f.ring.Add(p)
}

// Pop removes and returns the head packet.
func (f *FIFO) Pop() (api.Packet, bool) {
	if f.ring.Length() == 0 {
		return nil, false
	}
	return f.ring.Remove().(api.Packet), true
}

// Len returns the number of held packets.
func (f *FIFO) Len() int {
	return f.ring.Length()
}
