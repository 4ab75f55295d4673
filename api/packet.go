// File: api/packet.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Packet abstraction for the transmit-scheduling core. Payload contents
// are opaque to the scheduler; only ownership and size matter here.

package api

// Packet is an opaque unit of transmission.
//
// Ownership discipline: a packet enqueued into a transmit queue is owned
// by that queue until a transmit completes, at which point ownership
// passes to the backend. On a retryable transmit failure ownership
// returns to the queue's retry slot. Release must be called exactly once,
// by whichever side owns the packet when it is done with it.
type Packet interface {
	// Len returns the payload size in bytes.
	Len() int

	// Release returns the packet to its originating pool.
	// The packet must not be used after Release.
	Release()
}
