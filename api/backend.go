// File: api/backend.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Backend transmit capability consumed by the dispatch core. The backend
// is the physical output path (driver, socket, DPDK port, in-process
// loopback); its internal mechanics are outside this core.

package api

// Backend is the capability a Device delegates transmission to.
type Backend interface {
	// Transmit hands one packet to the output path. It is invoked while
	// the device transmit lock is held unless SelfLocking reports true.
	// On TxComplete the backend owns the packet and is responsible for
	// releasing it; on any other status ownership stays with the caller.
	Transmit(p Packet) TxResult

	// SelfLocking reports whether the backend serializes transmits
	// internally. When true the dispatch core skips the external
	// device-lock acquisition entirely.
	SelfLocking() bool
}
