// File: device/device.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Device models one transmit resource: the output path packets are
// ultimately handed to. It carries the owner-tracked transmit lock and
// the frozen/stopped flow-control bits. The two-lock hand-off protocol
// in the dispatch package requires that this lock is never held at the
// same time as a queue lock by one context.

package device

import (
	"runtime"
	"sync/atomic"

	"github.com/momentics/hioload-txq/api"
)

// Flow-control state bits.
const (
	stateFrozen uint32 = 1 << iota
	stateStopped
)

// Device wraps a backend with an owner-tracked try-lock and flow-control
// state. Created once per output path at setup; long-lived.
type Device struct {
	name    string
	backend api.Backend

	// owner holds the WorkerID of the lock holder, api.NoWorker when
	// unlocked. Owner identity is what makes self-collision detectable.
	owner int64

	// state holds the frozen/stopped bits.
	state uint32
}

// New creates a Device over the given backend.
func New(name string, backend api.Backend) *Device {
	return &Device{
		name:    name,
		backend: backend,
		owner:   int64(api.NoWorker),
	}
}

// Name returns the device identifier used in diagnostics and metrics.
func (d *Device) Name() string { return d.name }

// SelfLocking reports whether the backend serializes transmits
// internally, in which case callers skip TryLock/Unlock entirely.
func (d *Device) SelfLocking() bool { return d.backend.SelfLocking() }

// TryLock attempts a non-blocking acquisition of the transmit lock for
// worker w. Returns false if any worker (including w itself) holds it.
func (d *Device) TryLock(w api.WorkerID) bool {
	return atomic.CompareAndSwapInt64(&d.owner, int64(api.NoWorker), int64(w))
}

// Lock acquires the transmit lock for worker w, spinning with
// cooperative yields. Intended for external flow-control callers only;
// the dispatch path is fail-fast and uses TryLock.
func (d *Device) Lock(w api.WorkerID) {
	for !d.TryLock(w) {
		runtime.Gosched()
	}
}

// Unlock releases the transmit lock. Must only be called by the holder.
func (d *Device) Unlock() {
	atomic.StoreInt64(&d.owner, int64(api.NoWorker))
}

// Owner returns the WorkerID currently holding the transmit lock, or
// api.NoWorker when unlocked. The value is advisory for any reader other
// than the holder itself.
func (d *Device) Owner() api.WorkerID {
	return api.WorkerID(atomic.LoadInt64(&d.owner))
}

// Transmit invokes the backend for one packet. Contract: the caller
// holds the transmit lock unless SelfLocking, and has checked that the
// device is available. Outcome classification is the caller's job.
func (d *Device) Transmit(p api.Packet) api.TxResult {
	return d.backend.Transmit(p)
}

// Freeze raises the frozen bit; transmission must not be attempted until
// Unfreeze. Queued packets remain queued.
func (d *Device) Freeze() { d.setState(stateFrozen, true) }

// Unfreeze clears the frozen bit. The caller re-arms affected queues.
func (d *Device) Unfreeze() { d.setState(stateFrozen, false) }

// Stop raises the stopped bit (link down, shutdown).
func (d *Device) Stop() { d.setState(stateStopped, true) }

// Start clears the stopped bit.
func (d *Device) Start() { d.setState(stateStopped, false) }

// Frozen reports the frozen bit alone.
func (d *Device) Frozen() bool {
	return atomic.LoadUint32(&d.state)&stateFrozen != 0
}

// Stopped reports the stopped bit alone.
func (d *Device) Stopped() bool {
	return atomic.LoadUint32(&d.state)&stateStopped != 0
}

// Unavailable reports whether the device is frozen or stopped. Dequeue
// and dispatch stop making progress while this holds, without discarding
// queued data.
func (d *Device) Unavailable() bool {
	return atomic.LoadUint32(&d.state) != 0
}

func (d *Device) setState(bit uint32, on bool) {
	for {
		old := atomic.LoadUint32(&d.state)
		var next uint32
		if on {
			next = old | bit
		} else {
			next = old &^ bit
		}
		if old == next || atomic.CompareAndSwapUint32(&d.state, old, next) {
			return
		}
	}
}
