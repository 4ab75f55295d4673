// File: api/types.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Shared scheduler-level type declarations: worker identity, preemption
// and diagnostic hooks.

package api

import "sync/atomic"

// WorkerID identifies one execution context driving the dispatch core.
// Device lock ownership is recorded per WorkerID so that a reentrant
// transmit attempt (self-collision) can be distinguished from ordinary
// cross-worker contention.
type WorkerID int64

// NoWorker is the unlocked/unowned sentinel.
const NoWorker WorkerID = 0

var workerIDSeq int64

// NextWorkerID allocates a process-unique worker identity. Dispatcher
// workers take one each at startup; producers that drain a queue inline
// must allocate one as well.
func NextWorkerID() WorkerID {
	return WorkerID(atomic.AddInt64(&workerIDSeq, 1))
}

// Preempt is the cooperative preemption signal a run loop polls once per
// iteration, never mid-packet. Returning true asks the loop to yield and
// hand the queue to the deferred dispatcher.
type Preempt func() bool

// TraceFunc receives diagnostic events the core emits on its rare
// failure paths (self-collision drops, unrecognized backend codes).
// A nil TraceFunc is valid and silences diagnostics.
type TraceFunc func(event string, fields map[string]any)
