// File: dispatch/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package dispatch implements the transmit scheduling engine of
// hioload-txq: the direct-dispatch hand-off protocol, the quota-bounded
// run loop, and the deferred dispatcher whose background workers resume
// queues and release packets off the hot path.
//
// Locking discipline: the queue lock and the device transmit lock are
// never held simultaneously by one context. Queue state changes happen
// inside queue methods under the queue lock; the transmit itself happens
// under the device lock only. Fail-fast acquisition (TryLock) is the
// only mode the dispatch path uses — a blocking wait here would undo the
// lock hand-off and stall the worker on a contended device.
package dispatch
