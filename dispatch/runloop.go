// File: dispatch/runloop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The bounded drain loop. One Run invocation owns the queue's running
// flag for its whole duration, transmits at most quota packets, and
// hands the queue back to the deferred dispatcher when work remains.

package dispatch

import (
	"github.com/momentics/hioload-txq/api"
	"github.com/momentics/hioload-txq/queue"
)

// DefaultQuota is the per-invocation drain budget: the maximum number of
// packets one run transmits before yielding to other scheduled work.
const DefaultQuota = 64

// Run drains q until it is empty, the quota is exhausted, or the
// preemption signal fires. Returns false without touching the queue if
// another worker already holds the running flag; that worker's own exit
// path re-arms the queue when work remains, so losing the race here is
// not a lost wakeup.
//
// quota <= 0 selects DefaultQuota. preempt and trace may be nil.
func Run(q *queue.TxQueue, w api.WorkerID, quota int, preempt api.Preempt, trace api.TraceFunc) bool {
	if !q.TryBeginRun() {
		return false
	}
	if quota <= 0 {
		quota = DefaultQuota
	}

	rearm := false
	for restart(q, w, trace) > 0 {
		quota--
		// Checked once per iteration, never mid-packet.
		if quota <= 0 || (preempt != nil && preempt()) {
			rearm = true
			break
		}
	}

	// Reschedule before EndRun: a schedule request racing with the flag
	// clear must never be dropped. Worst case the queue is resumed once
	// more than necessary.
	if rearm {
		q.Schedule()
	}
	q.EndRun()

	// A producer that enqueued after the final empty dequeue saw
	// running=true and skipped its own schedule request. Its push
	// happens-before its IsRunning read, which happens-before the
	// EndRun store above, so a length re-check here is guaranteed to
	// observe that packet; a re-check before EndRun would only narrow
	// the window, not close it. Frozen or stopped devices are excluded:
	// their queues wait for the external flow-control kick, not a hot
	// reschedule loop.
	if !rearm && q.Len() > 0 && !q.Device().Unavailable() {
		q.Schedule()
	}
	return true
}

// restart performs one dequeue-then-dispatch step. Returns 0 when the
// queue yields nothing (empty, or gated by device state), otherwise
// whatever directDispatch classified.
func restart(q *queue.TxQueue, w api.WorkerID, trace api.TraceFunc) int {
	p, ok := q.DequeueNext()
	if !ok {
		return 0
	}
	return directDispatch(q, p, w, trace)
}
