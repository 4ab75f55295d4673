// File: dispatch/direct.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Direct dispatch: the two-lock hand-off that moves one already-dequeued
// packet into the device. The queue lock was dropped inside DequeueNext,
// so this path holds at most the device transmit lock; the two locks are
// never nested, which rules out lock-ordering inversions with any
// reverse path that takes the device lock first.

package dispatch

import (
	"github.com/momentics/hioload-txq/api"
	"github.com/momentics/hioload-txq/queue"
)

// directDispatch pushes one packet through the device and classifies the
// outcome.
//
// Return value is the "keep draining" signal for the run loop: the
// queue's remaining length after a successful transmit (or after a
// self-collision drop), and 0 whenever the packet was requeued or the
// device went unavailable. Requeue paths return 0 because the retry is
// the deferred dispatcher's job; spinning on a busy device inline would
// burn the worker for nothing.
func directDispatch(q *queue.TxQueue, p api.Packet, w api.WorkerID, trace api.TraceFunc) int {
	dev := q.Device()

	status := api.TxLocked
	if dev.SelfLocking() || dev.TryLock(w) {
		if dev.Unavailable() {
			// Lost a race with freeze/stop after the packet left the
			// queue. Park it in the retry slot so nothing is dropped and
			// report 0 so the run loop stops instead of busy-spinning
			// against a stopped device.
			if !dev.SelfLocking() {
				dev.Unlock()
			}
			q.Requeue(p)
			return 0
		}
		res := dev.Transmit(p)
		if !dev.SelfLocking() {
			dev.Unlock()
		}
		status = res.Status
	}

	var remaining int
	switch {
	case status == api.TxComplete:
		q.CountTransmit()
		remaining = q.Len()

	case status == api.TxLocked && dev.Owner() == w:
		// Self-collision: a reentrant transmit attempt on the same
		// device from the same worker. Unrecoverable for this packet;
		// requeueing it would deadlock the retry slot against ourselves.
		// Drop it, report, and let the queue continue with the next one.
		emit(trace, "txq.self_collision", map[string]any{
			"queue":  q.Name(),
			"device": dev.Name(),
			"worker": int64(w),
		})
		p.Release()
		remaining = q.Len()

	case status == api.TxLocked:
		// Another worker holds the device. Ordinary contention.
		q.CountCollision()
		q.Requeue(p)
		remaining = 0

	default:
		// TxBusy, or a code outside the recognized set. Unrecognized
		// codes are a backend contract violation: retry like Busy, but
		// say so.
		if !status.Recognized() {
			emit(trace, "txq.unexpected_status", map[string]any{
				"queue":  q.Name(),
				"device": dev.Name(),
				"status": int(status),
			})
		}
		q.Requeue(p)
		remaining = 0
	}

	if remaining != 0 && dev.Unavailable() {
		remaining = 0
	}
	return remaining
}

func emit(trace api.TraceFunc, event string, fields map[string]any) {
	if trace != nil {
		trace(event, fields)
	}
}
