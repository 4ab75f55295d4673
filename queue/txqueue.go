// File: queue/txqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// TxQueue is the per-output-path holding area for packets awaiting
// transmission, plus its scheduling flags. The queue lock guards the
// pending list, the retry slot and the length; it is never held across
// a transmit call. The running/scheduled flags are independent atomics
// with test-and-set semantics, since their only required guarantee is
// an exactly-once transition.

package queue

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/hioload-txq/api"
	"github.com/momentics/hioload-txq/control"
	"github.com/momentics/hioload-txq/device"
)

// Scheduler is the deferred-dispatch hook a queue re-arms itself
// through. Implemented by dispatch.Dispatcher.
type Scheduler interface {
	RequestSchedule(q *TxQueue)
}

// Stats is a snapshot of a queue's observability counters.
type Stats struct {
	Enqueues   uint64
	Transmits  uint64
	Requeues   uint64
	Collisions uint64
}

// TxQueue owns an ordered pending list, a single-packet retry slot and
// the running/scheduled state machine described above.
type TxQueue struct {
	name  string
	dev   *device.Device
	sched Scheduler

	mu      sync.Mutex
	pending api.DequeuePolicy
	retry   api.Packet
	length  int

	running   int32
	scheduled int32

	enqueues   uint64
	transmits  uint64
	requeues   uint64
	collisions uint64
}

// New creates a TxQueue bound to one device. A nil policy defaults to
// FIFO. The scheduler hook is attached later via SetScheduler (usually
// by Dispatcher.Attach); until then schedule requests are no-ops.
func New(name string, dev *device.Device, policy api.DequeuePolicy) *TxQueue {
	if policy == nil {
		policy = NewFIFO()
	}
	return &TxQueue{
		name:    name,
		dev:     dev,
		pending: policy,
	}
}

// Name returns the queue identifier used in diagnostics and metrics.
func (q *TxQueue) Name() string { return q.name }

// Device returns the transmit resource this queue's packets target.
func (q *TxQueue) Device() *device.Device { return q.dev }

// SetScheduler attaches the deferred-dispatch hook.
func (q *TxQueue) SetScheduler(s Scheduler) { q.sched = s }

// Len returns the number of packets considered in the queue, including
// an occupied retry slot.
func (q *TxQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.length
}

// Enqueue appends a packet under the queue lock. If the queue is not
// currently being drained, it is handed to the deferred dispatcher so a
// background worker picks it up.
func (q *TxQueue) Enqueue(p api.Packet) {
	q.mu.Lock()
	q.pending.Push(p)
	q.length++
	q.mu.Unlock()
	atomic.AddUint64(&q.enqueues, 1)

	if !q.IsRunning() {
		q.Schedule()
	}
}

// DequeueNext removes and returns the next packet to transmit.
//
// Priority order: the retry slot first. If the slot is occupied but the
// device is frozen or stopped, the slot stays occupied and no packet is
// returned; dequeue must not fall through to the pending list, or the
// retry packet would lose its ordering guarantee. Otherwise the pending
// list is popped, gated on the same device availability check.
func (q *TxQueue) DequeueNext() (api.Packet, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.retry != nil {
		if q.dev.Unavailable() {
			return nil, false
		}
		p := q.retry
		q.retry = nil
		q.length--
		return p, true
	}
	if q.dev.Unavailable() {
		return nil, false
	}
	p, ok := q.pending.Pop()
	if !ok {
		return nil, false
	}
	q.length--
	return p, true
}

// Requeue returns a packet that failed to transmit to the retry slot,
// giving it priority over newly queued packets, then re-arms scheduling.
// The slot is empty by construction when this is called: dequeue drains
// the slot before the pending list, and at most one packet is in flight
// per queue while the running flag is held.
func (q *TxQueue) Requeue(p api.Packet) {
	q.mu.Lock()
	q.retry = p
	q.length++
	q.mu.Unlock()
	atomic.AddUint64(&q.requeues, 1)

	q.Schedule()
}

// Schedule hands the queue to the deferred dispatcher, if one is
// attached. Deduplication happens inside RequestSchedule via the
// scheduled flag, so redundant calls are cheap.
func (q *TxQueue) Schedule() {
	if q.sched != nil {
		q.sched.RequestSchedule(q)
	}
}

// TryBeginRun attempts the false->true transition on the running flag.
// At most one caller wins until the matching EndRun.
func (q *TxQueue) TryBeginRun() bool {
	return atomic.CompareAndSwapInt32(&q.running, 0, 1)
}

// EndRun clears the running flag. Exactly once per successful
// TryBeginRun, on every exit path.
func (q *TxQueue) EndRun() {
	atomic.StoreInt32(&q.running, 0)
}

// IsRunning reports whether some worker is actively draining the queue.
func (q *TxQueue) IsRunning() bool {
	return atomic.LoadInt32(&q.running) == 1
}

// MarkScheduled is the test-and-set on the scheduled flag. Only the
// caller observing the false->true transition may insert the queue into
// a pending list; that keeps the queue on at most one list at a time.
func (q *TxQueue) MarkScheduled() bool {
	return atomic.CompareAndSwapInt32(&q.scheduled, 0, 1)
}

// ClearScheduled resets the scheduled flag. Called by the deferred
// dispatcher immediately before resuming the queue's run.
func (q *TxQueue) ClearScheduled() {
	atomic.StoreInt32(&q.scheduled, 0)
}

// IsScheduled reports whether the queue sits in a pending list.
func (q *TxQueue) IsScheduled() bool {
	return atomic.LoadInt32(&q.scheduled) == 1
}

// CountTransmit records one successful hand-off to the backend.
func (q *TxQueue) CountTransmit() {
	atomic.AddUint64(&q.transmits, 1)
}

// CountCollision records one failed acquisition caused by another worker
// holding the device.
func (q *TxQueue) CountCollision() {
	atomic.AddUint64(&q.collisions, 1)
}

// Snapshot returns the current counter values.
func (q *TxQueue) Snapshot() Stats {
	return Stats{
		Enqueues:   atomic.LoadUint64(&q.enqueues),
		Transmits:  atomic.LoadUint64(&q.transmits),
		Requeues:   atomic.LoadUint64(&q.requeues),
		Collisions: atomic.LoadUint64(&q.collisions),
	}
}

// PublishStats pushes the queue counters into a metrics registry under
// the txq.<name>.* keys.
func (q *TxQueue) PublishStats(mr *control.MetricsRegistry) {
	s := q.Snapshot()
	mr.Set("txq."+q.name+".enqueues", s.Enqueues)
	mr.Set("txq."+q.name+".transmits", s.Transmits)
	mr.Set("txq."+q.name+".requeues", s.Requeues)
	mr.Set("txq."+q.name+".collisions", s.Collisions)
	mr.Set("txq."+q.name+".len", q.Len())
}
