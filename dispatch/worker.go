// File: dispatch/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// One background drain worker. The worker exclusively owns its pending
// lists; producers reach them only through the append lock, and the
// drain swaps each list out whole before walking it, so a long walk
// never blocks new appends.

package dispatch

import (
	"sync"

	"github.com/momentics/hioload-txq/api"
	"github.com/momentics/hioload-txq/internal/concurrency"
)

type worker struct {
	id  api.WorkerID
	d   *Dispatcher
	cpu int

	// mu is the append lock for both lists. Held only for the O(1)
	// append and for the drain-time swap, never across a run.
	mu     sync.Mutex
	queues queueList
	frees  freeList

	// notify is a coalescing wakeup: capacity 1, non-blocking send.
	notify chan struct{}
}

func newWorker(d *Dispatcher, cpu int) *worker {
	return &worker{
		id:     api.NextWorkerID(),
		d:      d,
		cpu:    cpu,
		notify: make(chan struct{}, 1),
	}
}

func (w *worker) wake() {
	select {
	case w.notify <- struct{}{}:
	default:
	}
}

func (w *worker) run() error {
	if w.d.cfg.PinCPUs {
		if err := concurrency.PinCurrentThread(w.cpu); err != nil {
			emit(w.d.cfg.Trace, "txq.pin_failed", map[string]any{
				"cpu": w.cpu, "error": err.Error(),
			})
		}
		defer concurrency.UnpinCurrentThread()
	}
	for {
		select {
		case <-w.d.stopCh:
			// Final pass: whatever was scheduled before Stop gets one
			// more bounded drain, and pending frees are released.
			w.drain()
			return nil
		case <-w.notify:
			w.drain()
		}
	}
}

// drain swaps both lists out under the append lock, then walks them
// outside it. For each queue: clear the scheduled flag first (so a new
// schedule request during the run is not lost), then try to take the
// running flag. Losing that race means another worker is mid-run; drop
// the queue from this pass, its runner re-arms on exit if work remains.
func (w *worker) drain() {
	w.mu.Lock()
	qh := w.queues.take()
	fh := w.frees.take()
	w.mu.Unlock()

	quota := w.d.Quota()
	for n := qh; n != nil; n = n.next {
		q := n.q
		q.ClearScheduled()
		Run(q, w.id, quota, w.d.cfg.Preempt, w.d.cfg.Trace)
	}
	for n := fh; n != nil; n = n.next {
		n.p.Release()
	}
}

// sweep is the post-shutdown cleanup: release stray frees and clear
// scheduled flags so the queues can be re-attached to a fresh
// dispatcher. Called with workers stopped, so no locking races matter,
// but the append lock is held anyway for form.
func (w *worker) sweep() {
	w.mu.Lock()
	qh := w.queues.take()
	fh := w.frees.take()
	w.mu.Unlock()

	for n := qh; n != nil; n = n.next {
		n.q.ClearScheduled()
	}
	for n := fh; n != nil; n = n.next {
		n.p.Release()
	}
}
