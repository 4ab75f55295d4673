// File: dispatch/dispatcher.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Deferred dispatcher: background workers that resume queues marked
// "needs scheduling" and release packets marked "pending free". Queues
// map to a stable home worker so per-queue schedule requests stay FIFO;
// the per-worker lists keep the hot append path free of cross-worker
// contention.

package dispatch

import (
	"hash/fnv"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-txq/api"
	"github.com/momentics/hioload-txq/control"
	"github.com/momentics/hioload-txq/queue"
)

// Config tunes a Dispatcher.
type Config struct {
	// Workers is the number of background drain goroutines.
	// Defaults to runtime.NumCPU().
	Workers int

	// Quota is the per-run fairness budget. Defaults to DefaultQuota.
	// Hot-reloadable through an attached control.ConfigStore.
	Quota int

	// PinCPUs binds each worker's OS thread to one CPU.
	PinCPUs bool

	// Preempt is polled once per run-loop iteration. Optional.
	Preempt api.Preempt

	// Trace receives diagnostic events. Optional.
	Trace api.TraceFunc

	// Control, when set, overrides Workers/Quota/PinCPUs from the store
	// and keeps Quota live across SetConfig reloads.
	Control *control.ConfigStore
}

// DefaultConfig returns the baseline dispatcher tuning.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.NumCPU(),
		Quota:   DefaultQuota,
	}
}

// Dispatcher owns the per-worker pending lists and the worker pool.
type Dispatcher struct {
	cfg     Config
	workers []*worker
	quota   int64
	freeRR  uint32
	stopCh  chan struct{}
	group   *errgroup.Group
	started int32
	stopped int32
}

var _ queue.Scheduler = (*Dispatcher)(nil)

// New creates a Dispatcher. Workers are not started until Start.
func New(cfg Config) *Dispatcher {
	if cfg.Control != nil {
		cfg.Workers = cfg.Control.GetInt(control.KeyWorkers, cfg.Workers)
		cfg.Quota = cfg.Control.GetInt(control.KeyQuota, cfg.Quota)
		cfg.PinCPUs = cfg.Control.GetBool(control.KeyPinCPUs, cfg.PinCPUs)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Quota <= 0 {
		cfg.Quota = DefaultQuota
	}

	d := &Dispatcher{
		cfg:    cfg,
		stopCh: make(chan struct{}),
	}
	atomic.StoreInt64(&d.quota, int64(cfg.Quota))

	d.workers = make([]*worker, cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		d.workers[i] = newWorker(d, i)
	}

	if cfg.Control != nil {
		cs := cfg.Control
		cs.OnReload(func() {
			if q := cs.GetInt(control.KeyQuota, 0); q > 0 {
				atomic.StoreInt64(&d.quota, int64(q))
			}
		})
	}
	return d
}

// Start launches the background workers.
func (d *Dispatcher) Start() error {
	if !atomic.CompareAndSwapInt32(&d.started, 0, 1) {
		return api.ErrAlreadyStarted
	}
	d.group = new(errgroup.Group)
	for _, w := range d.workers {
		w := w
		d.group.Go(w.run)
	}
	return nil
}

// Stop shuts the workers down. Each worker performs one final drain
// pass before exiting; anything appended after that is swept here so no
// deferred-free packet leaks and no queue stays marked scheduled.
func (d *Dispatcher) Stop() error {
	if atomic.LoadInt32(&d.started) == 0 {
		return api.ErrNotStarted
	}
	if !atomic.CompareAndSwapInt32(&d.stopped, 0, 1) {
		return nil
	}
	close(d.stopCh)
	err := d.group.Wait()
	for _, w := range d.workers {
		w.sweep()
	}
	return err
}

// Attach wires a queue's schedule requests to this dispatcher.
func (d *Dispatcher) Attach(q *queue.TxQueue) {
	q.SetScheduler(d)
}

// RequestSchedule marks q for deferred resumption. The scheduled flag's
// test-and-set guarantees the queue lands on at most one pending list;
// redundant requests are absorbed there and cost one atomic.
func (d *Dispatcher) RequestSchedule(q *queue.TxQueue) {
	if !q.MarkScheduled() {
		return
	}
	w := d.workers[d.home(q)]
	w.mu.Lock()
	w.queues.append(q)
	w.mu.Unlock()
	w.wake()
}

// DeferFree hands a packet to a background worker for release, keeping
// deallocation out of latency-sensitive paths.
func (d *Dispatcher) DeferFree(p api.Packet) {
	idx := int(atomic.AddUint32(&d.freeRR, 1) % uint32(len(d.workers)))
	w := d.workers[idx]
	w.mu.Lock()
	w.frees.append(p)
	w.mu.Unlock()
	w.wake()
}

// Quota returns the current per-run budget.
func (d *Dispatcher) Quota() int {
	return int(atomic.LoadInt64(&d.quota))
}

// Workers returns the worker-pool size.
func (d *Dispatcher) Workers() int {
	return len(d.workers)
}

// home gives a queue a stable worker so its schedule requests drain in
// FIFO order on one list.
func (d *Dispatcher) home(q *queue.TxQueue) int {
	h := fnv.New32a()
	h.Write([]byte(q.Name()))
	return int(h.Sum32() % uint32(len(d.workers)))
}
