// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

// txqueue_test.go — TxQueue state machine: ordering, retry slot, flags.
package queue_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/momentics/hioload-txq/api"
	"github.com/momentics/hioload-txq/control"
	"github.com/momentics/hioload-txq/device"
	"github.com/momentics/hioload-txq/queue"
)

type testPacket struct {
	id       int
	released int32
}

func (p *testPacket) Len() int { return 1 }
func (p *testPacket) Release() { atomic.StoreInt32(&p.released, 1) }

type nopBackend struct{}

func (nopBackend) Transmit(p api.Packet) api.TxResult {
	return api.TxResult{Status: api.TxComplete}
}
func (nopBackend) SelfLocking() bool { return false }

// countingSched mimics the dispatcher's dedup: only the winning
// test-and-set counts as an insertion.
type countingSched struct {
	mu    sync.Mutex
	calls int
}

func (s *countingSched) RequestSchedule(q *queue.TxQueue) {
	if !q.MarkScheduled() {
		return
	}
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func newQueue(t *testing.T) (*queue.TxQueue, *device.Device) {
	t.Helper()
	dev := device.New("dev0", nopBackend{})
	return queue.New("q0", dev, nil), dev
}

func TestTxQueue_FIFOOrder(t *testing.T) {
	q, _ := newQueue(t)
	packets := []*testPacket{{id: 1}, {id: 2}, {id: 3}}
	for _, p := range packets {
		q.Enqueue(p)
	}
	if q.Len() != 3 {
		t.Fatalf("expected length 3, got %d", q.Len())
	}
	for i, want := range packets {
		got, ok := q.DequeueNext()
		if !ok {
			t.Fatalf("dequeue %d: unexpected empty", i)
		}
		if got.(*testPacket).id != want.id {
			t.Fatalf("dequeue %d: expected packet %d, got %d", i, want.id, got.(*testPacket).id)
		}
	}
	if _, ok := q.DequeueNext(); ok {
		t.Error("expected empty queue after full drain")
	}
	if q.Len() != 0 {
		t.Errorf("expected length 0, got %d", q.Len())
	}
}

func TestTxQueue_RetryPrecedence(t *testing.T) {
	q, _ := newQueue(t)
	p1, p2 := &testPacket{id: 1}, &testPacket{id: 2}
	q.Enqueue(p1)

	got, ok := q.DequeueNext()
	if !ok || got != api.Packet(p1) {
		t.Fatal("expected p1 from first dequeue")
	}
	q.Requeue(p1)
	q.Enqueue(p2)

	got, ok = q.DequeueNext()
	if !ok || got.(*testPacket).id != 1 {
		t.Fatal("retry-slot packet must precede newly queued packets")
	}
	got, ok = q.DequeueNext()
	if !ok || got.(*testPacket).id != 2 {
		t.Fatal("expected p2 after retry slot drained")
	}
	if s := q.Snapshot(); s.Requeues != 1 {
		t.Errorf("expected 1 requeue, got %d", s.Requeues)
	}
}

func TestTxQueue_FrozenDeviceGatesDequeue(t *testing.T) {
	q, dev := newQueue(t)
	const n = 5
	for i := 0; i < n; i++ {
		q.Enqueue(&testPacket{id: i})
	}
	dev.Freeze()
	for i := 0; i < 3; i++ {
		if _, ok := q.DequeueNext(); ok {
			t.Fatal("dequeue must yield empty while device is frozen")
		}
	}
	if q.Len() != n {
		t.Fatalf("frozen drain attempts must not lose packets: len=%d", q.Len())
	}
	dev.Unfreeze()
	for i := 0; i < n; i++ {
		got, ok := q.DequeueNext()
		if !ok || got.(*testPacket).id != i {
			t.Fatalf("post-unfreeze dequeue %d out of order", i)
		}
	}
}

func TestTxQueue_FrozenDeviceHoldsRetrySlot(t *testing.T) {
	q, dev := newQueue(t)
	p1, p2 := &testPacket{id: 1}, &testPacket{id: 2}
	q.Enqueue(p1)
	q.Enqueue(p2)

	got, _ := q.DequeueNext()
	q.Requeue(got)
	dev.Freeze()

	// Slot stays occupied; dequeue must not fall through to pending.
	if _, ok := q.DequeueNext(); ok {
		t.Fatal("frozen device: dequeue must not bypass the retry slot")
	}
	if q.Len() != 2 {
		t.Fatalf("expected length 2, got %d", q.Len())
	}
	dev.Unfreeze()
	got, ok := q.DequeueNext()
	if !ok || got.(*testPacket).id != 1 {
		t.Fatal("retry slot must drain first after unfreeze")
	}
}

func TestTxQueue_RunningFlagMutualExclusion(t *testing.T) {
	q, _ := newQueue(t)
	const goroutines = 16
	const rounds = 500

	var inside int32
	var maxInside int32
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if q.TryBeginRun() {
					now := atomic.AddInt32(&inside, 1)
					for {
						max := atomic.LoadInt32(&maxInside)
						if now <= max || atomic.CompareAndSwapInt32(&maxInside, max, now) {
							break
						}
					}
					atomic.AddInt32(&inside, -1)
					q.EndRun()
				}
			}
		}()
	}
	wg.Wait()
	if atomic.LoadInt32(&maxInside) > 1 {
		t.Fatalf("mutual exclusion violated: %d concurrent runners", maxInside)
	}
}

func TestTxQueue_ScheduledFlagDedup(t *testing.T) {
	q, _ := newQueue(t)
	if !q.MarkScheduled() {
		t.Fatal("first MarkScheduled must win")
	}
	for i := 0; i < 3; i++ {
		if q.MarkScheduled() {
			t.Fatal("MarkScheduled must fail until ClearScheduled")
		}
	}
	q.ClearScheduled()
	if !q.MarkScheduled() {
		t.Fatal("MarkScheduled must win again after ClearScheduled")
	}
}

func TestTxQueue_EnqueueSchedulesOnlyWhenIdle(t *testing.T) {
	q, _ := newQueue(t)
	sched := &countingSched{}
	q.SetScheduler(sched)

	q.Enqueue(&testPacket{id: 1})
	if sched.calls != 1 {
		t.Fatalf("idle enqueue must schedule once, got %d", sched.calls)
	}

	// Redundant enqueues while scheduled are absorbed by the dedup.
	q.Enqueue(&testPacket{id: 2})
	if sched.calls != 1 {
		t.Fatalf("scheduled flag must dedup, got %d calls", sched.calls)
	}

	q.ClearScheduled()
	if !q.TryBeginRun() {
		t.Fatal("TryBeginRun failed on idle queue")
	}
	q.Enqueue(&testPacket{id: 3})
	if sched.calls != 1 {
		t.Fatalf("enqueue on a running queue must not schedule, got %d", sched.calls)
	}
	q.EndRun()
}

func TestTxQueue_PublishStats(t *testing.T) {
	q, _ := newQueue(t)
	mr := control.NewMetricsRegistry()
	q.Enqueue(&testPacket{id: 1})
	q.CountTransmit()
	q.CountCollision()
	q.PublishStats(mr)

	snap := mr.GetSnapshot()
	if snap["txq.q0.enqueues"].(uint64) != 1 {
		t.Error("enqueues counter not published")
	}
	if snap["txq.q0.transmits"].(uint64) != 1 {
		t.Error("transmits counter not published")
	}
	if snap["txq.q0.collisions"].(uint64) != 1 {
		t.Error("collisions counter not published")
	}
	if snap["txq.q0.len"].(int) != 1 {
		t.Error("length not published")
	}
}
