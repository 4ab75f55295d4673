// File: dispatch/lists.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Singly-linked pending lists with explicit tail pointers for O(1)
// append. Each worker owns one queue list and one free list; producers
// only touch them through the worker's append lock, and the drain step
// swaps a whole list out under that lock so the walk itself runs
// unlocked.

package dispatch

import (
	"github.com/momentics/hioload-txq/api"
	"github.com/momentics/hioload-txq/queue"
)

type queueNode struct {
	q    *queue.TxQueue
	next *queueNode
}

type queueList struct {
	head *queueNode
	tail *queueNode
}

func (l *queueList) append(q *queue.TxQueue) {
	n := &queueNode{q: q}
	if l.tail == nil {
		l.head, l.tail = n, n
		return
	}
	l.tail.next = n
	l.tail = n
}

// take transfers ownership of the whole list to the caller and resets
// the list to empty. Must be called under the owning worker's lock.
func (l *queueList) take() *queueNode {
	h := l.head
	l.head, l.tail = nil, nil
	return h
}

type freeNode struct {
	p    api.Packet
	next *freeNode
}

type freeList struct {
	head *freeNode
	tail *freeNode
}

func (l *freeList) append(p api.Packet) {
	n := &freeNode{p: p}
	if l.tail == nil {
		l.head, l.tail = n, n
		return
	}
	l.tail.next = n
	l.tail = n
}

func (l *freeList) take() *freeNode {
	h := l.head
	l.head, l.tail = nil, nil
	return h
}
