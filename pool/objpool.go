// File: pool/objpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Generic object pooling used by the packet pool below.

package pool

import "sync"

// ObjectPool is a generic object pool.
type ObjectPool[T any] interface {
	Get() T
	Put(T)
}

// SyncPool wraps sync.Pool for generic usage.
type SyncPool[T any] struct {
	pool *sync.Pool
}

// NewSyncPool creates a new SyncPool with a creator function.
func NewSyncPool[T any](creator func() T) *SyncPool[T] {
	return &SyncPool[T]{
		pool: &sync.Pool{New: func() any { return creator() }},
	}
}

func (sp *SyncPool[T]) Get() T {
	return sp.pool.Get().(T)
}

func (sp *SyncPool[T]) Put(obj T) {
	sp.pool.Put(obj)
}

// Warm pre-populates the pool with n freshly created objects so the
// first burst of traffic does not pay allocation cost.
func (sp *SyncPool[T]) Warm(n int) {
	objs := make([]T, 0, n)
	for i := 0; i < n; i++ {
		objs = append(objs, sp.Get())
	}
	for _, o := range objs {
		sp.Put(o)
	}
}
