// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package concurrency provides platform helpers for the dispatcher's
// background workers, currently CPU pinning of worker OS threads.
// Implementations are selected per platform via build tags; unsupported
// systems fall back to no-ops.
package concurrency
