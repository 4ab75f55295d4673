// File: pool/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package pool provides object recycling for hioload-txq: a generic
// sync.Pool wrapper and the default pooled packet type used by the
// dispatcher's deferred-free path.
package pool
