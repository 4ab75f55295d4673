// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package api defines the pure contracts of the hioload-txq scheduling
// core: packets, backends, dequeue policies, worker identity, transmit
// outcome codes and error types. It has no dependencies on the concrete
// queue, device or dispatch implementations.
package api
