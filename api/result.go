// File: api/result.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Transmit outcome codes shared between backends and the dispatch core.

package api

import "fmt"

// TxStatus is the outcome code a backend reports for one transmit attempt.
type TxStatus int

const (
	// TxComplete: the backend accepted the packet; ownership transferred.
	TxComplete TxStatus = iota

	// TxBusy: the backend cannot accept the packet right now; the caller
	// must requeue it and retry later.
	TxBusy

	// TxLocked: the backend's transmit path was held by another context.
	TxLocked
)

func (s TxStatus) String() string {
	switch s {
	case TxComplete:
		return "complete"
	case TxBusy:
		return "busy"
	case TxLocked:
		return "locked"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Recognized reports whether s is one of the codes the dispatch core
// classifies. Anything else is a backend contract violation and is
// handled as retryable-with-diagnostic.
func (s TxStatus) Recognized() bool {
	return s == TxComplete || s == TxBusy || s == TxLocked
}

// TxResult carries the backend outcome for one transmit attempt.
// Remaining is an optional backend-side hint of how much work it thinks
// is left; the run loop trusts the queue's own length for control flow
// and keeps the hint for telemetry only.
type TxResult struct {
	Status    TxStatus
	Remaining int
}
