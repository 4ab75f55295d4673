// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Common error types and error handling utilities for hioload-txq.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrDeviceStopped   = fmt.Errorf("device is stopped")
	ErrDeviceFrozen    = fmt.Errorf("device is frozen")
	ErrQueueRunning    = fmt.Errorf("queue is already running")
	ErrRetrySlotFull   = fmt.Errorf("retry slot is occupied")
	ErrPoolExhausted   = fmt.Errorf("packet pool exhausted")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrNotStarted      = fmt.Errorf("dispatcher not started")
	ErrAlreadyStarted  = fmt.Errorf("dispatcher already started")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeDeviceUnavailable
	ErrCodeQueueBusy
	ErrCodeBackendContract
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
