//go:build linux
// +build linux

// File: internal/concurrency/pin_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux implementation of worker-thread CPU pinning via sched_setaffinity.

package concurrency

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// PinCurrentThread locks the calling goroutine to its OS thread and
// binds that thread to the given CPU. Callers keep the goroutine
// long-lived (worker loops), so the thread lock is not released here.
func PinCurrentThread(cpuID int) error {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	return unix.SchedSetaffinity(0, &set)
}

// UnpinCurrentThread restores the default affinity mask and releases
// the OS thread lock.
func UnpinCurrentThread() error {
	var set unix.CPUSet
	set.Zero()
	for i := 0; i < runtime.NumCPU(); i++ {
		set.Set(i)
	}
	err := unix.SchedSetaffinity(0, &set)
	runtime.UnlockOSThread()
	return err
}
