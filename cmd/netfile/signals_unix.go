//go:build !windows

package main

import "syscall"

func init() {
	// SIGTERM is the standard termination signal on Linux/macOS. It is
	// not wired to the Windows job-object model, so only register it here.
	interruptSignals = append(interruptSignals, syscall.SIGTERM)
}
