// Shutdown signals on Unix and macOS.
//
// SIGINT comes from Ctrl+C in a headless run; SIGTERM is what launchd,
// systemd and session managers send on logout.

//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals are treated like the Quit menu item.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
