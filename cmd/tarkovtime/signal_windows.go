// Shutdown signals on Windows.

//go:build windows

package main

import "os"

// shutdownSignals are treated like the Quit menu item. Windows has no
// SIGTERM; console close and Ctrl+Break arrive as os.Interrupt.
var shutdownSignals = []os.Signal{os.Interrupt}
