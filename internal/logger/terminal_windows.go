//go:build windows

package logger

import "golang.org/x/sys/windows"

// isTerminal reports whether fd is a Windows console handle. A redirected
// handle (file, pipe) has no console mode, which is exactly the case where
// ANSI color sequences must stay off.
func isTerminal(fd uintptr) bool {
	var mode uint32
	return windows.GetConsoleMode(windows.Handle(fd), &mode) == nil
}
