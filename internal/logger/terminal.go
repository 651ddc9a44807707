//go:build !windows && !linux

package logger

import "golang.org/x/sys/unix"

// isTerminal reports whether fd is attached to a terminal on the BSD
// family (macOS included), where the termios-fetch ioctl is TIOCGETA
// rather than Linux's TCGETS.
func isTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TIOCGETA)
	return err == nil
}
