//go:build linux

package logger

import "golang.org/x/sys/unix"

// isTerminal reports whether fd is attached to a terminal, probed with the
// same golang.org/x/sys layer the disk store's lock file uses. Linux asks
// via TCGETS; the BSD family spells the same ioctl TIOCGETA (terminal.go).
func isTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}
