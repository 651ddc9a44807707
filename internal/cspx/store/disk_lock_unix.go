//go:build !windows

package store

import (
	"os"

	"golang.org/x/sys/unix"
)

// acquireExclusiveLock takes a non-blocking advisory exclusive lock on f,
// mirroring the platform split internal/logger uses for terminal detection:
// one file per OS family, same signature, no build-tag branching at call
// sites.
func acquireExclusiveLock(f *os.File) error {
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return &StoreError{Code: ErrLocked, Message: "store directory is locked by another process", Path: f.Name()}
	}
	return nil
}

func releaseLock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
