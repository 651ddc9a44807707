//go:build windows

package store

import (
	"os"

	"golang.org/x/sys/windows"
)

// acquireExclusiveLock takes a non-blocking advisory exclusive lock on f.
func acquireExclusiveLock(f *os.File) error {
	ol := new(windows.Overlapped)
	err := windows.LockFileEx(windows.Handle(f.Fd()), windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY, 0, 1, 0, ol)
	if err != nil {
		return &StoreError{Code: ErrLocked, Message: "store directory is locked by another process", Path: f.Name()}
	}
	return nil
}

func releaseLock(f *os.File) error {
	ol := new(windows.Overlapped)
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, ol)
}
