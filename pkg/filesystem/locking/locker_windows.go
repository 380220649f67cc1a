//go:build windows

package locking

import (
	"golang.org/x/sys/windows"
)

// Lock attempts to acquire the lock. If blocking is false and the lock is
// already held, ErrLockHeld is returned immediately.
func (l *Locker) Lock(blocking bool) error {
	var flags uint32 = windows.LOCKFILE_EXCLUSIVE_LOCK
	if !blocking {
		flags |= windows.LOCKFILE_FAIL_IMMEDIATELY
	}
	overlapped := new(windows.Overlapped)
	err := windows.LockFileEx(windows.Handle(l.file.Fd()), flags, 0, 1, 0, overlapped)
	if err != nil {
		if !blocking && err == windows.ERROR_LOCK_VIOLATION {
			return ErrLockHeld
		}
		return err
	}
	return nil
}

// Unlock releases the lock.
func (l *Locker) Unlock() error {
	overlapped := new(windows.Overlapped)
	return windows.UnlockFileEx(windows.Handle(l.file.Fd()), 0, 1, 0, overlapped)
}
