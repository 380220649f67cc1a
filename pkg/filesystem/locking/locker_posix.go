//go:build !windows

package locking

import (
	"syscall"
)

// Lock attempts to acquire the lock. If blocking is false and the lock is
// already held, ErrLockHeld is returned immediately.
func (l *Locker) Lock(blocking bool) error {
	flags := syscall.LOCK_EX
	if !blocking {
		flags |= syscall.LOCK_NB
	}
	if err := syscall.Flock(int(l.file.Fd()), flags); err != nil {
		if !blocking && err == syscall.EWOULDBLOCK {
			return ErrLockHeld
		}
		return err
	}
	return nil
}

// Unlock releases the lock.
func (l *Locker) Unlock() error {
	return syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
}
