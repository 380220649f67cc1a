package locking

import (
	"errors"
	"os"
)

// ErrLockHeld indicates that a non-blocking lock acquisition failed because
// the lock is already held by another process.
var ErrLockHeld = errors.New("lock already held")

// Locker represents a file-based advisory lock. It is not safe for the same
// Locker to be locked by multiple Goroutines concurrently, though a single
// Locker's Lock/Unlock/Close methods may be called from different Goroutines
// sequentially.
type Locker struct {
	// file is the underlying lock file.
	file *os.File
}

// NewLocker creates a new locker backed by the file at the specified path,
// creating the file (with the specified permissions) if it doesn't already
// exist.
func NewLocker(path string, permissions os.FileMode) (*Locker, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, permissions)
	if err != nil {
		return nil, err
	}
	return &Locker{file: file}, nil
}

// Close closes the locker. It does not release any lock that may be held; a
// held lock should be released with Unlock before the locker is closed.
func (l *Locker) Close() error {
	return l.file.Close()
}
