package filesystem

import (
	"fmt"
	"os/user"
	"sync"
)

// homeDirectoryOnce guards lazy initialization of homeDirectory.
var homeDirectoryOnce sync.Once

// homeDirectory is the cached home directory path.
var homeDirectory string

// homeDirectoryErr is any error that occurred while computing homeDirectory.
var homeDirectoryErr error

// HomeDirectory returns the current user's home directory path, computing
// and caching it on first use.
func HomeDirectory() (string, error) {
	homeDirectoryOnce.Do(func() {
		current, err := user.Current()
		if err != nil {
			homeDirectoryErr = fmt.Errorf("unable to look up current user: %w", err)
			return
		} else if current.HomeDir == "" {
			homeDirectoryErr = fmt.Errorf("current user has no home directory")
			return
		}
		homeDirectory = current.HomeDir
	})
	return homeDirectory, homeDirectoryErr
}
