package foldend

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/foldend/foldend/pkg/filesystem"
)

// dataDirectoryName is the name of the foldend data directory inside the
// user's home directory.
const dataDirectoryName = ".foldend"

// dataDirectoryOnce guards lazy computation of dataDirectoryPath.
var dataDirectoryOnce sync.Once

// dataDirectoryPath is the cached path to the foldend data directory.
var dataDirectoryPath string

// dataDirectoryErr is any error encountered while computing dataDirectoryPath.
var dataDirectoryErr error

// DataDirectory computes (and optionally creates) the path to the foldend
// data directory, along with any specified subpath components. If create is
// true, the data directory and every subpath component except the last (which
// is treated as a file name) will be created if they don't already exist.
func DataDirectory(create bool, pathComponents ...string) (string, error) {
	// Compute and cache the root data directory path.
	dataDirectoryOnce.Do(func() {
		home, err := filesystem.HomeDirectory()
		if err != nil {
			dataDirectoryErr = fmt.Errorf("unable to compute home directory: %w", err)
			return
		}
		dataDirectoryPath = filepath.Join(home, dataDirectoryName)
	})
	if dataDirectoryErr != nil {
		return "", dataDirectoryErr
	}

	// Create the root directory if requested.
	if create {
		if err := os.MkdirAll(dataDirectoryPath, 0700); err != nil {
			return "", fmt.Errorf("unable to create foldend directory: %w", err)
		}
	}

	// Compute the full result path.
	result := filepath.Join(append([]string{dataDirectoryPath}, pathComponents...)...)

	// Create any requested subdirectories if necessary. We only create
	// directories for path components before the last, which is always
	// treated as a file name, even when it's the only component.
	if create && len(pathComponents) > 0 {
		directory := filepath.Join(dataDirectoryPath, filepath.Join(pathComponents[:len(pathComponents)-1]...))
		if err := os.MkdirAll(directory, 0700); err != nil {
			return "", fmt.Errorf("unable to create foldend subdirectory: %w", err)
		}
	}

	// Success.
	return result, nil
}
