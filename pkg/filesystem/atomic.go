package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
)

// TemporaryNamePrefix is the prefix used for temporary files created during
// atomic write operations.
const TemporaryNamePrefix = ".foldend-temporary-"

// WriteFileAtomic writes data to a file at the specified path in a manner that
// is atomic with respect to other readers of that path. It does so by writing
// the data to a temporary file in the same directory as the target path and
// then renaming that file to the target path, relying on the fact that
// rename operations are atomic within a single filesystem.
func WriteFileAtomic(path string, data []byte, permissions os.FileMode) error {
	// Compute the directory and base name for the target path so that the
	// temporary file lives alongside it (and thus on the same filesystem).
	directory, name := filepath.Split(path)
	if directory == "" {
		directory = "."
	}

	// Create the temporary file.
	temporary, err := os.CreateTemp(directory, TemporaryNamePrefix+name+"-*")
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}
	temporaryPath := temporary.Name()

	// Ensure that the temporary file is removed if we don't reach the rename.
	succeeded := false
	defer func() {
		if !succeeded {
			temporary.Close()
			os.Remove(temporaryPath)
		}
	}()

	// Set the desired permissions. We do this before writing in case the
	// umask has restricted the permissions applied at creation time.
	if err := temporary.Chmod(permissions); err != nil {
		return fmt.Errorf("unable to set temporary file permissions: %w", err)
	}

	// Write the data.
	if _, err := temporary.Write(data); err != nil {
		return fmt.Errorf("unable to write temporary file contents: %w", err)
	}

	// Sync the file to ensure that its contents are durable before the
	// rename is performed.
	if err := temporary.Sync(); err != nil {
		return fmt.Errorf("unable to sync temporary file: %w", err)
	}

	// Close the file.
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("unable to close temporary file: %w", err)
	}

	// Rename the temporary file to the target path. This is atomic on all
	// platforms that we support.
	if err := os.Rename(temporaryPath, path); err != nil {
		return fmt.Errorf("unable to rename temporary file: %w", err)
	}

	// Mark success so that the deferred cleanup doesn't remove the file that
	// we just renamed into place.
	succeeded = true

	// Success.
	return nil
}
