package daemon

import (
	"fmt"

	"github.com/foldend/foldend/pkg/foldend"
)

const (
	// daemonSubdirectoryName is the name of the daemon subdirectory inside
	// the foldend data directory.
	daemonSubdirectoryName = "daemon"
	// lockName is the name of the daemon lock. It resides within the daemon
	// subdirectory of the foldend directory.
	lockName = "daemon.lock"
	// endpointName is the name of the daemon IPC endpoint. It resides within
	// the daemon subdirectory of the foldend directory.
	endpointName = "daemon.sock"
	// logName is the name of the default daemon log file. It resides within
	// the daemon subdirectory of the foldend directory.
	logName = "daemon.log"
)

// subpath computes a subpath of the daemon subdirectory, creating the daemon
// subdirectory in the process.
func subpath(name string) (string, error) {
	path, err := foldend.DataDirectory(true, daemonSubdirectoryName, name)
	if err != nil {
		return "", fmt.Errorf("unable to compute daemon directory: %w", err)
	}
	return path, nil
}

// lockPath computes the path to the daemon lock, creating any intermediate
// directories as necessary.
func lockPath() (string, error) {
	return subpath(lockName)
}

// EndpointPath computes the path to the daemon IPC endpoint, creating any
// intermediate directories as necessary.
func EndpointPath() (string, error) {
	return subpath(endpointName)
}

// logPath computes the path to the default daemon log file, creating any
// intermediate directories as necessary.
func logPath() (string, error) {
	return subpath(logName)
}

// DefaultMappingPath computes the default path for the handler mapping
// document, creating any intermediate directories as necessary.
func DefaultMappingPath() (string, error) {
	return foldend.DataDirectory(true, "mapping.yaml")
}

// DefaultConfigPath computes the default path for the daemon configuration
// file, creating any intermediate directories as necessary.
func DefaultConfigPath() (string, error) {
	return foldend.DataDirectory(true, "config.yaml")
}

// DefaultTracingPath computes the default path for the daemon's
// tracing_file_path (§6), creating any intermediate directories as
// necessary. It names the daemon.log file inside the daemon subdirectory.
func DefaultTracingPath() (string, error) {
	return logPath()
}
