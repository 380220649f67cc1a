package daemon

import (
	"os"

	"github.com/foldend/foldend/pkg/encoding"
	"github.com/foldend/foldend/pkg/logging"
)

// defaultConcurrentThreadsLimit is substituted when a daemon configuration
// document omits concurrent_threads_limit entirely.
const defaultConcurrentThreadsLimit = 10

// Config is the DaemonConfig described in §3 and §6: mapping_state_path,
// tracing_file_path, concurrent_threads_limit are persisted; Port is
// transient, populated from the CLI and never written to disk.
type Config struct {
	MappingStatePath       string `yaml:"mapping_state_path"`
	TracingFilePath        string `yaml:"tracing_file_path"`
	ConcurrentThreadsLimit int    `yaml:"concurrent_threads_limit"`

	// Port is set from the CLI, not persisted.
	Port int `yaml:"-"`
}

// documentDefaults returns a Config populated with the defaults substituted
// for a missing or malformed document: the default paths are computed
// lazily by the caller, since they depend on the foldend data directory.
func documentDefaults(mappingPath, tracingPath string) *Config {
	return &Config{
		MappingStatePath:       mappingPath,
		TracingFilePath:        tracingPath,
		ConcurrentThreadsLimit: defaultConcurrentThreadsLimit,
	}
}

// LoadConfig loads the daemon configuration document at path. Per
// ConfigLoadError (§7), a missing or malformed document is not fatal: the
// defaults (using defaultMappingPath/defaultTracingPath) are substituted,
// and an attempt is made to write the defaulted document back to path so
// that later loads see a normalized file.
func LoadConfig(path, defaultMappingPath, defaultTracingPath string, logger *logging.Logger) (*Config, error) {
	config := &Config{}
	err := encoding.LoadAndUnmarshalYAML(path, config)
	if err == nil {
		if config.ConcurrentThreadsLimit <= 0 || config.ConcurrentThreadsLimit > 255 {
			config.ConcurrentThreadsLimit = defaultConcurrentThreadsLimit
		}
		if config.MappingStatePath == "" {
			config.MappingStatePath = defaultMappingPath
		}
		if config.TracingFilePath == "" {
			config.TracingFilePath = defaultTracingPath
		}
		return config, nil
	}

	if !os.IsNotExist(err) {
		logger.Warnf("daemon configuration could not be loaded, substituting defaults: %v", err)
	}

	config = documentDefaults(defaultMappingPath, defaultTracingPath)
	if writeErr := encoding.MarshalAndSaveYAML(path, config); writeErr != nil {
		logger.Warnf("unable to rewrite defaulted daemon configuration: %v", writeErr)
	}
	return config, nil
}
