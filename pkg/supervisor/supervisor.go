// Package supervisor implements the Supervisor (§4.6): the boot and clean
// shutdown sequencing that enforces global invariants (auto-start, clean
// shutdown) across the registry.
package supervisor

import (
	"github.com/foldend/foldend/pkg/daemon"
	"github.com/foldend/foldend/pkg/logging"
	"github.com/foldend/foldend/pkg/registry"
	"github.com/foldend/foldend/pkg/trace"
)

// Supervisor owns the daemon-wide singletons that sit above the registry:
// the daemon configuration, the trace bus, and the registry itself.
type Supervisor struct {
	Config   *daemon.Config
	Registry *registry.Registry
	Trace    *trace.Bus

	logger *logging.Logger
}

// Boot loads the registry from disk (per config's mapping_state_path and
// concurrent_threads_limit, which the caller has already resolved, applying
// any CLI overrides, via daemon.LoadConfig), starts the trace bus, and
// starts every auto-start entry in registry iteration order. Auto-start
// failures are logged but never abort boot.
func Boot(config *daemon.Config, logger *logging.Logger) (*Supervisor, error) {
	bus := trace.New()
	reg := registry.Load(config.MappingStatePath, config.ConcurrentThreadsLimit, bus, logger)

	supervisor := &Supervisor{
		Config:   config,
		Registry: reg,
		Trace:    bus,
		logger:   logger,
	}

	for _, directoryPath := range reg.AutoStartDirectories() {
		if err := reg.Start(directoryPath); err != nil {
			logger.Warnf("unable to auto-start handler for %s: %v", directoryPath, err)
		}
	}

	return supervisor, nil
}

// Shutdown stops every alive handler. It does not attempt to persist the
// daemon configuration, which is immutable after load.
func (s *Supervisor) Shutdown() {
	s.Registry.Shutdown()
}

// Logger returns the logger the supervisor was booted with, for use by
// callers (such as the RPC facade) that need to log against the same
// output stream.
func (s *Supervisor) Logger() *logging.Logger {
	return s.logger
}
