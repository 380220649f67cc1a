// Package registry implements HandlerRegistry (§4.4): the authoritative
// in-memory mapping from directory path to HandlerEntry, persisted to disk
// on every mutation.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/foldend/foldend/pkg/encoding"
	"github.com/foldend/foldend/pkg/logging"
	"github.com/foldend/foldend/pkg/pipeline"
	"github.com/foldend/foldend/pkg/watch"
)

// Sentinel errors identifying the error kinds named in §7. Callers
// (RpcFacade) match against these with errors.Is to pick a response code.
var (
	ErrAlreadyRegistered = fmt.Errorf("directory is already registered")
	ErrPathConflict      = fmt.Errorf("directory conflicts with an existing registration")
	ErrNotFound          = fmt.Errorf("directory is not registered")
	ErrAlreadyUp         = fmt.Errorf("handler is already running")
	ErrLimitReached      = fmt.Errorf("starting this handler would exceed the concurrency limit")
)

// Entry is a HandlerEntry: the persisted description of a registered
// directory, plus (unpersisted) the live task handle, if any.
type Entry struct {
	// DirectoryPath is the absolute, canonical watched directory; the map
	// key this entry is stored under.
	DirectoryPath string
	// ConfigPath is the absolute path to this handler's PipelineConfig
	// document. Immutable after registration.
	ConfigPath string
	// AutoStart, if set, causes this handler to be started at daemon boot.
	AutoStart bool
	// Description is free text, freely mutable.
	Description string

	// task is the live WatcherTask, or nil if the handler is stopped. Never
	// persisted.
	task *watch.Task
}

// Summary is a HandlerSummary: the read-only view of an Entry returned by
// status queries.
type Summary struct {
	DirectoryPath string
	IsAlive       bool
	ConfigPath    string
	AutoStart     bool
	Description   string
}

// document is the on-disk shape of the registry: a map keyed by directory
// path, with task handles omitted (§4.4's persistence format).
type document struct {
	Directories map[string]documentEntry `yaml:"directories"`
}

type documentEntry struct {
	ConfigPath  string `yaml:"config_path"`
	AutoStart   bool   `yaml:"auto_start"`
	Description string `yaml:"description"`
}

// Registry is the HandlerRegistry. All mutating operations take the write
// lock, including the persistence write, so the in-memory and on-disk
// states change atomically with respect to any observer; all reads take
// the read lock.
type Registry struct {
	mutex sync.RWMutex

	statePath string
	limit     int
	trace     pipeline.TracePublisher
	logger    *logging.Logger

	entries map[string]*Entry
}

// New constructs an empty Registry persisting to statePath, bounded by
// limit simultaneously alive WatcherTasks, publishing pipeline trace
// messages to trace.
func New(statePath string, limit int, trace pipeline.TracePublisher, logger *logging.Logger) *Registry {
	return &Registry{
		statePath: statePath,
		limit:     limit,
		trace:     trace,
		logger:    logger,
		entries:   make(map[string]*Entry),
	}
}

// Load populates the registry from statePath. A missing or malformed file
// is not a fatal error: per §4.4, the daemon logs a warning and starts with
// an empty registry, deferring the first write until the first mutation.
func Load(statePath string, limit int, trace pipeline.TracePublisher, logger *logging.Logger) *Registry {
	registry := New(statePath, limit, trace, logger)

	var doc document
	if err := encoding.LoadAndUnmarshalYAML(statePath, &doc); err != nil {
		if !os.IsNotExist(err) {
			logger.Warnf("unable to load registry document, starting empty: %v", err)
		}
		return registry
	}

	for directoryPath, entry := range doc.Directories {
		registry.entries[directoryPath] = &Entry{
			DirectoryPath: directoryPath,
			ConfigPath:    entry.ConfigPath,
			AutoStart:     entry.AutoStart,
			Description:   entry.Description,
		}
	}

	return registry
}

// persist rewrites the on-disk mapping document. Callers must hold the
// write lock.
func (r *Registry) persist() error {
	doc := document{Directories: make(map[string]documentEntry, len(r.entries))}
	for path, entry := range r.entries {
		doc.Directories[path] = documentEntry{
			ConfigPath:  entry.ConfigPath,
			AutoStart:   entry.AutoStart,
			Description: entry.Description,
		}
	}
	if err := encoding.MarshalAndSaveYAML(r.statePath, &doc); err != nil {
		return fmt.Errorf("unable to persist registry: %w", err)
	}
	return nil
}

// conflicts reports whether candidate violates the prefix-free invariant
// against any already-registered directory (in either direction). Callers
// must hold at least the read lock.
func (r *Registry) conflicts(candidate string) bool {
	for existing := range r.entries {
		if existing == candidate {
			continue
		}
		if isPrefixOf(existing, candidate) || isPrefixOf(candidate, existing) {
			return true
		}
	}
	return false
}

// isPrefixOf reports whether prefix is a proper path-component prefix of
// path.
func isPrefixOf(prefix, path string) bool {
	if prefix == path {
		return false
	}
	return strings.HasPrefix(path, filepath.Clean(prefix)+string(filepath.Separator))
}

// Register adds a new, stopped entry for directoryPath. It rejects
// ErrAlreadyRegistered if directoryPath is already a key, and
// ErrPathConflict if the prefix-free invariant would be violated.
func (r *Registry) Register(directoryPath, configPath string, autoStart bool, description string) error {
	directoryPath = filepath.Clean(directoryPath)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.entries[directoryPath]; ok {
		return ErrAlreadyRegistered
	}
	if r.conflicts(directoryPath) {
		return ErrPathConflict
	}

	r.entries[directoryPath] = &Entry{
		DirectoryPath: directoryPath,
		ConfigPath:    filepath.Clean(configPath),
		AutoStart:     autoStart,
		Description:   description,
	}

	return r.persist()
}

// start is the unlocked core of Start; callers must hold the write lock and
// have already verified the entry exists.
func (r *Registry) start(entry *Entry) error {
	if entry.task != nil && entry.task.Probe() {
		return ErrAlreadyUp
	}

	if r.aliveCount() >= r.limit {
		return ErrLimitReached
	}

	config, err := pipeline.LoadConfig(entry.ConfigPath)
	if err != nil {
		return fmt.Errorf("unable to load pipeline configuration: %w", err)
	}
	runner, err := pipeline.NewRunner(config)
	if err != nil {
		return fmt.Errorf("unable to build pipeline runner: %w", err)
	}

	task, err := watch.Spawn(entry.DirectoryPath, runner, r.trace, r.logger)
	if err != nil {
		return fmt.Errorf("unable to start watcher: %w", err)
	}

	entry.task = task
	return nil
}

// aliveCount returns the number of entries with a live task handle.
// Callers must hold at least the read lock.
func (r *Registry) aliveCount() int {
	count := 0
	for _, entry := range r.entries {
		if entry.task != nil && entry.task.Probe() {
			count++
		}
	}
	return count
}

// Start starts the handler for directoryPath. See §4.4 for the full error
// taxonomy (ErrNotFound, ErrAlreadyUp, ErrLimitReached).
func (r *Registry) Start(directoryPath string) error {
	directoryPath = filepath.Clean(directoryPath)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	entry, ok := r.entries[directoryPath]
	if !ok {
		return ErrNotFound
	}

	if err := r.start(entry); err != nil {
		return err
	}

	return r.persist()
}

// StartAll starts every entry that is not already alive. If the registry
// holds more entries than the concurrency limit, the whole batch is
// rejected with ErrLimitReached before any entry is started. Otherwise each
// entry is attempted independently and its individual error (if any) is
// reported in the returned map.
func (r *Registry) StartAll() (map[string]error, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if len(r.entries) > r.limit {
		return nil, ErrLimitReached
	}

	results := make(map[string]error, len(r.entries))
	for path, entry := range r.entries {
		if entry.task != nil && entry.task.Probe() {
			continue
		}
		results[path] = r.start(entry)
	}

	if err := r.persist(); err != nil {
		return results, err
	}
	return results, nil
}

// Stop stops the handler for directoryPath, if alive, by posting a
// shutdown sentinel. If remove is set, the entry is deleted afterward.
// Stopping an already-dead handler is a no-op success, per §4.3.
func (r *Registry) Stop(directoryPath string, remove bool) error {
	directoryPath = filepath.Clean(directoryPath)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	entry, ok := r.entries[directoryPath]
	if !ok {
		return ErrNotFound
	}

	if entry.task != nil {
		entry.task.Shutdown()
		entry.task = nil
	}

	if remove {
		delete(r.entries, directoryPath)
	}

	return r.persist()
}

// Patch carries the optional fields ModifyHandler may update.
type Patch struct {
	AutoStart   *bool
	Description *string
}

// Modify applies patch to the entry for directoryPath, or to every entry if
// directoryPath is empty. Persists once at the end.
func (r *Registry) Modify(directoryPath string, patch Patch) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if directoryPath != "" {
		directoryPath = filepath.Clean(directoryPath)
		entry, ok := r.entries[directoryPath]
		if !ok {
			return ErrNotFound
		}
		applyPatch(entry, patch)
		return r.persist()
	}

	for _, entry := range r.entries {
		applyPatch(entry, patch)
	}
	return r.persist()
}

func applyPatch(entry *Entry, patch Patch) {
	if patch.AutoStart != nil {
		entry.AutoStart = *patch.AutoStart
	}
	if patch.Description != nil {
		entry.Description = *patch.Description
	}
}

// Summary returns the HandlerSummary for directoryPath, or for every entry
// if directoryPath is empty.
func (r *Registry) Summary(directoryPath string) (map[string]Summary, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if directoryPath != "" {
		directoryPath = filepath.Clean(directoryPath)
		entry, ok := r.entries[directoryPath]
		if !ok {
			return nil, ErrNotFound
		}
		return map[string]Summary{directoryPath: summarize(entry)}, nil
	}

	result := make(map[string]Summary, len(r.entries))
	for path, entry := range r.entries {
		result[path] = summarize(entry)
	}
	return result, nil
}

func summarize(entry *Entry) Summary {
	return Summary{
		DirectoryPath: entry.DirectoryPath,
		IsAlive:       entry.task != nil && entry.task.Probe(),
		ConfigPath:    entry.ConfigPath,
		AutoStart:     entry.AutoStart,
		Description:   entry.Description,
	}
}

// AutoStartDirectories returns, in map-iteration order, the directory paths
// of every entry with AutoStart set. Used by the supervisor at boot.
func (r *Registry) AutoStartDirectories() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []string
	for path, entry := range r.entries {
		if entry.AutoStart {
			result = append(result, path)
		}
	}
	return result
}

// Shutdown stops every alive handler, for clean daemon shutdown. Errors are
// logged, not returned, since shutdown must proceed regardless.
func (r *Registry) Shutdown() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for path, entry := range r.entries {
		if entry.task == nil {
			continue
		}
		if !entry.task.Shutdown() {
			r.logger.Warnf("handler for %s did not acknowledge shutdown", path)
		}
		entry.task = nil
	}
}
