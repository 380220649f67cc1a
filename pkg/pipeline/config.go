package pipeline

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/foldend/foldend/pkg/encoding"
)

// EventFilter describes which raw filesystem events a pipeline accepts.
type EventFilter struct {
	// Kinds is the non-empty set of event kinds this pipeline reacts to.
	Kinds []Kind `yaml:"-"`
	// NamingRegex, if non-empty, must fully match a path's string form for
	// an event on that path to be accepted.
	NamingRegex string `yaml:"naming_regex"`
}

// eventFilterDocument is the on-disk shape of EventFilter, which spells
// kinds as their string names.
type eventFilterDocument struct {
	Kinds       []string `yaml:"kinds"`
	NamingRegex string   `yaml:"naming_regex"`
}

// UnmarshalYAML implements yaml.Unmarshaler for EventFilter.
func (f *EventFilter) UnmarshalYAML(value *yaml.Node) error {
	var document eventFilterDocument
	if err := value.Decode(&document); err != nil {
		return err
	}
	if len(document.Kinds) == 0 {
		return fmt.Errorf("event kinds must be non-empty")
	}
	kinds := make([]Kind, 0, len(document.Kinds))
	for _, name := range document.Kinds {
		kind, ok := nameToKind[name]
		if !ok {
			return fmt.Errorf("unknown event kind %q", name)
		}
		kinds = append(kinds, kind)
	}
	f.Kinds = kinds
	f.NamingRegex = document.NamingRegex
	return nil
}

// MarshalYAML implements yaml.Marshaler for EventFilter.
func (f EventFilter) MarshalYAML() (interface{}, error) {
	names := make([]string, 0, len(f.Kinds))
	for _, kind := range f.Kinds {
		names = append(names, kind.String())
	}
	return eventFilterDocument{Kinds: names, NamingRegex: f.NamingRegex}, nil
}

// Config is a PipelineConfig: the declarative description loaded from a
// pipeline configuration document (§3).
type Config struct {
	// WatchRecursive indicates whether the watched directory's
	// subdirectories should also be watched.
	WatchRecursive bool `yaml:"watch_recursive"`
	// ApplyOnStartup, if set, causes the runner to synthesize a Create-kind
	// event for every immediate regular-file child of the watched root
	// before entering the event loop.
	ApplyOnStartup bool `yaml:"apply_on_startup"`
	// StopOnError, if set, halts the action chain after any action fails,
	// regardless of that action's own must_succeed flag.
	StopOnError bool `yaml:"stop_on_error"`
	// Event is the filter applied to raw filesystem events.
	Event EventFilter `yaml:"event"`
	// Actions is the ordered, non-empty action chain run for each accepted
	// event.
	Actions actionList `yaml:"actions"`
	// PanicOnError is a supplemental flag (see SPEC_FULL.md §12), absent
	// from the upstream data model, that causes HandleError to request a
	// WatcherTask crash instead of merely tracing and continuing.
	PanicOnError bool `yaml:"panic_handler_on_error"`
}

// Validate checks the invariants §3 requires of a PipelineConfig: non-empty
// event kinds and a non-empty action list.
func (c *Config) Validate() error {
	if len(c.Event.Kinds) == 0 {
		return fmt.Errorf("event kinds must be non-empty")
	}
	if len(c.Actions) == 0 {
		return fmt.Errorf("actions must be non-empty")
	}
	return nil
}

// LoadConfig loads and validates a PipelineConfig document from path.
func LoadConfig(path string) (*Config, error) {
	config := &Config{}
	if err := encoding.LoadAndUnmarshalYAML(path, config); err != nil {
		return nil, fmt.Errorf("unable to load pipeline configuration: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline configuration: %w", err)
	}
	return config, nil
}
