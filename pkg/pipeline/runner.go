package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Runner compiles a Config into a runnable object: the naming regex is
// precomputed once, at task start, rather than per event (§4.2).
type Runner struct {
	// Config is the pipeline configuration this runner drives.
	Config *Config
	// namingRegex is the precompiled, full-match naming regex, or nil if
	// the configuration specifies none.
	namingRegex *regexp.Regexp
}

// NewRunner compiles config into a Runner, precompiling its naming regex
// (if any) as a full-match pattern. Per SPEC_FULL.md's redesign decision,
// this is a full match against the path's string form, not a substring
// search.
func NewRunner(config *Config) (*Runner, error) {
	runner := &Runner{Config: config}

	if config.Event.NamingRegex != "" {
		pattern := "^(?:" + config.Event.NamingRegex + ")$"
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("unable to compile naming regex: %w", err)
		}
		runner.namingRegex = compiled
	}

	return runner, nil
}

// Accepts reports whether event passes this runner's filter: a non-empty
// intersection between the event's kinds and the configured kinds, and, if
// a naming regex is configured, a full match against the event's path.
func (r *Runner) Accepts(event Event) bool {
	matchesKind := false
	for _, kind := range r.Config.Event.Kinds {
		if event.hasKind(kind) {
			matchesKind = true
			break
		}
	}
	if !matchesKind {
		return false
	}

	if r.namingRegex != nil && !r.namingRegex.MatchString(event.Path) {
		return false
	}

	return true
}

// Execute runs the action chain for context sequentially in declared order,
// stopping early when an action fails and either that action's
// must_succeed flag is set or the pipeline's stop_on_error flag is set.
// Otherwise failed non-critical actions are traced (by the action itself,
// via context.HandleError) and skipped.
func (r *Runner) Execute(context *ExecutionContext) {
	for _, action := range r.Config.Actions {
		succeeded := action.Run(context)
		if context.CrashRequested {
			return
		}
		if !succeeded && (action.MustSucceed() || r.Config.StopOnError) {
			return
		}
	}
}

// StartupEvents enumerates the immediate regular-file children of rootPath
// and synthesizes a Create-kind event for each, per §4.2's startup phase.
// Enumeration is always non-recursive, regardless of the pipeline's
// watch_recursive setting, to match the semantics of "files that were
// already there".
func (r *Runner) StartupEvents(rootPath string) ([]Event, error) {
	entries, err := os.ReadDir(rootPath)
	if err != nil {
		return nil, fmt.Errorf("unable to enumerate startup files: %w", err)
	}

	events := make([]Event, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		events = append(events, Event{
			Path:  filepath.Join(rootPath, entry.Name()),
			Kinds: []Kind{KindCreate},
		})
	}

	return events, nil
}
