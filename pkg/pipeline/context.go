package pipeline

// TracePublisher is the narrow interface ExecutionContext needs from the
// daemon's trace fan-out (pkg/trace.Bus implements it). It is defined here,
// rather than imported from pkg/trace, so that pipeline stays free of a
// dependency on the broadcast implementation and can be tested with a fake.
type TracePublisher interface {
	// Publish broadcasts a trace message for directoryPath. actionName is
	// nil to signal "stream ended for this invocation", per §3's
	// TraceMessage shape.
	Publish(directoryPath string, actionName *string, text string)
}

// ExecutionContext is the per-event mutable scratchpad threaded through an
// action chain. A fresh ExecutionContext is created for every matching
// event.
type ExecutionContext struct {
	// DirectoryPath is the registered directory this invocation belongs to,
	// used to tag trace messages.
	DirectoryPath string
	// EventFilePath is the path of the file that triggered this invocation.
	EventFilePath string
	// ActionFilePath is the file path left behind by the most recently run
	// action, if any has run and set one.
	ActionFilePath *string
	// Config is the pipeline configuration that produced this invocation,
	// borrowed for the duration of the chain.
	Config *Config
	// Trace is the destination for trace messages produced during this
	// invocation.
	Trace TracePublisher
	// currentActionName is the name of the action currently executing, used
	// to tag trace messages; nil before the first action runs.
	currentActionName *string
	// CrashRequested is set by HandleError when the pipeline's
	// PanicOnError flag is enabled; the WatcherTask driving this context
	// checks it after the action chain completes and, if set, exits via its
	// crash path rather than continuing to watch.
	CrashRequested bool
}

// NewExecutionContext creates a fresh ExecutionContext for a single matching
// event.
func NewExecutionContext(directoryPath, eventFilePath string, config *Config, trace TracePublisher) *ExecutionContext {
	return &ExecutionContext{
		DirectoryPath: directoryPath,
		EventFilePath: eventFilePath,
		Config:        config,
		Trace:         trace,
	}
}

// GetInput returns the file path selected by the given Input: the original
// event path for InputEventFilePath, or the most recent action file path
// (falling back to the event path if none has been set yet) for
// InputActionFilePath.
func (c *ExecutionContext) GetInput(input Input) string {
	if input == InputActionFilePath && c.ActionFilePath != nil {
		return *c.ActionFilePath
	}
	return c.EventFilePath
}

// setCurrentAction records the name of the action about to run, for trace
// tagging.
func (c *ExecutionContext) setCurrentAction(name string) {
	c.currentActionName = &name
}

// Log emits a trace message tagged with the currently running action.
func (c *ExecutionContext) Log(text string) {
	if c.Trace == nil {
		return
	}
	c.Trace.Publish(c.DirectoryPath, c.currentActionName, text)
}

// HandleError traces the given error under the current action and returns
// false, so that callers can write `return context.HandleError(err)`. If the
// pipeline's PanicOnError flag is set, it additionally marks the context as
// requesting a crash, which the driving WatcherTask honors after the chain
// completes.
func (c *ExecutionContext) HandleError(err error) bool {
	c.Log(err.Error())
	if c.Config != nil && c.Config.PanicOnError {
		c.CrashRequested = true
	}
	return false
}
