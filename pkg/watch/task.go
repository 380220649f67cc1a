// Package watch implements WatcherTask (§4.3): the long-lived unit that owns
// an OS filesystem-watch subscription for one registered directory and
// drives a pipeline.Runner for matching events.
package watch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/foldend/foldend/pkg/identifier"
	"github.com/foldend/foldend/pkg/logging"
	"github.com/foldend/foldend/pkg/pipeline"
)

// controlSignal is the payload carried on a Task's control queue.
type controlSignal int

const (
	// signalProbe is a non-destructive liveness ping; the task ignores it.
	signalProbe controlSignal = iota
	// signalShutdown requests a clean exit.
	signalShutdown
)

// controlQueueCapacity is the control queue's buffer size. It is sized
// generously so that Probe/Shutdown essentially never observe a full
// queue; a full-but-open queue and a closed queue are deliberately
// distinguished (see Probe).
const controlQueueCapacity = 8

// Task is a WatcherTask: one per registered, started directory. It owns an
// fsnotify subscription and a control queue used for shutdown and liveness
// probing, and drives runner against every accepted event.
type Task struct {
	// DirectoryPath is the registered directory this task watches.
	DirectoryPath string
	// ID is a handler-local run identifier (SPEC_FULL.md §12), included in
	// every log line this task emits so that concurrent tasks' log output
	// can be correlated back to the task that produced it.
	ID string

	control chan controlSignal
	logger  *logging.Logger
}

// Spawn starts a new Task watching directoryPath per runner's configuration,
// and begins driving runner against matching events on a dedicated
// goroutine. The caller must treat the returned Task's control queue as
// closed (and the task as dead) once Probe starts reporting false.
func Spawn(directoryPath string, runner *pipeline.Runner, trace pipeline.TracePublisher, logger *logging.Logger) (*Task, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("unable to create filesystem watcher: %w", err)
	}

	if err := addWatches(watcher, directoryPath, runner.Config.WatchRecursive); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("unable to subscribe to %s: %w", directoryPath, err)
	}

	id, err := identifier.New(identifier.PrefixHandler)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("unable to generate handler run identifier: %w", err)
	}

	task := &Task{
		DirectoryPath: directoryPath,
		ID:            id,
		control:       make(chan controlSignal, controlQueueCapacity),
		logger:        logger.Sublogger(id),
	}

	task.logger.Debugf("watcher task started for %q", directoryPath)

	go task.run(watcher, runner, trace)

	return task, nil
}

// Probe reports whether the task is alive by attempting a non-blocking send
// of a no-op signal into its control queue. A panic (send on a closed
// channel) means the task has already exited, crashed or otherwise, and is
// recovered here rather than propagated.
func (t *Task) Probe() bool {
	return t.send(signalProbe)
}

// Shutdown posts a shutdown sentinel into the task's control queue,
// returning whether it was deliverable. A false return means the task was
// already dead; the caller should treat that as an idempotent success, per
// §4.3.
func (t *Task) Shutdown() bool {
	return t.send(signalShutdown)
}

// send posts signal into the control queue without blocking, recovering
// from a send-on-closed-channel panic into a false return.
func (t *Task) send(signal controlSignal) (delivered bool) {
	defer func() {
		if recover() != nil {
			delivered = false
		}
	}()
	select {
	case t.control <- signal:
	default:
		// Queue full but open: the task is alive, merely busy. Treated as
		// delivered since the distinction that matters is alive vs. dead.
	}
	return true
}

// run is the task's main loop. It applies the startup phase (if
// configured), then alternates between control signals and filesystem
// events until shutdown, a fatal watch error, or a pipeline-requested crash.
func (t *Task) run(watcher *fsnotify.Watcher, runner *pipeline.Runner, trace pipeline.TracePublisher) {
	defer func() {
		recovered := recover()
		watcher.Close()
		if recovered != nil {
			t.logger.Debugf("watcher task terminated: %v", recovered)
			trace.Publish(t.DirectoryPath, nil, fmt.Sprintf("watcher task terminated: %v", recovered))
		} else {
			t.logger.Debugf("watcher task exited cleanly")
			trace.Publish(t.DirectoryPath, nil, "")
		}
		close(t.control)
	}()

	if runner.Config.ApplyOnStartup {
		events, err := runner.StartupEvents(t.DirectoryPath)
		if err != nil {
			trace.Publish(t.DirectoryPath, nil, fmt.Sprintf("unable to enumerate startup files: %v", err))
		} else {
			for _, event := range events {
				t.dispatch(runner, trace, event)
			}
		}
	}

	for {
		select {
		case signal, ok := <-t.control:
			if !ok || signal == signalShutdown {
				return
			}
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			t.handleRawEvent(watcher, runner, trace, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			panic(err)
		}
	}
}

// handleRawEvent extends the watch subscription to newly created
// subdirectories (when recursive watching is enabled), translates the raw
// event, and dispatches it if the runner accepts it.
func (t *Task) handleRawEvent(watcher *fsnotify.Watcher, runner *pipeline.Runner, trace pipeline.TracePublisher, event fsnotify.Event) {
	if runner.Config.WatchRecursive && event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			watcher.Add(event.Name)
		}
	}

	translated := translateEvent(event)
	if translated == nil {
		return
	}
	translated.Path = filepath.Clean(translated.Path)

	if !runner.Accepts(*translated) {
		return
	}

	t.dispatch(runner, trace, *translated)
}

// dispatch runs the action chain for a single accepted event, then signals
// end-of-invocation on the trace stream and honors a pipeline-requested
// crash (PanicOnError) by panicking, which run's recover turns into a
// WatcherFailure-equivalent exit.
func (t *Task) dispatch(runner *pipeline.Runner, trace pipeline.TracePublisher, event pipeline.Event) {
	context := pipeline.NewExecutionContext(t.DirectoryPath, event.Path, runner.Config, trace)
	runner.Execute(context)
	trace.Publish(t.DirectoryPath, nil, "")
	if context.CrashRequested {
		panic("pipeline requested a watcher crash via panic_handler_on_error")
	}
}
