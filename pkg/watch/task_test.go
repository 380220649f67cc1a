package watch

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/foldend/foldend/pkg/logging"
	"github.com/foldend/foldend/pkg/pipeline"
)

// silentLogger is a logger bound to an in-memory buffer so test runs don't
// pollute stderr with per-task debug lines.
func silentLogger() *logging.Logger {
	return logging.NewLogger(logging.LevelDebug, &bytes.Buffer{})
}

// recordingTrace is a pipeline.TracePublisher fake that records every
// published message under a mutex, for polling from test goroutines.
type recordingTrace struct {
	mutex    sync.Mutex
	messages []string
}

func (r *recordingTrace) Publish(directoryPath string, actionName *string, text string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.messages = append(r.messages, text)
}

func (r *recordingTrace) count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.messages)
}

func waitUntil(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestTaskDispatchesMoveToDirOnCreate(t *testing.T) {
	root := t.TempDir()

	config := &pipeline.Config{
		Event: pipeline.EventFilter{Kinds: []pipeline.Kind{pipeline.KindCreate}},
		Actions: []pipeline.Action{
			&pipeline.MoveToDir{
				Input:             pipeline.InputEventFilePath,
				DirectoryPath:     "archive",
				ReplaceOlderFiles: true,
				MustSucceedFlag:   true,
			},
		},
	}

	runner, err := pipeline.NewRunner(config)
	if err != nil {
		t.Fatal("unable to build runner:", err)
	}

	trace := &recordingTrace{}
	task, err := Spawn(root, runner, trace, silentLogger())
	if err != nil {
		t.Fatal("unable to spawn task:", err)
	}

	if !task.Probe() {
		t.Fatal("freshly spawned task reported dead")
	}

	source := filepath.Join(root, "x.txt")
	if err := os.WriteFile(source, []byte("hi"), 0644); err != nil {
		t.Fatal("unable to write source file:", err)
	}

	target := filepath.Join(root, "archive", "x.txt")
	waitUntil(t, 5*time.Second, func() bool {
		_, err := os.Stat(target)
		return err == nil
	})

	if !task.Shutdown() {
		t.Fatal("shutdown could not be delivered to a live task")
	}

	waitUntil(t, 2*time.Second, func() bool {
		return !task.Probe()
	})
}
