package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMoveToDirBasic(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "x.txt")
	if err := os.WriteFile(source, []byte("hello"), 0644); err != nil {
		t.Fatal("unable to write source file:", err)
	}

	action := &MoveToDir{
		Input:             InputEventFilePath,
		DirectoryPath:     "archive",
		ReplaceOlderFiles: true,
		MustSucceedFlag:   true,
	}

	trace := &fakeTracePublisher{}
	context := NewExecutionContext("/handler", source, &Config{}, trace)

	if !action.Run(context) {
		t.Fatal("MoveToDir unexpectedly failed")
	}

	expected := filepath.Join(root, "archive", "x.txt")
	if context.ActionFilePath == nil || *context.ActionFilePath != expected {
		t.Fatalf("unexpected action file path: %v", context.ActionFilePath)
	}
	if _, err := os.Stat(expected); err != nil {
		t.Error("moved file not present at target:", err)
	}
	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Error("original file should have been removed")
	}
	if len(trace.messages) == 0 {
		t.Error("expected a trace message describing the move")
	}
}

func TestMoveToDirRequireDirExistsFails(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "x.txt")
	if err := os.WriteFile(source, []byte("hello"), 0644); err != nil {
		t.Fatal("unable to write source file:", err)
	}

	action := &MoveToDir{
		Input:            InputEventFilePath,
		DirectoryPath:    "missing",
		RequireDirExists: true,
	}

	trace := &fakeTracePublisher{}
	context := NewExecutionContext("/handler", source, &Config{}, trace)

	if action.Run(context) {
		t.Fatal("MoveToDir unexpectedly succeeded against a missing required directory")
	}
}

func TestMoveToDirKeepInputIntact(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "x.txt")
	if err := os.WriteFile(source, []byte("hello"), 0644); err != nil {
		t.Fatal("unable to write source file:", err)
	}

	action := &MoveToDir{
		Input:           InputEventFilePath,
		DirectoryPath:   "archive",
		KeepInputIntact: true,
	}

	context := NewExecutionContext("/handler", source, &Config{}, &fakeTracePublisher{})

	if !action.Run(context) {
		t.Fatal("MoveToDir unexpectedly failed")
	}
	if _, err := os.Stat(source); err != nil {
		t.Error("original file should have been kept:", err)
	}
}
