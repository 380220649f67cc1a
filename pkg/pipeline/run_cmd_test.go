package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunCmdSuccess(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "x.txt")
	if err := os.WriteFile(source, []byte("hello"), 0644); err != nil {
		t.Fatal("unable to write source file:", err)
	}

	action := &RunCmd{
		Input:           InputEventFilePath,
		CommandTemplate: "echo $input$",
		InputFormatting: true,
		MustSucceedFlag: true,
	}

	trace := &fakeTracePublisher{}
	context := NewExecutionContext("/handler", source, &Config{}, trace)

	if !action.Run(context) {
		t.Fatal("RunCmd unexpectedly failed")
	}
	if len(trace.messages) == 0 {
		t.Fatal("expected a trace message describing the command's output")
	}
	if got := trace.messages[len(trace.messages)-1].text; got == "" {
		t.Error("expected non-empty captured stdout, got empty string")
	}
}

func TestRunCmdFailsOnNonZeroExit(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "x.txt")
	if err := os.WriteFile(source, []byte("hello"), 0644); err != nil {
		t.Fatal("unable to write source file:", err)
	}

	action := &RunCmd{
		Input:           InputEventFilePath,
		CommandTemplate: "false",
	}

	context := NewExecutionContext("/handler", source, &Config{}, &fakeTracePublisher{})

	if action.Run(context) {
		t.Fatal("RunCmd unexpectedly succeeded against a non-zero exit command")
	}
}

func TestRunCmdFailsOnEmptyOutput(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "x.txt")
	if err := os.WriteFile(source, []byte("hello"), 0644); err != nil {
		t.Fatal("unable to write source file:", err)
	}

	action := &RunCmd{
		Input:           InputEventFilePath,
		CommandTemplate: "true",
	}

	context := NewExecutionContext("/handler", source, &Config{}, &fakeTracePublisher{})

	if action.Run(context) {
		t.Fatal("RunCmd unexpectedly succeeded against a command that produced no output")
	}
}
