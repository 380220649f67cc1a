package pipeline

import (
	"testing"
	"time"
)

func TestApplyInputFormatting(t *testing.T) {
	if got := applyInputFormatting("echo $input$", "/tmp/a.txt", true); got != "echo /tmp/a.txt" {
		t.Error("unexpected formatted template:", got)
	}
	if got := applyInputFormatting("echo $input$", "/tmp/a.txt", false); got != "echo $input$" {
		t.Error("formatting applied despite being disabled:", got)
	}
}

func TestApplyDateTimeFormatting(t *testing.T) {
	now := time.Date(2026, time.March, 5, 9, 30, 0, 0, time.UTC)

	got := applyDateTimeFormatting("archive/%Y-%m-%d", now, true)
	if got != "archive/2026-03-05" {
		t.Error("unexpected formatted template:", got)
	}

	if got := applyDateTimeFormatting("archive/%Y-%m-%d", now, false); got != "archive/%Y-%m-%d" {
		t.Error("formatting applied despite being disabled:", got)
	}

	if got := applyDateTimeFormatting("100%% done", now, true); got != "100% done" {
		t.Error("literal percent not preserved:", got)
	}

	if got := applyDateTimeFormatting("%Q", now, true); got != "%Q" {
		t.Error("unknown directive should be left as-is:", got)
	}
}
